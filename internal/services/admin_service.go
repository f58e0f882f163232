// internal/services/admin_service.go
package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/liquorquest/liquorquest-backend/internal/models"
	"github.com/liquorquest/liquorquest-backend/internal/utils"
)

type AdminService struct {
	db *gorm.DB
}

// AdminDashboardStats backs the admin console landing page. Monetary
// figures are exact decimal strings in KES.
type AdminDashboardStats struct {
	TotalUsers        int64            `json:"total_users"`
	NewUsersThisMonth int64            `json:"new_users_this_month"`
	TotalProducts     int64            `json:"total_products"`
	ActiveProducts    int64            `json:"active_products"`
	LowStockProducts  int64            `json:"low_stock_products"`
	TotalOrders       int64            `json:"total_orders"`
	OrdersByStatus    map[string]int64 `json:"orders_by_status"`
	TotalRevenue      string           `json:"total_revenue"`
	MonthlyRevenue    string           `json:"monthly_revenue"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	IsAdmin       *bool      `json:"is_admin,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

const lowStockThreshold = 5

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{
		OrdersByStatus: make(map[string]int64),
	}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)

	s.db.Model(&models.Product{}).Count(&stats.TotalProducts)
	s.db.Model(&models.Product{}).Where("is_active = ?", true).Count(&stats.ActiveProducts)
	s.db.Model(&models.Product{}).
		Where("is_active = ? AND stock <= ?", true, lowStockThreshold).
		Count(&stats.LowStockProducts)

	s.db.Model(&models.Order{}).Count(&stats.TotalOrders)

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := s.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	for _, c := range counts {
		stats.OrdersByStatus[c.Status] = c.Count
	}

	totalRevenue, err := s.sumCompletedRevenue(nil)
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = totalRevenue

	monthlyRevenue, err := s.sumCompletedRevenue(&monthStart)
	if err != nil {
		return nil, err
	}
	stats.MonthlyRevenue = monthlyRevenue

	return stats, nil
}

// sumCompletedRevenue totals completed orders in integer cents and formats
// the result as a decimal string. Summing the stored decimal strings in Go
// keeps the arithmetic exact.
func (s *AdminService) sumCompletedRevenue(since *time.Time) (string, error) {
	query := s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusCompleted)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var totals []string
	if err := query.Pluck("total_amount", &totals).Error; err != nil {
		return "", fmt.Errorf("failed to fetch revenue: %w", err)
	}

	var cents int64
	for _, total := range totals {
		amount, err := utils.ParseAmountCents(total)
		if err != nil {
			return "", fmt.Errorf("order has an invalid total %q: %w", total, err)
		}
		cents += amount
	}

	return utils.FormatCents(cents), nil
}

func (s *AdminService) GetUsers(filter *AdminUserFilter) ([]models.User, *utils.PaginationResult, error) {
	filter.Normalize()
	query := s.db.Model(&models.User{})

	if filter.IsAdmin != nil {
		query = query.Where("is_admin = ?", *filter.IsAdmin)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Find(&users).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	pagination := utils.CreatePaginationResult(users, total, filter.PaginationParams)
	return users, &pagination, nil
}

// GetLowStockProducts lists active products at or below the restock
// threshold, lowest stock first.
func (s *AdminService) GetLowStockProducts() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.
		Where("is_active = ? AND stock <= ?", true, lowStockThreshold).
		Order("stock ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch low stock products: %w", err)
	}
	return products, nil
}
