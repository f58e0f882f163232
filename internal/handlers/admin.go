// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/liquorquest/liquorquest-backend/internal/services"
	"github.com/liquorquest/liquorquest-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch dashboard stats")
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	filter := services.AdminUserFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if isAdmin := c.Query("is_admin"); isAdmin != "" {
		flag := isAdmin == "true"
		filter.IsAdmin = &flag
	}

	_, pagination, err := h.adminService.GetUsers(&filter)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch users")
		return
	}

	utils.PaginatedResponse(c, *pagination)
}

// GET /admin/products/low-stock
func (h *AdminHandler) GetLowStockProducts(c *gin.Context) {
	products, err := h.adminService.GetLowStockProducts()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch low stock products")
		return
	}

	utils.SuccessResponse(c, products)
}
