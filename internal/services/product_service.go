// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/liquorquest/liquorquest-backend/internal/models"
	"github.com/liquorquest/liquorquest-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Slug           string   `json:"slug" validate:"required,slug"`
	Name           string   `json:"name" validate:"required,min=2,max=255"`
	Description    string   `json:"description,omitempty"`
	Price          string   `json:"price" validate:"required,decimal_amount"`
	Stock          int      `json:"stock" validate:"min=0"`
	IsActive       *bool    `json:"is_active,omitempty"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty"`
	Brand          string   `json:"brand,omitempty"`
	Region         string   `json:"region,omitempty"`
	Volume         string   `json:"volume,omitempty"`
	AlcoholContent string   `json:"alcohol_content,omitempty"`
	ImageURL       string   `json:"image_url,omitempty" validate:"omitempty,url"`
	Images         []string `json:"images,omitempty"`
}

type UpdateProductRequest struct {
	Slug           *string    `json:"slug,omitempty" validate:"omitempty,slug"`
	Name           *string    `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description    *string    `json:"description,omitempty"`
	Price          *string    `json:"price,omitempty" validate:"omitempty,decimal_amount"`
	Stock          *int       `json:"stock,omitempty" validate:"omitempty,min=0"`
	IsActive       *bool      `json:"is_active,omitempty"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty"`
	Brand          *string    `json:"brand,omitempty"`
	Region         *string    `json:"region,omitempty"`
	Volume         *string    `json:"volume,omitempty"`
	AlcoholContent *string    `json:"alcohol_content,omitempty"`
	ImageURL       *string    `json:"image_url,omitempty" validate:"omitempty,url"`
	Images         []string   `json:"images,omitempty"`
}

// ProductFilters are conjunctive: a product is returned iff it matches every
// supplied field. Sort falls back to newest-first.
type ProductFilters struct {
	CategoryID *uuid.UUID
	Search     string
	MinPrice   *string
	MaxPrice   *string
	Region     string
	SortBy     string // name | price | created_at
	SortOrder  string // asc | desc
	Limit      int
	Offset     int
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// GetProducts is the general listing path: active products only, category
// attached via Preload. A product with no surviving category row is
// returned with Category nil, never dropped.
func (s *ProductService) GetProducts(filters ProductFilters) ([]models.Product, error) {
	query := s.db.Model(&models.Product{}).
		Preload("Category").
		Where("is_active = ?", true)

	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}

	if filters.Search != "" {
		searchTerm := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}

	if filters.MinPrice != nil {
		minCents, err := utils.ParseAmountCents(*filters.MinPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid min price: %w", err)
		}
		query = query.Where("price >= ?", utils.FormatCents(minCents))
	}

	if filters.MaxPrice != nil {
		maxCents, err := utils.ParseAmountCents(*filters.MaxPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid max price: %w", err)
		}
		query = query.Where("price <= ?", utils.FormatCents(maxCents))
	}

	if filters.Region != "" {
		query = query.Where("region = ?", filters.Region)
	}

	// Sort field whitelist; no sortBy means newest-first
	sortField := "created_at"
	sortOrder := "DESC"
	switch filters.SortBy {
	case "name":
		sortField = "name"
	case "price":
		sortField = "price"
	}
	if filters.SortBy != "" {
		if filters.SortOrder == "desc" {
			sortOrder = "DESC"
		} else {
			sortOrder = "ASC"
		}
	}
	query = query.Order(sortField + " " + sortOrder)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, nil
}

// GetProduct looks up a single product regardless of its active state.
// Absence returns nil, nil.
func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) GetProductBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").Where("slug = ?", slug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	priceCents, err := utils.ParseAmountCents(req.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := &models.Product{
		Slug:           req.Slug,
		Name:           req.Name,
		Description:    req.Description,
		Price:          utils.FormatCents(priceCents),
		Stock:          req.Stock,
		IsActive:       isActive,
		CategoryID:     req.CategoryID,
		Brand:          req.Brand,
		Region:         req.Region,
		Volume:         req.Volume,
		AlcoholContent: req.AlcoholContent,
		ImageURL:       req.ImageURL,
		Images:         req.Images,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.Preload("Category").First(product, "id = ?", product.ID)

	return product, nil
}

func (s *ProductService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		priceCents, err := utils.ParseAmountCents(*req.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price: %w", err)
		}
		updates["price"] = utils.FormatCents(priceCents)
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Region != nil {
		updates["region"] = *req.Region
	}
	if req.Volume != nil {
		updates["volume"] = *req.Volume
	}
	if req.AlcoholContent != nil {
		updates["alcohol_content"] = *req.AlcoholContent
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Images != nil {
		// text[] needs the array Valuer, not a bare slice
		updates["images"] = pq.StringArray(req.Images)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	s.db.Preload("Category").First(&product, "id = ?", id)

	return &product, nil
}

// DeleteProduct is a hard delete; the admin console normally soft-hides
// products with is_active instead.
func (s *ProductService) DeleteProduct(id uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}
