// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/liquorquest/liquorquest-backend/internal/models"
	"github.com/liquorquest/liquorquest-backend/internal/utils"
)

type CartService struct {
	db *gorm.DB
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetCartItems lists the user's cart with product and category expanded.
// An empty cart is an empty slice, not an error.
func (s *CartService) GetCartItems(userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.db.
		Preload("Product").
		Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cart items: %w", err)
	}
	return items, nil
}

// AddToCart merges by (user, product): a repeat add accumulates quantity on
// the existing row instead of inserting a duplicate. The merge is a single
// atomic upsert against the composite unique index, so two concurrent adds
// for the same user and product cannot both insert.
func (s *CartService) AddToCart(userID string, req *AddToCartRequest) (*models.CartItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	// The product must exist and be purchasable
	var product models.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !product.IsActive {
		return nil, errors.New("product is not available")
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  quantity,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	// Reload: on a merge the in-memory struct does not carry the summed
	// quantity or the surviving row's id.
	var merged models.CartItem
	if err := s.db.
		Preload("Product").
		Preload("Product.Category").
		Where("user_id = ? AND product_id = ?", userID, req.ProductID).
		First(&merged).Error; err != nil {
		return nil, fmt.Errorf("failed to reload cart item: %w", err)
	}

	return &merged, nil
}

// UpdateCartItem sets the quantity verbatim. No floor is enforced here;
// rejecting non-positive quantities is the caller's contract. The lookup is
// scoped to the owner, so another user's item id behaves as absent.
func (s *CartService) UpdateCartItem(userID string, id uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.db.First(&item, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("cart item not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&item).Updates(map[string]interface{}{
		"quantity":   quantity,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return &item, nil
}

// RemoveFromCart deletes the user's cart item. Deleting an id the user does
// not own reports absence rather than touching the row.
func (s *CartService) RemoveFromCart(userID string, id uuid.UUID) error {
	result := s.db.Delete(&models.CartItem{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("cart item not found")
	}
	return nil
}

func (s *CartService) ClearCart(userID string) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
