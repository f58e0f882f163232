// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

// CartItem holds per-user cart state. The composite unique index backs the
// atomic merge-on-add upsert: at most one row per (user, product).
type CartItem struct {
	BaseModel
	UserID    string    `json:"user_id" gorm:"size:64;not null;uniqueIndex:idx_cart_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
