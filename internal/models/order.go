// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// Order is immutable once created except for status transitions. Monetary
// amounts are exact decimal strings. Line items are written and read
// explicitly by the order service, not through a gorm association.
type Order struct {
	BaseModel
	UserID          string        `json:"user_id" gorm:"size:64;not null;index"`
	CustomerName    string        `json:"customer_name" gorm:"size:255;not null"`
	CustomerPhone   string        `json:"customer_phone" gorm:"size:20;not null"`
	CustomerEmail   string        `json:"customer_email" gorm:"size:255"`
	DeliveryCounty  string        `json:"delivery_county" gorm:"size:100;not null"`
	DeliveryArea    string        `json:"delivery_area" gorm:"size:255;not null"`
	DeliveryAddress string        `json:"delivery_address" gorm:"type:text;not null"`
	DeliveryNotes   string        `json:"delivery_notes" gorm:"type:text"`
	PaymentMethod   PaymentMethod `json:"payment_method" gorm:"type:varchar(20);not null"`
	Status          OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	TotalAmount     string        `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	DeliveryFee     string        `json:"delivery_fee" gorm:"type:decimal(10,2);not null"`
}

// OrderItem snapshots the product name and unit price at order time so
// historical orders stay stable when the catalog changes.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductName string    `json:"product_name" gorm:"size:255;not null"`
	Price       string    `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
}
