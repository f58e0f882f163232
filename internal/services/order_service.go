// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/liquorquest/liquorquest-backend/internal/config"
	"github.com/liquorquest/liquorquest-backend/internal/models"
	"github.com/liquorquest/liquorquest-backend/internal/utils"
)

type OrderService struct {
	db  *gorm.DB
	cfg *config.Config
}

type CheckoutRequest struct {
	CustomerName    string `json:"customer_name" validate:"required,min=2,max=255"`
	CustomerPhone   string `json:"customer_phone" validate:"required,kenyan_phone"`
	CustomerEmail   string `json:"customer_email,omitempty" validate:"omitempty,email"`
	DeliveryCounty  string `json:"delivery_county" validate:"required"`
	DeliveryArea    string `json:"delivery_area" validate:"required"`
	DeliveryAddress string `json:"delivery_address" validate:"required,min=10"`
	DeliveryNotes   string `json:"delivery_notes,omitempty"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=cod mpesa card"`
}

// OrderWithItems is the nested read-side view reconstructed from the flat
// orders/order_items/products join.
type OrderWithItems struct {
	models.Order
	OrderItems []OrderItemWithProduct `json:"order_items"`
}

type OrderItemWithProduct struct {
	models.OrderItem
	Product models.Product `json:"product"`
}

// orderJoinRow is one row of the flat left-join result. Item and product
// columns are pointers: a left join yields nulls for orders with no items
// and for items whose product row no longer exists.
type orderJoinRow struct {
	OrderID         uuid.UUID  `gorm:"column:order_id"`
	OrderUserID     string     `gorm:"column:order_user_id"`
	CustomerName    string     `gorm:"column:customer_name"`
	CustomerPhone   string     `gorm:"column:customer_phone"`
	CustomerEmail   string     `gorm:"column:customer_email"`
	DeliveryCounty  string     `gorm:"column:delivery_county"`
	DeliveryArea    string     `gorm:"column:delivery_area"`
	DeliveryAddress string     `gorm:"column:delivery_address"`
	DeliveryNotes   string     `gorm:"column:delivery_notes"`
	PaymentMethod   string     `gorm:"column:payment_method"`
	Status          string     `gorm:"column:status"`
	TotalAmount     string     `gorm:"column:total_amount"`
	DeliveryFee     string     `gorm:"column:delivery_fee"`
	OrderCreatedAt  time.Time  `gorm:"column:order_created_at"`
	OrderUpdatedAt  time.Time  `gorm:"column:order_updated_at"`

	ItemID          *uuid.UUID `gorm:"column:item_id"`
	ItemProductID   *uuid.UUID `gorm:"column:item_product_id"`
	ItemProductName *string    `gorm:"column:item_product_name"`
	ItemPrice       *string    `gorm:"column:item_price"`
	ItemQuantity    *int       `gorm:"column:item_quantity"`
	ItemCreatedAt   *time.Time `gorm:"column:item_created_at"`
	ItemUpdatedAt   *time.Time `gorm:"column:item_updated_at"`

	ProductID       *uuid.UUID `gorm:"column:product_id"`
	ProductSlug     *string    `gorm:"column:product_slug"`
	ProductName     *string    `gorm:"column:product_name"`
	ProductPrice    *string    `gorm:"column:product_price"`
	ProductImageURL *string    `gorm:"column:product_image_url"`
	ProductBrand    *string    `gorm:"column:product_brand"`
	ProductVolume   *string    `gorm:"column:product_volume"`
}

const orderJoinColumns = `
	orders.id AS order_id,
	orders.user_id AS order_user_id,
	orders.customer_name,
	orders.customer_phone,
	orders.customer_email,
	orders.delivery_county,
	orders.delivery_area,
	orders.delivery_address,
	orders.delivery_notes,
	orders.payment_method,
	orders.status,
	orders.total_amount,
	orders.delivery_fee,
	orders.created_at AS order_created_at,
	orders.updated_at AS order_updated_at,
	order_items.id AS item_id,
	order_items.product_id AS item_product_id,
	order_items.product_name AS item_product_name,
	order_items.price AS item_price,
	order_items.quantity AS item_quantity,
	order_items.created_at AS item_created_at,
	order_items.updated_at AS item_updated_at,
	products.id AS product_id,
	products.slug AS product_slug,
	products.name AS product_name,
	products.price AS product_price,
	products.image_url AS product_image_url,
	products.brand AS product_brand,
	products.volume AS product_volume`

func NewOrderService(db *gorm.DB, cfg *config.Config) *OrderService {
	return &OrderService{db: db, cfg: cfg}
}

// GetOrders returns the nested order views, newest first, optionally scoped
// to one user. Orders with zero line items are included with an empty item
// slice.
func (s *OrderService) GetOrders(userID *string) ([]OrderWithItems, error) {
	query := s.db.Table("orders").
		Select(orderJoinColumns).
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Order("orders.created_at DESC")

	if userID != nil {
		query = query.Where("orders.user_id = ?", *userID)
	}

	var rows []orderJoinRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return groupOrderRows(rows)
}

// GetOrder returns one nested order view, or nil, nil when absent.
func (s *OrderService) GetOrder(id uuid.UUID) (*OrderWithItems, error) {
	var rows []orderJoinRow
	if err := s.db.Table("orders").
		Select(orderJoinColumns).
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Where("orders.id = ?", id).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	orders, err := groupOrderRows(rows)
	if err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// groupOrderRows reconstructs nested order views from the flat join rows.
// Orders come out in first-seen order, which the query's created_at DESC
// sort makes most-recent-first. A row contributes a line item only when
// both its order_items and products columns are non-null.
func groupOrderRows(rows []orderJoinRow) ([]OrderWithItems, error) {
	index := make(map[uuid.UUID]int)
	orders := make([]OrderWithItems, 0)

	for _, row := range rows {
		pos, seen := index[row.OrderID]
		if !seen {
			status, err := models.ParseOrderStatus(row.Status)
			if err != nil {
				return nil, fmt.Errorf("order %s: %w", row.OrderID, err)
			}
			paymentMethod, err := models.ParsePaymentMethod(row.PaymentMethod)
			if err != nil {
				return nil, fmt.Errorf("order %s: %w", row.OrderID, err)
			}

			order := OrderWithItems{
				Order: models.Order{
					BaseModel: models.BaseModel{
						ID:        row.OrderID,
						CreatedAt: row.OrderCreatedAt,
						UpdatedAt: row.OrderUpdatedAt,
					},
					UserID:          row.OrderUserID,
					CustomerName:    row.CustomerName,
					CustomerPhone:   row.CustomerPhone,
					CustomerEmail:   row.CustomerEmail,
					DeliveryCounty:  row.DeliveryCounty,
					DeliveryArea:    row.DeliveryArea,
					DeliveryAddress: row.DeliveryAddress,
					DeliveryNotes:   row.DeliveryNotes,
					PaymentMethod:   paymentMethod,
					Status:          status,
					TotalAmount:     row.TotalAmount,
					DeliveryFee:     row.DeliveryFee,
				},
				OrderItems: []OrderItemWithProduct{},
			}

			index[row.OrderID] = len(orders)
			orders = append(orders, order)
			pos = index[row.OrderID]
		}

		if row.ItemID != nil && row.ProductID != nil {
			item := OrderItemWithProduct{
				OrderItem: models.OrderItem{
					BaseModel: models.BaseModel{
						ID:        *row.ItemID,
						CreatedAt: derefTime(row.ItemCreatedAt),
						UpdatedAt: derefTime(row.ItemUpdatedAt),
					},
					OrderID:     row.OrderID,
					ProductID:   *row.ItemProductID,
					ProductName: derefString(row.ItemProductName),
					Price:       derefString(row.ItemPrice),
					Quantity:    derefInt(row.ItemQuantity),
				},
				Product: models.Product{
					BaseModel: models.BaseModel{ID: *row.ProductID},
					Slug:      derefString(row.ProductSlug),
					Name:      derefString(row.ProductName),
					Price:     derefString(row.ProductPrice),
					ImageURL:  derefString(row.ProductImageURL),
					Brand:     derefString(row.ProductBrand),
					Volume:    derefString(row.ProductVolume),
				},
			}
			orders[pos].OrderItems = append(orders[pos].OrderItems, item)
		}
	}

	return orders, nil
}

// CreateOrder persists the order and its line items in one transaction:
// either the order row and every item row commit together, or none do.
// Items arrive without an order id; the generated id is stamped on here.
func (s *OrderService) CreateOrder(order *models.Order, items []models.OrderItem) (*models.Order, error) {
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if _, err := models.ParseOrderStatus(string(order.Status)); err != nil {
		return nil, err
	}
	if _, err := models.ParsePaymentMethod(string(order.PaymentMethod)); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}

		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("failed to create order items: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// Checkout turns the user's cart into an order: snapshots product name and
// unit price per line, computes subtotal plus the flat delivery fee in
// integer cents, deducts stock, and clears the cart inside one transaction,
// so a placed order can never leave its cart behind.
func (s *OrderService) Checkout(userID string, req *CheckoutRequest) (*OrderWithItems, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	paymentMethod, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	deliveryFeeCents, err := utils.ParseAmountCents(s.cfg.Payment.DeliveryFee)
	if err != nil {
		return nil, fmt.Errorf("invalid delivery fee configuration: %w", err)
	}

	var order *models.Order

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var cartItems []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("created_at ASC").Find(&cartItems).Error; err != nil {
			return fmt.Errorf("failed to fetch cart: %w", err)
		}
		if len(cartItems) == 0 {
			return errors.New("cart is empty")
		}

		var subtotalCents int64
		orderItems := make([]models.OrderItem, 0, len(cartItems))

		for _, cartItem := range cartItems {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", cartItem.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errors.New("product no longer exists")
				}
				return fmt.Errorf("database error: %w", err)
			}

			if !product.IsActive {
				return fmt.Errorf("product %s is no longer available", product.Name)
			}
			if product.Stock < cartItem.Quantity {
				return fmt.Errorf("insufficient stock for %s", product.Name)
			}

			priceCents, err := utils.ParseAmountCents(product.Price)
			if err != nil {
				return fmt.Errorf("product %s has an invalid price: %w", product.Name, err)
			}
			subtotalCents += priceCents * int64(cartItem.Quantity)

			if err := tx.Model(&product).
				UpdateColumn("stock", gorm.Expr("stock - ?", cartItem.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to update stock: %w", err)
			}

			orderItems = append(orderItems, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Price:       utils.FormatCents(priceCents),
				Quantity:    cartItem.Quantity,
			})
		}

		order = &models.Order{
			UserID:          userID,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerEmail:   req.CustomerEmail,
			DeliveryCounty:  req.DeliveryCounty,
			DeliveryArea:    req.DeliveryArea,
			DeliveryAddress: req.DeliveryAddress,
			DeliveryNotes:   req.DeliveryNotes,
			PaymentMethod:   paymentMethod,
			Status:          models.OrderStatusPending,
			TotalAmount:     utils.FormatCents(subtotalCents + deliveryFeeCents),
			DeliveryFee:     utils.FormatCents(deliveryFeeCents),
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(order.ID)
}

// UpdateOrderStatus transitions an order within the closed status set.
func (s *OrderService) UpdateOrderStatus(id uuid.UUID, status string) (*models.Order, error) {
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&order).Updates(map[string]interface{}{
		"status":     parsed,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = parsed
	return &order, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
