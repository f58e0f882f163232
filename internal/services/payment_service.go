// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/liquorquest/liquorquest-backend/internal/config"
	"github.com/liquorquest/liquorquest-backend/internal/models"
	"github.com/liquorquest/liquorquest-backend/internal/utils"
)

type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type CreatePaymentIntentRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string    `json:"payment_intent_id" validate:"required"`
	OrderID         uuid.UUID `json:"order_id" validate:"required"`
}

func NewPaymentService(db *gorm.DB, config *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
	}
}

// CreatePaymentIntent opens a card payment for a pending order. The charge
// amount is the order's stored total, so the client never supplies it.
func (s *PaymentService) CreatePaymentIntent(userID string, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ? AND user_id = ?", req.OrderID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.PaymentMethod != models.PaymentMethodCard {
		return nil, errors.New("order is not a card payment")
	}
	if order.Status != models.OrderStatusPending {
		return nil, errors.New("order is not awaiting payment")
	}

	amountCents, err := utils.ParseAmountCents(order.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("order has an invalid total: %w", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(s.config.Payment.Currency),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("user_id", userID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmPayment checks the intent's status with Stripe and moves the order
// to processing when the charge succeeded.
func (s *PaymentService) ConfirmPayment(userID string, req *ConfirmPaymentRequest) error {
	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return fmt.Errorf("failed to get payment intent: %w", err)
	}

	if pi.Metadata["order_id"] != req.OrderID.String() {
		return errors.New("payment intent does not belong to this order")
	}

	var order models.Order
	if err := s.db.First(&order, "id = ? AND user_id = ?", req.OrderID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("order not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		if err := s.db.Model(&order).Updates(map[string]interface{}{
			"status":     models.OrderStatusProcessing,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		return nil

	case stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresPaymentMethod,
		stripe.PaymentIntentStatusProcessing:
		return errors.New("payment has not completed yet")

	default:
		return fmt.Errorf("payment failed with status %s", pi.Status)
	}
}
