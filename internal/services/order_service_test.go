// internal/services/order_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinRow(orderID uuid.UUID, createdAt time.Time, status string) orderJoinRow {
	return orderJoinRow{
		OrderID:        orderID,
		OrderUserID:    "user-1",
		CustomerName:   "Wanjiku Kamau",
		CustomerPhone:  "+254712345678",
		PaymentMethod:  "cod",
		Status:         status,
		TotalAmount:    "2800.00",
		DeliveryFee:    "300.00",
		OrderCreatedAt: createdAt,
		OrderUpdatedAt: createdAt,
	}
}

func withItem(row orderJoinRow, name, price string, qty int) orderJoinRow {
	itemID := uuid.New()
	productID := uuid.New()
	now := row.OrderCreatedAt
	slug := "test-product"

	row.ItemID = &itemID
	row.ItemProductID = &productID
	row.ItemProductName = &name
	row.ItemPrice = &price
	row.ItemQuantity = &qty
	row.ItemCreatedAt = &now
	row.ItemUpdatedAt = &now
	row.ProductID = &productID
	row.ProductSlug = &slug
	row.ProductName = &name
	row.ProductPrice = &price
	return row
}

func TestGroupOrderRowsNestsItemsUnderTheirOrder(t *testing.T) {
	now := time.Now()
	firstID := uuid.New()
	secondID := uuid.New()

	// Rows arrive sorted newest order first, one row per line item.
	rows := []orderJoinRow{
		withItem(joinRow(firstID, now, "pending"), "Single Malt", "2500.00", 1),
		withItem(joinRow(firstID, now, "pending"), "Dry Gin", "1800.00", 2),
		withItem(joinRow(secondID, now.Add(-time.Hour), "completed"), "Lager Six-Pack", "900.00", 1),
	}

	orders, err := groupOrderRows(rows)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, firstID, orders[0].ID)
	assert.Len(t, orders[0].OrderItems, 2)
	assert.Equal(t, "Single Malt", orders[0].OrderItems[0].ProductName)
	assert.Equal(t, "Dry Gin", orders[0].OrderItems[1].ProductName)
	assert.Equal(t, 2, orders[0].OrderItems[1].Quantity)

	assert.Equal(t, secondID, orders[1].ID)
	assert.Len(t, orders[1].OrderItems, 1)
	assert.Equal(t, "900.00", orders[1].OrderItems[0].Price)
}

func TestGroupOrderRowsKeepsZeroItemOrders(t *testing.T) {
	// A left join emits one all-null-item row for an order with no items.
	rows := []orderJoinRow{joinRow(uuid.New(), time.Now(), "pending")}

	orders, err := groupOrderRows(rows)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	assert.NotNil(t, orders[0].OrderItems)
	assert.Empty(t, orders[0].OrderItems)
}

func TestGroupOrderRowsPreservesFirstSeenOrdering(t *testing.T) {
	now := time.Now()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	rows := []orderJoinRow{
		withItem(joinRow(ids[0], now, "pending"), "A", "100.00", 1),
		withItem(joinRow(ids[1], now.Add(-time.Minute), "pending"), "B", "200.00", 1),
		// Second row for the first order arrives after another order's row
		withItem(joinRow(ids[0], now, "pending"), "C", "300.00", 1),
		withItem(joinRow(ids[2], now.Add(-2*time.Minute), "pending"), "D", "400.00", 1),
	}

	orders, err := groupOrderRows(rows)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, ids[0], orders[0].ID)
	assert.Equal(t, ids[1], orders[1].ID)
	assert.Equal(t, ids[2], orders[2].ID)
	assert.Len(t, orders[0].OrderItems, 2)
}

func TestGroupOrderRowsSkipsItemsWithDeletedProducts(t *testing.T) {
	now := time.Now()
	orderID := uuid.New()

	// Item row survives but its product row was hard-deleted: the join
	// yields null product columns and the line is dropped from the view.
	orphan := withItem(joinRow(orderID, now, "pending"), "Gone", "500.00", 1)
	orphan.ProductID = nil
	orphan.ProductSlug = nil
	orphan.ProductName = nil
	orphan.ProductPrice = nil

	rows := []orderJoinRow{
		orphan,
		withItem(joinRow(orderID, now, "pending"), "Still Here", "700.00", 1),
	}

	orders, err := groupOrderRows(rows)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].OrderItems, 1)
	assert.Equal(t, "Still Here", orders[0].OrderItems[0].ProductName)
}

func TestGroupOrderRowsRejectsUnknownStatus(t *testing.T) {
	rows := []orderJoinRow{joinRow(uuid.New(), time.Now(), "shipped")}

	_, err := groupOrderRows(rows)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status")
}

func TestGroupOrderRowsEmptyInput(t *testing.T) {
	orders, err := groupOrderRows(nil)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}
