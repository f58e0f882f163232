//go:build integration
// +build integration

// internal/services/integration_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/liquorquest/liquorquest-backend/internal/config"
	"github.com/liquorquest/liquorquest-backend/internal/database"
	"github.com/liquorquest/liquorquest-backend/internal/models"
)

type StoreTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	cfg       *config.Config

	categories *CategoryService
	products   *ProductService
	carts      *CartService
	orders     *OrderService
}

func (s *StoreTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("liquorquest_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(s.T(), err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)
	s.db = db

	require.NoError(s.T(), database.RunMigrations(db))

	s.cfg = &config.Config{
		Payment: config.PaymentConfig{
			Currency:    "kes",
			DeliveryFee: "300",
		},
	}

	s.categories = NewCategoryService(db)
	s.products = NewProductService(db)
	s.carts = NewCartService(db)
	s.orders = NewOrderService(db, s.cfg)
}

func (s *StoreTestSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *StoreTestSuite) SetupTest() {
	// Each test starts from clean tables
	for _, table := range []string{"order_items", "orders", "cart_items", "products", "categories", "users"} {
		require.NoError(s.T(), s.db.Exec("DELETE FROM "+table).Error)
	}
}

func (s *StoreTestSuite) seedUser(id string) {
	user := models.User{ID: id, Email: id + "@example.com"}
	require.NoError(s.T(), s.db.Create(&user).Error)
}

func (s *StoreTestSuite) seedProduct(slug, price string, stock int, active bool) *models.Product {
	product := models.Product{
		Slug:     slug,
		Name:     slug,
		Price:    price,
		Stock:    stock,
		IsActive: active,
	}
	require.NoError(s.T(), s.db.Create(&product).Error)
	return &product
}

func (s *StoreTestSuite) TestAddToCartMergesDuplicateLines() {
	s.seedUser("u1")
	product := s.seedProduct("tusker-lager", "250.00", 50, true)

	_, err := s.carts.AddToCart("u1", &AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(s.T(), err)

	merged, err := s.carts.AddToCart("u1", &AddToCartRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 5, merged.Quantity)

	items, err := s.carts.GetCartItems("u1")
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 1)
	assert.Equal(s.T(), 5, items[0].Quantity)
}

func (s *StoreTestSuite) TestAddToCartDefaultsQuantityToOne() {
	s.seedUser("u1")
	product := s.seedProduct("jameson", "2500.00", 10, true)

	item, err := s.carts.AddToCart("u1", &AddToCartRequest{ProductID: product.ID})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, item.Quantity)
}

func (s *StoreTestSuite) TestAddToCartRejectsInactiveProduct() {
	s.seedUser("u1")
	product := s.seedProduct("discontinued", "100.00", 10, false)

	_, err := s.carts.AddToCart("u1", &AddToCartRequest{ProductID: product.ID, Quantity: 1})
	assert.Error(s.T(), err)
}

func (s *StoreTestSuite) TestUpdateCartItemStoresQuantityVerbatim() {
	s.seedUser("u1")
	product := s.seedProduct("gilbeys", "1100.00", 20, true)

	item, err := s.carts.AddToCart("u1", &AddToCartRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(s.T(), err)

	// The layer applies the raw quantity, degenerate values included;
	// rejecting them belongs to the HTTP binding.
	for _, quantity := range []int{7, 0, -2} {
		updated, err := s.carts.UpdateCartItem("u1", item.ID, quantity)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), quantity, updated.Quantity)

		var stored models.CartItem
		require.NoError(s.T(), s.db.First(&stored, "id = ?", item.ID).Error)
		assert.Equal(s.T(), quantity, stored.Quantity)
	}
}

func (s *StoreTestSuite) TestRemoveFromCartLeavesEmptyCart() {
	s.seedUser("u1")
	product := s.seedProduct("chrome-vodka", "350.00", 20, true)

	item, err := s.carts.AddToCart("u1", &AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.carts.RemoveFromCart("u1", item.ID))

	items, err := s.carts.GetCartItems("u1")
	require.NoError(s.T(), err)
	assert.Empty(s.T(), items)
}

func (s *StoreTestSuite) TestCartItemMutationsScopedToOwner() {
	s.seedUser("u1")
	s.seedUser("u2")
	product := s.seedProduct("county-bottle", "600.00", 20, true)

	item, err := s.carts.AddToCart("u1", &AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(s.T(), err)

	// Another user holding the item id sees it as absent
	_, err = s.carts.UpdateCartItem("u2", item.ID, 99)
	require.EqualError(s.T(), err, "cart item not found")

	err = s.carts.RemoveFromCart("u2", item.ID)
	require.EqualError(s.T(), err, "cart item not found")

	var stored models.CartItem
	require.NoError(s.T(), s.db.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(s.T(), 2, stored.Quantity)
	assert.Equal(s.T(), "u1", stored.UserID)
}

func (s *StoreTestSuite) TestCheckoutBuildsOrderAndClearsCart() {
	s.seedUser("u1")
	product := s.seedProduct("single-malt", "1250.00", 10, true)

	_, err := s.carts.AddToCart("u1", &AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(s.T(), err)

	order, err := s.orders.Checkout("u1", &CheckoutRequest{
		CustomerName:    "Wanjiku Kamau",
		CustomerPhone:   "+254712345678",
		DeliveryCounty:  "Nairobi",
		DeliveryArea:    "Kilimani",
		DeliveryAddress: "Rose Avenue, Apt 4B",
		PaymentMethod:   "cod",
	})
	require.NoError(s.T(), err)

	// 2 x 1250.00 + 300.00 delivery
	assert.Equal(s.T(), "2800.00", order.TotalAmount)
	assert.Equal(s.T(), "300.00", order.DeliveryFee)
	assert.Equal(s.T(), models.OrderStatusPending, order.Status)
	require.Len(s.T(), order.OrderItems, 1)
	assert.Equal(s.T(), "1250.00", order.OrderItems[0].Price)
	assert.Equal(s.T(), 2, order.OrderItems[0].Quantity)

	// Cart is empty after checkout
	items, err := s.carts.GetCartItems("u1")
	require.NoError(s.T(), err)
	assert.Empty(s.T(), items)

	// Stock was deducted
	var reloaded models.Product
	require.NoError(s.T(), s.db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(s.T(), 8, reloaded.Stock)
}

func (s *StoreTestSuite) TestCheckoutFailsOnInsufficientStockWithoutSideEffects() {
	s.seedUser("u1")
	product := s.seedProduct("rare-bottle", "9000.00", 1, true)

	_, err := s.carts.AddToCart("u1", &AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(s.T(), err)

	_, err = s.orders.Checkout("u1", &CheckoutRequest{
		CustomerName:    "Wanjiku Kamau",
		CustomerPhone:   "+254712345678",
		DeliveryCounty:  "Nairobi",
		DeliveryArea:    "Kilimani",
		DeliveryAddress: "Rose Avenue, Apt 4B",
		PaymentMethod:   "cod",
	})
	require.Error(s.T(), err)

	// Transaction rolled back: cart intact, no order rows, stock untouched
	items, err := s.carts.GetCartItems("u1")
	require.NoError(s.T(), err)
	assert.Len(s.T(), items, 1)

	var orderCount int64
	s.db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(s.T(), orderCount)

	var reloaded models.Product
	require.NoError(s.T(), s.db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(s.T(), 1, reloaded.Stock)
}

func (s *StoreTestSuite) TestCheckoutRejectsEmptyCart() {
	s.seedUser("u1")

	_, err := s.orders.Checkout("u1", &CheckoutRequest{
		CustomerName:    "Wanjiku Kamau",
		CustomerPhone:   "+254712345678",
		DeliveryCounty:  "Nairobi",
		DeliveryArea:    "Kilimani",
		DeliveryAddress: "Rose Avenue, Apt 4B",
		PaymentMethod:   "cod",
	})
	assert.Error(s.T(), err)
}

func (s *StoreTestSuite) TestProductFiltersAreConjunctive() {
	category, err := s.categories.CreateCategory(&CreateCategoryRequest{Slug: "whisky", Name: "Whisky"})
	require.NoError(s.T(), err)

	scotch := s.seedProduct("highland-scotch", "4500.00", 5, true)
	require.NoError(s.T(), s.db.Model(scotch).Updates(map[string]interface{}{
		"category_id": category.ID,
		"region":      "Scotland",
	}).Error)

	bourbon := s.seedProduct("kentucky-bourbon", "3200.00", 5, true)
	require.NoError(s.T(), s.db.Model(bourbon).Update("category_id", category.ID).Error)

	s.seedProduct("hidden-gin", "2000.00", 5, false)

	min := "4000.00"
	results, err := s.products.GetProducts(ProductFilters{
		CategoryID: &category.ID,
		MinPrice:   &min,
		Region:     "Scotland",
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), results, 1)
	assert.Equal(s.T(), "highland-scotch", results[0].Slug)
}

func (s *StoreTestSuite) TestProductListingExcludesInactive() {
	s.seedProduct("active-one", "100.00", 5, true)
	s.seedProduct("inactive-one", "100.00", 5, false)

	results, err := s.products.GetProducts(ProductFilters{})
	require.NoError(s.T(), err)
	require.Len(s.T(), results, 1)
	assert.Equal(s.T(), "active-one", results[0].Slug)
}

func (s *StoreTestSuite) TestProductSearchMatchesNameBrandDescription() {
	p := s.seedProduct("signature-blend", "900.00", 5, true)
	require.NoError(s.T(), s.db.Model(p).Update("brand", "Kenya Cane").Error)
	s.seedProduct("unrelated", "500.00", 5, true)

	results, err := s.products.GetProducts(ProductFilters{Search: "kenya"})
	require.NoError(s.T(), err)
	require.Len(s.T(), results, 1)
	assert.Equal(s.T(), "signature-blend", results[0].Slug)
}

func (s *StoreTestSuite) TestGetOrdersFlattensAcrossUsers() {
	s.seedUser("u1")
	s.seedUser("u2")
	product := s.seedProduct("shared-bottle", "1000.00", 100, true)

	checkout := func(userID string) *OrderWithItems {
		_, err := s.carts.AddToCart(userID, &AddToCartRequest{ProductID: product.ID, Quantity: 1})
		require.NoError(s.T(), err)
		order, err := s.orders.Checkout(userID, &CheckoutRequest{
			CustomerName:    "Customer",
			CustomerPhone:   "+254712345678",
			DeliveryCounty:  "Nairobi",
			DeliveryArea:    "CBD",
			DeliveryAddress: "Moi Avenue, Shop 12",
			PaymentMethod:   "mpesa",
		})
		require.NoError(s.T(), err)
		return order
	}

	first := checkout("u1")
	second := checkout("u2")

	all, err := s.orders.GetOrders(nil)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 2)

	mine, err := s.orders.GetOrders(ptr("u1"))
	require.NoError(s.T(), err)
	require.Len(s.T(), mine, 1)
	assert.Equal(s.T(), first.ID, mine[0].ID)
	assert.Len(s.T(), mine[0].OrderItems, 1)

	fetched, err := s.orders.GetOrder(second.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), fetched)
	assert.Equal(s.T(), "u2", fetched.UserID)
}

func (s *StoreTestSuite) TestGetOrderAbsentReturnsNilNil() {
	order, err := s.orders.GetOrder(uuid.New())
	require.NoError(s.T(), err)
	assert.Nil(s.T(), order)
}

func (s *StoreTestSuite) TestDeleteCategoryDetachesProducts() {
	category, err := s.categories.CreateCategory(&CreateCategoryRequest{Slug: "gin", Name: "Gin"})
	require.NoError(s.T(), err)

	product := s.seedProduct("london-dry", "1800.00", 5, true)
	require.NoError(s.T(), s.db.Model(product).Update("category_id", category.ID).Error)

	require.NoError(s.T(), s.categories.DeleteCategory(category.ID))

	var reloaded models.Product
	require.NoError(s.T(), s.db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Nil(s.T(), reloaded.CategoryID)
}

func (s *StoreTestSuite) TestUpdateOrderStatusValidatesEnum() {
	s.seedUser("u1")
	product := s.seedProduct("status-bottle", "1000.00", 10, true)
	_, err := s.carts.AddToCart("u1", &AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(s.T(), err)

	order, err := s.orders.Checkout("u1", &CheckoutRequest{
		CustomerName:    "Customer",
		CustomerPhone:   "+254712345678",
		DeliveryCounty:  "Nairobi",
		DeliveryArea:    "CBD",
		DeliveryAddress: "Moi Avenue, Shop 12",
		PaymentMethod:   "cod",
	})
	require.NoError(s.T(), err)

	updated, err := s.orders.UpdateOrderStatus(order.ID, "processing")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.OrderStatusProcessing, updated.Status)

	_, err = s.orders.UpdateOrderStatus(order.ID, "shipped")
	assert.Error(s.T(), err)
}

func ptr(s string) *string {
	return &s
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
