package service

import (
	"testing"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testRepos struct {
	db          *gorm.DB
	tm          repository.TransactionManager
	users       repository.UserRepository
	orders      repository.OrderRepository
	products    repository.ProductRepository
	carts       repository.CartRepository
	reviews     repository.ReviewRepository
	persons     repository.DeliveryPersonRepository
	managers    repository.DeliveryManagerRepository
	details     repository.DeliveryDetailRepository
	refunds     repository.RefundRepository
	attendances repository.AttendanceRepository
	leaves      repository.LeaveRepository
}

func setupRepos(t *testing.T) *testRepos {
	t.Helper()
	return newTestRepos(t, db.SetupTestDB)
}

// setupStrictRepos enforces foreign keys the way postgres does.
func setupStrictRepos(t *testing.T) *testRepos {
	t.Helper()
	return newTestRepos(t, db.SetupTestDBWithForeignKeys)
}

func newTestRepos(t *testing.T, open func() (*gorm.DB, error)) *testRepos {
	t.Helper()

	testDB, err := open()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return &testRepos{
		db:          testDB,
		tm:          repository.NewTransactionManager(testDB),
		users:       repository.NewUserRepository(testDB),
		orders:      repository.NewOrderRepository(testDB),
		products:    repository.NewProductRepository(testDB),
		carts:       repository.NewCartRepository(testDB),
		reviews:     repository.NewReviewRepository(testDB),
		persons:     repository.NewDeliveryPersonRepository(testDB),
		managers:    repository.NewDeliveryManagerRepository(testDB),
		details:     repository.NewDeliveryDetailRepository(testDB),
		refunds:     repository.NewRefundRepository(testDB),
		attendances: repository.NewAttendanceRepository(testDB),
		leaves:      repository.NewLeaveRepository(testDB),
	}
}

func createCustomer(t *testing.T, r *testRepos, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         "Test Customer",
		Email:        email,
		PasswordHash: "hash",
		Role:         model.RoleCustomer,
		Phone:        "0771234567",
	}
	require.NoError(t, r.db.Create(user).Error)
	return user
}

func createDeliveryPerson(t *testing.T, r *testRepos, email string) *model.DeliveryPerson {
	t.Helper()
	person := &model.DeliveryPerson{
		Name:          "Rider " + email,
		Email:         email,
		PasswordHash:  "hash",
		Phone:         "0711111111",
		VehicleNumber: "CAB-1234",
		LicenseNumber: "B1234567",
		Status:        model.DeliveryPersonActive,
	}
	require.NoError(t, r.db.Create(person).Error)
	return person
}

func createOrder(t *testing.T, r *testRepos, userID uint, city string, payment model.PaymentStatus) *model.Order {
	t.Helper()
	order := &model.Order{
		UserID:          userID,
		CustomerName:    "Test Customer",
		CustomerEmail:   "customer@example.com",
		ShippingAddress: "12 Galle Road",
		ShippingCity:    city,
		TotalAmount:     1000,
		PaymentMethod:   model.PaymentMethodCard,
		PaymentStatus:   payment,
		Status:          model.OrderStatusPlaced,
		DeliveryStatus:  model.DeliveryStatusProcessing,
		Items: []model.OrderItem{
			{Brand: "Nike", Model: "Pegasus", Color: "black", Size: "42", Quantity: 1, Price: 1000},
		},
	}
	require.NoError(t, r.db.Create(order).Error)
	return order
}

func createProduct(t *testing.T, r *testRepos, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Brand:         "Adidas",
		Model:         "Ultraboost",
		Category:      model.CategoryRunning,
		Price:         250,
		Colors:        []string{"black", "white"},
		Sizes:         []string{"41", "42", "43"},
		StockQuantity: stock,
	}
	require.NoError(t, r.db.Create(product).Error)
	return product
}

func floatPtr(v float64) *float64 {
	return &v
}

func validDetails() DeliveryDetailsInput {
	return DeliveryDetailsInput{
		DeliveryCost: floatPtr(500),
		Mileage:      floatPtr(12.5),
		PetrolCost:   floatPtr(300),
		TimeSpent:    floatPtr(1.5),
	}
}
