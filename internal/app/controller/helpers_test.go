package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/db"
	"github.com/stepup/stepup-backend/internal/middleware"
	"github.com/stepup/stepup-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	util.SetBcryptCost(bcrypt.MinCost)
}

func setupControllerDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

// asUser stands in for the auth middleware.
func asUser(userID uint, role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.UserRoleKey, role)
		c.Next()
	}
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	code, _ := decodeBody(t, w)["error"].(string)
	return code
}

func seedUser(t *testing.T, testDB *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:         "Test " + string(role),
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		Phone:        "0771234567",
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, testDB *gorm.DB, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Brand:         "Nike",
		Model:         "Pegasus 40",
		Category:      model.CategoryRunning,
		Price:         120,
		Colors:        []string{"black", "white"},
		Sizes:         []string{"41", "42"},
		StockQuantity: stock,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func seedOrder(t *testing.T, testDB *gorm.DB, userID uint, status model.DeliveryStatus) *model.Order {
	t.Helper()
	order := &model.Order{
		UserID:          userID,
		CustomerName:    "Test Customer",
		CustomerEmail:   "customer@example.com",
		ShippingAddress: "12 Galle Road",
		ShippingCity:    "Colombo",
		TotalAmount:     240,
		PaymentMethod:   model.PaymentMethodCard,
		PaymentStatus:   model.PaymentStatusPaid,
		Status:          model.OrderStatusPlaced,
		DeliveryStatus:  status,
		Items: []model.OrderItem{
			{Brand: "Nike", Model: "Pegasus 40", Color: "black", Size: "42", Quantity: 2, Price: 120},
		},
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}

func seedDeliveryPerson(t *testing.T, testDB *gorm.DB, email string) *model.DeliveryPerson {
	t.Helper()
	person := &model.DeliveryPerson{
		Name:          "Rider",
		Email:         email,
		PasswordHash:  "hash",
		Phone:         "0711111111",
		VehicleNumber: "CAB-1234",
		LicenseNumber: "B1234567",
		Status:        model.DeliveryPersonActive,
	}
	require.NoError(t, testDB.Create(person).Error)
	return person
}

func ptr[T any](v T) *T {
	return &v
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}
