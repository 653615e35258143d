package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"customworld-api/config"
	"customworld-api/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTest gives every test a fresh in-memory database and a known
// configuration.
func setupTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	config.DB = db
	config.C = config.Config{
		JWTSecret:         "test-secret",
		AccessTokenTTL:    time.Hour,
		RefreshTokenTTL:   24 * time.Hour,
		ResetTokenTTL:     15 * time.Minute,
		Currency:          "XAF",
		PaymentPrivateKey: "gateway-private-key",
		PaymentTimeout:    5 * time.Second,
	}
	Gateway = nil
}

// asUser injects an authenticated identity, standing in for the JWT
// middleware.
func asUser(userID uint, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("email", fmt.Sprintf("user%d@test.local", userID))
		c.Set("role", string(role))
		c.Next()
	}
}

func createUser(t *testing.T, role models.UserRole) models.User {
	t.Helper()
	user := models.User{
		Name:         "Test " + string(role),
		Email:        fmt.Sprintf("%s-%d@test.local", role, time.Now().UnixNano()),
		PasswordHash: "x",
		Role:         role,
		Phone:        "699000000",
	}
	require.NoError(t, config.DB.Create(&user).Error)
	return user
}

func createProduct(t *testing.T, vendorID uint, price string) models.Product {
	t.Helper()
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	product := models.Product{
		Name:     "Mug",
		Price:    p,
		VendorID: vendorID,
		Approved: true,
	}
	require.NoError(t, config.DB.Create(&product).Error)
	return product
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSONWithAuth(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
