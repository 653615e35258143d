package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"customworld-api/config"
	"customworld-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartRouter(userID uint) *gin.Engine {
	r := gin.New()
	g := r.Group("/api/customer", asUser(userID, models.RoleCustomer))
	g.GET("/cart", GetCart)
	g.POST("/cart/items", AddToCart)
	g.PUT("/cart/items/:itemId", UpdateCartItemQuantity)
	g.DELETE("/cart/items/:itemId", RemoveFromCart)
	g.DELETE("/cart", ClearCart)
	return r
}

func TestGetCartLazilyCreates(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	r := cartRouter(customer.ID)

	w := doJSON(t, r, http.MethodGet, "/api/customer/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Empty(t, body["items"])

	var count int64
	config.DB.Model(&models.Cart{}).Where("user_id = ?", customer.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAddSameProductTwiceMergesLines(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	vendor := createUser(t, models.RoleVendor)
	product := createProduct(t, vendor.ID, "10.00")
	r := cartRouter(customer.ID)

	w := doJSON(t, r, http.MethodPost, "/api/customer/cart/items",
		gin.H{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/customer/cart/items",
		gin.H{"product_id": product.ID, "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)

	var items []models.CartItem
	config.DB.Find(&items)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddUnknownProductFails(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	r := cartRouter(customer.ID)

	w := doJSON(t, r, http.MethodPost, "/api/customer/cart/items",
		gin.H{"product_id": 999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	vendor := createUser(t, models.RoleVendor)
	product := createProduct(t, vendor.ID, "10.00")
	r := cartRouter(customer.ID)

	for _, qty := range []int{0, -1} {
		w := doJSON(t, r, http.MethodPost, "/api/customer/cart/items",
			gin.H{"product_id": product.ID, "quantity": qty})
		assert.Equal(t, http.StatusBadRequest, w.Code, "quantity %d", qty)
	}
}

func TestUpdateQuantity(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	vendor := createUser(t, models.RoleVendor)
	product := createProduct(t, vendor.ID, "10.00")
	r := cartRouter(customer.ID)

	doJSON(t, r, http.MethodPost, "/api/customer/cart/items",
		gin.H{"product_id": product.ID, "quantity": 2})

	var item models.CartItem
	require.NoError(t, config.DB.First(&item).Error)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/customer/cart/items/%d", item.ID),
		gin.H{"quantity": 7})
	require.Equal(t, http.StatusOK, w.Code)

	config.DB.First(&item, item.ID)
	assert.Equal(t, 7, item.Quantity)

	// quantity must stay positive
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/customer/cart/items/%d", item.ID),
		gin.H{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAndRemoveUnknownItem(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	r := cartRouter(customer.ID)

	// No cart exists at all yet.
	w := doJSON(t, r, http.MethodPut, "/api/customer/cart/items/1", gin.H{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Cart exists but the item does not.
	doJSON(t, r, http.MethodGet, "/api/customer/cart", nil)
	w = doJSON(t, r, http.MethodDelete, "/api/customer/cart/items/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveAndClear(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	vendor := createUser(t, models.RoleVendor)
	mug := createProduct(t, vendor.ID, "10.00")
	shirt := createProduct(t, vendor.ID, "5.00")
	r := cartRouter(customer.ID)

	doJSON(t, r, http.MethodPost, "/api/customer/cart/items", gin.H{"product_id": mug.ID, "quantity": 1})
	doJSON(t, r, http.MethodPost, "/api/customer/cart/items", gin.H{"product_id": shirt.ID, "quantity": 1})

	var item models.CartItem
	require.NoError(t, config.DB.Where("product_id = ?", mug.ID).First(&item).Error)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/customer/cart/items/%d", item.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["items"], 1)

	w = doJSON(t, r, http.MethodDelete, "/api/customer/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	config.DB.Model(&models.CartItem{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestMutationsReturnFullCartView(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	vendor := createUser(t, models.RoleVendor)
	product := createProduct(t, vendor.ID, "12.50")
	r := cartRouter(customer.ID)

	w := doJSON(t, r, http.MethodPost, "/api/customer/cart/items",
		gin.H{"product_id": product.ID, "quantity": 2, "is_customized": true})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, "Mug", line["product_name"])
	assert.Equal(t, true, line["is_customized"])
	total, err := decimal.NewFromString(fmt.Sprintf("%v", body["total"]))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(25)), "total = %s", total)
}
