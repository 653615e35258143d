package handlers

import (
	"net/http"

	"customworld-api/config"
	"customworld-api/middleware"
	"customworld-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AddToCartRequest struct {
	ProductID    uint `json:"product_id" binding:"required"`
	Quantity     int  `json:"quantity" binding:"required,min=1"`
	IsCustomized bool `json:"is_customized"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GetCart returns the caller's cart, creating an empty one on first access
func GetCart(c *gin.Context) {
	userID := middleware.GetUserID(c)

	cart, err := getOrCreateCart(config.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, cartView(cart.ID))
}

// AddToCart adds a product to the caller's cart, merging into an
// existing line for the same product by incrementing its quantity.
func AddToCart(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.Product
	if err := config.DB.First(&product, req.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var cartID uint
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		// Increment in place so concurrent adds for the same line do
		// not lose updates on a read-modify-write.
		res := tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", req.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Create(&models.CartItem{
				CartID:       cart.ID,
				ProductID:    req.ProductID,
				Quantity:     req.Quantity,
				IsCustomized: req.IsCustomized,
			}).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to cart"})
		return
	}

	log.WithFields(log.Fields{"user_id": userID, "product_id": req.ProductID}).Info("product added to cart")
	c.JSON(http.StatusOK, cartView(cartID))
}

// UpdateCartItemQuantity sets the quantity of one cart line
func UpdateCartItemQuantity(c *gin.Context) {
	userID := middleware.GetUserID(c)
	itemID := c.Param("itemId")

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, cart, ok := findCartItem(c, userID, itemID)
	if !ok {
		return
	}

	if err := config.DB.Model(&item).Update("quantity", req.Quantity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}
	c.JSON(http.StatusOK, cartView(cart.ID))
}

// RemoveFromCart deletes one cart line
func RemoveFromCart(c *gin.Context) {
	userID := middleware.GetUserID(c)
	itemID := c.Param("itemId")

	item, cart, ok := findCartItem(c, userID, itemID)
	if !ok {
		return
	}

	if err := config.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
		return
	}
	log.WithFields(log.Fields{"user_id": userID, "cart_item_id": item.ID}).Info("cart item removed")
	c.JSON(http.StatusOK, cartView(cart.ID))
}

// ClearCart removes every line from the caller's cart
func ClearCart(c *gin.Context) {
	userID := middleware.GetUserID(c)

	cart, err := getOrCreateCart(config.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	if err := config.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}
	c.JSON(http.StatusOK, cartView(cart.ID))
}

// getOrCreateCart loads the user's cart, creating it on first access.
func getOrCreateCart(db *gorm.DB, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if err == gorm.ErrRecordNotFound {
		cart = models.Cart{UserID: userID}
		err = db.Create(&cart).Error
	}
	return cart, err
}

// findCartItem resolves an item id against the caller's cart, writing
// the 404 response itself when either is missing.
func findCartItem(c *gin.Context, userID uint, itemID string) (models.CartItem, models.Cart, bool) {
	var cart models.Cart
	if err := config.DB.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		return models.CartItem{}, cart, false
	}
	var item models.CartItem
	if err := config.DB.Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return item, cart, false
	}
	return item, cart, true
}

// cartView reconstructs the full cart so mutating calls never need a
// follow-up read.
func cartView(cartID uint) gin.H {
	var cart models.Cart
	config.DB.Preload("Items.Product").First(&cart, cartID)

	total := decimal.Zero
	items := make([]gin.H, 0, len(cart.Items))
	for _, item := range cart.Items {
		lineTotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, gin.H{
			"id":            item.ID,
			"product_id":    item.ProductID,
			"product_name":  item.Product.Name,
			"price":         item.Product.Price,
			"quantity":      item.Quantity,
			"is_customized": item.IsCustomized,
			"line_total":    lineTotal,
		})
	}

	return gin.H{
		"id":      cart.ID,
		"user_id": cart.UserID,
		"items":   items,
		"total":   total,
	}
}
