package handlers

import (
	"errors"
	"net/http"

	"customworld-api/config"
	"customworld-api/middleware"
	"customworld-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreateOrderRequest struct {
	DeliveryAddress string `json:"delivery_address" binding:"required"`
	DeliveryModeID  uint   `json:"delivery_mode_id"`
	Phone           string `json:"phone" binding:"required"`
}

var (
	errEmptyCart = errors.New("cart is empty")
	errNoItems   = errors.New("order has no items")
	errBadAmount = errors.New("order amount must be positive")
)

// CreateOrder assembles the caller's cart into a PENDING order. Either
// a fully populated order replaces the cart contents, or nothing
// changes and the cart stays untouched.
func CreateOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.Order
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items").Where("user_id = ?", customerID).First(&cart).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errEmptyCart
			}
			return err
		}
		if len(cart.Items) == 0 {
			return errEmptyCart
		}

		// Resolve each line's product; lines whose product has gone
		// away are skipped, not fatal.
		type resolvedLine struct {
			product models.Product
			item    models.CartItem
		}
		var lines []resolvedLine
		amount := decimal.Zero
		for _, item := range cart.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				log.WithFields(log.Fields{
					"cart_item_id": item.ID,
					"product_id":   item.ProductID,
				}).Warn("skipping cart line with unresolvable product")
				continue
			}
			amount = amount.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			lines = append(lines, resolvedLine{product: product, item: item})
		}
		if len(lines) == 0 {
			return errNoItems
		}
		if !amount.IsPositive() {
			return errBadAmount
		}

		order = models.Order{
			CustomerID:      customerID,
			Status:          models.OrderPending,
			Amount:          amount,
			Currency:        config.C.Currency,
			TransactionID:   uuid.NewString(),
			DeliveryAddress: req.DeliveryAddress,
			DeliveryModeID:  req.DeliveryModeID,
			Phone:           req.Phone,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range lines {
			orderItem := models.OrderItem{
				OrderID:      order.ID,
				ProductID:    line.product.ID,
				Quantity:     line.item.Quantity,
				Price:        line.product.Price,
				IsCustomized: line.item.IsCustomized,
				ImagePath:    line.product.ImagePath,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errEmptyCart), errors.Is(err, errNoItems), errors.Is(err, errBadAmount):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot create order: " + err.Error()})
		default:
			log.WithError(err).Error("order creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		}
		return
	}

	config.DB.Preload("Items.Product").First(&order, order.ID)
	log.WithFields(log.Fields{
		"order_id":       order.ID,
		"customer_id":    customerID,
		"amount":         order.Amount,
		"transaction_id": order.TransactionID,
	}).Info("order created")

	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
}

// GetMyOrders returns all orders of the logged-in customer
func GetMyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items.Product").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns one order. Customers may only read their own;
// admins may read any.
func GetOrderDetail(c *gin.Context) {
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.Preload("Items.Product").First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if middleware.GetRole(c) != models.RoleAdmin && order.CustomerID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels an order. Only PENDING and IN_PROGRESS orders can
// be cancelled.
func CancelOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if middleware.GetRole(c) != models.RoleAdmin && order.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	if !order.Status.CanBeCancelled() {
		log.WithFields(log.Fields{"order_id": order.ID, "status": order.Status}).
			Warn("cancel attempted in non-cancellable status")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Order cannot be cancelled in its current status",
			"current_status": order.Status,
		})
		return
	}

	if err := config.DB.Model(&order).Update("status", models.OrderCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}
	log.WithField("order_id", order.ID).Info("order cancelled")
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": order.ID})
}
