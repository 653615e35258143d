package handlers

import (
	"net/http"

	"customworld-api/config"
	"customworld-api/middleware"
	"customworld-api/models"
	"customworld-api/statemachine"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type AssignDelivererRequest struct {
	DelivererID uint `json:"deliverer_id" binding:"required"`
}

// AdminGetAllOrders lists every order
func AdminGetAllOrders(c *gin.Context) {
	var orders []models.Order
	config.DB.Preload("Items").Order("created_at desc").Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrdersByCustomer lists all orders of one customer
func GetOrdersByCustomer(c *gin.Context) {
	customerID := c.Param("customerId")
	var orders []models.Order
	config.DB.Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// UpdateOrderStatus moves an order to a new status, validated against
// the order transition table.
func UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := statemachine.CanTransitionOrder(order.Status, req.Status); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"reason":            err.Error(),
			"current_status":    order.Status,
			"valid_next_states": statemachine.ValidOrderTransitionsFrom(order.Status),
		})
		return
	}

	if err := config.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}
	log.WithFields(log.Fields{
		"order_id":   order.ID,
		"status":     req.Status,
		"changed_by": middleware.GetUserID(c),
	}).Info("order status updated")
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order_id": order.ID, "status": req.Status})
}

// AssignDeliverer puts an order in the hands of a deliverer: the order
// moves to IN_PROGRESS and exactly one ASSIGNED delivery row is
// created. Assignment is idempotent per order — an order with an
// active delivery cannot be assigned again; a delivery that already
// ended (cancelled, issue) is replaced.
func AssignDeliverer(c *gin.Context) {
	orderID := c.Param("id")

	var req AssignDelivererRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var deliverer models.User
	if err := config.DB.Where("id = ? AND role = ?", req.DelivererID, models.RoleDelivery).
		First(&deliverer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deliverer not found or does not hold the DELIVERY role"})
		return
	}

	var existing models.Delivery
	err := config.DB.Where("order_id = ?", order.ID).First(&existing).Error
	if err == nil && !existing.Status.IsTerminal() {
		c.JSON(http.StatusConflict, gin.H{
			"error":       "Order already has an active delivery",
			"delivery_id": existing.ID,
			"status":      existing.Status,
		})
		return
	}

	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		if err == nil {
			if delErr := tx.Delete(&existing).Error; delErr != nil {
				return delErr
			}
		}
		if upErr := tx.Model(&order).Update("status", models.OrderInProgress).Error; upErr != nil {
			return upErr
		}
		return tx.Create(&models.Delivery{
			OrderID:     order.ID,
			DelivererID: deliverer.ID,
			Status:      models.DeliveryAssigned,
		}).Error
	})
	if txErr != nil {
		log.WithError(txErr).Error("deliverer assignment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign deliverer"})
		return
	}

	log.WithFields(log.Fields{"order_id": order.ID, "deliverer_id": deliverer.ID}).Info("deliverer assigned")
	c.JSON(http.StatusOK, gin.H{
		"message":      "Deliverer assigned successfully",
		"order_id":     order.ID,
		"deliverer_id": deliverer.ID,
		"order_status": models.OrderInProgress,
	})
}

// AdminGetAllUsers lists every registered user
func AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	config.DB.Order("created_at desc").Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminUpdateUserRole changes a user's role
func AdminUpdateUserRole(c *gin.Context) {
	userID := c.Param("id")

	var req struct {
		Role models.UserRole `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: CUSTOMER, VENDOR, DELIVERY or ADMIN"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err := config.DB.Model(&user).Update("role", req.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user_id": user.ID, "role": req.Role})
}
