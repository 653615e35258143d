package handlers

import (
	"net/http"
	"time"

	"customworld-api/config"
	"customworld-api/middleware"
	"customworld-api/models"
	"customworld-api/statemachine"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type ReportIssueRequest struct {
	Issue string `json:"issue" binding:"required"`
}

// GetMyDeliveries lists the caller's delivery assignments, optionally
// filtered by status.
func GetMyDeliveries(c *gin.Context) {
	delivererID := middleware.GetUserID(c)

	query := config.DB.Preload("Order").Where("deliverer_id = ?", delivererID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", models.DeliveryStatus(status))
	}

	var deliveries []models.Delivery
	query.Order("updated_at desc").Find(&deliveries)
	c.JSON(http.StatusOK, gin.H{"count": len(deliveries), "deliveries": deliveries})
}

// GetDeliveryHistory returns completed deliveries of the caller, most
// recent first.
func GetDeliveryHistory(c *gin.Context) {
	delivererID := middleware.GetUserID(c)

	var deliveries []models.Delivery
	config.DB.Preload("Order").
		Where("deliverer_id = ? AND status = ?", delivererID, models.DeliveryDelivered).
		Order("delivered_at desc").
		Find(&deliveries)
	c.JSON(http.StatusOK, gin.H{"count": len(deliveries), "deliveries": deliveries})
}

// AcceptDelivery moves a PENDING delivery to ASSIGNED
func AcceptDelivery(c *gin.Context) {
	transitionDelivery(c, models.DeliveryAssigned, "Delivery accepted")
}

// StartDelivery moves an ASSIGNED delivery to IN_PROGRESS
func StartDelivery(c *gin.Context) {
	transitionDelivery(c, models.DeliveryInProgress, "Delivery started")
}

// CompleteDelivery moves an IN_PROGRESS delivery to DELIVERED and
// stamps the completion time.
func CompleteDelivery(c *gin.Context) {
	delivery, ok := loadOwnDelivery(c)
	if !ok {
		return
	}
	if err := statemachine.CanTransitionDelivery(delivery.Status, models.DeliveryDelivered); err != nil {
		rejectDeliveryTransition(c, delivery, err)
		return
	}

	now := time.Now()
	if err := config.DB.Model(&delivery).Updates(map[string]interface{}{
		"status":       models.DeliveryDelivered,
		"delivered_at": &now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update delivery"})
		return
	}
	log.WithField("delivery_id", delivery.ID).Info("delivery completed")
	c.JSON(http.StatusOK, gin.H{"message": "Delivery completed", "delivery_id": delivery.ID, "status": models.DeliveryDelivered})
}

// ReportIssue records a free-text problem on an active delivery and
// moves it to ISSUE_REPORTED.
func ReportIssue(c *gin.Context) {
	delivery, ok := loadOwnDelivery(c)
	if !ok {
		return
	}

	var req ReportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !delivery.Status.IsActive() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Issues can only be reported on active deliveries (ASSIGNED or IN_PROGRESS)",
			"current_status": delivery.Status,
		})
		return
	}

	if err := config.DB.Model(&delivery).Updates(map[string]interface{}{
		"status":            models.DeliveryIssueReported,
		"issue_description": req.Issue,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update delivery"})
		return
	}
	log.WithFields(log.Fields{"delivery_id": delivery.ID, "issue": req.Issue}).Warn("delivery issue reported")
	c.JSON(http.StatusOK, gin.H{"message": "Issue reported", "delivery_id": delivery.ID, "status": models.DeliveryIssueReported})
}

// transitionDelivery applies a simple status move after validating it
// against the delivery transition graph.
func transitionDelivery(c *gin.Context, target models.DeliveryStatus, message string) {
	delivery, ok := loadOwnDelivery(c)
	if !ok {
		return
	}
	if err := statemachine.CanTransitionDelivery(delivery.Status, target); err != nil {
		rejectDeliveryTransition(c, delivery, err)
		return
	}
	if err := config.DB.Model(&delivery).Update("status", target).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update delivery"})
		return
	}
	log.WithFields(log.Fields{"delivery_id": delivery.ID, "status": target}).Info("delivery status updated")
	c.JSON(http.StatusOK, gin.H{"message": message, "delivery_id": delivery.ID, "status": target})
}

// loadOwnDelivery fetches the delivery and verifies the caller is its
// assigned deliverer, writing the error response itself on failure.
func loadOwnDelivery(c *gin.Context) (models.Delivery, bool) {
	delivererID := middleware.GetUserID(c)
	deliveryID := c.Param("id")

	var delivery models.Delivery
	if err := config.DB.First(&delivery, deliveryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Delivery not found"})
		return delivery, false
	}
	if delivery.DelivererID != delivererID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned deliverer for this delivery"})
		return delivery, false
	}
	return delivery, true
}

func rejectDeliveryTransition(c *gin.Context, delivery models.Delivery, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":             "Invalid state transition",
		"reason":            err.Error(),
		"current_status":    delivery.Status,
		"valid_next_states": statemachine.ValidDeliveryTransitionsFrom(delivery.Status),
	})
}
