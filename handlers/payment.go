package handlers

import (
	"fmt"
	"net/http"

	"customworld-api/config"
	"customworld-api/middleware"
	"customworld-api/models"
	"customworld-api/payment"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SignatureHeader carries the gateway's webhook signature.
const SignatureHeader = "X-Webhook-Signature"

// Gateway is the payment gateway client used by the payment handlers.
// Built from config on first use; tests may inject their own.
var Gateway *payment.Client

func gateway() *payment.Client {
	if Gateway == nil {
		Gateway = payment.NewClient(
			config.C.PaymentAPIURL,
			config.C.PaymentAPIKey,
			config.C.PaymentSiteID,
			config.C.PaymentPrivateKey,
			config.C.PaymentNotifyURL,
			config.C.PaymentReturnURL,
			config.C.PaymentTimeout,
		)
	}
	return Gateway
}

type InitiatePaymentRequest struct {
	OrderID     uint   `json:"order_id" binding:"required"`
	Description string `json:"description"`
	Channel     string `json:"channel"`
}

// InitiatePayment opens a payment session at the gateway for an
// existing PENDING order. The order is created first (by order
// assembly) so the webhook can always find it by transaction id.
func InitiatePayment(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, req.OrderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if middleware.GetRole(c) != models.RoleAdmin && order.CustomerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}
	if order.Status != models.OrderPending {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Only PENDING orders can be paid",
			"current_status": order.Status,
		})
		return
	}

	var customer models.User
	if err := config.DB.First(&customer, order.CustomerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	result, err := gateway().Initiate(payment.InitiateRequest{
		TransactionID: order.TransactionID,
		Amount:        order.Amount.String(),
		Currency:      order.Currency,
		Description:   req.Description,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		Channel:       req.Channel,
	})
	if err != nil {
		// Transport failure: the order stays PENDING so the user can retry.
		log.WithError(err).WithField("order_id", order.ID).Error("payment initiation failed")
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Payment gateway unavailable"})
		return
	}
	if !result.Success {
		log.WithFields(log.Fields{"order_id": order.ID, "message": result.Message}).
			Warn("payment initiation refused by gateway")
		c.JSON(http.StatusBadRequest, result)
		return
	}

	log.WithFields(log.Fields{
		"order_id":       order.ID,
		"transaction_id": order.TransactionID,
		"reference":      result.Reference,
	}).Info("payment initiated")
	c.JSON(http.StatusOK, result)
}

// PaymentWebhook reconciles gateway events against orders. It never
// fails loudly to the gateway: every internal problem degrades to a
// logged no-op with a 200 acknowledgement, because the gateway treats
// non-2xx as "retry forever". The one exception is a bad signature
// under the strict policy.
func PaymentWebhook(c *gin.Context) {
	var notification map[string]interface{}
	if err := c.ShouldBindJSON(&notification); err != nil {
		log.WithError(err).Warn("webhook payload not parseable")
		c.String(http.StatusOK, "OK")
		return
	}

	if signature := c.GetHeader(SignatureHeader); signature != "" {
		reference := stringField(notification, "reference")
		event := stringField(notification, "event")
		amount := stringField(notification, "amount")
		if !gateway().VerifySignature(reference, event, amount, signature) {
			log.WithField("reference", reference).Warn("webhook signature mismatch")
			if config.C.PaymentStrictSignatures {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
				return
			}
			c.String(http.StatusOK, "OK")
			return
		}
	}

	transactionID := stringField(notification, "merchant_reference")
	event := stringField(notification, "event")
	if transactionID == "" || event == "" {
		log.Warn("webhook notification missing merchant_reference or event")
		c.String(http.StatusOK, "OK")
		return
	}

	var order models.Order
	if err := config.DB.Where("transaction_id = ?", transactionID).First(&order).Error; err != nil {
		log.WithField("transaction_id", transactionID).Warn("webhook for unknown transaction")
		c.String(http.StatusOK, "OK")
		return
	}

	switch event {
	case "payment.complete":
		// Replaying the same event against an order already PAID is a
		// harmless repeat of the status write.
		if err := config.DB.Model(&order).Update("status", models.OrderPaid).Error; err != nil {
			log.WithError(err).Error("failed to mark order PAID")
			break
		}
		log.WithFields(log.Fields{"transaction_id": transactionID, "order_id": order.ID}).
			Info("payment complete, order marked PAID")
	case "payment.failed":
		if err := config.DB.Model(&order).Update("status", models.OrderFailed).Error; err != nil {
			log.WithError(err).Error("failed to mark order FAILED")
			break
		}
		log.WithFields(log.Fields{"transaction_id": transactionID, "order_id": order.ID}).
			Warn("payment failed, order marked FAILED")
	default:
		log.WithFields(log.Fields{"transaction_id": transactionID, "event": event}).
			Warn("unhandled webhook event")
	}

	c.String(http.StatusOK, "OK")
}

// stringField renders a notification field as the gateway signed it,
// whatever JSON type it arrived as.
func stringField(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
