package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"customworld-api/config"
	"customworld-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deliveryRouter(delivererID uint) *gin.Engine {
	r := gin.New()
	g := r.Group("/api/delivery", asUser(delivererID, models.RoleDelivery))
	g.GET("/assignments", GetMyDeliveries)
	g.GET("/history", GetDeliveryHistory)
	g.PUT("/assignments/:id/accept", AcceptDelivery)
	g.PUT("/assignments/:id/start", StartDelivery)
	g.PUT("/assignments/:id/complete", CompleteDelivery)
	g.PUT("/assignments/:id/issue", ReportIssue)
	return r
}

func seedDelivery(t *testing.T, orderID, delivererID uint, status models.DeliveryStatus) models.Delivery {
	t.Helper()
	delivery := models.Delivery{
		OrderID:     orderID,
		DelivererID: delivererID,
		Status:      status,
	}
	require.NoError(t, config.DB.Create(&delivery).Error)
	return delivery
}

func TestDeliveryLifecycle(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	deliverer := createUser(t, models.RoleDelivery)
	order := seedOrder(t, customer.ID, models.OrderInProgress)
	delivery := seedDelivery(t, order.ID, deliverer.ID, models.DeliveryPending)
	r := deliveryRouter(deliverer.ID)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/delivery/assignments/%d/accept", delivery.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/delivery/assignments/%d/start", delivery.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/delivery/assignments/%d/complete", delivery.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	config.DB.First(&delivery, delivery.ID)
	assert.Equal(t, models.DeliveryDelivered, delivery.Status)
	require.NotNil(t, delivery.DeliveredAt)
}

func TestAssignedCannotJumpToDelivered(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	deliverer := createUser(t, models.RoleDelivery)
	order := seedOrder(t, customer.ID, models.OrderInProgress)
	delivery := seedDelivery(t, order.ID, deliverer.ID, models.DeliveryAssigned)
	r := deliveryRouter(deliverer.ID)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/delivery/assignments/%d/complete", delivery.ID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decodeBody(t, w)
	assert.Contains(t, body["reason"], "ASSIGNED")
	assert.Contains(t, body["reason"], "DELIVERED")

	config.DB.First(&delivery, delivery.ID)
	assert.Equal(t, models.DeliveryAssigned, delivery.Status)
}

func TestAcceptRequiresPending(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	deliverer := createUser(t, models.RoleDelivery)
	order := seedOrder(t, customer.ID, models.OrderInProgress)
	delivery := seedDelivery(t, order.ID, deliverer.ID, models.DeliveryInProgress)
	r := deliveryRouter(deliverer.ID)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/delivery/assignments/%d/accept", delivery.ID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestReportIssueOnlyFromActiveStates(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	deliverer := createUser(t, models.RoleDelivery)
	r := deliveryRouter(deliverer.ID)

	active := seedDelivery(t, seedOrder(t, customer.ID, models.OrderInProgress).ID,
		deliverer.ID, models.DeliveryAssigned)
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/delivery/assignments/%d/issue", active.ID),
		gin.H{"issue": "package damaged in transit"})
	require.Equal(t, http.StatusOK, w.Code)

	config.DB.First(&active, active.ID)
	assert.Equal(t, models.DeliveryIssueReported, active.Status)
	assert.Equal(t, "package damaged in transit", active.IssueDescription)

	done := seedDelivery(t, seedOrder(t, customer.ID, models.OrderDelivered).ID,
		deliverer.ID, models.DeliveryDelivered)
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/delivery/assignments/%d/issue", done.ID),
		gin.H{"issue": "too late"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDeliveryOwnershipEnforced(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	owner := createUser(t, models.RoleDelivery)
	intruder := createUser(t, models.RoleDelivery)
	order := seedOrder(t, customer.ID, models.OrderInProgress)
	delivery := seedDelivery(t, order.ID, owner.ID, models.DeliveryAssigned)

	w := doJSON(t, deliveryRouter(intruder.ID), http.MethodPut,
		fmt.Sprintf("/api/delivery/assignments/%d/start", delivery.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, deliveryRouter(owner.ID), http.MethodPut,
		"/api/delivery/assignments/9999/start", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAssignmentsAndFilter(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	deliverer := createUser(t, models.RoleDelivery)
	other := createUser(t, models.RoleDelivery)

	seedDelivery(t, seedOrder(t, customer.ID, models.OrderInProgress).ID,
		deliverer.ID, models.DeliveryAssigned)
	seedDelivery(t, seedOrder(t, customer.ID, models.OrderInProgress).ID,
		deliverer.ID, models.DeliveryInProgress)
	seedDelivery(t, seedOrder(t, customer.ID, models.OrderInProgress).ID,
		other.ID, models.DeliveryAssigned)
	r := deliveryRouter(deliverer.ID)

	w := doJSON(t, r, http.MethodGet, "/api/delivery/assignments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decodeBody(t, w)["count"])

	w = doJSON(t, r, http.MethodGet, "/api/delivery/assignments?status=ASSIGNED", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["count"])
}

func TestDeliveryHistoryListsCompletedOnly(t *testing.T) {
	setupTest(t)
	customer := createUser(t, models.RoleCustomer)
	deliverer := createUser(t, models.RoleDelivery)
	r := deliveryRouter(deliverer.ID)

	inFlight := seedDelivery(t, seedOrder(t, customer.ID, models.OrderInProgress).ID,
		deliverer.ID, models.DeliveryPending)
	doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/delivery/assignments/%d/accept", inFlight.ID), nil)
	doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/delivery/assignments/%d/start", inFlight.ID), nil)
	doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/delivery/assignments/%d/complete", inFlight.ID), nil)

	seedDelivery(t, seedOrder(t, customer.ID, models.OrderInProgress).ID,
		deliverer.ID, models.DeliveryAssigned)

	w := doJSON(t, r, http.MethodGet, "/api/delivery/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["count"])
}
