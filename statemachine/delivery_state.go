package statemachine

import (
	"fmt"

	"customworld-api/models"
)

// deliveryTransitions is the delivery adjacency graph. DELIVERED,
// CANCELLED and ISSUE_REPORTED are terminal.
var deliveryTransitions = map[models.DeliveryStatus][]models.DeliveryStatus{
	models.DeliveryPending:    {models.DeliveryAssigned, models.DeliveryCancelled},
	models.DeliveryAssigned:   {models.DeliveryInProgress, models.DeliveryCancelled},
	models.DeliveryInProgress: {models.DeliveryDelivered, models.DeliveryIssueReported},
}

// ValidDeliveryTransitionsFrom returns all valid next statuses from a given status.
func ValidDeliveryTransitionsFrom(status models.DeliveryStatus) []models.DeliveryStatus {
	return deliveryTransitions[status]
}

// CanTransitionDelivery checks whether a delivery may move from one
// status to another. The error names the attempted pair.
func CanTransitionDelivery(from, to models.DeliveryStatus) error {
	for _, next := range deliveryTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("delivery transition %s -> %s is not allowed (valid: %s)",
		from, to, describeDelivery(deliveryTransitions[from]))
}

func describeDelivery(statuses []models.DeliveryStatus) string {
	if len(statuses) == 0 {
		return "none, terminal state"
	}
	s := ""
	for i, st := range statuses {
		if i > 0 {
			s += ", "
		}
		s += string(st)
	}
	return s
}
