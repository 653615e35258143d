package statemachine

import (
	"fmt"

	"customworld-api/models"
)

// orderTransitions is the authoritative order state machine. It covers
// the caller-driven transitions only: PAID and FAILED are written by
// payment reconciliation, which records an external fact instead of
// asking permission, and so has no row here as a source of a user move
// into them.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderConfirmed, models.OrderInProgress, models.OrderCancelled, models.OrderFailed},
	models.OrderPaid:       {models.OrderConfirmed, models.OrderInProgress},
	models.OrderConfirmed:  {models.OrderInProgress, models.OrderCancelled},
	models.OrderInProgress: {models.OrderCompleted, models.OrderCancelled},
	models.OrderCompleted:  {models.OrderShipped},
	models.OrderShipped:    {models.OrderDelivered},
}

// ValidOrderTransitionsFrom returns all valid next statuses from a given status.
func ValidOrderTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	return orderTransitions[status]
}

// CanTransitionOrder checks whether an order may move from one status to
// another. The error names the attempted pair.
func CanTransitionOrder(from, to models.OrderStatus) error {
	for _, next := range orderTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("order transition %s -> %s is not allowed (valid: %s)",
		from, to, describe(orderTransitions[from]))
}

func describe(statuses []models.OrderStatus) string {
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
