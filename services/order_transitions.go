package services

import "backend/entity"

// Allowed status moves. The happy path advances one step at a time;
// cancelled is reachable from any non-terminal state. delivered and
// cancelled are terminal and admit nothing, including moves back out.
var orderTransitions = map[string][]string{
	entity.OrderStatusPending:        {entity.OrderStatusConfirmed, entity.OrderStatusCancelled},
	entity.OrderStatusConfirmed:      {entity.OrderStatusPreparing, entity.OrderStatusCancelled},
	entity.OrderStatusPreparing:      {entity.OrderStatusReady, entity.OrderStatusCancelled},
	entity.OrderStatusReady:          {entity.OrderStatusOutForDelivery, entity.OrderStatusCancelled},
	entity.OrderStatusOutForDelivery: {entity.OrderStatusDelivered, entity.OrderStatusCancelled},
	entity.OrderStatusDelivered:      {},
	entity.OrderStatusCancelled:      {},
}

func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
