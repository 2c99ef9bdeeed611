package ws

import (
	"context"

	"backend/broker"
	"backend/entity"
)

// Fanout methods: deliver to the local rooms, then republish on the broker
// so instances holding the other relevant connections deliver too. Delivery
// is at-most-once to currently-connected clients; a room with no
// connections is a silent no-op and nothing is queued for later.

func (h *Hub) NotifyNewOrder(o *entity.Order) {
	h.emitNewOrder(o)
	h.broker.Publish(context.Background(), broker.ChannelNewOrder, o)
}

func (h *Hub) NotifyOrderStatusUpdate(o *entity.Order) {
	h.emitOrderStatusUpdate(o)
	h.broker.Publish(context.Background(), broker.ChannelOrderStatusUpdate, o)
}

func (h *Hub) SendNotification(userID uint, n *entity.Notification) {
	h.emitNotification(userID, n)
	h.broker.Publish(context.Background(), broker.ChannelNotifications, n)
}

// ----- local emits, also invoked for events from other instances -----

func (h *Hub) emitNewOrder(o *entity.Order) {
	// vendor gets the order summary
	h.emit(RestaurantRoom(o.RestaurantID), "new-order", map[string]any{
		"orderId":     o.ID,
		"orderNumber": o.OrderNumber,
		"items":       o.Items,
		"totalAmount": o.TotalAmount,
		"createdAt":   o.CreatedAt,
	})

	// customer gets the confirmation
	h.emit(UserRoom(o.UserID), "order-created", map[string]any{
		"orderId":               o.ID,
		"orderNumber":           o.OrderNumber,
		"status":                o.Status,
		"estimatedDeliveryTime": o.EstimatedDeliveryTime,
	})
}

func (h *Hub) emitOrderStatusUpdate(o *entity.Order) {
	h.emit(UserRoom(o.UserID), "order-status-update", map[string]any{
		"orderId":               o.ID,
		"orderNumber":           o.OrderNumber,
		"status":                o.Status,
		"tracking":              o.Tracking,
		"estimatedDeliveryTime": o.EstimatedDeliveryTime,
		"actualDeliveryTime":    o.ActualDeliveryTime,
	})

	h.emit(RestaurantRoom(o.RestaurantID), "order-status-update", map[string]any{
		"orderId":     o.ID,
		"orderNumber": o.OrderNumber,
		"status":      o.Status,
	})
}

func (h *Hub) emitNotification(userID uint, n *entity.Notification) {
	h.emit(UserRoom(userID), "notification", n)
}
