package services_test

import (
	"testing"

	"backend/entity"
	"backend/repository"
	"backend/services"

	"github.com/stretchr/testify/assert"
)

type recordingNotifier struct {
	newOrders     []*entity.Order
	statusUpdates []*entity.Order
}

func (r *recordingNotifier) NotifyNewOrder(o *entity.Order)          { r.newOrders = append(r.newOrders, o) }
func (r *recordingNotifier) NotifyOrderStatusUpdate(o *entity.Order) { r.statusUpdates = append(r.statusUpdates, o) }

func newOrderService(t *testing.T, f *fixture) (*services.OrderService, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	svc := services.NewOrderService(
		f.db,
		repository.NewOrderRepository(f.db),
		repository.NewCartRepository(f.db),
		repository.NewRestaurantRepository(f.db),
		f.carts,
		notifier,
		299, // default delivery fee
		10,  // tax rate %
	)
	return svc, notifier
}

func checkoutReq() *services.CheckoutReq {
	return &services.CheckoutReq{
		DeliveryAddress: "123 Main St",
		PaymentMethod:   "credit_card",
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	orders, _ := newOrderService(t, f)

	// no cart at all
	_, err := orders.Checkout(userID, checkoutReq())
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	// cart exists but has no items
	_, _, _ = f.carts.Get(userID)
	_, err = orders.Checkout(userID, checkoutReq())
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	var n int64
	f.db.Model(&entity.Order{}).Count(&n)
	assert.EqualValues(t, 0, n)
}

func TestCheckoutArithmeticAndSnapshot(t *testing.T) {
	f := newFixture(t)
	orders, notifier := newOrderService(t, f)

	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.burger.ID, Qty: 1}))
	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.pizza.ID, Qty: 2, Note: "extra basil"}))

	o, err := orders.Checkout(userID, checkoutReq())
	assert.NoError(t, err)

	// 1499 + 2*1599 = 4697; tax 10% of 4697 = 469.7 rounds half up to 470
	assert.EqualValues(t, 4697, o.Subtotal)
	assert.EqualValues(t, 299, o.DeliveryFee)
	assert.EqualValues(t, 470, o.Tax)
	assert.EqualValues(t, 0, o.Tip)
	assert.EqualValues(t, 4697+299+470, o.TotalAmount)

	assert.Equal(t, entity.OrderStatusPending, o.Status)
	assert.Equal(t, "pending", o.PaymentStatus)
	assert.NotEmpty(t, o.OrderNumber)
	assert.Nil(t, o.ActualDeliveryTime)
	assert.False(t, o.EstimatedDeliveryTime.IsZero())

	// items are snapshotted from the cart
	assert.Len(t, o.Items, 2)
	byName := map[string]entity.OrderItem{}
	for _, it := range o.Items {
		byName[it.Name] = it
	}
	assert.EqualValues(t, 1499, byName["Classic Burger"].UnitPrice)
	assert.Equal(t, 2, byName["Margherita"].Qty)
	assert.Equal(t, "extra basil", byName["Margherita"].Note)

	// tracking created in lockstep
	assert.NotNil(t, o.Tracking)
	assert.Equal(t, entity.OrderStatusPending, o.Tracking.Status)
	assert.False(t, o.Tracking.EstimatedArrival.IsZero())

	// source cart is converted and a fresh one starts empty
	cart, subtotal, err := f.carts.Get(userID)
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.EqualValues(t, 0, subtotal)

	assert.Len(t, notifier.newOrders, 1)
	assert.Equal(t, o.ID, notifier.newOrders[0].ID)
}

func TestCheckoutTipAndCustomFee(t *testing.T) {
	f := newFixture(t)
	orders, _ := newOrderService(t, f)

	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.burger.ID, Qty: 1}))

	fee := int64(0)
	req := checkoutReq()
	req.DeliveryFee = &fee
	req.Tip = 200
	req.PaymentStatus = "paid"

	o, err := orders.Checkout(userID, req)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, o.DeliveryFee)
	assert.EqualValues(t, 200, o.Tip)
	assert.Equal(t, "paid", o.PaymentStatus)
	// 1499 + 0 + 150 (tax, 149.9 rounded up) + 200
	assert.EqualValues(t, 1499+150+200, o.TotalAmount)
}

func TestCheckoutRetryIsIdempotent(t *testing.T) {
	f := newFixture(t)
	orders, _ := newOrderService(t, f)

	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.burger.ID, Qty: 1}))

	_, err := orders.Checkout(userID, checkoutReq())
	assert.NoError(t, err)

	// retrying against the now-converted cart must not duplicate the order
	_, err = orders.Checkout(userID, checkoutReq())
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	var n int64
	f.db.Model(&entity.Order{}).Count(&n)
	assert.EqualValues(t, 1, n)
}

func TestOrderItemsNotLiveLinkedToMenu(t *testing.T) {
	f := newFixture(t)
	orders, _ := newOrderService(t, f)

	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.burger.ID, Qty: 1}))
	o, err := orders.Checkout(userID, checkoutReq())
	assert.NoError(t, err)

	// price change after checkout must not leak into the order
	f.db.Model(&entity.MenuItem{}).Where("id = ?", f.burger.ID).Update("price", 9999)

	got, err := orders.DetailForUser(userID, o.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 1499, got.Items[0].UnitPrice)
	assert.Equal(t, o.TotalAmount, got.TotalAmount)
}

func placeOrder(t *testing.T, f *fixture, orders *services.OrderService) *entity.Order {
	t.Helper()
	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.burger.ID, Qty: 1}))
	o, err := orders.Checkout(userID, checkoutReq())
	assert.NoError(t, err)
	return o
}

func TestUpdateStatusWalksToDelivered(t *testing.T) {
	f := newFixture(t)
	orders, notifier := newOrderService(t, f)
	o := placeOrder(t, f, orders)

	owner := f.restaurantA.UserID
	steps := []string{
		entity.OrderStatusConfirmed,
		entity.OrderStatusPreparing,
		entity.OrderStatusReady,
		entity.OrderStatusOutForDelivery,
	}
	for _, status := range steps {
		got, err := orders.UpdateStatus(owner, "owner", o.ID, &services.UpdateStatusReq{Status: status})
		assert.NoError(t, err)
		assert.Equal(t, status, got.Status)
		assert.Equal(t, status, got.Tracking.Status)
		// only delivered stamps the delivery time
		assert.Nil(t, got.ActualDeliveryTime)
	}

	lat, lng := 40.7128, -74.006
	got, err := orders.UpdateStatus(owner, "owner", o.ID, &services.UpdateStatusReq{
		Status:      entity.OrderStatusDelivered,
		DriverID:    "drv-7",
		DriverName:  "Alex",
		DriverPhone: "+1234567890",
		DriverLat:   &lat,
		DriverLng:   &lng,
	})
	assert.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, got.Status)
	assert.NotNil(t, got.ActualDeliveryTime)
	assert.Equal(t, "Alex", got.Tracking.DriverName)
	assert.Equal(t, lat, *got.Tracking.DriverLat)

	assert.Len(t, notifier.statusUpdates, len(steps)+1)
}

func TestUpdateStatusRejectsInvalidTransitions(t *testing.T) {
	f := newFixture(t)
	orders, _ := newOrderService(t, f)
	o := placeOrder(t, f, orders)
	owner := f.restaurantA.UserID

	// skipping ahead
	_, err := orders.UpdateStatus(owner, "owner", o.ID, &services.UpdateStatusReq{Status: entity.OrderStatusDelivered})
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	// cancellation is open from any non-terminal state, and terminal
	_, err = orders.UpdateStatus(owner, "owner", o.ID, &services.UpdateStatusReq{Status: entity.OrderStatusCancelled})
	assert.NoError(t, err)

	// no way back out of a terminal state
	_, err = orders.UpdateStatus(owner, "owner", o.ID, &services.UpdateStatusReq{Status: entity.OrderStatusPending})
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestUpdateStatusAuthorization(t *testing.T) {
	f := newFixture(t)
	orders, _ := newOrderService(t, f)
	o := placeOrder(t, f, orders)

	// owner of the other restaurant
	_, err := orders.UpdateStatus(f.restaurantB.UserID, "owner", o.ID, &services.UpdateStatusReq{Status: entity.OrderStatusConfirmed})
	assert.ErrorIs(t, err, services.ErrForbidden)

	// admin may touch any order
	_, err = orders.UpdateStatus(42, "admin", o.ID, &services.UpdateStatusReq{Status: entity.OrderStatusConfirmed})
	assert.NoError(t, err)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	f := newFixture(t)
	orders, _ := newOrderService(t, f)

	_, err := orders.UpdateStatus(1, "admin", 9999, &services.UpdateStatusReq{Status: entity.OrderStatusConfirmed})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestStatusUpdateWritesUserNotification(t *testing.T) {
	f := newFixture(t)
	orders, _ := newOrderService(t, f)
	orders.Notifications = services.NewNotificationService(repository.NewNotificationRepository(f.db), nil)

	o := placeOrder(t, f, orders)
	_, err := orders.UpdateStatus(f.restaurantA.UserID, "owner", o.ID, &services.UpdateStatusReq{Status: entity.OrderStatusConfirmed})
	assert.NoError(t, err)

	var notifs []entity.Notification
	f.db.Where("user_id = ?", userID).Find(&notifs)
	assert.Len(t, notifs, 1)
	assert.Equal(t, "Order Confirmed", notifs[0].Title)
	assert.Equal(t, entity.NotificationTypeOrderUpdate, notifs[0].Type)
}

func TestTrackView(t *testing.T) {
	f := newFixture(t)
	orders, _ := newOrderService(t, f)
	o := placeOrder(t, f, orders)

	view, err := orders.Track(userID, o.ID)
	assert.NoError(t, err)
	assert.Equal(t, o.ID, view.OrderID)
	assert.Equal(t, o.OrderNumber, view.OrderNumber)
	assert.Equal(t, "Burger Barn", view.Restaurant.Name)
	assert.NotNil(t, view.Tracking)

	// other users cannot track it
	_, err = orders.Track(2, o.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
