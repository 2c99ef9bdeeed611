package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"backend/entity"
	"backend/repository"

	"gorm.io/gorm"
)

const deliveryWindow = 45 * time.Minute

// OrderNotifier is the fanout gateway as the order service sees it. Calls
// happen after the write has committed; delivery failures never surface to
// the HTTP caller.
type OrderNotifier interface {
	NotifyNewOrder(o *entity.Order)
	NotifyOrderStatusUpdate(o *entity.Order)
}

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	CartRepo *repository.CartRepository
	RestRepo *repository.RestaurantRepository
	Carts    *CartService
	Notifier OrderNotifier

	// optional; when set, every status change also lands in the user's inbox
	Notifications *NotificationService

	// checkout defaults, in cents
	DefaultDeliveryFee int64
	TaxRatePct         int64
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	cartRepo *repository.CartRepository,
	restRepo *repository.RestaurantRepository,
	carts *CartService,
	notifier OrderNotifier,
	defaultDeliveryFee int64,
	taxRatePct int64,
) *OrderService {
	return &OrderService{
		DB:                 db,
		Repo:               repo,
		CartRepo:           cartRepo,
		RestRepo:           restRepo,
		Carts:              carts,
		Notifier:           notifier,
		DefaultDeliveryFee: defaultDeliveryFee,
		TaxRatePct:         taxRatePct,
	}
}

type CheckoutReq struct {
	DeliveryAddress     string `json:"deliveryAddress" binding:"required"`
	PaymentMethod       string `json:"paymentMethod" binding:"required"`
	PaymentStatus       string `json:"paymentStatus"`
	DeliveryFee         *int64 `json:"deliveryFee"`
	Tip                 int64  `json:"tip"`
	SpecialInstructions string `json:"specialInstructions"`
}

// taxFor rounds half up: tax = subtotal * rate%, in cents.
func (s *OrderService) taxFor(subtotal int64) int64 {
	return (subtotal*s.TaxRatePct + 50) / 100
}

func newOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%d", time.Now().UnixMilli(), rand.Intn(1000))
}

// Checkout converts the active cart into an immutable order. Order, items
// (name/price snapshotted), tracking and the cart conversion commit as one
// transaction, so a retry after success sees an empty cart and fails with
// ErrEmptyCart instead of double-ordering.
func (s *OrderService) Checkout(userID uint, req *CheckoutReq) (*entity.Order, error) {
	defer s.Carts.LockUser(userID)()

	var orderID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := s.CartRepo.GetActiveCart(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		subtotal := ComputeSubtotal(cart)
		deliveryFee := s.DefaultDeliveryFee
		if req.DeliveryFee != nil {
			deliveryFee = *req.DeliveryFee
		}
		tax := s.taxFor(subtotal)
		total := subtotal + deliveryFee + tax + req.Tip

		paymentStatus := req.PaymentStatus
		if paymentStatus == "" {
			paymentStatus = "pending"
		}

		eta := time.Now().Add(deliveryWindow)
		order := entity.Order{
			OrderNumber:           newOrderNumber(),
			UserID:                userID,
			RestaurantID:          cart.RestaurantID,
			Status:                entity.OrderStatusPending,
			Subtotal:              subtotal,
			DeliveryFee:           deliveryFee,
			Tax:                   tax,
			Tip:                   req.Tip,
			TotalAmount:           total,
			DeliveryAddress:       req.DeliveryAddress,
			PaymentMethod:         req.PaymentMethod,
			PaymentStatus:         paymentStatus,
			SpecialInstructions:   req.SpecialInstructions,
			EstimatedDeliveryTime: eta,
		}
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}

		for _, it := range cart.Items {
			oi := entity.OrderItem{
				OrderID:    order.ID,
				MenuItemID: it.MenuItemID,
				Name:       it.MenuItem.Name,
				UnitPrice:  it.MenuItem.Price,
				Qty:        it.Qty,
				Total:      it.MenuItem.Price * int64(it.Qty),
				Note:       it.Note,
			}
			if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
				return err
			}
		}

		tracking := entity.OrderTracking{
			OrderID:          order.ID,
			Status:           entity.OrderStatusPending,
			EstimatedArrival: eta,
		}
		if err := s.Repo.CreateTracking(tx, &tracking); err != nil {
			return err
		}

		if err := s.CartRepo.MarkConverted(tx, cart.ID); err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	full, err := s.Repo.GetOrderFull(s.DB, orderID)
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyNewOrder(full)
	}
	return full, nil
}

// ----- status state machine -----

type UpdateStatusReq struct {
	Status           string     `json:"status" binding:"required"`
	DriverID         string     `json:"driverId"`
	DriverName       string     `json:"driverName"`
	DriverPhone      string     `json:"driverPhone"`
	DriverLat        *float64   `json:"driverLat"`
	DriverLng        *float64   `json:"driverLng"`
	EstimatedArrival *time.Time `json:"estimatedArrival"`
}

// UpdateStatus applies a validated transition to the order and its tracking
// row atomically. Reaching delivered stamps the actual delivery time.
// Restaurant owners may only touch their own orders; admins may touch any.
func (s *OrderService) UpdateStatus(actorID uint, role string, orderID uint, req *UpdateStatusReq) (*entity.Order, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.GetOrder(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if role != "admin" {
			owned, err := s.RestRepo.IsOwnedBy(o.RestaurantID, actorID)
			if err != nil {
				return err
			}
			if !owned {
				return ErrForbidden
			}
		}

		if !CanTransition(o.Status, req.Status) {
			return ErrInvalidTransition
		}

		o.Status = req.Status
		if req.Status == entity.OrderStatusDelivered {
			now := time.Now()
			o.ActualDeliveryTime = &now
		}
		if err := s.Repo.SaveOrder(tx, o); err != nil {
			return err
		}

		t := o.Tracking
		if t == nil {
			t = &entity.OrderTracking{OrderID: o.ID}
		}
		t.Status = req.Status
		if req.DriverID != "" {
			t.DriverID = req.DriverID
		}
		if req.DriverName != "" {
			t.DriverName = req.DriverName
		}
		if req.DriverPhone != "" {
			t.DriverPhone = req.DriverPhone
		}
		if req.DriverLat != nil {
			t.DriverLat = req.DriverLat
		}
		if req.DriverLng != nil {
			t.DriverLng = req.DriverLng
		}
		if req.EstimatedArrival != nil {
			t.EstimatedArrival = *req.EstimatedArrival
		}
		return s.Repo.SaveTracking(tx, t)
	})
	if err != nil {
		return nil, err
	}

	full, err := s.Repo.GetOrderFull(s.DB, orderID)
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyOrderStatusUpdate(full)
	}
	if s.Notifications != nil {
		if _, err := s.Notifications.CreateOrderStatusNotification(full.UserID, full.ID, full.OrderNumber, full.Status); err != nil {
			log.Printf("order %d: status notification failed: %v", full.ID, err)
		}
	}
	return full, nil
}

// ----- reads -----

func (s *OrderService) ListForUser(userID uint) ([]entity.Order, error) {
	return s.Repo.ListOrdersForUser(s.DB, userID)
}

func (s *OrderService) DetailForUser(userID, orderID uint) (*entity.Order, error) {
	o, err := s.Repo.GetOrderForUser(s.DB, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

type TrackingView struct {
	OrderID               uint                  `json:"orderId"`
	OrderNumber           string                `json:"orderNumber"`
	Status                string                `json:"status"`
	Tracking              *entity.OrderTracking `json:"tracking"`
	EstimatedDeliveryTime time.Time             `json:"estimatedDeliveryTime"`
	ActualDeliveryTime    *time.Time            `json:"actualDeliveryTime"`
	Restaurant            TrackingRestaurant    `json:"restaurant"`
}

type TrackingRestaurant struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Track is the pull-based read reconnecting clients reconcile with after
// missed realtime events.
func (s *OrderService) Track(userID, orderID uint) (*TrackingView, error) {
	o, err := s.DetailForUser(userID, orderID)
	if err != nil {
		return nil, err
	}
	return &TrackingView{
		OrderID:               o.ID,
		OrderNumber:           o.OrderNumber,
		Status:                o.Status,
		Tracking:              o.Tracking,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		ActualDeliveryTime:    o.ActualDeliveryTime,
		Restaurant: TrackingRestaurant{
			ID:      o.Restaurant.ID,
			Name:    o.Restaurant.Name,
			Address: o.Restaurant.Address,
			Phone:   o.Restaurant.Phone,
		},
	}, nil
}
