package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusReady          = "ready"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// Order is immutable after checkout except for the status-bearing fields,
// which change only through the status state machine.
type Order struct {
	gorm.Model
	OrderNumber string `gorm:"uniqueIndex;not null" json:"orderNumber"`

	UserID uint `gorm:"index" json:"userId"`
	User   User `json:"-"`

	RestaurantID uint       `gorm:"index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	Status string `gorm:"not null;default:pending" json:"status"`

	// amounts in cents
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"deliveryFee"`
	Tax         int64 `json:"tax"`
	Tip         int64 `json:"tip"`
	TotalAmount int64 `json:"totalAmount"`

	DeliveryAddress     string `json:"deliveryAddress"`
	PaymentMethod       string `json:"paymentMethod"`
	PaymentStatus       string `gorm:"default:pending" json:"paymentStatus"`
	SpecialInstructions string `json:"specialInstructions"`

	EstimatedDeliveryTime time.Time  `json:"estimatedDeliveryTime"`
	ActualDeliveryTime    *time.Time `json:"actualDeliveryTime"`

	Items    []OrderItem    `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Tracking *OrderTracking `json:"tracking" gorm:"foreignKey:OrderID"`
}
