package entity

import (
	"time"

	"gorm.io/gorm"
)

// OrderTracking mirrors Order.Status and carries the delivery-progress
// fields. Mutated only by the status state machine, in lockstep with the
// order row.
type OrderTracking struct {
	gorm.Model
	OrderID uint `gorm:"uniqueIndex" json:"orderId"`

	Status string `json:"status"`

	DriverID    string `json:"driverId"`
	DriverName  string `json:"driverName"`
	DriverPhone string `json:"driverPhone"`

	DriverLat *float64 `json:"driverLat"`
	DriverLng *float64 `json:"driverLng"`

	EstimatedArrival time.Time `json:"estimatedArrival"`
}
