package entity

import (
	"gorm.io/gorm"
)

const (
	CartStatusActive    = "active"
	CartStatusConverted = "converted"
)

// Cart is the mutable pre-order basket. A user has at most one active cart;
// converted carts are kept as history of past checkouts.
type Cart struct {
	gorm.Model
	UserID uint `gorm:"index" json:"userId"`
	User   User `json:"-"`

	// 0 until the first item binds the cart to a restaurant
	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	Status string `gorm:"not null;default:active" json:"status"`

	Items []CartItem `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
