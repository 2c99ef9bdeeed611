package entity

import (
	"gorm.io/gorm"
)

// CartItem carries no price of its own: the unit price is read live from the
// menu item until checkout snapshots it into an OrderItem.
type CartItem struct {
	gorm.Model
	CartID uint `json:"cartId"`
	Cart   Cart `json:"-"`

	MenuItemID uint     `json:"menuItemId"`
	MenuItem   MenuItem `json:"menuItem"`

	Qty  int    `json:"qty"`
	Note string `json:"note"`
}
