package entity

import (
	"gorm.io/gorm"
)

// OrderItem snapshots name and unit price at checkout; it is never re-read
// from the menu item afterwards.
type OrderItem struct {
	gorm.Model
	OrderID uint  `json:"orderId"`
	Order   Order `json:"-"`

	MenuItemID uint     `json:"menuItemId"`
	MenuItem   MenuItem `json:"-"`

	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Qty       int    `json:"qty"`
	Total     int64  `json:"total"`
	Note      string `json:"note"`
}
