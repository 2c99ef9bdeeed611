package entity

import (
	"gorm.io/gorm"
)

const (
	NotificationTypeOrderUpdate = "order_update"
	NotificationTypePromotion   = "promotion"
	NotificationTypeSystem      = "system"
)

type Notification struct {
	gorm.Model
	UserID uint `gorm:"index" json:"userId"`
	User   User `json:"-"`

	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `gorm:"default:system" json:"type"`

	// structured payload, JSON-encoded
	Data string `json:"data"`

	IsRead bool `gorm:"default:false" json:"isRead"`
}
