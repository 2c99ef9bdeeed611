package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `gorm:"not null;default:customer" json:"role"`

	// preload only when needed
	Orders        []Order        `json:"-"`
	Carts         []Cart         `json:"-"`
	Notifications []Notification `json:"-"`
	Restaurants   []Restaurant   `gorm:"foreignKey:UserID" json:"-"`
}
