package repository

import (
	"errors"

	"backend/entity"

	"gorm.io/gorm"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

// GetActiveCart returns the user's active cart with items and live menu data,
// or gorm.ErrRecordNotFound if none exists.
func (r *CartRepository) GetActiveCart(db *gorm.DB, userID uint) (*entity.Cart, error) {
	var c entity.Cart
	err := db.Where("user_id = ? AND status = ?", userID, entity.CartStatusActive).
		Preload("Items").
		Preload("Items.MenuItem").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreateActiveCart reuses the active cart or creates an empty one.
func (r *CartRepository) GetOrCreateActiveCart(db *gorm.DB, userID uint) (*entity.Cart, error) {
	c, err := r.GetActiveCart(db, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	fresh := entity.Cart{UserID: userID, Status: entity.CartStatusActive}
	if err := db.Create(&fresh).Error; err != nil {
		return nil, err
	}
	fresh.Items = []entity.CartItem{}
	return &fresh, nil
}

func (r *CartRepository) SetRestaurant(tx *gorm.DB, cartID, restaurantID uint) error {
	return tx.Model(&entity.Cart{}).Where("id = ?", cartID).
		Update("restaurant_id", restaurantID).Error
}

// FindItemByMenu looks up an existing line for the same menu item, used to
// merge quantities instead of creating duplicate lines.
func (r *CartRepository) FindItemByMenu(tx *gorm.DB, cartID, menuItemID uint) (*entity.CartItem, error) {
	var it entity.CartItem
	err := tx.Where("cart_id = ? AND menu_item_id = ?", cartID, menuItemID).First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *CartRepository) CreateItem(tx *gorm.DB, it *entity.CartItem) error {
	return tx.Create(it).Error
}

func (r *CartRepository) SaveItem(tx *gorm.DB, it *entity.CartItem) error {
	return tx.Save(it).Error
}

// FindOwnedItem resolves a cart item only if it belongs to the user's active
// cart.
func (r *CartRepository) FindOwnedItem(tx *gorm.DB, userID, itemID uint) (*entity.CartItem, error) {
	var it entity.CartItem
	err := tx.
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ? AND carts.status = ?",
			itemID, userID, entity.CartStatusActive).
		First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *CartRepository) RemoveItem(tx *gorm.DB, itemID uint) error {
	return tx.Delete(&entity.CartItem{}, itemID).Error
}

// CountItems counts the remaining lines of a cart.
func (r *CartRepository) CountItems(tx *gorm.DB, cartID uint) (int64, error) {
	var n int64
	err := tx.Model(&entity.CartItem{}).Where("cart_id = ?", cartID).Count(&n).Error
	return n, err
}

// ClearItems deletes every line and unbinds the restaurant so the next add
// can start a cart for any vendor. No-op when the user has no active cart.
func (r *CartRepository) ClearItems(tx *gorm.DB, userID uint) error {
	var c entity.Cart
	err := tx.Where("user_id = ? AND status = ?", userID, entity.CartStatusActive).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := tx.Where("cart_id = ?", c.ID).Delete(&entity.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Model(&entity.Cart{}).Where("id = ?", c.ID).Update("restaurant_id", 0).Error
}

// MarkConverted retires the cart after checkout. The next
// GetOrCreateActiveCart starts a fresh one.
func (r *CartRepository) MarkConverted(tx *gorm.DB, cartID uint) error {
	return tx.Model(&entity.Cart{}).Where("id = ?", cartID).
		Update("status", entity.CartStatusConverted).Error
}
