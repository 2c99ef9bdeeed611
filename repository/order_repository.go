package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- writes ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

func (r *OrderRepository) CreateTracking(tx *gorm.DB, t *entity.OrderTracking) error {
	return tx.Create(t).Error
}

func (r *OrderRepository) SaveOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Save(o).Error
}

func (r *OrderRepository) SaveTracking(tx *gorm.DB, t *entity.OrderTracking) error {
	return tx.Save(t).Error
}

// ---------------- reads ----------------

func (r *OrderRepository) GetOrder(db *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := db.Preload("Tracking").First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderFull loads the order with items, tracking and restaurant, the shape
// returned from checkout and detail endpoints.
func (r *OrderRepository) GetOrderFull(db *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := db.
		Preload("Items").
		Preload("Tracking").
		Preload("Restaurant").
		First(&o, orderID).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderForUser(db *gorm.DB, userID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := db.
		Preload("Items").
		Preload("Tracking").
		Preload("Restaurant").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListOrdersForUser(db *gorm.DB, userID uint) ([]entity.Order, error) {
	var out []entity.Order
	err := db.
		Preload("Items").
		Preload("Tracking").
		Preload("Restaurant").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ---------------- catalog lookups ----------------

func (r *OrderRepository) GetMenuItem(db *gorm.DB, menuItemID uint) (*entity.MenuItem, error) {
	var m entity.MenuItem
	if err := db.First(&m, menuItemID).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
