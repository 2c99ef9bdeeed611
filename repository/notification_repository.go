package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type NotificationRepository struct{ DB *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(n *entity.Notification) error {
	return r.DB.Create(n).Error
}

func (r *NotificationRepository) ListForUser(userID uint) ([]entity.Notification, error) {
	var out []entity.Notification
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// MarkAsRead flips the flag only when the row belongs to the user; returns
// the number of rows touched so the service can report NotFound.
func (r *NotificationRepository) MarkAsRead(userID, id uint) (int64, error) {
	res := r.DB.Model(&entity.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) MarkAllAsRead(userID uint) error {
	return r.DB.Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *NotificationRepository) Remove(userID, id uint) (int64, error) {
	res := r.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.Notification{})
	return res.RowsAffected, res.Error
}
