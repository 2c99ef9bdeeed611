package services

import (
	"encoding/json"
	"fmt"

	"backend/entity"
	"backend/repository"
)

// NotificationSender delivers a persisted notification to the user's live
// connections. Fire-and-forget; the row is already committed.
type NotificationSender interface {
	SendNotification(userID uint, n *entity.Notification)
}

type NotificationService struct {
	Repo   *repository.NotificationRepository
	Sender NotificationSender
}

func NewNotificationService(repo *repository.NotificationRepository, sender NotificationSender) *NotificationService {
	return &NotificationService{Repo: repo, Sender: sender}
}

// Create persists the notification, then pushes it to the user's room.
func (s *NotificationService) Create(userID uint, title, message, ntype string, data any) (*entity.Notification, error) {
	var payload string
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		payload = string(b)
	}

	n := &entity.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    ntype,
		Data:    payload,
	}
	if err := s.Repo.Create(n); err != nil {
		return nil, err
	}

	if s.Sender != nil {
		s.Sender.SendNotification(userID, n)
	}
	return n, nil
}

func (s *NotificationService) ListForUser(userID uint) ([]entity.Notification, error) {
	return s.Repo.ListForUser(userID)
}

func (s *NotificationService) MarkAsRead(userID, id uint) error {
	n, err := s.Repo.MarkAsRead(userID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(userID uint) error {
	return s.Repo.MarkAllAsRead(userID)
}

func (s *NotificationService) Remove(userID, id uint) error {
	n, err := s.Repo.Remove(userID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// OrderStatusTitleMessage maps a status to the user-facing copy. Unknown
// statuses fall back to a generic template instead of failing.
func OrderStatusTitleMessage(orderNumber, status string) (string, string) {
	switch status {
	case entity.OrderStatusConfirmed:
		return "Order Confirmed", fmt.Sprintf("Your order #%s has been confirmed and is being prepared.", orderNumber)
	case entity.OrderStatusPreparing:
		return "Order Being Prepared", fmt.Sprintf("Your order #%s is now being prepared.", orderNumber)
	case entity.OrderStatusReady:
		return "Order Ready", fmt.Sprintf("Your order #%s is ready for pickup/delivery.", orderNumber)
	case entity.OrderStatusOutForDelivery:
		return "Order Out for Delivery", fmt.Sprintf("Your order #%s is on its way to you.", orderNumber)
	case entity.OrderStatusDelivered:
		return "Order Delivered", fmt.Sprintf("Your order #%s has been delivered. Enjoy!", orderNumber)
	case entity.OrderStatusCancelled:
		return "Order Cancelled", fmt.Sprintf("Your order #%s has been cancelled.", orderNumber)
	default:
		return "Order Update", fmt.Sprintf("Your order #%s status has been updated to %s.", orderNumber, status)
	}
}

// CreateOrderStatusNotification is the helper the status state machine uses
// after every transition.
func (s *NotificationService) CreateOrderStatusNotification(userID, orderID uint, orderNumber, status string) (*entity.Notification, error) {
	title, message := OrderStatusTitleMessage(orderNumber, status)
	return s.Create(userID, title, message, entity.NotificationTypeOrderUpdate, map[string]any{
		"orderId":     orderID,
		"orderNumber": orderNumber,
		"status":      status,
	})
}

func (s *NotificationService) CreatePromotionNotification(userID, promotionID uint, title, description string) (*entity.Notification, error) {
	return s.Create(userID, title, description, entity.NotificationTypePromotion, map[string]any{
		"promotionId": promotionID,
	})
}
