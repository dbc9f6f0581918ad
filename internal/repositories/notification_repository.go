package repositories

import (
	"fmt"
	"log"

	"essence/internal/models"
	"essence/pkg/kvstore"
)

// NotificationRepository persists per-user notification lists.
type NotificationRepository interface {
	Notifications(userID string) []models.Notification
	SaveNotifications(userID string, notifications []models.Notification) error
}

// KVNotificationRepository is the kv-store implementation of
// NotificationRepository.
type KVNotificationRepository struct {
	store kvstore.Store
}

// NewNotificationRepository creates a KVNotificationRepository over
// store.
func NewNotificationRepository(store kvstore.Store) *KVNotificationRepository {
	return &KVNotificationRepository{store: store}
}

// Notifications returns the stored notifications for userID.
func (r *KVNotificationRepository) Notifications(userID string) []models.Notification {
	var notifications []models.Notification
	if _, err := kvstore.GetJSON(r.store, NotificationsKey(userID), &notifications); err != nil {
		log.Printf("notifications: stored value for user %s unreadable: %v", userID, err)
		return nil
	}
	return notifications
}

// SaveNotifications replaces the stored notifications for userID.
func (r *KVNotificationRepository) SaveNotifications(userID string, notifications []models.Notification) error {
	if err := kvstore.SetJSON(r.store, NotificationsKey(userID), notifications); err != nil {
		return fmt.Errorf("failed to save notifications for user %s: %w", userID, err)
	}
	return nil
}
