package services

import (
	"log"
	"time"

	"essence/internal/models"
	"essence/internal/repositories"
	"essence/pkg/kvstore"

	"github.com/google/uuid"
)

// NotificationService maintains per-user notification lists. It
// listens on the store's change feed: a write to a user's order list
// produces an "order received" notification for that user, replacing
// the storage polling the original storefront used for the same
// purpose.
type NotificationService struct {
	repo repositories.NotificationRepository
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Attach subscribes the service to store's change feed.
func (s *NotificationService) Attach(store kvstore.Store) {
	store.Subscribe(func(ev kvstore.Event) {
		if ev.Op != kvstore.OpSet {
			return
		}
		userID, ok := repositories.UserIDFromOrdersKey(ev.Key)
		if !ok {
			return
		}
		s.Push(userID, models.Notification{
			Type:    models.NotificationOrder,
			Title:   "Pedido recibido",
			Message: "Tu pedido fue registrado y está pendiente de confirmación",
		})
	})
}

// Notifications returns the user's notification list.
func (s *NotificationService) Notifications(userID string) []models.Notification {
	return s.repo.Notifications(userID)
}

// Push appends a notification for userID, assigning id and timestamp.
func (s *NotificationService) Push(userID string, n models.Notification) {
	n.ID = uuid.New().String()
	n.CreatedAt = time.Now().Format(time.RFC3339)
	notifications := append(s.repo.Notifications(userID), n)
	if err := s.repo.SaveNotifications(userID, notifications); err != nil {
		log.Printf("notifications: failed to persist for user %s: %v", userID, err)
	}
}

// MarkRead marks one notification as read.
func (s *NotificationService) MarkRead(userID, notificationID string) {
	notifications := s.repo.Notifications(userID)
	for i := range notifications {
		if notifications[i].ID == notificationID {
			notifications[i].Read = true
			break
		}
	}
	if err := s.repo.SaveNotifications(userID, notifications); err != nil {
		log.Printf("notifications: failed to persist for user %s: %v", userID, err)
	}
}

// MarkAllRead marks every notification for userID as read.
func (s *NotificationService) MarkAllRead(userID string) {
	notifications := s.repo.Notifications(userID)
	for i := range notifications {
		notifications[i].Read = true
	}
	if err := s.repo.SaveNotifications(userID, notifications); err != nil {
		log.Printf("notifications: failed to persist for user %s: %v", userID, err)
	}
}
