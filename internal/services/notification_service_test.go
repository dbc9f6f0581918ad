package services_test

import (
	"testing"

	"essence/internal/models"
	"essence/internal/repositories"
	"essence/internal/services"
	"essence/pkg/kvstore"

	"github.com/stretchr/testify/assert"
)

func TestNotificationService_OrderWriteProducesNotification(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := services.NewNotificationService(repositories.NewNotificationRepository(store))
	svc.Attach(store)

	// Placing an order persists the user's order list, which the
	// change feed turns into a notification.
	storeSvc := newStoreService(store, nil)
	storeSvc.AddToCart("u1", perfume, 1)
	_, err := storeSvc.PlaceOrder("u1", models.CustomerInfo{Name: "Ana", Phone: "809", Address: "Calle 1"}, "efectivo")
	assert.NoError(t, err)

	notifications := svc.Notifications("u1")
	assert.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationOrder, notifications[0].Type)
	assert.Equal(t, "Pedido recibido", notifications[0].Title)
	assert.False(t, notifications[0].Read)

	// Writes to unrelated keys produce nothing.
	assert.NoError(t, store.Set("essence_products", "[]"))
	assert.Len(t, svc.Notifications("u1"), 1)
}

func TestNotificationService_MarkRead(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := services.NewNotificationService(repositories.NewNotificationRepository(store))

	svc.Push("u1", models.Notification{Type: models.NotificationInfo, Title: "Hola"})
	svc.Push("u1", models.Notification{Type: models.NotificationInfo, Title: "Otra"})

	notifications := svc.Notifications("u1")
	assert.Len(t, notifications, 2)
	assert.NotEmpty(t, notifications[0].ID)
	assert.NotEqual(t, notifications[0].ID, notifications[1].ID)

	svc.MarkRead("u1", notifications[0].ID)
	got := svc.Notifications("u1")
	assert.True(t, got[0].Read)
	assert.False(t, got[1].Read)

	svc.MarkAllRead("u1")
	for _, n := range svc.Notifications("u1") {
		assert.True(t, n.Read)
	}
}
