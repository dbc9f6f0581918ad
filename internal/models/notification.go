package models

// Notification types.
const (
	NotificationOrder = "order"
	NotificationInfo  = "info"
)

// Notification is a per-user message shown in the storefront header.
type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}
