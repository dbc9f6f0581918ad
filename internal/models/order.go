package models

// ITBISRate is the Dominican Republic value-added tax applied to
// every order subtotal.
const ITBISRate = 0.18

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatuses maps every accepted order status.
var ValidOrderStatuses = map[string]bool{
	OrderStatusPending:    true,
	OrderStatusProcessing: true,
	OrderStatusCompleted:  true,
	OrderStatusCancelled:  true,
}

// CustomerInfo is the contact snapshot captured at checkout.
type CustomerInfo struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	Email   string `json:"email"`
}

// Order is an immutable record of a placed order. It is written to
// the owning user's order list and to the global order log; the two
// copies are independent projections of the same write.
type Order struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	Items         []CartItem   `json:"items"`
	Subtotal      float64      `json:"subtotal"`
	ITBIS         float64      `json:"itbis"`
	Total         float64      `json:"total"`
	CustomerInfo  CustomerInfo `json:"customerInfo"`
	PaymentMethod string       `json:"paymentMethod"`
	Status        string       `json:"status"`
	CreatedAt     string       `json:"createdAt"`
}
