package models

// User represents a registered account. Exactly one distinguished
// admin record exists; it is created on first run if missing.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Avatar    string `json:"avatar,omitempty"` // inline image data, never persisted
	IsAdmin   bool   `json:"isAdmin"`
	CreatedAt string `json:"createdAt"`
}

// WithoutAvatar returns a copy of u with the avatar field cleared.
// The avatar can be large inline data and is excluded from every
// persisted snapshot to keep the store below its quota.
func (u User) WithoutAvatar() User {
	u.Avatar = ""
	return u
}
