package repositories

import (
	"fmt"
	"log"

	"essence/internal/models"
	"essence/pkg/kvstore"
)

// UserRepository persists the registered-users list and the current
// session record. A missing or corrupt users list reads as empty.
type UserRepository interface {
	Users() []models.User
	SaveUsers(users []models.User) error
	FindByEmail(email string) (*models.User, bool)
	Session() (*models.User, bool)
	SaveSession(user models.User) error
	ClearSession()
}

// KVUserRepository is the kv-store implementation of UserRepository.
type KVUserRepository struct {
	store kvstore.Store
}

// NewUserRepository creates a KVUserRepository over store.
func NewUserRepository(store kvstore.Store) *KVUserRepository {
	return &KVUserRepository{store: store}
}

// Users returns the registered-users list, or an empty list when the
// stored value is missing or unreadable.
func (r *KVUserRepository) Users() []models.User {
	var users []models.User
	if _, err := kvstore.GetJSON(r.store, KeyUsers, &users); err != nil {
		log.Printf("users: stored list unreadable, treating as empty: %v", err)
		return nil
	}
	return users
}

// SaveUsers replaces the registered-users list.
func (r *KVUserRepository) SaveUsers(users []models.User) error {
	if err := kvstore.SetJSON(r.store, KeyUsers, users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

// FindByEmail returns the user with the given email. Matching is
// case-sensitive.
func (r *KVUserRepository) FindByEmail(email string) (*models.User, bool) {
	for _, u := range r.Users() {
		if u.Email == email {
			return &u, true
		}
	}
	return nil, false
}

// Session returns the persisted current-user record, if any. An
// unreadable record is dropped rather than surfaced.
func (r *KVUserRepository) Session() (*models.User, bool) {
	var user models.User
	found, err := kvstore.GetJSON(r.store, KeySession, &user)
	if err != nil {
		log.Printf("session: stored record unreadable, removing: %v", err)
		r.store.Remove(KeySession)
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &user, true
}

// SaveSession persists user as the current session record.
func (r *KVUserRepository) SaveSession(user models.User) error {
	if err := kvstore.SetJSON(r.store, KeySession, user); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ClearSession removes the session record.
func (r *KVUserRepository) ClearSession() {
	r.store.Remove(KeySession)
}
