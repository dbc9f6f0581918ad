package services

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"essence/internal/models"
	"essence/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// The distinguished admin account, created on first run if missing.
const (
	AdminEmail = "essence@gmail.com"
	AdminID    = "admin-001"
)

// ProfileUpdate carries the fields a user may change on their
// profile. Nil fields are left untouched.
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Avatar  *string `json:"avatar"`
}

// SessionService manages the current user, the registered-users list
// and the credential check. Login and Register report success with a
// boolean and never fail hard: store errors degrade to "no data".
type SessionService struct {
	users      repositories.UserRepository
	adminHash  []byte
	jwtSecret  []byte
	tokenDurat time.Duration

	mu      sync.RWMutex
	current *models.User
}

// NewSessionService creates a SessionService, ensures the admin
// account exists and restores a persisted session if one is present.
// adminPassword is the fixed literal the admin must present.
func NewSessionService(users repositories.UserRepository, adminPassword, jwtSecret string) *SessionService {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("session: failed to hash admin password: %v", err)
	}

	s := &SessionService{
		users:      users,
		adminHash:  hash,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
	s.ensureAdminAccount()
	s.restoreSession()
	return s
}

// ensureAdminAccount creates the distinguished admin record in the
// registered-users list when it does not exist yet.
func (s *SessionService) ensureAdminAccount() {
	if _, ok := s.users.FindByEmail(AdminEmail); ok {
		return
	}
	admin := models.User{
		ID:        AdminID,
		Name:      "Administrador Essence Smart",
		Email:     AdminEmail,
		Phone:     "+1 (809) 555-1234",
		Address:   "Av. Winston Churchill #45, Santo Domingo, República Dominicana",
		IsAdmin:   true,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	if err := s.users.SaveUsers(append(s.users.Users(), admin)); err != nil {
		log.Printf("session: failed to create admin account: %v", err)
	}
}

// restoreSession loads a previously persisted current-user record.
func (s *SessionService) restoreSession() {
	if user, ok := s.users.Session(); ok {
		s.current = user
	}
}

// CurrentUser returns the logged-in user, or nil.
func (s *SessionService) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// Login authenticates by email. The admin email requires the fixed
// password literal; any other email succeeds when a matching user
// record exists, with no password check (preserved behavior of the
// storefront this service replaces). Returns false on any mismatch.
func (s *SessionService) Login(email, password string) bool {
	if email == AdminEmail {
		if bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)) != nil {
			return false
		}
	}

	user, ok := s.users.FindByEmail(email)
	if !ok {
		return false
	}
	s.setCurrent(user)
	return true
}

// Register creates a new account and logs it in. It returns false
// when the email is already registered; the user list is not touched
// in that case. Self-registered accounts are never admins.
func (s *SessionService) Register(profile models.User) bool {
	if _, exists := s.users.FindByEmail(profile.Email); exists {
		return false
	}

	profile.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	profile.CreatedAt = time.Now().Format(time.RFC3339)
	profile.IsAdmin = false

	if err := s.users.SaveUsers(append(s.users.Users(), profile)); err != nil {
		log.Printf("session: failed to persist new user: %v", err)
	}
	s.setCurrent(&profile)
	return true
}

// Logout clears the current user and removes the session record.
func (s *SessionService) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.users.ClearSession()
}

// UpdateProfile merges the given fields into the current user and
// persists both the session record and the registered-users entry.
// The avatar stays in memory only; persisted snapshots exclude it so
// large inline images cannot blow the store quota.
func (s *SessionService) UpdateProfile(update ProfileUpdate) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	if update.Name != nil {
		s.current.Name = *update.Name
	}
	if update.Phone != nil {
		s.current.Phone = *update.Phone
	}
	if update.Address != nil {
		s.current.Address = *update.Address
	}
	if update.Avatar != nil {
		s.current.Avatar = *update.Avatar
	}
	updated := *s.current
	s.mu.Unlock()

	if err := s.users.SaveSession(updated.WithoutAvatar()); err != nil {
		log.Printf("session: failed to persist profile update: %v", err)
	}

	users := s.users.Users()
	for i := range users {
		if users[i].ID == updated.ID {
			users[i] = updated.WithoutAvatar()
			if err := s.users.SaveUsers(users); err != nil {
				log.Printf("session: failed to update user list: %v", err)
			}
			break
		}
	}
}

func (s *SessionService) setCurrent(user *models.User) {
	s.mu.Lock()
	s.current = user
	s.mu.Unlock()

	if err := s.users.SaveSession(*user); err != nil {
		log.Printf("session: failed to persist session: %v", err)
	}
}

// IssueToken generates a signed JWT carrying the user's identity for
// API clients.
func (s *SessionService) IssueToken(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning its claims.
func (s *SessionService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// UserByID returns the registered user with the given id.
func (s *SessionService) UserByID(id string) (*models.User, bool) {
	for _, u := range s.users.Users() {
		if u.ID == id {
			return &u, true
		}
	}
	return nil, false
}
