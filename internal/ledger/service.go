package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"quizmaker/internal/auth"
)

// Service implements registration, login and quota accounting on top of a
// Store.
type Service struct {
	store       Store
	jwtSecret   string
	bypassEmail string
	now         func() time.Time
}

// NewService creates a ledger service. bypassEmail, when non-empty, names a
// developer account that skips quota checks entirely.
func NewService(store Store, jwtSecret, bypassEmail string) *Service {
	return &Service{
		store:       store,
		jwtSecret:   jwtSecret,
		bypassEmail: bypassEmail,
		now:         time.Now,
	}
}

// Register creates a free-tier account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.store.CreateUser(ctx, email, hash)
}

// Login verifies the password and issues a bearer token embedding the user
// id and email.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if err == ErrUserNotFound {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	return auth.GenerateToken(s.jwtSecret, user.ID.String(), user.Email)
}

// CheckAndRecordUsage compares the user's event count for the current
// calendar month against the tier ceiling and records one new event when
// allowed. The designated developer email bypasses the check.
func (s *Service) CheckAndRecordUsage(ctx context.Context, userID uuid.UUID) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if s.bypassEmail != "" && user.Email == s.bypassEmail {
		return nil
	}

	allowed, err := s.store.TryRecordUsage(ctx, user.ID, monthStart(s.now()), user.Tier.MonthlyLimit())
	if err != nil {
		return err
	}
	if !allowed {
		return ErrQuotaExceeded
	}

	return nil
}

// monthStart returns the first instant of t's calendar month.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
