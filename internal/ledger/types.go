package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrQuotaExceeded      = errors.New("monthly generation quota exceeded")
	ErrUserNotFound       = errors.New("user not found")
)

// Tier is a user's subscription level
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// MonthlyLimit returns the generation ceiling for the tier. Unknown tiers
// fall back to the free ceiling.
func (t Tier) MonthlyLimit() int {
	switch t {
	case TierPro:
		return 50
	default:
		return 3
	}
}

// User is an account row. Rows are owned by the database; the service holds
// no long-lived copies.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Tier         Tier      `json:"tier"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store is the persistence surface the ledger service needs.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	// TryRecordUsage counts the user's usage events since the given instant
	// and, if below limit, records a new event. Count and insert run in one
	// transaction so concurrent requests cannot slip past the ceiling.
	TryRecordUsage(ctx context.Context, userID uuid.UUID, since time.Time, limit int) (bool, error)
}

// handles user and usage database operations
type Repository struct {
	db *pgxpool.Pool
}
