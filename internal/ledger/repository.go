package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new ledger repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// creates a user with the free tier
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	var user User

	err := r.db.QueryRow(ctx, queryCreateUser, email, passwordHash).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Tier,
		&user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &user, nil
}

// finds a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanUser(r.db.QueryRow(ctx, queryGetUserByEmail, email))
}

// finds a user by id
func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanUser(r.db.QueryRow(ctx, queryGetUserByID, id))
}

func (r *Repository) scanUser(row pgx.Row) (*User, error) {
	var user User

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Tier,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// TryRecordUsage performs the count-and-insert as one transaction. The user
// row is locked first so two concurrent requests from the same user cannot
// both observe a count below the ceiling.
func (r *Repository) TryRecordUsage(ctx context.Context, userID uuid.UUID, since time.Time, limit int) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var lockedID uuid.UUID
	if err := tx.QueryRow(ctx, queryLockUser, userID).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	var count int
	if err := tx.QueryRow(ctx, queryCountUsageSince, userID, since).Scan(&count); err != nil {
		return false, err
	}

	if count >= limit {
		return false, nil
	}

	if _, err := tx.Exec(ctx, queryInsertUsage, userID); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	return true, nil
}
