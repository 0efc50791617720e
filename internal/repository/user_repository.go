package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/monuchauhan/nios-elearning/internal/domain"
	"github.com/monuchauhan/nios-elearning/internal/persistence"
)

// Unique constraints on users, named in the initial migration.
const (
	usersEmailKey  = "users_email_key"
	usersMobileKey = "users_mobile_key"
)

// UserRepository defines persistence access for learners.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByMobile(ctx context.Context, mobile string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// Create inserts user. A duplicate email or mobile surfaces as
// domain.ErrEmailTaken or domain.ErrMobileTaken.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, name, email, mobile, password_hash)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING has_purchased, created_at`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Mobile,
		user.PasswordHash,
	).Scan(&user.HasPurchased, &user.CreatedAt)
	if constraint, ok := persistence.UniqueViolation(err); ok {
		switch constraint {
		case usersEmailKey:
			return domain.ErrEmailTaken
		case usersMobileKey:
			return domain.ErrMobileTaken
		}
	}
	return err
}

const selectUser = `
        SELECT id, name, email, mobile, password_hash, has_purchased, created_at
        FROM users`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE id=$1`, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE email=$1`, email))
}

func (r *userRepository) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE mobile=$1`, mobile))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Mobile,
		&user.PasswordHash,
		&user.HasPurchased,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
