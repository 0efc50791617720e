package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/monuchauhan/nios-elearning/internal/domain"
	"github.com/monuchauhan/nios-elearning/internal/persistence"
)

const purchasesUserCourseKey = "purchases_user_course_key"

// PurchaseRepository persists completed purchases.
type PurchaseRepository interface {
	// FindByUserAndCourse returns the purchase or nil when none exists.
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Purchase, error)
	// Record inserts the purchase and sets the user's purchase flag in one
	// transaction.
	Record(ctx context.Context, purchase *domain.Purchase) error
}

type purchaseRepository struct {
	pool *pgxpool.Pool
}

// NewPurchaseRepository returns a Postgres-backed implementation.
func NewPurchaseRepository(pool *pgxpool.Pool) PurchaseRepository {
	return &purchaseRepository{pool: pool}
}

func (r *purchaseRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Purchase, error) {
	const query = `
        SELECT id, user_id, course_id, payment_id, amount, coupon_code, discount, purchased_at
        FROM purchases WHERE user_id=$1 AND course_id=$2`

	var p domain.Purchase
	err := r.pool.QueryRow(ctx, query, userID, courseID).Scan(
		&p.ID,
		&p.UserID,
		&p.CourseID,
		&p.PaymentID,
		&p.Amount,
		&p.CouponCode,
		&p.Discount,
		&p.PurchasedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Record relies on purchases_user_course_key for idempotency: a concurrent
// or repeated completion fails the insert with domain.ErrAlreadyPurchased and
// nothing is written.
func (r *purchaseRepository) Record(ctx context.Context, purchase *domain.Purchase) error {
	const insertPurchase = `
        INSERT INTO purchases (id, user_id, course_id, payment_id, amount, coupon_code, discount)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING purchased_at`
	const flagUser = `UPDATE users SET has_purchased = TRUE WHERE id=$1`

	return persistence.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertPurchase,
			purchase.ID,
			purchase.UserID,
			purchase.CourseID,
			purchase.PaymentID,
			purchase.Amount,
			purchase.CouponCode,
			purchase.Discount,
		).Scan(&purchase.PurchasedAt)
		if constraint, ok := persistence.UniqueViolation(err); ok && constraint == purchasesUserCourseKey {
			return domain.ErrAlreadyPurchased
		}
		if persistence.ForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		cmd, err := tx.Exec(ctx, flagUser, purchase.UserID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}
