package repository

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/monuchauhan/nios-elearning/internal/domain"
	"github.com/monuchauhan/nios-elearning/internal/persistence"
)

// These tests need a disposable database: TEST_POSTGRES_DSN=postgres://... go test ./internal/repository
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, persistence.RunMigrations(ctx, pool, zap.NewNop()))
	return pool
}

func newTestUser(t *testing.T, users UserRepository) *domain.User {
	t.Helper()
	id := uuid.NewString()
	user := &domain.User{
		ID:           id,
		Name:         "Test Learner",
		Email:        id[:8] + "@example.com",
		Mobile:       "9" + id[:9],
		PasswordHash: "x",
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestUserRepositoryUniqueness(t *testing.T) {
	pool := testPool(t)
	users := NewUserRepository(pool)
	ctx := context.Background()

	user := newTestUser(t, users)
	assert.False(t, user.HasPurchased)

	dupEmail := *user
	dupEmail.ID = uuid.NewString()
	dupEmail.Mobile = "8" + dupEmail.ID[:9]
	assert.ErrorIs(t, users.Create(ctx, &dupEmail), domain.ErrEmailTaken)

	dupMobile := *user
	dupMobile.ID = uuid.NewString()
	dupMobile.Email = dupMobile.ID[:8] + "@example.com"
	assert.ErrorIs(t, users.Create(ctx, &dupMobile), domain.ErrMobileTaken)

	got, err := users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = users.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestPurchaseRecordIsIdempotent(t *testing.T) {
	pool := testPool(t)
	users := NewUserRepository(pool)
	purchases := NewPurchaseRepository(pool)
	ctx := context.Background()
	user := newTestUser(t, users)

	none, err := purchases.FindByUserAndCourse(ctx, user.ID, "course-001")
	require.NoError(t, err)
	assert.Nil(t, none)

	coupon := "WELCOME20"
	record := func() error {
		return purchases.Record(ctx, &domain.Purchase{
			ID:         uuid.NewString(),
			UserID:     user.ID,
			CourseID:   "course-001",
			PaymentID:  "pay_" + uuid.NewString()[:8],
			Amount:     799,
			CouponCode: &coupon,
			Discount:   200,
		})
	}

	const attempts = 5
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = record()
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyPurchased)
	}
	assert.Equal(t, 1, succeeded)

	got, err := purchases.FindByUserAndCourse(ctx, user.ID, "course-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, 799, got.Amount)
	assert.Equal(t, "WELCOME20", *got.CouponCode)

	refreshed, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.HasPurchased)
}

func TestPurchaseRecordUnknownUserRollsBack(t *testing.T) {
	pool := testPool(t)
	purchases := NewPurchaseRepository(pool)
	ctx := context.Background()

	ghost := uuid.NewString()
	err := purchases.Record(ctx, &domain.Purchase{ID: uuid.NewString(), UserID: ghost, CourseID: "course-001", PaymentID: "demo_x", Amount: 999})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	got, err := purchases.FindByUserAndCourse(ctx, ghost, "course-001")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProgressRepository(t *testing.T) {
	pool := testPool(t)
	user := newTestUser(t, NewUserRepository(pool))
	progress := NewProgressRepository(pool)
	ctx := context.Background()

	require.NoError(t, progress.Touch(ctx, user.ID, "chapter-1"))
	require.NoError(t, progress.Complete(ctx, user.ID, "chapter-1"))
	require.NoError(t, progress.Touch(ctx, user.ID, "chapter-1"))
	require.NoError(t, progress.Touch(ctx, user.ID, "chapter-2"))

	rows, err := progress.ListProgress(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Completed, "touch keeps completion")
	assert.False(t, rows[1].Completed)

	first := &domain.QuizResult{UserID: user.ID, ChapterID: "chapter-1", QuizID: "quiz-1-1-1", Score: 2, TotalQuestions: 3, Answers: json.RawMessage(`{"q1":"b"}`)}
	require.NoError(t, progress.SaveQuizResult(ctx, first))
	second := &domain.QuizResult{UserID: user.ID, ChapterID: "chapter-1", QuizID: "quiz-1-1-1", Score: 3, TotalQuestions: 3}
	require.NoError(t, progress.SaveQuizResult(ctx, second))

	results, err := progress.ListQuizResults(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, second.ID, results[0].ID)
	assert.JSONEq(t, `{"q1":"b"}`, string(results[1].Answers))
}

func TestRedisIntentStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	store := NewRedisIntentStore(client, time.Minute)
	coupon := "FLAT100"
	intent := &domain.OrderIntent{OrderRef: "order_demo_" + uuid.NewString()[:16], UserID: "u-1", CourseID: "course-001", Amount: 899, Discount: 100, Currency: "INR", CouponCode: &coupon, Demo: true}
	require.NoError(t, store.Save(ctx, intent))

	got, err := store.Get(ctx, intent.OrderRef)
	require.NoError(t, err)
	assert.Equal(t, intent, got)

	ttl, err := client.TTL(ctx, intentKey(intent.OrderRef)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, intent.OrderRef))
	_, err = store.Get(ctx, intent.OrderRef)
	assert.ErrorIs(t, err, domain.ErrIntentNotFound)
}
