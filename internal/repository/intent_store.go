package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/monuchauhan/nios-elearning/internal/domain"
)

const intentKeyPrefix = "checkout:intent:"

// IntentStore keeps order intents for one checkout round trip.
type IntentStore interface {
	Save(ctx context.Context, intent *domain.OrderIntent) error
	// Get returns domain.ErrIntentNotFound for unknown or expired refs.
	Get(ctx context.Context, orderRef string) (*domain.OrderIntent, error)
	Delete(ctx context.Context, orderRef string) error
}

type redisIntentStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIntentStore returns an IntentStore whose entries expire after ttl.
func NewRedisIntentStore(client *redis.Client, ttl time.Duration) IntentStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &redisIntentStore{client: client, ttl: ttl}
}

func intentKey(orderRef string) string {
	return intentKeyPrefix + orderRef
}

func (s *redisIntentStore) Save(ctx context.Context, intent *domain.OrderIntent) error {
	if intent.OrderRef == "" {
		return errors.New("intent without order ref")
	}
	payload, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("encode intent: %w", err)
	}
	return s.client.Set(ctx, intentKey(intent.OrderRef), payload, s.ttl).Err()
}

func (s *redisIntentStore) Get(ctx context.Context, orderRef string) (*domain.OrderIntent, error) {
	payload, err := s.client.Get(ctx, intentKey(orderRef)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrIntentNotFound
	}
	if err != nil {
		return nil, err
	}

	var intent domain.OrderIntent
	if err := json.Unmarshal(payload, &intent); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}
	return &intent, nil
}

func (s *redisIntentStore) Delete(ctx context.Context, orderRef string) error {
	return s.client.Del(ctx, intentKey(orderRef)).Err()
}
