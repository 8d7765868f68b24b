package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/hospital-service/internal/domain"
)

const accountNamespace = "account"

// AccountCache stores public account projections in Redis. A nil client
// turns every call into a no-op miss.
type AccountCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewAccountCache builds a cache. A zero ttl disables caching.
func NewAccountCache(client redis.UniversalClient, ttl time.Duration) *AccountCache {
	return &AccountCache{client: client, ttl: ttl}
}

func (c *AccountCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

func key(id string) string {
	return accountNamespace + ":" + id
}

// Get returns the cached account, or (nil, false, nil) on a miss.
func (c *AccountCache) Get(ctx context.Context, id string) (*domain.PublicAccount, bool, error) {
	if !c.enabled() {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var account domain.PublicAccount
	if err := json.Unmarshal(raw, &account); err != nil {
		_ = c.client.Del(ctx, key(id)).Err()
		return nil, false, err
	}
	return &account, true, nil
}

// Set stores the account under its id.
func (c *AccountCache) Set(ctx context.Context, account *domain.PublicAccount) error {
	if !c.enabled() || account == nil {
		return nil
	}
	raw, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(account.ID), raw, c.ttl).Err()
}

// Invalidate drops the cached entry for id.
func (c *AccountCache) Invalidate(ctx context.Context, id string) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Del(ctx, key(id)).Err()
}
