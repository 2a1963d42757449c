package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sahulat/internal/models"

	"github.com/redis/go-redis/v9"
)

// AccountCache holds the public account projections served by the
// recipient-lookup endpoint. Balances are never cached.
type AccountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAccountCache(client *redis.Client, ttl time.Duration) *AccountCache {
	return &AccountCache{client: client, ttl: ttl}
}

func (c *AccountCache) Get(ctx context.Context, number string) (*models.AccountProjection, bool) {
	data, err := c.client.Get(ctx, accountKey(number)).Bytes()
	if err != nil {
		return nil, false
	}
	var proj models.AccountProjection
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, false
	}
	return &proj, true
}

func (c *AccountCache) Set(ctx context.Context, proj *models.AccountProjection) error {
	data, err := json.Marshal(proj)
	if err != nil {
		return fmt.Errorf("failed to marshal projection: %w", err)
	}
	return c.client.Set(ctx, accountKey(proj.AccountNumber), data, c.ttl).Err()
}

// Invalidate drops the cached projection, called when the account
// status changes (KYC approval).
func (c *AccountCache) Invalidate(ctx context.Context, number string) error {
	return c.client.Del(ctx, accountKey(number)).Err()
}

func accountKey(number string) string {
	return fmt.Sprintf("account:number:%s", number)
}
