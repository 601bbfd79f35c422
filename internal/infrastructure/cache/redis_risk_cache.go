package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/microfin/lending-engine/internal/domain/service"
)

// RedisRiskCache implements port.RiskScoreCache on Redis. Scores are derived
// state, so a cache miss or an expired key simply means "recompute".
type RedisRiskCache struct {
	client *redis.Client
}

// NewRedisRiskCache creates a Redis-backed risk score cache.
func NewRedisRiskCache(client *redis.Client) *RedisRiskCache {
	return &RedisRiskCache{client: client}
}

func riskKey(tenantID, loanID string) string {
	return fmt.Sprintf("risk:%s:%s", tenantID, loanID)
}

// Put stores a score under risk:<tenant>:<loan> with the given TTL.
func (c *RedisRiskCache) Put(ctx context.Context, tenantID, loanID string, score service.RiskScore, ttl time.Duration) error {
	data, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("marshal risk score: %w", err)
	}
	if err := c.client.Set(ctx, riskKey(tenantID, loanID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set risk score: %w", err)
	}
	return nil
}

// Get retrieves a cached score. The second return value is false on a miss.
func (c *RedisRiskCache) Get(ctx context.Context, tenantID, loanID string) (service.RiskScore, bool, error) {
	data, err := c.client.Get(ctx, riskKey(tenantID, loanID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return service.RiskScore{}, false, nil
	}
	if err != nil {
		return service.RiskScore{}, false, fmt.Errorf("get risk score: %w", err)
	}

	var score service.RiskScore
	if err := json.Unmarshal(data, &score); err != nil {
		return service.RiskScore{}, false, fmt.Errorf("unmarshal risk score: %w", err)
	}
	return score, true, nil
}
