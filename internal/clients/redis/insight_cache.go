// Package redis holds the redis-backed caches. Only derived read models
// live here; the event log and profiles are never cached.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/services"
	"github.com/yungbote/cyberdrill-backend/internal/utils"
)

const insightTTL = 15 * time.Minute

// NewClient builds the shared redis client from the environment. REDIS_ADDR
// empty means redis is disabled and the caller should pass a nil cache.
func NewClient(log *logger.Logger) (*goredis.Client, error) {
	addr := utils.GetEnv("REDIS_ADDR", "", log)
	if addr == "" {
		return nil, nil
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: utils.GetEnv("REDIS_PASSWORD", "", log),
		DB:       utils.GetEnvAsInt("REDIS_DB", 0, log),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// InsightCache stores serialized behavior insights keyed by user id.
type InsightCache struct {
	log    *logger.Logger
	client *goredis.Client
}

func NewInsightCache(baseLog *logger.Logger, client *goredis.Client) *InsightCache {
	return &InsightCache{
		log:    baseLog.With("cache", "InsightCache"),
		client: client,
	}
}

func insightKey(userID uuid.UUID) string {
	return "insights:" + userID.String()
}

func (c *InsightCache) Get(ctx context.Context, userID uuid.UUID) (*services.BehaviorInsights, bool, error) {
	raw, err := c.client.Get(ctx, insightKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var insights services.BehaviorInsights
	if err := json.Unmarshal(raw, &insights); err != nil {
		// A corrupt entry is dropped, not served.
		_ = c.client.Del(ctx, insightKey(userID)).Err()
		return nil, false, nil
	}
	return &insights, true, nil
}

func (c *InsightCache) Set(ctx context.Context, userID uuid.UUID, insights *services.BehaviorInsights) error {
	raw, err := json.Marshal(insights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, insightKey(userID), raw, insightTTL).Err()
}

func (c *InsightCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, insightKey(userID)).Err()
}
