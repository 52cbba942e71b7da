package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Signal lookups are rate-limited upstream and their inputs repeat heavily
// (one brand token per offer, re-scored daily). CachedLookups memoizes trend
// and volume responses in redis under day-scoped keys so a re-warm of the
// same search key costs no extra API quota. Cache errors degrade to a direct
// lookup.
type CachedLookups struct {
	trend  TrendProvider
	volume VolumeProvider
	rdb    *redis.Client
	ttl    time.Duration
}

// NewCachedLookups wraps the given providers. rdb may be nil, in which case
// lookups pass straight through.
func NewCachedLookups(trend TrendProvider, volume VolumeProvider, rdb *redis.Client) *CachedLookups {
	return &CachedLookups{trend: trend, volume: volume, rdb: rdb, ttl: 26 * time.Hour}
}

func dayKey(kind, term string) string {
	return fmt.Sprintf("signal:%s:%s:%s", kind, strings.ToLower(term), time.Now().Format("2006-01-02"))
}

func (c *CachedLookups) Interest(ctx context.Context, term string) (TrendData, error) {
	if c.rdb == nil {
		return c.trend.Interest(ctx, term)
	}

	key := dayKey("trend", term)
	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var data TrendData
		if err := json.Unmarshal([]byte(raw), &data); err == nil {
			return data, nil
		}
	}

	data, err := c.trend.Interest(ctx, term)
	if err != nil {
		return TrendData{}, err
	}

	if raw, err := json.Marshal(data); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			zap.L().Debug("signal cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return data, nil
}

func (c *CachedLookups) ResultCount(ctx context.Context, query string) (int64, error) {
	if c.rdb == nil {
		return c.volume.ResultCount(ctx, query)
	}

	key := dayKey("volume", query)
	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n, nil
		}
	}

	n, err := c.volume.ResultCount(ctx, query)
	if err != nil {
		return 0, err
	}

	if err := c.rdb.Set(ctx, key, strconv.FormatInt(n, 10), c.ttl).Err(); err != nil {
		zap.L().Debug("signal cache write failed", zap.String("key", key), zap.Error(err))
	}
	return n, nil
}
