package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"

	"github.com/redis/go-redis/v9"
)

const (
	flightListVersionKey = "flights:list:version"
	DefaultFlightListTTL = 2 * time.Minute
)

type FlightPage = query.Page[model.FlightResponse]

// FlightListCache 航班列表快取：以正規化後的查詢字串為 key
type FlightListCache interface {
	// 讀取：未命中時回傳 (nil, false, nil)
	Get(ctx context.Context, queryKey string) (*FlightPage, bool, error)
	// 寫入：帶 TTL
	Set(ctx context.Context, queryKey string, page FlightPage) error
	// 失效：讓所有已快取的頁面失效
	Invalidate(ctx context.Context) error
}

// RedisFlightListCache keys pages under a generation number. Invalidate
// bumps the generation, so older pages are never read again and expire on
// their own TTL.
type RedisFlightListCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisFlightListCache(client redis.UniversalClient, ttl time.Duration) FlightListCache {
	if ttl <= 0 {
		ttl = DefaultFlightListTTL
	}
	return &RedisFlightListCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisFlightListCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, flightListVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get flight list version: %w", err)
	}
	return v, nil
}

func (c *RedisFlightListCache) pageKey(version int64, queryKey string) string {
	return fmt.Sprintf("flights:list:v%d:%s", version, queryKey)
}

func (c *RedisFlightListCache) Get(ctx context.Context, queryKey string) (*FlightPage, bool, error) {
	version, err := c.version(ctx)
	if err != nil {
		return nil, false, err
	}

	data, err := c.client.Get(ctx, c.pageKey(version, queryKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get flight list page: %w", err)
	}

	var page FlightPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false, fmt.Errorf("decode flight list page: %w", err)
	}
	return &page, true, nil
}

func (c *RedisFlightListCache) Set(ctx context.Context, queryKey string, page FlightPage) error {
	version, err := c.version(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encode flight list page: %w", err)
	}

	return c.client.Set(ctx, c.pageKey(version, queryKey), data, c.ttl).Err()
}

func (c *RedisFlightListCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, flightListVersionKey).Err()
}
