// Package testutil connects integration tests to the test Postgres and
// Redis. Tests are skipped when those are not reachable.
package testutil

import (
	"context"
	"testing"
	"time"

	"go-gin-airport/config"
	"go-gin-airport/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// SetupDB returns a migrated, truncated test database pool.
func SetupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	cfg := config.LoadTestConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	pool, err := database.InitDatabase(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(context.Background(), pool))
	Truncate(t, pool)
	return pool
}

// SetupRedis 僅初始化 Redis，用於只依賴 Redis 的測試
func SetupRedis(t *testing.T) *redis.Client {
	t.Helper()
	cfg := config.LoadTestConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		t.Skipf("test redis unavailable: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	return rdb
}

func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		TRUNCATE tickets, orders, flight_crew, flights, crew, airplanes,
		         airplane_types, routes, airports, users
		RESTART IDENTITY CASCADE
	`)
	require.NoError(t, err)
}
