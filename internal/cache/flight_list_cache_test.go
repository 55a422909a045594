package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-gin-airport/internal/cache"
	"go-gin-airport/internal/model"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage() cache.FlightPage {
	return cache.FlightPage{
		Count:    1,
		Page:     1,
		PageSize: 4,
		Results: []model.FlightResponse{
			{ID: 1, RouteInfo: "Boryspil - Heathrow", Crew: []string{"Ada Lovelace"}, TicketsAvailable: 57},
		},
	}
}

func TestFlightListCache_GetMiss(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := cache.NewRedisFlightListCache(db, time.Minute)

	mock.ExpectGet("flights:list:version").RedisNil()
	mock.ExpectGet("flights:list:v0:page=1").RedisNil()

	page, ok, err := c.Get(ctx, "page=1")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, page)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightListCache_GetHit(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := cache.NewRedisFlightListCache(db, time.Minute)

	data, err := json.Marshal(samplePage())
	require.NoError(t, err)

	mock.ExpectGet("flights:list:version").SetVal("3")
	mock.ExpectGet("flights:list:v3:source=1").SetVal(string(data))

	page, ok, err := c.Get(ctx, "source=1")

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 57, page.Results[0].TicketsAvailable)
	assert.Equal(t, "Boryspil - Heathrow", page.Results[0].RouteInfo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightListCache_SetUsesTTL(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := cache.NewRedisFlightListCache(db, 0)

	data, err := json.Marshal(samplePage())
	require.NoError(t, err)

	mock.ExpectGet("flights:list:version").SetVal("1")
	mock.ExpectSet("flights:list:v1:", data, cache.DefaultFlightListTTL).SetVal("OK")

	require.NoError(t, c.Set(ctx, "", samplePage()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightListCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := cache.NewRedisFlightListCache(db, time.Minute)

	mock.ExpectIncr("flights:list:version").SetVal(4)

	require.NoError(t, c.Invalidate(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightListCache_RedisError(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := cache.NewRedisFlightListCache(db, time.Minute)

	mock.ExpectGet("flights:list:version").SetErr(errors.New("connection refused"))

	_, ok, err := c.Get(ctx, "page=1")

	assert.Error(t, err)
	assert.False(t, ok)
}
