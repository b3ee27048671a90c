package services

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/paydown/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("nil client is a no-op", func(t *testing.T) {
		var cache *SummaryCache
		_, ok := cache.Get(ctx, testUser, testNow)
		assert.False(t, ok)
		cache.Set(ctx, testUser, testNow, &models.Summary{})
		cache.Invalidate(ctx, testUser, testNow)
	})

	t.Run("unreadable entry is a miss", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		cache := NewSummaryCache(rdb, time.Minute)
		redisMock.ExpectGet(summaryKey1).SetVal("{not json")

		_, ok := cache.Get(ctx, testUser, testNow)
		assert.False(t, ok)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("redis error is a miss", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		cache := NewSummaryCache(rdb, time.Minute)
		redisMock.ExpectGet(summaryKey1).SetErr(errors.New("timeout"))

		_, ok := cache.Get(ctx, testUser, testNow)
		assert.False(t, ok)
	})

	t.Run("keys are per owner and day", func(t *testing.T) {
		assert.Equal(t, "summary:user-1:2026-10-17", summaryKey(testUser, testNow))
		assert.Equal(t, "summary:user-1:2026-10-18", summaryKey(testUser, testNow.Add(24*time.Hour)))
	})
}

func TestIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled without redis", func(t *testing.T) {
		store := NewIdempotencyStore(nil, time.Hour, time.Minute)
		assert.False(t, store.Enabled())
		p, err := store.Claim(ctx, testUser, "k")
		assert.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("redis failure lets the request through", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		store := NewIdempotencyStore(rdb, time.Hour, time.Minute)
		redisMock.ExpectSetNX("idempotency:user-1:k", idempotencyPending, time.Minute).SetErr(errors.New("down"))

		p, err := store.Claim(ctx, testUser, "k")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("corrupt stored payment", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		store := NewIdempotencyStore(rdb, time.Hour, time.Minute)
		redisMock.ExpectSetNX("idempotency:user-1:k", idempotencyPending, time.Minute).SetVal(false)
		redisMock.ExpectGet("idempotency:user-1:k").SetVal("{")

		_, err := store.Claim(ctx, testUser, "k")
		assert.Error(t, err)
	})

	t.Run("release survives a cancelled context", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		hook := newCtxHook()
		rdb.AddHook(hook)
		store := NewIdempotencyStore(rdb, time.Hour, time.Minute)
		redisMock.ExpectDel("idempotency:user-1:k").SetVal(1)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		store.Release(cancelled, testUser, "k")

		assert.NoError(t, redisMock.ExpectationsWereMet())
		seen, wasCancelled := hook.issued("del")
		assert.True(t, seen)
		assert.False(t, wasCancelled)
	})

	t.Run("release failure is logged", func(t *testing.T) {
		var buf bytes.Buffer
		log.SetOutput(&buf)
		t.Cleanup(func() { log.SetOutput(os.Stderr) })

		rdb, redisMock := redismock.NewClientMock()
		store := NewIdempotencyStore(rdb, time.Hour, time.Minute)
		redisMock.ExpectDel("idempotency:user-1:k").SetErr(errors.New("down"))

		store.Release(ctx, testUser, "k")

		assert.Contains(t, buf.String(), "[PAYMENT] Idempotency release failed for idempotency:user-1:k: down")
	})
}
