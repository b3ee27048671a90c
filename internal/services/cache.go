package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/paydown/backend/internal/models"
)

// SummaryCache keeps computed summaries per owner and calendar day. A nil
// client turns every method into a no-op.
type SummaryCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSummaryCache(rdb *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{redis: rdb, ttl: ttl}
}

func summaryKey(userID string, day time.Time) string {
	return fmt.Sprintf("summary:%s:%s", userID, day.Format(models.DateLayout))
}

func (c *SummaryCache) Get(ctx context.Context, userID string, day time.Time) (*models.Summary, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}

	data, err := c.redis.Get(ctx, summaryKey(userID, day)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[SUMMARY] Cache read failed for %s: %v", userID, err)
		}
		return nil, false
	}

	var s models.Summary
	if err := json.Unmarshal(data, &s); err != nil {
		log.Printf("[SUMMARY] Discarding unreadable cache entry for %s: %v", userID, err)
		return nil, false
	}
	return &s, true
}

func (c *SummaryCache) Set(ctx context.Context, userID string, day time.Time, s *models.Summary) {
	if c == nil || c.redis == nil {
		return
	}

	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, summaryKey(userID, day), data, c.ttl).Err(); err != nil {
		log.Printf("[SUMMARY] Cache write failed for %s: %v", userID, err)
	}
}

func (c *SummaryCache) Invalidate(ctx context.Context, userID string, day time.Time) {
	if c == nil || c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, summaryKey(userID, day)).Err(); err != nil {
		log.Printf("[SUMMARY] Cache invalidation failed for %s: %v", userID, err)
	}
}

const idempotencyPending = "pending"

// IdempotencyStore remembers the outcome of payment requests carrying an
// Idempotency-Key so retries do not debit a debt twice.
// A claim that never completes expires after pendingTTL; finished results
// are kept for ttl.
type IdempotencyStore struct {
	redis      *redis.Client
	ttl        time.Duration
	pendingTTL time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl, pendingTTL time.Duration) *IdempotencyStore {
	return &IdempotencyStore{redis: rdb, ttl: ttl, pendingTTL: pendingTTL}
}

func idempotencyKey(userID, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", userID, key)
}

// Enabled reports whether keys are actually tracked.
func (s *IdempotencyStore) Enabled() bool {
	return s != nil && s.redis != nil
}

// Claim reserves key for the caller. It returns the stored payment when the
// key already completed, and ErrConflict when another request holds it.
// Redis failures are logged and treated as a successful claim.
func (s *IdempotencyStore) Claim(ctx context.Context, userID, key string) (*models.Payment, error) {
	if !s.Enabled() {
		return nil, nil
	}

	rk := idempotencyKey(userID, key)
	claimed, err := s.redis.SetNX(ctx, rk, idempotencyPending, s.pendingTTL).Result()
	if err != nil {
		log.Printf("[PAYMENT] Idempotency claim failed for %s: %v", rk, err)
		return nil, nil
	}
	if claimed {
		return nil, nil
	}

	data, err := s.redis.Get(ctx, rk).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			return nil, nil
		}
		log.Printf("[PAYMENT] Idempotency lookup failed for %s: %v", rk, err)
		return nil, nil
	}
	if string(data) == idempotencyPending {
		return nil, fmt.Errorf("%w: request with idempotency key %q is still in progress", models.ErrConflict, key)
	}

	var p models.Payment
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode idempotent payment: %w", err)
	}
	return &p, nil
}

// Complete stores the created payment under key. It runs even when ctx has
// been cancelled, since the payment is already committed.
func (s *IdempotencyStore) Complete(ctx context.Context, userID, key string, p *models.Payment) {
	if !s.Enabled() {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	rk := idempotencyKey(userID, key)
	if err := s.redis.Set(context.WithoutCancel(ctx), rk, data, s.ttl).Err(); err != nil {
		log.Printf("[PAYMENT] Idempotency store failed for %s: %v", rk, err)
	}
}

// Release frees key after a failed request so the client may retry. Like
// Complete it ignores cancellation of ctx.
func (s *IdempotencyStore) Release(ctx context.Context, userID, key string) {
	if !s.Enabled() {
		return
	}

	rk := idempotencyKey(userID, key)
	if err := s.redis.Del(context.WithoutCancel(ctx), rk).Err(); err != nil {
		log.Printf("[PAYMENT] Idempotency release failed for %s: %v", rk, err)
	}
}
