package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each draft as a JSON value with a created-at sorted set as the index.
// Posted drafts carry a TTL matching their expiry.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	now    Clock
}

func NewRedisStore(rdb *redis.Client, prefix string, now Clock) *RedisStore {
	if now == nil {
		now = time.Now
	}
	return &RedisStore{rdb: rdb, prefix: prefix, now: now}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + "draft:" + id
}

func (s *RedisStore) indexKey() string {
	return s.prefix + "drafts"
}

// ttl returns 0 (no expiry) for drafts that never expire
func (s *RedisStore) ttl(d *domain.Draft) (time.Duration, bool) {
	if d.ExpiresAt == nil {
		return 0, true
	}
	left := d.ExpiresAt.Sub(s.now())
	return left, left > 0
}

func (s *RedisStore) Create(ctx context.Context, d *domain.Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	ttl, _ := s.ttl(d)

	err = s.rdb.SetArgs(ctx, s.key(d.ID), data, redis.SetArgs{Mode: "NX", TTL: ttl}).Err()
	if errors.Is(err, redis.Nil) {
		return domain.ErrDraftExists
	}
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}

	if err := s.rdb.ZAdd(ctx, s.indexKey(), redis.Z{Score: score(d), Member: d.ID}).Err(); err != nil {
		return fmt.Errorf("failed to index draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Put(ctx context.Context, d *domain.Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	ttl, alive := s.ttl(d)
	if !alive {
		return s.remove(ctx, d.ID)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(d.ID), data, ttl)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: score(d), Member: d.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Draft, error) {
	data, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	var d domain.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s: %w", id, err)
	}
	if d.Expired(s.now()) {
		return nil, domain.ErrDraftNotFound
	}
	return &d, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.remove(ctx, id)
}

func (s *RedisStore) remove(ctx context.Context, id string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]*domain.Draft, error) {
	ids, err := s.rdb.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Draft{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load drafts: %w", err)
	}

	now := s.now()
	drafts := make([]*domain.Draft, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// expired by TTL, index entry is cleaned up by Sweep
			continue
		}
		var d domain.Draft
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("failed to decode draft %s: %w", ids[i], err)
		}
		if d.Expired(now) {
			continue
		}
		drafts = append(drafts, &d)
	}
	return drafts, nil
}

// Sweep drops index entries whose draft keys have expired
func (s *RedisStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.rdb.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to sweep drafts: %w", err)
	}

	removed := 0
	for _, id := range ids {
		n, err := s.rdb.Exists(ctx, s.key(id)).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to sweep drafts: %w", err)
		}
		if n > 0 {
			continue
		}
		if err := s.rdb.ZRem(ctx, s.indexKey(), id).Err(); err != nil {
			return removed, fmt.Errorf("failed to sweep drafts: %w", err)
		}
		removed++
	}
	return removed, nil
}

func score(d *domain.Draft) float64 {
	return float64(d.CreatedAt.UnixMilli())
}
