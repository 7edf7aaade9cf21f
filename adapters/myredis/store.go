package myredis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"maxwellmaster/domain"
	"maxwellmaster/service"

	"github.com/go-redis/redis/v8"
)

const scanBatch = 256

type redisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewStore creates a Store over redis. Every key is stored as prefix + key, so several masters can
// share one redis database.
func NewStore(client redis.UniversalClient, prefix string) *redisStore {
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) Put(ctx context.Context, key, value []byte) error {
	if err := s.client.Set(ctx, s.generateKey(key), value, 0).Err(); err != nil {
		return service.NewStoreError("Redis write key error", fmt.Errorf("can't write key '%s', err: %w", key, err))
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key []byte) error {
	if err := s.client.Del(ctx, s.generateKey(key)).Err(); err != nil {
		return service.NewStoreError("Redis delete key error", fmt.Errorf("can't delete key '%s', err: %w", key, err))
	}
	return nil
}

// DeleteRange removes every key in [start, end). Redis has no ordered range delete, so the keys
// sharing the common prefix of start and end are listed and filtered.
func (s *redisStore) DeleteRange(ctx context.Context, start, end []byte) error {
	if bytes.Compare(start, end) >= 0 {
		return nil
	}
	keys, err := s.listKeys(ctx, commonPrefix(start, end))
	if err != nil {
		return err
	}
	var doomed []string
	for _, k := range keys {
		if bytes.Compare(k, start) >= 0 && bytes.Compare(k, end) < 0 {
			doomed = append(doomed, s.generateKey(k))
		}
	}
	for chunk := range slices.Chunk(doomed, scanBatch) {
		if err := s.client.Del(ctx, chunk...).Err(); err != nil {
			return service.NewStoreError("Redis delete key error", fmt.Errorf("can't delete range ['%s', '%s'), err: %w", start, end, err))
		}
	}
	return nil
}

// Scan lists the matching keys up front, then fetches values lazily in key order. Keys deleted
// between listing and fetching are skipped.
func (s *redisStore) Scan(ctx context.Context, prefix []byte) iter.Seq2[domain.KeyValue, error] {
	return func(yield func(domain.KeyValue, error) bool) {
		keys, err := s.listKeys(ctx, prefix)
		if err != nil {
			yield(domain.KeyValue{}, err)
			return
		}
		for _, k := range keys {
			value, err := s.client.Get(ctx, s.generateKey(k)).Bytes()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				yield(domain.KeyValue{}, service.NewStoreError("Redis get key error", fmt.Errorf("can't read key '%s', err: %w", k, err)))
				return
			}
			if !yield(domain.KeyValue{Key: k, Value: value}, nil) {
				return
			}
		}
	}
}

// Close closes the underlying client.
func (s *redisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return service.NewStoreError("Redis close error", err)
	}
	return nil
}

// listKeys returns the unprefixed keys starting with prefix, sorted.
func (s *redisStore) listKeys(ctx context.Context, prefix []byte) ([][]byte, error) {
	match := escapePattern(s.prefix+string(prefix)) + "*"
	var keys [][]byte
	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return nil, service.NewStoreError("Redis scan keys error", fmt.Errorf("can't scan keys '%s', err: %w", match, err))
		}
		for _, full := range batch {
			if k, ok := strings.CutPrefix(full, s.prefix); ok && strings.HasPrefix(k, string(prefix)) {
				keys = append(keys, []byte(k))
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	slices.SortFunc(keys, bytes.Compare)
	return slices.CompactFunc(keys, bytes.Equal), nil
}

func (s *redisStore) generateKey(key []byte) string {
	return s.prefix + string(key)
}

// escapePattern quotes the glob metacharacters of a SCAN MATCH pattern.
func escapePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func commonPrefix(a, b []byte) []byte {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
