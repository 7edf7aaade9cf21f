package pebbledb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"

	"maxwellmaster/domain"
	"maxwellmaster/service"

	"github.com/cockroachdb/pebble"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const defaultBlockCacheSize = 8 << 20

var errClosed = errors.New("store is closed")

type pebbleStore struct {
	db     *pebble.DB
	path   string
	closed atomic.Bool
	logger log.Logger

	// mu orders compaction starts with Close so Close waits for every started compaction.
	mu          sync.Mutex
	compactions sync.WaitGroup
}

// NewStore opens (or creates) the embedded store at path.
func NewStore(path string, options Options, logger log.Logger) (*pebbleStore, error) {
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store options: %w", err)
	}
	logger = log.With(logger, "component", "pebble", "path", path)

	opts := options.pebbleOptions(logger)
	cacheSize := options.BlockCacheSize
	if cacheSize == 0 {
		cacheSize = defaultBlockCacheSize
	}
	cache := pebble.NewCache(cacheSize)
	defer cache.Unref()
	opts.Cache = cache
	opts.Logger = engineLogger{logger: logger}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, service.NewStoreError("Store open error", fmt.Errorf("can't open pebble at '%s', err: %w", path, err))
	}

	level.Info(logger).Log("msg", "store opened")
	return &pebbleStore{db: db, path: path, logger: logger}, nil
}

func (s *pebbleStore) Put(_ context.Context, key, value []byte) error {
	if s.closed.Load() {
		return service.NewStoreError("Store write error", errClosed)
	}
	if err := s.db.Set(key, value, pebble.Sync); err != nil {
		return service.NewStoreError("Store write error", fmt.Errorf("can't write key '%s', err: %w", key, err))
	}
	return nil
}

func (s *pebbleStore) Delete(_ context.Context, key []byte) error {
	if s.closed.Load() {
		return service.NewStoreError("Store delete error", errClosed)
	}
	if err := s.db.Delete(key, pebble.Sync); err != nil {
		return service.NewStoreError("Store delete error", fmt.Errorf("can't delete key '%s', err: %w", key, err))
	}
	return nil
}

// DeleteRange removes [start, end) and returns once the deletion is durable. The range is then
// compacted in the background so the tombstone does not linger.
func (s *pebbleStore) DeleteRange(_ context.Context, start, end []byte) error {
	if s.closed.Load() {
		return service.NewStoreError("Store delete error", errClosed)
	}
	if bytes.Compare(start, end) >= 0 {
		return nil
	}
	if err := s.db.DeleteRange(start, end, pebble.Sync); err != nil {
		return service.NewStoreError("Store delete error", fmt.Errorf("can't delete range ['%s', '%s'), err: %w", start, end, err))
	}
	s.compactRange(bytes.Clone(start), bytes.Clone(end))
	return nil
}

func (s *pebbleStore) compactRange(start, end []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return
	}
	s.compactions.Add(1)
	go func() {
		defer s.compactions.Done()
		if err := s.db.Compact(start, end, false); err != nil {
			level.Warn(s.logger).Log("msg", "compaction after range delete failed", "start", string(start), "err", err)
			return
		}
		level.Debug(s.logger).Log("msg", "range compacted", "start", string(start), "end", string(end))
	}()
}

func (s *pebbleStore) Scan(ctx context.Context, prefix []byte) iter.Seq2[domain.KeyValue, error] {
	return func(yield func(domain.KeyValue, error) bool) {
		if s.closed.Load() {
			yield(domain.KeyValue{}, service.NewStoreError("Store scan error", errClosed))
			return
		}
		it, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upperBound(prefix)})
		if err != nil {
			yield(domain.KeyValue{}, service.NewStoreError("Store scan error", fmt.Errorf("can't open iterator, err: %w", err)))
			return
		}
		defer it.Close()

		for valid := it.First(); valid; valid = it.Next() {
			if err := ctx.Err(); err != nil {
				yield(domain.KeyValue{}, service.NewStoreError("Store scan error", err))
				return
			}
			kv := domain.KeyValue{
				Key:   bytes.Clone(it.Key()),
				Value: bytes.Clone(it.Value()),
			}
			if !yield(kv, nil) {
				return
			}
		}
		if err := it.Error(); err != nil {
			yield(domain.KeyValue{}, service.NewStoreError("Store scan error", fmt.Errorf("iterator failed, err: %w", err)))
		}
	}
}

func (s *pebbleStore) Close() error {
	s.mu.Lock()
	if !s.closed.CompareAndSwap(false, true) {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	s.compactions.Wait()

	if err := s.db.Close(); err != nil {
		return service.NewStoreError("Store close error", fmt.Errorf("can't close pebble at '%s', err: %w", s.path, err))
	}
	level.Info(s.logger).Log("msg", "store closed")
	return nil
}

// upperBound returns the smallest key greater than every key with prefix, or nil when there is none.
func upperBound(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
