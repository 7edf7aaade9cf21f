package service

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"slices"
	"sync"
	"testing"
	"time"

	"maxwellmaster/domain"
	"maxwellmaster/helpers"
	"maxwellmaster/interfaces/mock"

	"github.com/go-kit/log"
)

var errDiskFull = errors.New("disk full")

// memStore backs a StoreMock with a map so registry tests observe what was persisted.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	// failures is the number of upcoming write calls that fail.
	failures int
}

func newMemStore() (*memStore, *mock.StoreMock) {
	m := &memStore{data: make(map[string][]byte)}
	return m, &mock.StoreMock{
		PutFunc: func(ctx context.Context, key []byte, value []byte) error {
			if err := m.fail(); err != nil {
				return err
			}
			m.mu.Lock()
			defer m.mu.Unlock()
			m.data[string(key)] = bytes.Clone(value)
			return nil
		},
		DeleteFunc: func(ctx context.Context, key []byte) error {
			if err := m.fail(); err != nil {
				return err
			}
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.data, string(key))
			return nil
		},
		DeleteRangeFunc: func(ctx context.Context, start []byte, end []byte) error {
			if err := m.fail(); err != nil {
				return err
			}
			m.mu.Lock()
			defer m.mu.Unlock()
			for k := range m.data {
				if k >= string(start) && k < string(end) {
					delete(m.data, k)
				}
			}
			return nil
		},
		ScanFunc: func(ctx context.Context, prefix []byte) iter.Seq2[domain.KeyValue, error] {
			return func(yield func(domain.KeyValue, error) bool) {
				m.mu.Lock()
				var keys []string
				for k := range m.data {
					if bytes.HasPrefix([]byte(k), prefix) {
						keys = append(keys, k)
					}
				}
				slices.Sort(keys)
				kvs := make([]domain.KeyValue, 0, len(keys))
				for _, k := range keys {
					kvs = append(kvs, domain.KeyValue{Key: []byte(k), Value: bytes.Clone(m.data[k])})
				}
				m.mu.Unlock()
				for _, kv := range kvs {
					if !yield(kv, nil) {
						return
					}
				}
			}
		},
	}
}

func (m *memStore) fail() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errDiskFull
	}
	return nil
}

func (m *memStore) failNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = n
}

func (m *memStore) has(class domain.NodeClass, id domain.NodeID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[string(domain.NodeKey(class, id))]
	return ok
}

func (m *memStore) record(class domain.NodeClass, id domain.NodeID) (domain.NodeEntry, bool) {
	m.mu.Lock()
	b, ok := m.data[string(domain.NodeKey(class, id))]
	m.mu.Unlock()
	if !ok {
		return domain.NodeEntry{}, false
	}
	e, err := domain.UnmarshalEntry(b)
	return e, err == nil
}

var scenarioThresholds = domain.Thresholds{Unhealthy: 30 * time.Second, Stale: 1800 * time.Second}

type registryFixture struct {
	clock    *helpers.TestClock
	mem      *memStore
	store    *mock.StoreMock
	events   *mock.EventPublisherMock
	registry *NodeRegistry
}

func newRegistryFixture(t *testing.T) *registryFixture {
	t.Helper()
	f := &registryFixture{
		clock:  helpers.NewTestClock(),
		events: &mock.EventPublisherMock{},
	}
	f.mem, f.store = newMemStore()
	f.registry = NewNodeRegistry(f.store, NewTimeProvider(f.clock.Now), f.events, scenarioThresholds, log.NewNopLogger())
	return f
}

func (f *registryFixture) published() []domain.Event {
	calls := f.events.PublishCalls()
	out := make([]domain.Event, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Event)
	}
	return out
}

func backendAddr(port uint16) domain.Address {
	return domain.Address{PrivateIP: "10.0.0.10", HTTPPort: port}
}
