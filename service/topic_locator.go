package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"maxwellmaster/domain"
	"maxwellmaster/helpers"

	"github.com/cespare/xxhash/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const (
	maxTopicLength = 255
	topicStripes   = 64
	// topicCacheSize bounds the in-memory assignment cache; the store stays authoritative.
	topicCacheSize = 10000
)

// TopicLocation is the backend a topic is pinned to.
type TopicLocation struct {
	Topic    string
	Backend  domain.NodeID
	Endpoint string
	// Assigned is true when this lookup created or moved the assignment.
	Assigned bool
}

// TopicLocator pins topics to backends. An assignment is sticky: it is persisted under topic/<name>
// and reused while its backend stays registered. A topic whose backend is gone is assigned again,
// by hashing the topic over the healthy backends.
type TopicLocator struct {
	registry *NodeRegistry
	logger   log.Logger

	stripes [topicStripes]sync.Mutex

	mu    sync.RWMutex
	cache map[string]domain.NodeID
}

// NewTopicLocator creates a locator sharing the registry's store and backend membership.
func NewTopicLocator(registry *NodeRegistry, logger log.Logger) *TopicLocator {
	return &TopicLocator{
		registry: helpers.NilPanic(registry, "service.topic_locator.go: registry is required"),
		logger:   log.With(helpers.NilPanic(logger, "service.topic_locator.go: logger is required"), "component", "topic_locator"),
		cache:    make(map[string]domain.NodeID),
	}
}

// Locate returns the backend serving topic, assigning one when the topic is new or its backend left.
func (l *TopicLocator) Locate(ctx context.Context, topic string) (TopicLocation, error) {
	if err := validateTopic(topic); err != nil {
		return TopicLocation{}, err
	}
	m := &l.stripes[xxhash.Sum64String(topic)%topicStripes]
	m.Lock()
	defer m.Unlock()

	id, ok, err := l.assigned(ctx, topic)
	if err != nil {
		return TopicLocation{}, err
	}
	if ok {
		if e, live := l.registry.Get(domain.ClassBackend, id); live {
			return TopicLocation{Topic: topic, Backend: id, Endpoint: backendEndpoint(e)}, nil
		}
		level.Info(l.logger).Log("msg", "assigned backend is gone, reassigning", "topic", topic, "backend", id)
	}

	picked, err := l.pick(topic)
	if err != nil {
		return TopicLocation{}, err
	}
	err = l.registry.persist(ctx, "put", func(ctx context.Context) error {
		return l.registry.store.Put(ctx, domain.TopicKey(topic), []byte(picked.ID))
	})
	if err != nil {
		return TopicLocation{}, err
	}
	l.remember(topic, picked.ID)

	level.Debug(l.logger).Log("msg", "topic assigned", "topic", topic, "backend", picked.ID)
	return TopicLocation{Topic: topic, Backend: picked.ID, Endpoint: backendEndpoint(picked), Assigned: true}, nil
}

// assigned returns the persisted assignment of topic, consulting the cache first.
func (l *TopicLocator) assigned(ctx context.Context, topic string) (domain.NodeID, bool, error) {
	l.mu.RLock()
	id, ok := l.cache[topic]
	l.mu.RUnlock()
	if ok {
		return id, true, nil
	}

	key := domain.TopicKey(topic)
	for kv, err := range l.registry.store.Scan(ctx, key) {
		if err != nil {
			return "", false, NewStoreError(fmt.Sprintf("lookup of topic %q failed", topic), err)
		}
		// Keys come in order, so an exact match is the first one.
		if !bytes.Equal(kv.Key, key) {
			break
		}
		id = domain.NodeID(kv.Value)
		l.remember(topic, id)
		return id, true, nil
	}
	return "", false, nil
}

func (l *TopicLocator) pick(topic string) (domain.NodeEntry, error) {
	var healthy []domain.NodeEntry
	for _, e := range l.registry.List(domain.ClassBackend) {
		if e.Health == domain.HealthHealthy {
			healthy = append(healthy, e)
		}
	}
	if len(healthy) == 0 {
		return domain.NodeEntry{}, NewEntityNotFoundError("no available backend", nil)
	}
	return healthy[xxhash.Sum64String(topic)%uint64(len(healthy))], nil
}

func (l *TopicLocator) remember(topic string, id domain.NodeID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cache[topic]; !ok && len(l.cache) >= topicCacheSize {
		clear(l.cache)
	}
	l.cache[topic] = id
}

func backendEndpoint(e domain.NodeEntry) string {
	return e.Endpoint(domain.PeerPrivate, false)
}

func validateTopic(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return NewBadParameterError("topic is required", nil)
	}
	if len(topic) > maxTopicLength {
		return NewBadParameterError(fmt.Sprintf("topic must be at most %d bytes", maxTopicLength), nil)
	}
	if strings.IndexFunc(topic, unicode.IsControl) >= 0 {
		return NewBadParameterError("topic must not contain control characters", nil)
	}
	return nil
}
