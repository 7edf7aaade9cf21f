package service

import (
	"sync"
	"sync/atomic"

	"maxwellmaster/domain"
	"maxwellmaster/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

// Broker fans membership events out to subscribers. Each subscriber owns a bounded channel; when it
// is full the oldest queued event is dropped so publishers never block. Sequence numbers are
// assigned per class and increase by one, so a subscriber detects a drop as a gap.
type Broker struct {
	logger log.Logger

	mu     sync.Mutex
	seq    map[domain.NodeClass]uint64
	subs   map[string]*Subscription
	closed bool
}

// NewBroker creates a broker without subscribers.
func NewBroker(logger log.Logger) *Broker {
	return &Broker{
		logger: log.With(helpers.NilPanic(logger, "service.broker.go: logger is required"), "component", "broker"),
		seq:    make(map[domain.NodeClass]uint64),
		subs:   make(map[string]*Subscription),
	}
}

// Subscription is one subscriber's view of the event stream.
type Subscription struct {
	ID string
	// Class filters events; empty means every class.
	Class domain.NodeClass
	// StartSeq is the sequence number of the last event of Class published before the subscription
	// was created. The first delivered event of Class has StartSeq+1 unless events were dropped.
	StartSeq uint64

	ch      chan domain.Event
	dropped atomic.Uint64
	broker  *Broker
	once    sync.Once
}

// Events returns the receive side. It is closed by Close or when the broker shuts down.
func (s *Subscription) Events() <-chan domain.Event {
	return s.ch
}

// Dropped returns how many events were discarded because the subscriber fell behind.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close detaches the subscription from the broker. Idempotent.
func (s *Subscription) Close() {
	s.broker.unsubscribe(s)
}

// Subscribe registers a subscriber for class (empty for all) with room for buffer queued events.
func (b *Broker) Subscribe(class domain.NodeClass, buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	s := &Subscription{
		ID:     uuid.NewString(),
		Class:  class,
		ch:     make(chan domain.Event, buffer),
		broker: b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	s.StartSeq = b.seq[class]
	if b.closed {
		s.once.Do(func() { close(s.ch) })
		return s
	}
	b.subs[s.ID] = s
	level.Debug(b.logger).Log("msg", "subscriber attached", "subscription", s.ID, "class", class, "subscribers", len(b.subs))
	return s
}

// Publish stamps ev with the next sequence number of its class and queues it for every matching
// subscriber without blocking.
func (b *Broker) Publish(ev domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.seq[ev.Class]++
	ev.Seq = b.seq[ev.Class]
	for _, s := range b.subs {
		if s.Class != "" && s.Class != ev.Class {
			continue
		}
		if s.offer(ev) {
			level.Debug(b.logger).Log("msg", "subscriber lagging, dropped oldest event", "subscription", s.ID, "dropped", s.Dropped())
		}
	}
}

// Subscribers returns the number of attached subscribers.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close detaches and closes every subscription. Later publishes are ignored.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, s := range b.subs {
		delete(b.subs, id)
		s.once.Do(func() { close(s.ch) })
	}
}

func (b *Broker) unsubscribe(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, s.ID)
	s.once.Do(func() { close(s.ch) })
}

// offer enqueues ev, discarding the oldest queued events until it fits. Reports whether anything
// was dropped. Only called under the broker lock, so it is the sole sender.
func (s *Subscription) offer(ev domain.Event) bool {
	dropped := false
	for {
		select {
		case s.ch <- ev:
			return dropped
		default:
		}
		select {
		case <-s.ch:
			s.dropped.Add(1)
			dropped = true
		default:
		}
	}
}
