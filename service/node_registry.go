package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"maxwellmaster/domain"
	"maxwellmaster/helpers"
	"maxwellmaster/interfaces"

	"github.com/cespare/xxhash/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// nodeStripes is the number of per-id mutexes of one class. Operations on the same (class, id)
// always hash to the same stripe.
const nodeStripes = 64

// classTable is the in-memory membership of one node class. version counts committed changes.
type classTable struct {
	stripes [nodeStripes]sync.Mutex

	mu      sync.RWMutex
	entries map[domain.NodeID]domain.NodeEntry
	version uint64
}

// NodeRegistry is the authoritative membership of frontend and backend nodes. Every mutation is
// written to the store first and applied to memory only once the write succeeded, so readers never
// observe a change the store rejected. Events are published while the node stripe is still held,
// which keeps the event order of one node equal to the order its mutations were applied.
//
// Lock order: node stripe, then class table. The class lock is never held across a store call.
type NodeRegistry struct {
	store      interfaces.Store
	clock      interfaces.TimeProvider
	events     interfaces.EventPublisher
	thresholds domain.Thresholds
	logger     log.Logger

	tables   map[domain.NodeClass]*classTable
	degraded atomic.Bool
}

// NewNodeRegistry creates an empty registry. Call Load before serving to restore persisted nodes.
// Panics on nil dependencies or invalid thresholds.
func NewNodeRegistry(
	store interfaces.Store,
	clock interfaces.TimeProvider,
	events interfaces.EventPublisher,
	thresholds domain.Thresholds,
	logger log.Logger,
) *NodeRegistry {
	if err := thresholds.Validate(); err != nil {
		panic("service.node_registry.go: " + err.Error())
	}
	r := &NodeRegistry{
		store:      helpers.NilPanic(store, "service.node_registry.go: store is required"),
		clock:      helpers.NilPanic(clock, "service.node_registry.go: clock is required"),
		events:     helpers.NilPanic(events, "service.node_registry.go: events is required"),
		thresholds: thresholds,
		logger:     log.With(helpers.NilPanic(logger, "service.node_registry.go: logger is required"), "component", "node_registry"),
		tables:     make(map[domain.NodeClass]*classTable, len(domain.Classes)),
	}
	for _, class := range domain.Classes {
		r.tables[class] = &classTable{entries: make(map[domain.NodeID]domain.NodeEntry)}
	}
	return r
}

// Thresholds returns the health thresholds the registry classifies with.
func (r *NodeRegistry) Thresholds() domain.Thresholds {
	return r.thresholds
}

// Degraded reports whether the last store call failed. While degraded, reads keep working and
// writes fail with store_error until the store recovers.
func (r *NodeRegistry) Degraded() bool {
	return r.degraded.Load()
}

// Register inserts a new node with LastHeartbeat = now. A live node with the same id is rejected with
// duplicate_node; a stale one is replaced and rejoined is true.
func (r *NodeRegistry) Register(ctx context.Context, class domain.NodeClass, id domain.NodeID, addr domain.Address, nodeDomain string) (domain.NodeEntry, bool, error) {
	t, err := r.table(class)
	if err != nil {
		return domain.NodeEntry{}, false, err
	}
	defer t.lockNode(id)()

	now := r.clock.Now()
	prev, existed := t.get(id)
	if existed && r.thresholds.Classify(now.Sub(prev.LastHeartbeat)) != domain.HealthStale {
		return domain.NodeEntry{}, false, NewDuplicateNodeError(fmt.Sprintf("%s %q is already registered", class, id), nil)
	}

	entry := domain.NodeEntry{
		ID:            id,
		Class:         class,
		Address:       addr,
		Domain:        nodeDomain,
		RegisteredAt:  now,
		LastHeartbeat: now,
		Health:        domain.HealthHealthy,
	}
	err = r.persist(ctx, "put", func(ctx context.Context) error {
		return r.store.Put(ctx, domain.NodeKey(class, id), domain.MarshalEntry(entry))
	})
	if err != nil {
		return domain.NodeEntry{}, false, err
	}

	t.mu.Lock()
	t.entries[id] = entry
	t.version++
	t.mu.Unlock()

	level.Info(r.logger).Log("msg", "node registered", "class", class, "id", id, "rejoined", existed)
	r.events.Publish(domain.Event{Class: class, ID: id, Kind: domain.EventAdded, Health: entry.Health, Entry: &entry, At: now})
	return entry, existed, nil
}

// Heartbeat refreshes LastHeartbeat of a registered node and returns its health before and after.
// A node that already crossed the stale threshold is evicted and reported as unknown_node, so it
// has to register again.
func (r *NodeRegistry) Heartbeat(ctx context.Context, class domain.NodeClass, id domain.NodeID) (domain.Health, domain.Health, error) {
	t, err := r.table(class)
	if err != nil {
		return "", "", err
	}
	defer t.lockNode(id)()

	now := r.clock.Now()
	prev, ok := t.get(id)
	if !ok {
		return "", "", NewUnknownNodeError(fmt.Sprintf("%s %q is not registered", class, id), nil)
	}
	if r.thresholds.Classify(now.Sub(prev.LastHeartbeat)) == domain.HealthStale {
		if _, err := r.evictLocked(ctx, t, class, id, now); err != nil {
			return "", "", err
		}
		return "", "", NewUnknownNodeError(fmt.Sprintf("%s %q expired and must register again", class, id), nil)
	}

	updated := prev
	updated.LastHeartbeat = now
	updated.Health = domain.HealthHealthy
	err = r.persist(ctx, "put", func(ctx context.Context) error {
		return r.store.Put(ctx, domain.NodeKey(class, id), domain.MarshalEntry(updated))
	})
	if err != nil {
		return "", "", err
	}

	t.mu.Lock()
	t.entries[id] = updated
	t.mu.Unlock()

	if prev.Health != updated.Health {
		level.Info(r.logger).Log("msg", "node recovered", "class", class, "id", id, "from", prev.Health)
		r.events.Publish(domain.Event{Class: class, ID: id, Kind: domain.EventHealthChanged, Health: updated.Health, Entry: &updated, At: now})
	}
	return updated.Health, prev.Health, nil
}

// Deregister removes a node from memory and store. Absent nodes yield unknown_node, which callers
// may treat as already done.
func (r *NodeRegistry) Deregister(ctx context.Context, class domain.NodeClass, id domain.NodeID) (domain.NodeEntry, error) {
	t, err := r.table(class)
	if err != nil {
		return domain.NodeEntry{}, err
	}
	defer t.lockNode(id)()

	prev, ok := t.get(id)
	if !ok {
		return domain.NodeEntry{}, NewUnknownNodeError(fmt.Sprintf("%s %q is not registered", class, id), nil)
	}
	err = r.persist(ctx, "delete", func(ctx context.Context) error {
		return r.store.Delete(ctx, domain.NodeKey(class, id))
	})
	if err != nil {
		return domain.NodeEntry{}, err
	}

	t.mu.Lock()
	delete(t.entries, id)
	t.version++
	t.mu.Unlock()

	now := r.clock.Now()
	removed := prev.WithHealth(now, r.thresholds)
	level.Info(r.logger).Log("msg", "node deregistered", "class", class, "id", id)
	r.events.Publish(domain.Event{Class: class, ID: id, Kind: domain.EventRemoved, Reason: domain.ReasonDeregistered, Entry: &removed, At: now})
	return removed, nil
}

// Get returns the node with its health computed for now. Nodes past the stale threshold are
// reported absent even before the sweep evicts them.
func (r *NodeRegistry) Get(class domain.NodeClass, id domain.NodeID) (domain.NodeEntry, bool) {
	t, err := r.table(class)
	if err != nil {
		return domain.NodeEntry{}, false
	}
	t.mu.RLock()
	e, ok := t.entries[id]
	t.mu.RUnlock()
	if !ok {
		return domain.NodeEntry{}, false
	}
	e = e.WithHealth(r.clock.Now(), r.thresholds)
	if e.Health == domain.HealthStale {
		return domain.NodeEntry{}, false
	}
	return e, true
}

// List returns a consistent snapshot of the live nodes of class sorted by id.
func (r *NodeRegistry) List(class domain.NodeClass) []domain.NodeEntry {
	entries, _ := r.snapshot(class)
	return entries
}

// Version returns the number of committed membership changes of class since start.
func (r *NodeRegistry) Version(class domain.NodeClass) uint64 {
	t, err := r.table(class)
	if err != nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// Checksum returns the version and a digest of the live membership of class. Two masters (or a
// master and a frontend cache) with equal checksums agree on ids and addresses.
func (r *NodeRegistry) Checksum(class domain.NodeClass) (uint64, uint64) {
	entries, version := r.snapshot(class)
	d := xxhash.New()
	for _, e := range entries {
		_, _ = d.WriteString(string(e.ID))
		_, _ = d.WriteString("|")
		_, _ = d.WriteString(e.Address.PrivateIP)
		_, _ = d.WriteString("|")
		_, _ = d.WriteString(strconv.Itoa(int(e.Address.HTTPPort)))
		_, _ = d.WriteString("\n")
	}
	return version, d.Sum64()
}

// snapshot copies the live nodes of class under one read lock.
func (r *NodeRegistry) snapshot(class domain.NodeClass) ([]domain.NodeEntry, uint64) {
	t, err := r.table(class)
	if err != nil {
		return nil, 0
	}
	now := r.clock.Now()
	t.mu.RLock()
	out := make([]domain.NodeEntry, 0, len(t.entries))
	for _, e := range t.entries {
		e = e.WithHealth(now, r.thresholds)
		if e.Health != domain.HealthStale {
			out = append(out, e)
		}
	}
	version := t.version
	t.mu.RUnlock()

	sortByID(out)
	return out, version
}

// IDs returns the ids currently held for class, including stale ones not yet swept.
func (r *NodeRegistry) IDs(class domain.NodeClass) []domain.NodeID {
	t, err := r.table(class)
	if err != nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]domain.NodeID, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	return ids
}

// Reclassify recomputes the health of one node under its stripe lock. A stale node is evicted from
// memory and store; a Healthy/Unhealthy flip is recorded. The change is published before the stripe
// is released and returned for accounting.
func (r *NodeRegistry) Reclassify(ctx context.Context, class domain.NodeClass, id domain.NodeID) (*domain.Event, error) {
	t, err := r.table(class)
	if err != nil {
		return nil, err
	}
	defer t.lockNode(id)()

	now := r.clock.Now()
	e, ok := t.get(id)
	if !ok {
		return nil, nil
	}
	health := r.thresholds.Classify(now.Sub(e.LastHeartbeat))
	switch {
	case health == domain.HealthStale:
		return r.evictLocked(ctx, t, class, id, now)
	case health != e.Health:
		e.Health = health
		t.mu.Lock()
		t.entries[id] = e
		t.mu.Unlock()

		ev := domain.Event{Class: class, ID: id, Kind: domain.EventHealthChanged, Health: health, Entry: &e, At: now}
		r.events.Publish(ev)
		return &ev, nil
	default:
		return nil, nil
	}
}

// evictLocked removes a stale node and publishes its removal. The caller holds the node stripe but
// not the class lock.
func (r *NodeRegistry) evictLocked(ctx context.Context, t *classTable, class domain.NodeClass, id domain.NodeID, now time.Time) (*domain.Event, error) {
	prev, ok := t.get(id)
	if !ok {
		return nil, nil
	}
	err := r.persist(ctx, "delete", func(ctx context.Context) error {
		return r.store.Delete(ctx, domain.NodeKey(class, id))
	})
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	delete(t.entries, id)
	t.version++
	t.mu.Unlock()

	prev.Health = domain.HealthStale
	level.Info(r.logger).Log("msg", "stale node evicted", "class", class, "id", id, "last_heartbeat", prev.LastHeartbeat)
	ev := domain.Event{Class: class, ID: id, Kind: domain.EventRemoved, Reason: domain.ReasonStale, Health: domain.HealthStale, Entry: &prev, At: now}
	r.events.Publish(ev)
	return &ev, nil
}

// Purge removes every node of class with a single range deletion and publishes a removal per node.
// The stripes of class are held for the duration so no register or heartbeat of class interleaves;
// the other class is not affected.
func (r *NodeRegistry) Purge(ctx context.Context, class domain.NodeClass) ([]domain.NodeEntry, error) {
	t, err := r.table(class)
	if err != nil {
		return nil, err
	}
	for i := range t.stripes {
		t.stripes[i].Lock()
	}
	defer func() {
		for i := range t.stripes {
			t.stripes[i].Unlock()
		}
	}()

	err = r.persist(ctx, "delete_range", func(ctx context.Context) error {
		start, end := domain.ClassRange(class)
		return r.store.DeleteRange(ctx, start, end)
	})
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	prev := t.entries
	t.entries = make(map[domain.NodeID]domain.NodeEntry)
	t.version++
	t.mu.Unlock()

	now := r.clock.Now()
	removed := make([]domain.NodeEntry, 0, len(prev))
	for _, e := range prev {
		removed = append(removed, e.WithHealth(now, r.thresholds))
	}
	sortByID(removed)
	for i := range removed {
		e := removed[i]
		r.events.Publish(domain.Event{Class: class, ID: e.ID, Kind: domain.EventRemoved, Reason: domain.ReasonPurged, Entry: &e, At: now})
	}
	level.Warn(r.logger).Log("msg", "node class purged", "class", class, "removed", len(removed))
	return removed, nil
}

// Load restores membership from the store. Records whose last heartbeat is already past the stale
// threshold are deleted from the store instead of loaded. Undecodable records are logged and skipped.
func (r *NodeRegistry) Load(ctx context.Context) error {
	now := r.clock.Now()
	for _, class := range domain.Classes {
		t := r.tables[class]
		loaded := make(map[domain.NodeID]domain.NodeEntry)
		var expired [][]byte

		for kv, err := range r.store.Scan(ctx, domain.ClassPrefix(class)) {
			if err != nil {
				r.degraded.Store(true)
				return NewStoreError(fmt.Sprintf("scan %s records", class), err)
			}
			e, err := domain.UnmarshalEntry(kv.Value)
			if err != nil {
				level.Warn(r.logger).Log("msg", "skipping undecodable record", "key", string(kv.Key), "err", err)
				continue
			}
			if e.Class != class {
				level.Warn(r.logger).Log("msg", "skipping record stored under foreign class", "key", string(kv.Key), "class", e.Class)
				continue
			}
			e = e.WithHealth(now, r.thresholds)
			if e.Health == domain.HealthStale {
				expired = append(expired, kv.Key)
				continue
			}
			loaded[e.ID] = e
		}

		for _, key := range expired {
			err := r.persist(ctx, "delete", func(ctx context.Context) error {
				return r.store.Delete(ctx, key)
			})
			if err != nil {
				return err
			}
		}

		t.mu.Lock()
		t.entries = loaded
		if len(loaded) > 0 {
			t.version++
		}
		t.mu.Unlock()

		level.Info(r.logger).Log("msg", "membership restored", "class", class, "loaded", len(loaded), "expired", len(expired))
	}
	return nil
}

func (r *NodeRegistry) table(class domain.NodeClass) (*classTable, error) {
	t, ok := r.tables[class]
	if !ok {
		return nil, NewBadParameterError(fmt.Sprintf("unknown node class %q", class), nil)
	}
	return t, nil
}

// lockNode locks the stripe of id and returns its unlock func.
func (t *classTable) lockNode(id domain.NodeID) func() {
	m := &t.stripes[xxhash.Sum64String(string(id))%nodeStripes]
	m.Lock()
	return m.Unlock
}

func (t *classTable) get(id domain.NodeID) (domain.NodeEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[id]
	return e, ok
}

// persist runs a store call, retrying once. The outcome sets the degraded flag.
func (r *NodeRegistry) persist(ctx context.Context, op string, call func(context.Context) error) error {
	err := call(ctx)
	if err != nil {
		level.Warn(r.logger).Log("msg", "store call failed, retrying", "op", op, "err", err)
		err = call(ctx)
	}
	if err != nil {
		if !r.degraded.Swap(true) {
			level.Error(r.logger).Log("msg", "store unavailable, registry is read-only", "op", op, "err", err)
		}
		return NewStoreError(fmt.Sprintf("store %s failed", op), err)
	}
	if r.degraded.Swap(false) {
		level.Info(r.logger).Log("msg", "store recovered, registry is writable")
	}
	return nil
}

func sortByID(entries []domain.NodeEntry) {
	slices.SortFunc(entries, func(a, b domain.NodeEntry) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
}
