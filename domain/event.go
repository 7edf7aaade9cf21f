package domain

import "time"

// EventKind tells what happened to a node.
type EventKind string

const (
	EventAdded         EventKind = "added"
	EventRemoved       EventKind = "removed"
	EventHealthChanged EventKind = "health_changed"
)

// RemoveReason explains an EventRemoved.
type RemoveReason string

const (
	ReasonDeregistered RemoveReason = "deregistered"
	ReasonStale        RemoveReason = "stale"
	ReasonPurged       RemoveReason = "purged"
)

// Event is a membership change. Seq is assigned by the broker and increases by one per published
// event, so a subscriber that sees a gap knows it missed events and should re-list.
type Event struct {
	Seq    uint64       `json:"seq"`
	Class  NodeClass    `json:"class"`
	ID     NodeID       `json:"id"`
	Kind   EventKind    `json:"kind"`
	Health Health       `json:"health,omitempty"`
	Reason RemoveReason `json:"reason,omitempty"`
	Entry  *NodeEntry   `json:"entry,omitempty"`
	At     time.Time    `json:"at"`
}
