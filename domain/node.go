// Package domain holds the registry's data model: node classes, entries, health classification,
// membership events and the persisted record layout.
package domain

import (
	"fmt"
	"time"
)

// NodeClass partitions the registry into independent namespaces.
type NodeClass string

const (
	// ClassFrontend is an edge-facing node accepting client connections.
	ClassFrontend NodeClass = "frontend"
	// ClassBackend is a worker node registered for discovery.
	ClassBackend NodeClass = "backend"
)

// Classes lists every known class in key order.
var Classes = []NodeClass{ClassBackend, ClassFrontend}

// ParseNodeClass converts a transport value into a NodeClass.
func ParseNodeClass(s string) (NodeClass, error) {
	switch NodeClass(s) {
	case ClassFrontend, ClassBackend:
		return NodeClass(s), nil
	default:
		return "", fmt.Errorf("unknown node class %q", s)
	}
}

// NodeID is an opaque identifier supplied by the node itself. Unique within its class.
type NodeID string

// Address describes how a node can be reached.
type Address struct {
	PrivateIP string `json:"private_ip" yaml:"private_ip"`
	PublicIP  string `json:"public_ip,omitempty" yaml:"public_ip"`
	HTTPPort  uint16 `json:"http_port" yaml:"http_port"`
	HTTPSPort uint16 `json:"https_port,omitempty" yaml:"https_port"`
}

// NodeEntry is one registered node. Health is derived from LastHeartbeat and is never set by a client.
type NodeEntry struct {
	ID            NodeID    `json:"id"`
	Class         NodeClass `json:"class"`
	Address       Address   `json:"address"`
	Domain        string    `json:"domain,omitempty"`
	RegisteredAt  time.Time `json:"registered_at"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
	Health        Health    `json:"health"`
}

// WithHealth returns a copy of e with Health recomputed for now.
func (e NodeEntry) WithHealth(now time.Time, th Thresholds) NodeEntry {
	e.Health = th.Classify(now.Sub(e.LastHeartbeat))
	return e
}

// NodeDescriptor is a statically configured node (seed list entry).
type NodeDescriptor struct {
	ID      NodeID  `yaml:"id"`
	Domain  string  `yaml:"domain"`
	Address Address `yaml:",inline"`
}
