package handlers

import "time"

// RegisterRequest is the body of POST /v1/{class}/register.
type RegisterRequest struct {
	ID        string `json:"id"`
	PrivateIP string `json:"private_ip,omitempty"`
	PublicIP  string `json:"public_ip,omitempty"`
	HTTPPort  int    `json:"http_port,omitempty"`
	HTTPSPort int    `json:"https_port,omitempty"`
	Domain    string `json:"domain,omitempty"`
}

// Node is a registered node as returned to clients.
type Node struct {
	ID            string    `json:"id"`
	Class         string    `json:"class"`
	PrivateIP     string    `json:"private_ip"`
	PublicIP      string    `json:"public_ip,omitempty"`
	HTTPPort      int       `json:"http_port"`
	HTTPSPort     int       `json:"https_port,omitempty"`
	Domain        string    `json:"domain,omitempty"`
	RegisteredAt  time.Time `json:"registered_at"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
	Health        string    `json:"health"`
}

type RegisterResponse struct {
	Node     Node `json:"node"`
	Rejoined bool `json:"rejoined"`
}

type HeartbeatResponse struct {
	Health string `json:"health"`
}

type DeregisterResponse struct {
	Removed bool `json:"removed"`
}

type RemovedResponse struct {
	Removed int `json:"removed"`
}

// Membership is a class listing. Checksum is hex encoded.
type Membership struct {
	Class    string `json:"class"`
	Version  uint64 `json:"version"`
	Checksum string `json:"checksum"`
	Nodes    []Node `json:"nodes"`
}

type ChecksumResponse struct {
	Class    string `json:"class"`
	Version  uint64 `json:"version"`
	Checksum string `json:"checksum"`
}

type EndpointResponse struct {
	Endpoint string `json:"endpoint"`
}

type EndpointsResponse struct {
	Endpoints []string `json:"endpoints"`
}

type TopicLocationResponse struct {
	Topic    string `json:"topic"`
	Backend  string `json:"backend"`
	Endpoint string `json:"endpoint"`
	Assigned bool   `json:"assigned"`
}

type ResolveIPResponse struct {
	IP string `json:"ip"`
}

type HealthzResponse struct {
	Status string `json:"status"`
}

// Stream message types sent on the subscribe websocket.
const (
	MessageSubscribed = "subscribed"
	MessageSnapshot   = "snapshot"
	MessageEvent      = "event"
)

// StreamMessage is one websocket frame. Exactly one payload field is set, matching Type.
type StreamMessage struct {
	Type       string      `json:"type"`
	Subscribed *Subscribed `json:"subscribed,omitempty"`
	Snapshot   *Membership `json:"snapshot,omitempty"`
	Event      *Event      `json:"event,omitempty"`
}

// Subscribed opens every stream. StartSeq is the last sequence number of Class published before
// the snapshot was taken; zero when the stream covers every class.
type Subscribed struct {
	SubscriptionID string `json:"subscription_id"`
	Class          string `json:"class,omitempty"`
	StartSeq       uint64 `json:"start_seq"`
}

type Event struct {
	Seq    uint64    `json:"seq"`
	Class  string    `json:"class"`
	ID     string    `json:"id"`
	Kind   string    `json:"kind"`
	Health string    `json:"health,omitempty"`
	Reason string    `json:"reason,omitempty"`
	Node   *Node     `json:"node,omitempty"`
	At     time.Time `json:"at"`
}
