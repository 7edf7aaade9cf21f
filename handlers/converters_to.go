package handlers

import (
	"fmt"

	"maxwellmaster/domain"
	"maxwellmaster/service"
)

func toNode(e domain.NodeEntry) Node {
	return Node{
		ID:            string(e.ID),
		Class:         string(e.Class),
		PrivateIP:     e.Address.PrivateIP,
		PublicIP:      e.Address.PublicIP,
		HTTPPort:      int(e.Address.HTTPPort),
		HTTPSPort:     int(e.Address.HTTPSPort),
		Domain:        e.Domain,
		RegisteredAt:  e.RegisteredAt,
		LastHeartbeat: e.LastHeartbeat,
		Health:        string(e.Health),
	}
}

func toMembership(m service.Membership) Membership {
	nodes := make([]Node, 0, len(m.Nodes))
	for _, e := range m.Nodes {
		nodes = append(nodes, toNode(e))
	}
	return Membership{
		Class:    string(m.Class),
		Version:  m.Version,
		Checksum: formatChecksum(m.Checksum),
		Nodes:    nodes,
	}
}

func toChecksumResponse(m service.Membership) ChecksumResponse {
	return ChecksumResponse{
		Class:    string(m.Class),
		Version:  m.Version,
		Checksum: formatChecksum(m.Checksum),
	}
}

func formatChecksum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

func toEvent(ev domain.Event) Event {
	out := Event{
		Seq:    ev.Seq,
		Class:  string(ev.Class),
		ID:     string(ev.ID),
		Kind:   string(ev.Kind),
		Health: string(ev.Health),
		Reason: string(ev.Reason),
		At:     ev.At,
	}
	if ev.Entry != nil {
		n := toNode(*ev.Entry)
		out.Node = &n
	}
	return out
}

func toTopicLocation(loc service.TopicLocation) TopicLocationResponse {
	return TopicLocationResponse{
		Topic:    loc.Topic,
		Backend:  string(loc.Backend),
		Endpoint: loc.Endpoint,
		Assigned: loc.Assigned,
	}
}
