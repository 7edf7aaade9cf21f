package domain

import (
	"net/netip"
	"strconv"
)

// PeerKind is the network position of a client asking for frontend endpoints.
type PeerKind int

const (
	PeerPublic PeerKind = iota
	PeerPrivate
	PeerLoopback
)

// DetectPeerKind classifies a peer address. IPv6 peers and unparsable addresses count as public.
func DetectPeerKind(addr netip.Addr) PeerKind {
	addr = addr.Unmap()
	if !addr.Is4() {
		return PeerPublic
	}
	switch {
	case addr.IsLoopback():
		return PeerLoopback
	case addr.IsPrivate():
		return PeerPrivate
	default:
		return PeerPublic
	}
}

// Endpoint renders the host:port a peer of the given kind should dial to reach frontend e.
//
// Loopback and public peers on https get domain:https_port; private peers always get the private
// address; plain-http public peers get the public address.
func (e NodeEntry) Endpoint(peer PeerKind, https bool) string {
	switch {
	case peer == PeerPrivate:
		return hostPort(e.Address.PrivateIP, e.Address.HTTPPort)
	case https:
		return hostPort(e.Domain, e.Address.HTTPSPort)
	case peer == PeerLoopback:
		return hostPort(e.Address.PrivateIP, e.Address.HTTPPort)
	default:
		return hostPort(e.Address.PublicIP, e.Address.HTTPPort)
	}
}

func hostPort(host string, port uint16) string {
	if addr, err := netip.ParseAddr(host); err == nil {
		return netip.AddrPortFrom(addr, port).String()
	}
	return host + ":" + strconv.Itoa(int(port))
}
