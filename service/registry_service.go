package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/netip"
	"strings"
	"unicode"

	"maxwellmaster/domain"
	"maxwellmaster/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const maxNodeIDLength = 255

// ClassPolicy is the static configuration of one node class.
type ClassPolicy struct {
	// Seeds are statically known nodes. Their addresses fill fields a register request leaves empty.
	Seeds []domain.NodeDescriptor
	// Strict admits only seeded ids.
	Strict bool
}

// RegisterRequest is a register call as delivered by the transport.
type RegisterRequest struct {
	Class     string
	ID        string
	PrivateIP string
	PublicIP  string
	HTTPPort  int
	HTTPSPort int
	Domain    string
}

// Membership is a listing of one class together with its version and checksum.
type Membership struct {
	Class    domain.NodeClass   `json:"class"`
	Version  uint64             `json:"version"`
	Checksum uint64             `json:"checksum"`
	Nodes    []domain.NodeEntry `json:"nodes"`
}

// RegistryService validates transport requests, calls the registry and owns subscriptions.
type RegistryService struct {
	registry         *NodeRegistry
	broker           *Broker
	topics           *TopicLocator
	policies         map[domain.NodeClass]ClassPolicy
	seeds            map[domain.NodeClass]map[domain.NodeID]domain.NodeDescriptor
	subscriberBuffer int
	logger           log.Logger
}

// NewRegistryService creates the facade. policies may omit a class, which is then open and unseeded.
func NewRegistryService(
	registry *NodeRegistry,
	broker *Broker,
	policies map[domain.NodeClass]ClassPolicy,
	subscriberBuffer int,
	logger log.Logger,
) *RegistryService {
	s := &RegistryService{
		registry:         helpers.NilPanic(registry, "service.registry_service.go: registry is required"),
		broker:           helpers.NilPanic(broker, "service.registry_service.go: broker is required"),
		policies:         policies,
		seeds:            make(map[domain.NodeClass]map[domain.NodeID]domain.NodeDescriptor),
		subscriberBuffer: subscriberBuffer,
		logger:           log.With(helpers.NilPanic(logger, "service.registry_service.go: logger is required"), "component", "registry_service"),
	}
	s.topics = NewTopicLocator(s.registry, logger)
	for class, p := range policies {
		byID := make(map[domain.NodeID]domain.NodeDescriptor, len(p.Seeds))
		for _, d := range p.Seeds {
			byID[d.ID] = d
		}
		s.seeds[class] = byID
	}
	return s
}

// Register validates req and registers the node. Returns the stored entry and whether a stale
// entry with the same id was replaced.
func (s *RegistryService) Register(ctx context.Context, req RegisterRequest) (domain.NodeEntry, bool, error) {
	class, id, err := parseNodeRef(req.Class, req.ID)
	if err != nil {
		return domain.NodeEntry{}, false, err
	}

	seed, seeded := s.seeds[class][id]
	if s.policies[class].Strict && !seeded {
		level.Warn(s.logger).Log("msg", "rejected unseeded node", "class", class, "id", id)
		return domain.NodeEntry{}, false, NewBadParameterError(fmt.Sprintf("%s %q is not allowed to register", class, id), nil)
	}
	if seeded {
		req = fillFromSeed(req, seed)
	}

	addr, nodeDomain, err := validateAddress(class, req)
	if err != nil {
		return domain.NodeEntry{}, false, err
	}

	return s.registry.Register(ctx, class, id, addr, nodeDomain)
}

// Heartbeat refreshes a node and returns its current health.
func (s *RegistryService) Heartbeat(ctx context.Context, class string, id string) (domain.Health, error) {
	c, nodeID, err := parseNodeRef(class, id)
	if err != nil {
		return "", err
	}
	health, _, err := s.registry.Heartbeat(ctx, c, nodeID)
	return health, err
}

// Deregister removes a node. Removing an absent node succeeds with removed = false.
func (s *RegistryService) Deregister(ctx context.Context, class string, id string) (bool, error) {
	c, nodeID, err := parseNodeRef(class, id)
	if err != nil {
		return false, err
	}
	_, err = s.registry.Deregister(ctx, c, nodeID)
	if IsUnknownNodeError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get returns one live node or unknown_node.
func (s *RegistryService) Get(class string, id string) (domain.NodeEntry, error) {
	c, nodeID, err := parseNodeRef(class, id)
	if err != nil {
		return domain.NodeEntry{}, err
	}
	e, ok := s.registry.Get(c, nodeID)
	if !ok {
		return domain.NodeEntry{}, NewUnknownNodeError(fmt.Sprintf("%s %q is not registered", c, nodeID), nil)
	}
	return e, nil
}

// List returns the live nodes of class sorted by id, with version and checksum.
func (s *RegistryService) List(class string) (Membership, error) {
	c, err := parseClass(class)
	if err != nil {
		return Membership{}, err
	}
	nodes := s.registry.List(c)
	version, checksum := s.registry.Checksum(c)
	return Membership{Class: c, Version: version, Checksum: checksum, Nodes: nodes}, nil
}

// Checksum returns the version and checksum of class without the node list.
func (s *RegistryService) Checksum(class string) (Membership, error) {
	c, err := parseClass(class)
	if err != nil {
		return Membership{}, err
	}
	version, checksum := s.registry.Checksum(c)
	return Membership{Class: c, Version: version, Checksum: checksum}, nil
}

// Purge removes every node of class and returns how many were removed.
func (s *RegistryService) Purge(ctx context.Context, class string) (int, error) {
	c, err := parseClass(class)
	if err != nil {
		return 0, err
	}
	removed, err := s.registry.Purge(ctx, c)
	if err != nil {
		return 0, err
	}
	return len(removed), nil
}

// PickFrontend returns the endpoint of a random healthy frontend as seen from peer.
func (s *RegistryService) PickFrontend(peer netip.Addr, https bool) (string, error) {
	var healthy []domain.NodeEntry
	for _, e := range s.registry.List(domain.ClassFrontend) {
		if e.Health == domain.HealthHealthy {
			healthy = append(healthy, e)
		}
	}
	if len(healthy) == 0 {
		return "", NewEntityNotFoundError("no available frontend", nil)
	}
	picked := healthy[rand.IntN(len(healthy))]
	return picked.Endpoint(domain.DetectPeerKind(peer), https), nil
}

// FrontendEndpoints returns the endpoints of every live frontend as seen from peer.
func (s *RegistryService) FrontendEndpoints(peer netip.Addr, https bool) []string {
	kind := domain.DetectPeerKind(peer)
	frontends := s.registry.List(domain.ClassFrontend)
	out := make([]string, 0, len(frontends))
	for _, e := range frontends {
		out = append(out, e.Endpoint(kind, https))
	}
	return out
}

// LocateTopic returns the backend a topic is pinned to, assigning one on first use.
func (s *RegistryService) LocateTopic(ctx context.Context, topic string) (TopicLocation, error) {
	return s.topics.Locate(ctx, topic)
}

// Subscribe attaches a subscriber to membership changes of class (empty for every class) and
// returns the current membership. Events published after the snapshot was taken are delivered on
// the subscription; some may already be reflected in the snapshot.
func (s *RegistryService) Subscribe(class string) (*Subscription, []Membership, error) {
	var classes []domain.NodeClass
	var filter domain.NodeClass
	if class == "" {
		classes = domain.Classes
	} else {
		c, err := parseClass(class)
		if err != nil {
			return nil, nil, err
		}
		classes = []domain.NodeClass{c}
		filter = c
	}

	sub := s.broker.Subscribe(filter, s.subscriberBuffer)
	snapshot := make([]Membership, 0, len(classes))
	for _, c := range classes {
		version, checksum := s.registry.Checksum(c)
		snapshot = append(snapshot, Membership{Class: c, Version: version, Checksum: checksum, Nodes: s.registry.List(c)})
	}
	level.Info(s.logger).Log("msg", "subscription opened", "subscription", sub.ID, "class", filter)
	return sub, snapshot, nil
}

// Degraded reports whether the store is currently failing.
func (s *RegistryService) Degraded() bool {
	return s.registry.Degraded()
}

func parseClass(class string) (domain.NodeClass, error) {
	c, err := domain.ParseNodeClass(class)
	if err != nil {
		return "", NewBadParameterError("class must be frontend or backend", err)
	}
	return c, nil
}

func parseNodeRef(class string, id string) (domain.NodeClass, domain.NodeID, error) {
	c, err := parseClass(class)
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(id) == "" {
		return "", "", NewBadParameterError("id is required", nil)
	}
	if len(id) > maxNodeIDLength {
		return "", "", NewBadParameterError(fmt.Sprintf("id must be at most %d bytes", maxNodeIDLength), nil)
	}
	if strings.IndexFunc(id, unicode.IsControl) >= 0 {
		return "", "", NewBadParameterError("id must not contain control characters", nil)
	}
	return c, domain.NodeID(id), nil
}

func fillFromSeed(req RegisterRequest, seed domain.NodeDescriptor) RegisterRequest {
	if req.PrivateIP == "" {
		req.PrivateIP = seed.Address.PrivateIP
	}
	if req.PublicIP == "" {
		req.PublicIP = seed.Address.PublicIP
	}
	if req.HTTPPort == 0 {
		req.HTTPPort = int(seed.Address.HTTPPort)
	}
	if req.HTTPSPort == 0 {
		req.HTTPSPort = int(seed.Address.HTTPSPort)
	}
	if req.Domain == "" {
		req.Domain = seed.Domain
	}
	return req
}

// validateAddress checks IPs and ports. Frontends must be reachable from outside: they need a
// public IP, and a domain when they serve https.
func validateAddress(class domain.NodeClass, req RegisterRequest) (domain.Address, string, error) {
	privateIP, err := netip.ParseAddr(req.PrivateIP)
	if err != nil {
		return domain.Address{}, "", NewBadParameterError("private_ip must be a valid IP address", err)
	}
	var publicIP string
	if req.PublicIP != "" {
		ip, err := netip.ParseAddr(req.PublicIP)
		if err != nil {
			return domain.Address{}, "", NewBadParameterError("public_ip must be a valid IP address", err)
		}
		publicIP = ip.String()
	}
	if req.HTTPPort < 1 || req.HTTPPort > 65535 {
		return domain.Address{}, "", NewBadParameterError("http_port must be 1-65535", nil)
	}
	if req.HTTPSPort < 0 || req.HTTPSPort > 65535 {
		return domain.Address{}, "", NewBadParameterError("https_port must be 0-65535", nil)
	}
	nodeDomain := strings.TrimSpace(req.Domain)
	if class == domain.ClassFrontend {
		if publicIP == "" {
			return domain.Address{}, "", NewBadParameterError("public_ip is required for frontends", nil)
		}
		if req.HTTPSPort != 0 && nodeDomain == "" {
			return domain.Address{}, "", NewBadParameterError("domain is required for frontends serving https", nil)
		}
	}
	return domain.Address{
		PrivateIP: privateIP.String(),
		PublicIP:  publicIP,
		HTTPPort:  uint16(req.HTTPPort),
		HTTPSPort: uint16(req.HTTPSPort),
	}, nodeDomain, nil
}
