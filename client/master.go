// Package client talks to the master over HTTP on behalf of a frontend or backend node.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"maxwellmaster/domain"
	"maxwellmaster/handlers"
	"maxwellmaster/helpers"
	"maxwellmaster/service"
)

// MasterHTTP creates a client for the master at baseURL (e.g. http://maxwell-master:2000), no
// trailing slash. Panics on empty baseURL or nil client.
func MasterHTTP(baseURL string, client *http.Client) *masterHTTP {
	return &masterHTTP{
		baseURL: helpers.StrPanic(baseURL, "client.master.go: baseURL is required"),
		client:  helpers.NilPanic(client, "client.master.go: http client is required"),
	}
}

type masterHTTP struct {
	baseURL string
	client  *http.Client
}

// Membership is a class listing as seen by a client.
type Membership struct {
	Version  uint64
	Checksum uint64
	Nodes    []domain.NodeEntry
}

// Register registers the node described by d in class. Returns whether a stale entry was replaced.
func (m *masterHTTP) Register(ctx context.Context, class domain.NodeClass, d domain.NodeDescriptor) (domain.NodeEntry, bool, error) {
	body, err := json.Marshal(handlers.RegisterRequest{
		ID:        string(d.ID),
		PrivateIP: d.Address.PrivateIP,
		PublicIP:  d.Address.PublicIP,
		HTTPPort:  int(d.Address.HTTPPort),
		HTTPSPort: int(d.Address.HTTPSPort),
		Domain:    d.Domain,
	})
	if err != nil {
		return domain.NodeEntry{}, false, err
	}
	var resp handlers.RegisterResponse
	if err := m.do(ctx, http.MethodPost, "/v1/"+url.PathEscape(string(class))+"/register", body, &resp); err != nil {
		return domain.NodeEntry{}, false, err
	}
	entry, err := fromNode(resp.Node)
	return entry, resp.Rejoined, err
}

// Heartbeat refreshes the node. An unknown_node MyError means the node must register again.
func (m *masterHTTP) Heartbeat(ctx context.Context, class domain.NodeClass, id domain.NodeID) (domain.Health, error) {
	var resp handlers.HeartbeatResponse
	if err := m.do(ctx, http.MethodPost, nodePath(class, id)+"/heartbeat", nil, &resp); err != nil {
		return "", err
	}
	return domain.Health(resp.Health), nil
}

// Deregister removes the node. Reports whether it was registered.
func (m *masterHTTP) Deregister(ctx context.Context, class domain.NodeClass, id domain.NodeID) (bool, error) {
	var resp handlers.DeregisterResponse
	if err := m.do(ctx, http.MethodDelete, nodePath(class, id), nil, &resp); err != nil {
		return false, err
	}
	return resp.Removed, nil
}

// List returns the live nodes of class.
func (m *masterHTTP) List(ctx context.Context, class domain.NodeClass) (Membership, error) {
	var resp handlers.Membership
	if err := m.do(ctx, http.MethodGet, "/v1/"+url.PathEscape(string(class)), nil, &resp); err != nil {
		return Membership{}, err
	}
	checksum, err := strconv.ParseUint(resp.Checksum, 16, 64)
	if err != nil {
		return Membership{}, fmt.Errorf("master returned malformed checksum %q: %w", resp.Checksum, err)
	}
	out := Membership{Version: resp.Version, Checksum: checksum, Nodes: make([]domain.NodeEntry, 0, len(resp.Nodes))}
	for _, n := range resp.Nodes {
		e, err := fromNode(n)
		if err != nil {
			return Membership{}, err
		}
		out.Nodes = append(out.Nodes, e)
	}
	return out, nil
}

// Checksum returns the version and checksum of class.
func (m *masterHTTP) Checksum(ctx context.Context, class domain.NodeClass) (uint64, uint64, error) {
	var resp handlers.ChecksumResponse
	if err := m.do(ctx, http.MethodGet, "/v1/"+url.PathEscape(string(class))+"/checksum", nil, &resp); err != nil {
		return 0, 0, err
	}
	checksum, err := strconv.ParseUint(resp.Checksum, 16, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("master returned malformed checksum %q: %w", resp.Checksum, err)
	}
	return resp.Version, checksum, nil
}

// PickFrontend returns the endpoint of a healthy frontend as seen from this client.
func (m *masterHTTP) PickFrontend(ctx context.Context) (string, error) {
	var resp handlers.EndpointResponse
	if err := m.do(ctx, http.MethodGet, "/v1/frontends/pick", nil, &resp); err != nil {
		return "", err
	}
	return resp.Endpoint, nil
}

// LocateTopic returns the backend topic is pinned to, assigning one if needed.
func (m *masterHTTP) LocateTopic(ctx context.Context, topic string) (handlers.TopicLocationResponse, error) {
	var resp handlers.TopicLocationResponse
	err := m.do(ctx, http.MethodGet, "/v1/topics/locate?topic="+url.QueryEscape(topic), nil, &resp)
	return resp, err
}

// ResolveIP returns this client's address as the master sees it.
func (m *masterHTTP) ResolveIP(ctx context.Context) (string, error) {
	var resp handlers.ResolveIPResponse
	if err := m.do(ctx, http.MethodGet, "/v1/resolve-ip", nil, &resp); err != nil {
		return "", err
	}
	return resp.IP, nil
}

func (m *masterHTTP) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("can't decode master response for %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError turns an error response back into a MyError so callers can use the Is* predicates.
func decodeError(status int, data []byte) error {
	var body service.ErrResponse
	if err := json.Unmarshal(data, &body); err != nil || body.Error == nil || body.Error.Code == "" {
		return fmt.Errorf("master returned %d", status)
	}
	return service.NewMyError(body.Error.Code, body.Error.Message, fmt.Errorf("master returned %d", status))
}

func nodePath(class domain.NodeClass, id domain.NodeID) string {
	return "/v1/" + url.PathEscape(string(class)) + "/" + url.PathEscape(string(id))
}

func fromNode(n handlers.Node) (domain.NodeEntry, error) {
	class, err := domain.ParseNodeClass(n.Class)
	if err != nil {
		return domain.NodeEntry{}, fmt.Errorf("master returned node %q: %w", n.ID, err)
	}
	return domain.NodeEntry{
		ID:    domain.NodeID(n.ID),
		Class: class,
		Address: domain.Address{
			PrivateIP: n.PrivateIP,
			PublicIP:  n.PublicIP,
			HTTPPort:  uint16(n.HTTPPort),
			HTTPSPort: uint16(n.HTTPSPort),
		},
		Domain:        n.Domain,
		RegisteredAt:  n.RegisteredAt,
		LastHeartbeat: n.LastHeartbeat,
		Health:        domain.Health(n.Health),
	}, nil
}
