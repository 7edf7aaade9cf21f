// Package handlers contains the HTTP transport of the master.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"time"

	"maxwellmaster/domain"
	"maxwellmaster/service"

	"github.com/go-kit/log"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Registry is the registry facade the handlers call.
//
//go:generate moq -out registry_mock_test.go . Registry
type Registry interface {
	Register(ctx context.Context, req service.RegisterRequest) (domain.NodeEntry, bool, error)
	Heartbeat(ctx context.Context, class string, id string) (domain.Health, error)
	Deregister(ctx context.Context, class string, id string) (bool, error)
	Get(class string, id string) (domain.NodeEntry, error)
	List(class string) (service.Membership, error)
	Checksum(class string) (service.Membership, error)
	Purge(ctx context.Context, class string) (int, error)
	LocateTopic(ctx context.Context, topic string) (service.TopicLocation, error)
	PickFrontend(peer netip.Addr, https bool) (string, error)
	FrontendEndpoints(peer netip.Addr, https bool) []string
	Subscribe(class string) (*service.Subscription, []service.Membership, error)
	Degraded() bool
}

// Options tunes the HTTP surface.
type Options struct {
	// Workers bounds concurrently handled requests. Subscriptions do not hold a worker.
	Workers int
	// MaxFrameSize bounds request bodies and inbound websocket frames, in bytes.
	MaxFrameSize int64
	// PingInterval is how often an idle subscription is pinged.
	PingInterval time.Duration
}

// HTTPServer serves the registry over HTTP.
type HTTPServer struct {
	registry Registry
	options  Options
	upgrader websocket.Upgrader
	logger   log.Logger
}

// NewHTTPServer creates a new HTTPServer.
func NewHTTPServer(registry Registry, options Options, logger log.Logger) *HTTPServer {
	if options.PingInterval <= 0 {
		options.PingInterval = 30 * time.Second
	}
	return &HTTPServer{
		registry: registry,
		options:  options,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  4096,
		},
		logger: log.WithPrefix(logger, "component", "HTTPServer"),
	}
}

// RegisterHandlers adds every route to e. middlewares run on every /v1 route; the worker limit
// is added on top for everything except the subscription stream.
func RegisterHandlers(e *echo.Echo, h *HTTPServer, middlewares ...echo.MiddlewareFunc) {
	limited := append([]echo.MiddlewareFunc{}, middlewares...)
	if h.options.Workers > 0 {
		limited = append(limited, NewWorkerLimiter(h.options.Workers))
	}

	e.GET("/healthz", h.Healthz)
	e.GET("/v1/subscribe", h.Subscribe, middlewares...)
	e.GET("/v1/frontends/pick", h.PickFrontend, limited...)
	e.GET("/v1/frontends/endpoints", h.FrontendEndpoints, limited...)
	e.GET("/v1/topics/locate", h.LocateTopic, limited...)
	e.GET("/v1/resolve-ip", h.ResolveIP, middlewares...)
	e.GET("/v1/:class", h.ListNodes, limited...)
	e.DELETE("/v1/:class", h.PurgeClass, limited...)
	e.GET("/v1/:class/checksum", h.ClassChecksum, limited...)
	e.POST("/v1/:class/register", h.RegisterNode, limited...)
	e.GET("/v1/:class/:id", h.GetNode, limited...)
	e.DELETE("/v1/:class/:id", h.DeregisterNode, limited...)
	e.POST("/v1/:class/:id/heartbeat", h.HeartbeatNode, limited...)
}

// Healthz (GET /healthz) reports liveness. A failing store degrades but does not fail the check.
func (h *HTTPServer) Healthz(ectx echo.Context) error {
	status := "ok"
	if h.registry.Degraded() {
		status = "degraded"
	}
	return ectx.JSON(http.StatusOK, HealthzResponse{Status: status})
}

// RegisterNode (POST /v1/{class}/register) registers a node. Returns 409 while a live node holds the id.
func (h *HTTPServer) RegisterNode(ectx echo.Context) error {
	var req RegisterRequest
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}

	entry, rejoined, err := h.registry.Register(ectx.Request().Context(), fromRegisterRequest(ectx.Param("class"), req))
	if err != nil {
		return fmt.Errorf("registerNode failed to register %s node, err: %w", ectx.Param("class"), err)
	}

	return ectx.JSON(http.StatusOK, RegisterResponse{Node: toNode(entry), Rejoined: rejoined})
}

// HeartbeatNode (POST /v1/{class}/{id}/heartbeat) refreshes a node. Returns 404 for unknown or
// already stale nodes, which must register again.
func (h *HTTPServer) HeartbeatNode(ectx echo.Context) error {
	health, err := h.registry.Heartbeat(ectx.Request().Context(), ectx.Param("class"), ectx.Param("id"))
	if err != nil {
		return fmt.Errorf("heartbeatNode failed, err: %w", err)
	}

	return ectx.JSON(http.StatusOK, HeartbeatResponse{Health: string(health)})
}

// DeregisterNode (DELETE /v1/{class}/{id}) removes a node. Removing an absent node succeeds.
func (h *HTTPServer) DeregisterNode(ectx echo.Context) error {
	removed, err := h.registry.Deregister(ectx.Request().Context(), ectx.Param("class"), ectx.Param("id"))
	if err != nil {
		return fmt.Errorf("deregisterNode failed, err: %w", err)
	}

	return ectx.JSON(http.StatusOK, DeregisterResponse{Removed: removed})
}

// GetNode (GET /v1/{class}/{id}) returns one live node.
func (h *HTTPServer) GetNode(ectx echo.Context) error {
	entry, err := h.registry.Get(ectx.Param("class"), ectx.Param("id"))
	if err != nil {
		return fmt.Errorf("getNode failed, err: %w", err)
	}

	return ectx.JSON(http.StatusOK, toNode(entry))
}

// ListNodes (GET /v1/{class}) returns the live nodes of a class sorted by id.
func (h *HTTPServer) ListNodes(ectx echo.Context) error {
	m, err := h.registry.List(ectx.Param("class"))
	if err != nil {
		return fmt.Errorf("listNodes failed, err: %w", err)
	}

	return ectx.JSON(http.StatusOK, toMembership(m))
}

// ClassChecksum (GET /v1/{class}/checksum) returns membership version and checksum.
func (h *HTTPServer) ClassChecksum(ectx echo.Context) error {
	m, err := h.registry.Checksum(ectx.Param("class"))
	if err != nil {
		return fmt.Errorf("classChecksum failed, err: %w", err)
	}

	return ectx.JSON(http.StatusOK, toChecksumResponse(m))
}

// PurgeClass (DELETE /v1/{class}) removes every node of a class.
func (h *HTTPServer) PurgeClass(ectx echo.Context) error {
	removed, err := h.registry.Purge(ectx.Request().Context(), ectx.Param("class"))
	if err != nil {
		return fmt.Errorf("purgeClass failed, err: %w", err)
	}

	return ectx.JSON(http.StatusOK, RemovedResponse{Removed: removed})
}

// PickFrontend (GET /v1/frontends/pick) returns a random healthy frontend reachable by the caller.
func (h *HTTPServer) PickFrontend(ectx echo.Context) error {
	peer, https := peerOf(ectx)
	endpoint, err := h.registry.PickFrontend(peer, https)
	if err != nil {
		return fmt.Errorf("pickFrontend failed, err: %w", err)
	}

	return ectx.JSON(http.StatusOK, EndpointResponse{Endpoint: endpoint})
}

// FrontendEndpoints (GET /v1/frontends/endpoints) lists every live frontend reachable by the caller.
func (h *HTTPServer) FrontendEndpoints(ectx echo.Context) error {
	peer, https := peerOf(ectx)
	return ectx.JSON(http.StatusOK, EndpointsResponse{Endpoints: h.registry.FrontendEndpoints(peer, https)})
}

// LocateTopic (GET /v1/topics/locate?topic=) returns the backend a topic is pinned to.
func (h *HTTPServer) LocateTopic(ectx echo.Context) error {
	loc, err := h.registry.LocateTopic(ectx.Request().Context(), ectx.QueryParam("topic"))
	if err != nil {
		return fmt.Errorf("locateTopic failed, err: %w", err)
	}

	return ectx.JSON(http.StatusOK, toTopicLocation(loc))
}

// ResolveIP (GET /v1/resolve-ip) echoes the address the caller connects from.
func (h *HTTPServer) ResolveIP(ectx echo.Context) error {
	peer, _ := peerOf(ectx)
	if !peer.IsValid() {
		return service.NewInternalServerError("can't resolve peer address", nil)
	}

	return ectx.JSON(http.StatusOK, ResolveIPResponse{IP: peer.String()})
}
