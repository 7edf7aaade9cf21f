package handlers

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/netip"

	"github.com/labstack/echo/v4"
	"golang.org/x/net/netutil"
	"golang.org/x/time/rate"
)

// ListenerConfig limits how the HTTP port accepts connections.
type ListenerConfig struct {
	// MaxConnections caps concurrently open connections. Zero means unlimited.
	MaxConnections int
	// MaxConnectionRate caps accepted connections per second. Zero means unlimited.
	MaxConnectionRate float64
	// Backlog is the burst of connections accepted above MaxConnectionRate.
	Backlog int
	// TLS, when set, terminates TLS on the listener.
	TLS *tls.Config
}

// NewListener listens on addr and applies cfg.
func NewListener(ctx context.Context, addr string, cfg ListenerConfig) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("can't listen on %s: %w", addr, err)
	}
	return WrapListener(ln, cfg), nil
}

// WrapListener applies cfg to an open listener.
func WrapListener(ln net.Listener, cfg ListenerConfig) net.Listener {
	if cfg.MaxConnectionRate > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		ln = &rateLimitedListener{
			Listener: ln,
			limiter:  rate.NewLimiter(rate.Limit(cfg.MaxConnectionRate), max(1, cfg.Backlog)),
			ctx:      ctx,
			cancel:   cancel,
		}
	}
	if cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.MaxConnections)
	}
	if cfg.TLS != nil {
		ln = tls.NewListener(ln, cfg.TLS)
	}
	return ln
}

type rateLimitedListener struct {
	net.Listener
	limiter *rate.Limiter
	ctx     context.Context
	cancel  context.CancelFunc
}

func (l *rateLimitedListener) Accept() (net.Conn, error) {
	if err := l.limiter.Wait(l.ctx); err != nil {
		return nil, net.ErrClosed
	}
	return l.Listener.Accept()
}

func (l *rateLimitedListener) Close() error {
	l.cancel()
	return l.Listener.Close()
}

// peerOf returns the remote address of the connection and whether it arrived over TLS.
// Forwarding headers are ignored: the endpoint a peer is given depends on where it connects from.
func peerOf(c echo.Context) (netip.Addr, bool) {
	req := c.Request()
	var addr netip.Addr
	if ap, err := netip.ParseAddrPort(req.RemoteAddr); err == nil {
		addr = ap.Addr().Unmap()
	}
	return addr, req.TLS != nil
}
