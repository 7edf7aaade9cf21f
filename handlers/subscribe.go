package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const writeWait = 10 * time.Second

// Subscribe (GET /v1/subscribe?class=...) upgrades to a websocket and streams membership: a
// subscribed message, one snapshot per class, then events as they happen. Inbound frames are
// discarded; the stream ends when the client goes away or the broker closes the subscription.
func (h *HTTPServer) Subscribe(ectx echo.Context) error {
	sub, snapshot, err := h.registry.Subscribe(ectx.QueryParam("class"))
	if err != nil {
		return fmt.Errorf("subscribe failed, err: %w", err)
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(ectx.Response(), ectx.Request(), nil)
	if err != nil {
		// the upgrader has already written the error response
		level.Debug(h.logger).Log("msg", "websocket upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	logger := log.With(h.logger, "subscription", sub.ID)
	ctx, cancel := context.WithCancel(ectx.Request().Context())
	defer cancel()
	go h.discardInbound(conn, cancel)

	if err := writeMessage(conn, StreamMessage{
		Type:       MessageSubscribed,
		Subscribed: &Subscribed{SubscriptionID: sub.ID, Class: string(sub.Class), StartSeq: sub.StartSeq},
	}); err != nil {
		level.Debug(logger).Log("msg", "subscription write failed", "err", err)
		return nil
	}
	for _, m := range snapshot {
		membership := toMembership(m)
		if err := writeMessage(conn, StreamMessage{Type: MessageSnapshot, Snapshot: &membership}); err != nil {
			level.Debug(logger).Log("msg", "subscription write failed", "err", err)
			return nil
		}
	}

	ping := time.NewTicker(h.options.PingInterval)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			level.Info(logger).Log("msg", "subscription closed by client")
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				level.Info(logger).Log("msg", "subscription closed by broker", "dropped", sub.Dropped())
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return nil
			}
			event := toEvent(ev)
			if err := writeMessage(conn, StreamMessage{Type: MessageEvent, Event: &event}); err != nil {
				level.Debug(logger).Log("msg", "subscription write failed", "err", err)
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				level.Debug(logger).Log("msg", "subscription ping failed", "err", err)
				return nil
			}
		}
	}
}

// discardInbound reads until the connection fails, which is how a client close is noticed.
func (h *HTTPServer) discardInbound(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	if h.options.MaxFrameSize > 0 {
		conn.SetReadLimit(h.options.MaxFrameSize)
	}
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func writeMessage(conn *websocket.Conn, msg StreamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
