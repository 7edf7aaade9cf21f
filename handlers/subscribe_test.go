package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"maxwellmaster/domain"
	"maxwellmaster/service"

	"github.com/go-kit/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialSubscribe(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/subscribe" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) StreamMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHTTPServer_Subscribe(t *testing.T) {
	broker := service.NewBroker(log.NewNopLogger())
	defer broker.Close()
	broker.Publish(domain.Event{Class: domain.ClassBackend, ID: "old", Kind: domain.EventAdded})

	registry := &RegistryMock{
		SubscribeFunc: func(class string) (*service.Subscription, []service.Membership, error) {
			assert.Equal(t, "backend", class)
			return broker.Subscribe(domain.ClassBackend, 8), []service.Membership{{
				Class:   domain.ClassBackend,
				Version: 1,
				Nodes:   []domain.NodeEntry{backendEntry("old")},
			}}, nil
		},
	}
	srv := httptest.NewServer(newTestEcho(t, registry))
	defer srv.Close()

	conn := dialSubscribe(t, srv, "?class=backend")

	msg := readMessage(t, conn)
	require.Equal(t, MessageSubscribed, msg.Type)
	require.NotNil(t, msg.Subscribed)
	assert.NotEmpty(t, msg.Subscribed.SubscriptionID)
	assert.Equal(t, "backend", msg.Subscribed.Class)
	assert.Equal(t, uint64(1), msg.Subscribed.StartSeq)

	msg = readMessage(t, conn)
	require.Equal(t, MessageSnapshot, msg.Type)
	require.NotNil(t, msg.Snapshot)
	require.Len(t, msg.Snapshot.Nodes, 1)
	assert.Equal(t, "old", msg.Snapshot.Nodes[0].ID)

	require.Eventually(t, func() bool { return broker.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	entry := backendEntry("new")
	broker.Publish(domain.Event{Class: domain.ClassFrontend, ID: "fe", Kind: domain.EventAdded})
	broker.Publish(domain.Event{Class: domain.ClassBackend, ID: "new", Kind: domain.EventAdded, Entry: &entry, At: testTime})

	msg = readMessage(t, conn)
	require.Equal(t, MessageEvent, msg.Type)
	require.NotNil(t, msg.Event)
	assert.Equal(t, uint64(2), msg.Event.Seq)
	assert.Equal(t, "new", msg.Event.ID)
	assert.Equal(t, "added", msg.Event.Kind)
	require.NotNil(t, msg.Event.Node)
	assert.Equal(t, "10.0.0.1", msg.Event.Node.PrivateIP)

	t.Run("client close releases the subscription", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
		conn.Close()
		assert.Eventually(t, func() bool { return broker.Subscribers() == 0 }, 5*time.Second, 10*time.Millisecond)
	})
}

func TestHTTPServer_SubscribeBrokerClose(t *testing.T) {
	broker := service.NewBroker(log.NewNopLogger())
	registry := &RegistryMock{
		SubscribeFunc: func(class string) (*service.Subscription, []service.Membership, error) {
			return broker.Subscribe("", 8), nil, nil
		},
	}
	srv := httptest.NewServer(newTestEcho(t, registry))
	defer srv.Close()

	conn := dialSubscribe(t, srv, "")
	assert.Equal(t, MessageSubscribed, readMessage(t, conn).Type)

	broker.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error: %v", err)
}

func TestHTTPServer_SubscribeRejected(t *testing.T) {
	registry := &RegistryMock{}
	rec := doRequest(newTestEcho(t, registry), http.MethodGet, "/v1/subscribe?class=database", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.ErrBadParameter, decodeError(t, rec))
	assert.Empty(t, registry.SubscribeCalls())
}

func TestHTTPServer_SubscribeWithoutUpgrade(t *testing.T) {
	broker := service.NewBroker(log.NewNopLogger())
	defer broker.Close()
	registry := &RegistryMock{
		SubscribeFunc: func(class string) (*service.Subscription, []service.Membership, error) {
			return broker.Subscribe("", 8), nil, nil
		},
	}
	rec := doRequest(newTestEcho(t, registry), http.MethodGet, "/v1/subscribe", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, broker.Subscribers())
}
