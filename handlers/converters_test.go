package handlers

import (
	"testing"

	"maxwellmaster/domain"
	"maxwellmaster/service"

	"github.com/stretchr/testify/assert"
)

func TestFromRegisterRequest(t *testing.T) {
	got := fromRegisterRequest("frontend", RegisterRequest{
		ID:        "fe-1",
		PrivateIP: "10.0.0.5",
		PublicIP:  "203.0.113.5",
		HTTPPort:  8081,
		HTTPSPort: 8443,
		Domain:    "fe.example.com",
	})
	assert.Equal(t, service.RegisterRequest{
		Class:     "frontend",
		ID:        "fe-1",
		PrivateIP: "10.0.0.5",
		PublicIP:  "203.0.113.5",
		HTTPPort:  8081,
		HTTPSPort: 8443,
		Domain:    "fe.example.com",
	}, got)
}

func TestToEvent(t *testing.T) {
	entry := backendEntry("b")

	t.Run("with entry", func(t *testing.T) {
		got := toEvent(domain.Event{Seq: 4, Class: domain.ClassBackend, ID: "b", Kind: domain.EventAdded, Entry: &entry, At: testTime})
		assert.Equal(t, uint64(4), got.Seq)
		assert.Equal(t, "added", got.Kind)
		if assert.NotNil(t, got.Node) {
			assert.Equal(t, "b", got.Node.ID)
			assert.Equal(t, 8080, got.Node.HTTPPort)
		}
	})

	t.Run("removal", func(t *testing.T) {
		got := toEvent(domain.Event{Class: domain.ClassBackend, ID: "b", Kind: domain.EventRemoved, Reason: domain.ReasonStale})
		assert.Equal(t, "stale", got.Reason)
		assert.Nil(t, got.Node)
	})
}

func TestFormatChecksum(t *testing.T) {
	assert.Equal(t, "0000000000000000", formatChecksum(0))
	assert.Equal(t, "ffffffffffffffff", formatChecksum(^uint64(0)))
}
