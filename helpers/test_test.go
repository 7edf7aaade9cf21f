package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTestClock(t *testing.T) {
	c := NewTestClock()
	assert.Equal(t, TestNow(), c.Now())

	c.Advance(10 * time.Second)
	assert.Equal(t, TestNow().Add(10*time.Second), c.Now())

	c.Set(1900 * time.Second)
	assert.Equal(t, TestNow().Add(1900*time.Second), c.Now())
}
