package cache

import (
	"testing"
	"time"

	"github.com/dispatchly/commission/internal/clock"
	"github.com/stretchr/testify/assert"
)

func TestTTLCache_ExpiresWithClock(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	c := NewTTLCache[string, int](30*time.Second, clk)

	c.Set("a", 1)

	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, got)

	clk.Advance(31 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_SetSweepsExpired(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	c := NewTTLCache[string, int](time.Second, clk)

	c.Set("old", 1)
	clk.Advance(2 * time.Second)
	c.Set("new", 2)

	assert.Equal(t, 1, c.Len())
}

func TestTTLCache_Invalidate(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	c := NewTTLCache[string, int](time.Minute, clk)

	c.Set("a", 1)
	c.Invalidate("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
}
