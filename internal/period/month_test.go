package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	m, err := Parse("2026-03")
	require.NoError(t, err)
	assert.Equal(t, Month("2026-03"), m)

	_, err = Parse("2026-3")
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = Parse("march")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestPrev(t *testing.T) {
	assert.Equal(t, Month("2026-02"), Month("2026-03").Prev())
	// Year boundary.
	assert.Equal(t, Month("2025-12"), Month("2026-01").Prev())
}

func TestFromTime(t *testing.T) {
	ts := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, Month("2026-08"), FromTime(ts))
}
