package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForSourceReturnsSharedLimiter(t *testing.T) {
	a := ForSource("test-shared", 1)
	b := ForSource("test-shared", 99)

	assert.Same(t, a, b, "one source gets one limiter; later rates are ignored")
	assert.Equal(t, "test-shared", a.Name())
}

func TestAllowExhaustsBurst(t *testing.T) {
	l := ForSource("test-burst", 1)

	assert.True(t, l.Allow())
	assert.False(t, l.Allow(), "burst of one is spent by the first request")
}
