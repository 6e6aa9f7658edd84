package logutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBody(t *testing.T) {
	assert.Equal(t, "", Body(nil, 10))
	assert.Equal(t, `{"status":"ok"}`, Body([]byte("  {\"status\":\"ok\"}\n"), 100))
	assert.Equal(t, "abc...[3 bytes truncated]", Body([]byte("abcdef"), 3))
	assert.Equal(t, "...[4 bytes truncated]", Body([]byte("abcd"), 0))
}

func TestBody_KeepsRunesWhole(t *testing.T) {
	// "é" is two bytes; cutting at 2 would split it
	got := Body([]byte("aé"+strings.Repeat("x", 10)), 2)
	assert.Equal(t, "a...[12 bytes truncated]", got)
}
