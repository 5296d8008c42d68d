package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDur(t *testing.T) {
	assert.Equal(t, 90*time.Second, parseDur("90s"))
	assert.Equal(t, 10*time.Minute, parseDur("10m"))

	// Malformed or non-positive values fall back to the default.
	assert.Equal(t, 5*time.Minute, parseDur("soon"))
	assert.Equal(t, 5*time.Minute, parseDur(""))
	assert.Equal(t, 5*time.Minute, parseDur("-1m"))
	assert.Equal(t, 5*time.Minute, parseDur("0s"))
}

func TestGetenvDefault(t *testing.T) {
	t.Setenv("CONFIG_TEST_KEY", "set")
	assert.Equal(t, "set", getenv("CONFIG_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getenv("CONFIG_TEST_KEY_MISSING", "fallback"))
}
