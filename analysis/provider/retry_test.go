package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimitError(t *testing.T) {
	t.Parallel()

	assert.True(t, isRateLimitError(errors.New("HTTP 429 Too Many Requests")))
	assert.True(t, isRateLimitError(errors.New("rate limit exceeded")))
	assert.False(t, isRateLimitError(errors.New("HTTP 500")))
	assert.False(t, isRateLimitError(nil))
}

func TestIsServerError(t *testing.T) {
	t.Parallel()

	assert.True(t, isServerError(errors.New("HTTP 500 Internal Server Error")))
	assert.True(t, isServerError(errors.New("server_error: upstream unavailable")))
	assert.False(t, isServerError(errors.New("HTTP 429")))
	assert.False(t, isServerError(nil))
}
