package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordbyte/orderbot/pkg/config"
)

func TestRules_PerUserLimit(t *testing.T) {
	rules := NewRules(config.RateLimitConfig{
		PerUser: config.RateLimitRule{Limit: 20, Window: "1m"},
	})

	limit, window, err := rules.PerUserLimit()
	require.NoError(t, err)
	assert.Equal(t, 20, limit)
	assert.Equal(t, time.Minute, window)
}

func TestRules_PerUserLimitInvalidWindow(t *testing.T) {
	rules := NewRules(config.RateLimitConfig{
		PerUser: config.RateLimitRule{Limit: 20, Window: "soon"},
	})

	_, _, err := rules.PerUserLimit()
	assert.Error(t, err)
}

func TestRules_IsWhitelisted(t *testing.T) {
	rules := NewRules(config.RateLimitConfig{Whitelist: []int64{1, 2, 3}})

	assert.True(t, rules.IsWhitelisted(2))
	assert.False(t, rules.IsWhitelisted(4))
}
