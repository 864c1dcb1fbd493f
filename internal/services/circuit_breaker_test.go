package services

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

func TestCircuitBreakerService(t *testing.T) {
	logger, hook := test.NewNullLogger()
	cb := NewCircuitBreakerService(2, time.Minute, logger)

	assert.Equal(t, map[string]string{
		BreakerMLBStats:    "closed",
		BreakerOpenWeather: "closed",
	}, cb.States())
	require.NotNil(t, cb.Breaker(BreakerMLBStats))
	assert.Nil(t, cb.Breaker("fangraphs"))

	failing := func() (interface{}, error) { return nil, errors.New("503") }
	for i := 0; i < 2; i++ {
		_, err := cb.Execute(BreakerMLBStats, failing)
		assert.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.GetState(BreakerMLBStats))
	assert.Equal(t, gobreaker.StateClosed, cb.GetState(BreakerOpenWeather))

	_, err := cb.Execute(BreakerMLBStats, func() (interface{}, error) { return "ok", nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	var changed bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Circuit breaker state changed" && entry.Data["provider"] == BreakerMLBStats {
			changed = true
		}
	}
	assert.True(t, changed)
}

func TestCircuitBreakerIgnoresNotFound(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cb := NewCircuitBreakerService(1, time.Minute, logger)

	_, err := cb.Execute(BreakerOpenWeather, func() (interface{}, error) { return nil, dfs.ErrNotFound })
	assert.ErrorIs(t, err, dfs.ErrNotFound)
	assert.Equal(t, gobreaker.StateClosed, cb.GetState(BreakerOpenWeather))
}

func TestCircuitBreakerUnknownServiceRunsUnprotected(t *testing.T) {
	logger, hook := test.NewNullLogger()
	cb := NewCircuitBreakerService(1, time.Minute, logger)

	got, err := cb.Execute("fangraphs", func() (interface{}, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, gobreaker.StateClosed, cb.GetState("fangraphs"))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "fangraphs", hook.LastEntry().Data["service"])
}
