package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/jstittsworth/mlb-dfs-projections/internal/providers"
)

// Breaker names for the external data sources
const (
	BreakerMLBStats    = "mlbstats"
	BreakerOpenWeather = "openweather"
)

type CircuitBreakerService struct {
	breakers map[string]*gobreaker.CircuitBreaker
	logger   *logrus.Logger
}

func NewCircuitBreakerService(threshold uint32, timeout time.Duration, logger *logrus.Logger) *CircuitBreakerService {
	// Create separate breakers for each external service
	breakers := map[string]*gobreaker.CircuitBreaker{
		BreakerMLBStats:    providers.NewBreaker(BreakerMLBStats, threshold, timeout, logger),
		BreakerOpenWeather: providers.NewBreaker(BreakerOpenWeather, threshold, timeout, logger),
	}

	return &CircuitBreakerService{
		breakers: breakers,
		logger:   logger,
	}
}

// Breaker returns the named breaker for sharing with a provider client, nil when unknown
func (cb *CircuitBreakerService) Breaker(service string) *gobreaker.CircuitBreaker {
	return cb.breakers[service]
}

// Execute wraps a function call with circuit breaker protection
func (cb *CircuitBreakerService) Execute(service string, fn func() (interface{}, error)) (interface{}, error) {
	breaker, exists := cb.breakers[service]
	if !exists {
		cb.logger.WithFields(logrus.Fields{
			"component": "circuit_breaker",
			"service":   service,
		}).Warn("No circuit breaker found for service, executing without protection")
		return fn()
	}

	return breaker.Execute(fn)
}

// GetState returns the current state of a circuit breaker
func (cb *CircuitBreakerService) GetState(service string) gobreaker.State {
	if breaker, exists := cb.breakers[service]; exists {
		return breaker.State()
	}
	return gobreaker.StateClosed
}

// States reports every breaker's state by name, for health checks
func (cb *CircuitBreakerService) States() map[string]string {
	out := make(map[string]string, len(cb.breakers))
	for name, breaker := range cb.breakers {
		out[name] = breaker.State().String()
	}
	return out
}
