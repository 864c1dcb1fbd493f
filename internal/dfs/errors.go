package dfs

import "errors"

var (
	// ErrNotFound is returned when the provider has no record for the requested key
	ErrNotFound = errors.New("not found")
	// ErrNoData is a successful response with no usable statistics
	ErrNoData = errors.New("no usable data")
	// ErrShapeMismatch is a response missing an expected field
	ErrShapeMismatch = errors.New("unexpected response shape")
	// ErrProviderUnavailable covers network errors, open circuit breakers and rate limiting
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrNoGames is the only fatal batch error: the slate could not be obtained or is empty
	ErrNoGames = errors.New("no games on slate")
)

// FailureReason maps an error onto the provider-failure / missing-data / shape-mismatch taxonomy
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoData), errors.Is(err, ErrNotFound):
		return "missing_data"
	case errors.Is(err, ErrShapeMismatch):
		return "shape_mismatch"
	default:
		return "provider_failure"
	}
}
