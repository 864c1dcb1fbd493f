package dfs

// ObservationKind tags where a value came from
type ObservationKind int

const (
	// KindMissing means the provider failed or had nothing usable
	KindMissing ObservationKind = iota
	// KindObserved is data reported for the requested season
	KindObserved
	// KindEstimated is substitute data (prior season, blended sample) with a confidence penalty
	KindEstimated
)

func (k ObservationKind) String() string {
	switch k {
	case KindObserved:
		return "observed"
	case KindEstimated:
		return "estimated"
	default:
		return "missing"
	}
}

// Observation is a value that is either observed, estimated or missing.
// Calculators switch on Kind instead of nil-checking loosely typed payloads.
type Observation[T any] struct {
	kind    ObservationKind
	value   T
	penalty float64
	reason  string
}

// Observed wraps data reported for the requested season
func Observed[T any](v T) Observation[T] {
	return Observation[T]{kind: KindObserved, value: v}
}

// Estimated wraps substitute data that costs penalty confidence points
func Estimated[T any](v T, penalty float64) Observation[T] {
	return Observation[T]{kind: KindEstimated, value: v, penalty: penalty}
}

// Missing records the absence of data and why
func Missing[T any](reason string) Observation[T] {
	return Observation[T]{kind: KindMissing, reason: reason}
}

// Kind returns the variant tag
func (o Observation[T]) Kind() ObservationKind { return o.kind }

// IsMissing reports whether no value is present
func (o Observation[T]) IsMissing() bool { return o.kind == KindMissing }

// Get returns the value and whether one is present
func (o Observation[T]) Get() (T, bool) {
	return o.value, o.kind != KindMissing
}

// OrDefault returns the value, or def when missing
func (o Observation[T]) OrDefault(def T) T {
	if o.kind == KindMissing {
		return def
	}
	return o.value
}

// Penalty is the confidence cost of using this value (0 unless estimated)
func (o Observation[T]) Penalty() float64 {
	if o.kind == KindEstimated {
		return o.penalty
	}
	return 0
}

// Reason explains a missing value
func (o Observation[T]) Reason() string { return o.reason }

// Map transforms a present value and keeps the tag and penalty
func Map[T, U any](o Observation[T], fn func(T) U) Observation[U] {
	if o.kind == KindMissing {
		return Missing[U](o.reason)
	}
	return Observation[U]{kind: o.kind, value: fn(o.value), penalty: o.penalty}
}

// FirstPresent returns the first non-missing observation, or the last one
func FirstPresent[T any](candidates ...Observation[T]) Observation[T] {
	var last Observation[T]
	for _, c := range candidates {
		if c.kind != KindMissing {
			return c
		}
		last = c
	}
	return last
}
