// Package outcome models operations that never fail outright but may settle
// for a cheaper substitute value.
package outcome

// Result is either a Success or a Degraded value. A Degraded result still
// carries a usable value plus the reason the preferred path was skipped.
type Result[T any] struct {
	Value  T
	Reason string
}

// Success wraps a value produced by the preferred path.
func Success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Degraded wraps a substitute value and the reason it was used.
func Degraded[T any](v T, reason string) Result[T] {
	if reason == "" {
		reason = "degraded"
	}
	return Result[T]{Value: v, Reason: reason}
}

// IsDegraded reports whether the value is a substitute.
func (r Result[T]) IsDegraded() bool {
	return r.Reason != ""
}
