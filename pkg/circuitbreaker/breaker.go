// Package circuitbreaker carries the shared breaker settings so every
// caller trips and recovers the same way.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrOpen is returned while the breaker refuses calls.
var ErrOpen = gobreaker.ErrOpenState

func New[T any](name string) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}
