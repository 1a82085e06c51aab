// Package subject provides memoized, event-driven derived values.
//
// A Subject holds a current value that changes only as a synchronous
// consequence of one of its bound event handlers firing. Each binding pairs
// a handler with a reducer: when the handler fires, the reducer turns the
// incoming event into a state transform that is applied to the current value.
//
//	onInc, emitInc := event.New[struct{}]()
//	counter := subject.New(0, subject.Bind(onInc, func(struct{}) func(int) int {
//	    return func(c int) int { return c + 1 }
//	}))
//	emitInc(struct{}{})
//	counter.Value() // 1
//
// Reading a Subject never triggers computation; Value is O(1).
package subject

import (
	"sync"

	"github.com/statekit-go/statekit/pkg/event"
)

// Subject is a memoized value derived from one or more event sources.
type Subject[T any] struct {
	mu       sync.RWMutex
	value    T
	detaches []event.Unsubscribe
}

// Binding attaches an event source to a subject at construction time.
// Build one with Bind.
type Binding[T any] func(apply func(func(T) T)) event.Unsubscribe

// Bind pairs a handler with a reducer. The reducer receives the event value
// and returns the transform to apply to the subject's current value.
func Bind[T, V any](h *event.Handler[V], reducer func(V) func(T) T) Binding[T] {
	return func(apply func(func(T) T)) event.Unsubscribe {
		return h.Subscribe(func(v V) {
			apply(reducer(v))
		})
	}
}

// New creates a subject with the given initial value and bindings.
// Bindings fire in the synchronous order their emitters are invoked;
// reducers apply sequentially, so there is no merge conflict between them.
func New[T any](initial T, bindings ...Binding[T]) *Subject[T] {
	s := &Subject[T]{value: initial}
	for _, b := range bindings {
		s.detaches = append(s.detaches, b(s.apply))
	}
	return s
}

// Value returns the current value. It never triggers computation.
func (s *Subject[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Close detaches the subject from all of its event sources.
// The last value remains readable.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	detaches := s.detaches
	s.detaches = nil
	s.mu.Unlock()

	for _, d := range detaches {
		d()
	}
}

func (s *Subject[T]) apply(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = fn(s.value)
}
