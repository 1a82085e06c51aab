package event

import (
	"sync"
	"time"
)

// Debounce returns a handler that delivers a value only after d has elapsed
// with no further input. A new value arriving before the timer fires resets
// the timer and replaces the pending value (trailing-edge, last value wins).
//
// Debounce is the only operator that defers: delivery happens on a timer
// goroutine, as a fresh top-level call with respect to any registry a
// subscriber updates.
func (h *Handler[T]) Debounce(d time.Duration) *Handler[T] {
	out, emit := New[T]()

	var mu sync.Mutex
	var timer *time.Timer

	h.Subscribe(func(v T) {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			emit(v)
		})
	})

	return out
}
