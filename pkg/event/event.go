package event

import (
	"sync"
)

// Handler is a push-based stream of T values.
// Subscribers are invoked synchronously, in the order they were attached.
type Handler[T any] struct {
	mu   sync.Mutex
	subs []subscription[T]
}

type subscription[T any] struct {
	id uint64
	fn func(T)
}

// EmitFunc pushes a value into a handler's pipeline.
type EmitFunc[T any] func(T)

// Unsubscribe detaches a subscriber from a handler.
type Unsubscribe func()

// New creates a handler and its emit function.
func New[T any]() (*Handler[T], EmitFunc[T]) {
	h := &Handler[T]{}
	return h, h.emit
}

// Subscribe attaches fn to the handler. It returns an Unsubscribe that
// detaches fn; calling it more than once is a no-op.
func (h *Handler[T]) Subscribe(fn func(T)) Unsubscribe {
	h.mu.Lock()
	id := nextID()
	h.subs = append(h.subs, subscription[T]{id: id, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, s := range h.subs {
				if s.id == id {
					h.subs = append(h.subs[:i], h.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// emit delivers v to every subscriber in attach order.
// Copy-before-notify so subscribers may attach or detach during delivery.
func (h *Handler[T]) emit(v T) {
	h.mu.Lock()
	subs := make([]subscription[T], len(h.subs))
	copy(subs, h.subs)
	h.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Filter returns a handler that forwards only values for which pred holds.
func (h *Handler[T]) Filter(pred func(T) bool) *Handler[T] {
	out, emit := New[T]()
	h.Subscribe(func(v T) {
		if pred(v) {
			emit(v)
		}
	})
	return out
}

// Map returns a handler that forwards fn(v) for every value v.
// For a type-changing transform use the package-level MapTo.
func (h *Handler[T]) Map(fn func(T) T) *Handler[T] {
	return MapTo(h, fn)
}

// MapTo returns a handler that forwards fn(v) for every value v,
// changing the element type.
func MapTo[T, R any](h *Handler[T], fn func(T) R) *Handler[R] {
	out, emit := New[R]()
	h.Subscribe(func(v T) {
		emit(fn(v))
	})
	return out
}
