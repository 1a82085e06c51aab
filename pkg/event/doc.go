// Package event provides push-based value streams with transformation chains.
//
// A Handler[T] is a stream of T values. New returns the handler together
// with its emit function; emitting pushes the value synchronously through
// the handler's pipeline to every subscriber, in attach order:
//
//	onInput, emitInput := event.New[string]()
//	short := onInput.Filter(func(s string) bool { return len(s) < 10 })
//	short.Subscribe(func(s string) { fmt.Println("short:", s) })
//	emitInput("hi")
//
// Every operator is synchronous and unbuffered except Debounce, which defers
// delivery through a host timer. A new value arriving before the timer fires
// resets it and discards the pending value (trailing-edge, last value wins).
//
// Handlers are independent of any model registry. A subscriber is free to
// call into a registry, in which case the usual update/flush rules of that
// registry apply.
package event
