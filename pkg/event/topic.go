package event

// Topic merges the given handlers into one. Values arrive in the order their
// source emitters fired; there is no buffering or synchronization across
// sources.
func Topic[T any](handlers ...*Handler[T]) *Handler[T] {
	out, emit := New[T]()
	for _, h := range handlers {
		h.Subscribe(func(v T) {
			emit(v)
		})
	}
	return out
}

// Partition routes each value of h to exactly one of n output handlers,
// chosen by discriminator(v). Values routed to an index outside [0, n) are
// dropped, not buffered.
func Partition[T any](h *Handler[T], n int, discriminator func(T) int) []*Handler[T] {
	outs := make([]*Handler[T], n)
	emits := make([]EmitFunc[T], n)
	for i := range outs {
		outs[i], emits[i] = New[T]()
	}
	h.Subscribe(func(v T) {
		i := discriminator(v)
		if i < 0 || i >= n {
			return
		}
		emits[i](v)
	})
	return outs
}
