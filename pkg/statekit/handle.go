package statekit

import "fmt"

// Handle is a typed view over one registry model. It is sugar over the
// untyped Registry surface; every guarantee of Update/Read applies
// unchanged.
type Handle[T any] struct {
	r  *Registry
	id string
}

// Register creates a model holding a T and returns its typed handle.
func Register[T any](r *Registry, id string, initial T) (*Handle[T], error) {
	if err := r.CreateModel(id, initial); err != nil {
		return nil, err
	}
	return &Handle[T]{r: r, id: id}, nil
}

// MustRegister is Register that panics on error, for startup wiring.
func MustRegister[T any](r *Registry, id string, initial T) *Handle[T] {
	h, err := Register[T](r, id, initial)
	if err != nil {
		panic(err)
	}
	return h
}

// ID returns the model id.
func (h *Handle[T]) ID() string {
	return h.id
}

// Read returns a copy of the current state.
func (h *Handle[T]) Read() (T, error) {
	v, err := h.r.Read(h.id)
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("statekit: model %q holds %T, not %T", h.id, v, zero)
	}
	return t, nil
}

// Update leases a typed draft to fn. Mutations through the pointer are
// committed on success; an error or panic rolls back exactly like the
// untyped Update.
func (h *Handle[T]) Update(fn func(draft *T, ctx *Ctx) error) error {
	return h.r.Update(h.id, func(draft any, ctx *Ctx) error {
		t, ok := draft.(T)
		if !ok {
			var zero T
			return fmt.Errorf("statekit: model %q holds %T, not %T", h.id, draft, zero)
		}
		if err := fn(&t, ctx); err != nil {
			return err
		}
		ctx.SetState(t)
		return nil
	})
}

// OnChange attaches a typed change listener.
func (h *Handle[T]) OnChange(fn func(current, previous T)) (func(), error) {
	return h.r.OnChange(h.id, func(cur, prev any) {
		c, _ := cur.(T)
		p, _ := prev.(T)
		fn(c, p)
	})
}

// Destroy removes the model from the registry.
func (h *Handle[T]) Destroy() {
	h.r.Destroy(h.id)
}
