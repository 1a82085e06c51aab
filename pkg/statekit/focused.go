package statekit

import (
	"fmt"

	"github.com/statekit-go/statekit/pkg/lens"
)

// Focused binds a lens to a registry model, exposing the read/update
// surface scoped to the focused sub-value. Updates run through
// Registry.Update, so the transactional and rollback guarantees apply
// transparently.
type Focused[S, A any] struct {
	r  *Registry
	id string
	l  lens.Lens[S, A]
}

// Focus creates a focused view of model id through l. The model's state
// must hold an S.
func Focus[S, A any](r *Registry, id string, l lens.Lens[S, A]) *Focused[S, A] {
	return &Focused[S, A]{r: r, id: id, l: l}
}

// Read returns a copy of the focused sub-value.
func (f *Focused[S, A]) Read() (A, error) {
	var zero A
	v, err := f.r.Read(f.id)
	if err != nil {
		return zero, err
	}
	s, ok := v.(S)
	if !ok {
		return zero, fmt.Errorf("statekit: model %q holds %T, not %T", f.id, v, *new(S))
	}
	return f.l.Get(s)
}

// Update applies fn to the focused sub-value and writes the result back
// through the lens, inside a single model lease. A lens failure (read-only
// leg, missing focus) aborts the lease and rolls back.
func (f *Focused[S, A]) Update(fn func(A) A) error {
	return f.r.Update(f.id, func(draft any, ctx *Ctx) error {
		s, ok := draft.(S)
		if !ok {
			return fmt.Errorf("statekit: model %q holds %T, not %T", f.id, draft, *new(S))
		}
		a, err := f.l.Get(s)
		if err != nil {
			return err
		}
		s2, err := f.l.Set(s, fn(a))
		if err != nil {
			return err
		}
		ctx.SetState(s2)
		ctx.Notify()
		return nil
	})
}
