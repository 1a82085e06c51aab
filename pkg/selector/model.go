package selector

import "github.com/statekit-go/statekit/pkg/statekit"

// ForModel creates a selector whose sole input is the registry's committed
// state for id, projected through projector. The projector only runs when
// the model's state is no longer deep-equal to the last seen value.
func ForModel(r *statekit.Registry, id string, projector func(state any) any, opts ...Option) *Selector {
	return New(
		[]Reader{func() any { return r.MustRead(id) }},
		func(vals []any) any { return projector(vals[0]) },
		opts...,
	)
}
