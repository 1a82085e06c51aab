package statekit

// Cleanup is a function returned by a ctx.Effect callback to release
// resources. Cleanups are retained by the model and run, most recent first,
// when the model is destroyed.
type Cleanup func()

// pendingKind mirrors entryKind for effects recorded during a lease, before
// commit materializes them onto the registry queue.
type pendingKind int

const (
	pendingNotify pendingKind = iota
	pendingEmit
	pendingCallback
)

type pendingEffect struct {
	kind  pendingKind
	event any
	fn    func() Cleanup
}

// Ctx is the ephemeral model context passed to an Update callback. All of
// its methods enqueue work; none executes anything synchronously.
//
// A Ctx is valid only for the duration of the callback it was created for.
// Using it afterwards panics with ErrContextEscaped.
type Ctx struct {
	r *Registry
	m *model

	// draft is the leased mutable copy of the model's state.
	draft any

	// replaced is set when SetState substituted a new value for the draft.
	replaced bool
	newState any

	// pending records Notify/Emit/Effect calls in order. Materialized onto
	// the registry queue at commit, discarded on rollback.
	pending []pendingEffect

	done bool
}

// Model returns the id of the model this context is leased on.
func (c *Ctx) Model() string {
	return c.m.id
}

// Notify enqueues a change notification for this model. Listeners receive
// the committed (current, previous) snapshots during the flush that follows
// the outermost call.
func (c *Ctx) Notify() {
	c.check()
	c.pending = append(c.pending, pendingEffect{kind: pendingNotify})
}

// Emit enqueues an event for this model's event handlers.
func (c *Ctx) Emit(event any) {
	c.check()
	c.pending = append(c.pending, pendingEffect{kind: pendingEmit, event: event})
}

// Effect enqueues fn to run during the flush. A non-nil returned Cleanup is
// retained and run when the model is destroyed.
func (c *Ctx) Effect(fn func() Cleanup) {
	c.check()
	c.pending = append(c.pending, pendingEffect{kind: pendingCallback, fn: fn})
}

// SetState replaces the draft wholesale with v. Useful when the new state
// is computed rather than mutated in place (immutable struct states).
func (c *Ctx) SetState(v any) {
	c.check()
	c.replaced = true
	c.newState = v
}

// commitState returns the state value to commit for this lease.
func (c *Ctx) commitState() any {
	if c.replaced {
		return c.newState
	}
	return c.draft
}

// invalidate marks the context dead once its callback has returned.
func (c *Ctx) invalidate() {
	c.done = true
}

func (c *Ctx) check() {
	if c.done {
		panic(ErrContextEscaped)
	}
}
