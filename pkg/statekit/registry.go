package statekit

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
)

// Registry is the sole owner of all model state and the gateway for every
// mutation. Construct one with New; there is no package-level instance.
type Registry struct {
	// mu is held by the active flow from the outermost kernel call until
	// its flush completes. Nested calls on the same flow are recognized by
	// goroutine id and do not re-acquire it.
	mu    sync.Mutex
	owner atomic.Uint64
	depth int

	flushing bool

	models map[string]*model

	// queue is the single ordered effect queue shared by all models.
	queue []effectEntry

	// txStack holds the active transaction frames, innermost last.
	txStack []*txFrame

	logger     *slog.Logger
	reporter   ErrorReporter
	middleware []Middleware
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used by the default error reporter.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithErrorReporter sets the channel for subscriber failures during flush.
// When unset, failures are logged.
func WithErrorReporter(rep ErrorReporter) Option {
	return func(r *Registry) {
		r.reporter = rep
	}
}

// WithMiddleware wraps kernel operations with the given middleware,
// outermost first.
func WithMiddleware(mw ...Middleware) Option {
	return func(r *Registry) {
		r.middleware = append(r.middleware, mw...)
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		models: make(map[string]*model),
		logger: defaultLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// enter begins a kernel call. The first call on a flow takes the lock and
// claims ownership; nested calls (updates from listeners during flush,
// updates inside transactions) only bump the depth counter.
func (r *Registry) enter() {
	gid := goroutineID()
	if r.owner.Load() == gid {
		r.depth++
		return
	}
	r.mu.Lock()
	r.owner.Store(gid)
	r.depth = 1
}

// exit ends a kernel call. When the outermost call ends, the effect queue
// is drained before the lock is released; the depth is held at 1 during
// the flush so listener-triggered mutations append instead of re-flushing.
func (r *Registry) exit() {
	if r.depth > 1 {
		r.depth--
		return
	}
	if len(r.queue) > 0 {
		_ = r.wrap(Op{Kind: OpFlush}, func() error {
			r.flush()
			return nil
		})
	}
	r.depth = 0
	r.owner.Store(0)
	r.mu.Unlock()
}

// locked runs fn under the registry lock without entering a kernel call.
// Used for reads and subscription bookkeeping, which never enqueue.
func (r *Registry) locked(fn func()) {
	if r.owner.Load() == goroutineID() {
		fn()
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}

// CreateModel registers a model under id with the given initial state.
// The initial state is snapshotted for Reset. Fails with ErrDuplicateModel
// if id is already registered.
func (r *Registry) CreateModel(id string, initialState any) error {
	var err error
	r.locked(func() {
		if _, ok := r.models[id]; ok {
			err = fmt.Errorf("%w: %q", ErrDuplicateModel, id)
			return
		}
		r.models[id] = &model{
			id:      id,
			state:   deepClone(initialState),
			initial: deepClone(initialState),
			version: 1,
		}
	})
	return err
}

// Read returns a defensive copy of the model's committed state. It never
// enqueues anything and never observes a partially mutated draft.
func (r *Registry) Read(id string) (any, error) {
	var state any
	var err error
	r.locked(func() {
		m, ok := r.models[id]
		if !ok {
			err = fmt.Errorf("%w: %q", ErrUnknownModel, id)
			return
		}
		state = deepClone(m.state)
	})
	return state, err
}

// MustRead is Read that panics on an unknown id. Convenient as a selector
// input reader.
func (r *Registry) MustRead(id string) any {
	v, err := r.Read(id)
	if err != nil {
		panic(err)
	}
	return v
}

// ReadAt returns the value at path inside the model's state, as a copy.
func (r *Registry) ReadAt(id string, path Path) (any, error) {
	state, err := r.Read(id)
	if err != nil {
		return nil, err
	}
	return path.get(state)
}

// Version returns the model's commit counter. It increments on every
// committed mutation (including rollback restores), making it a cheap
// input for memoized views.
func (r *Registry) Version(id string) (uint64, error) {
	var v uint64
	var err error
	r.locked(func() {
		m, ok := r.models[id]
		if !ok {
			err = fmt.Errorf("%w: %q", ErrUnknownModel, id)
			return
		}
		v = m.version
	})
	return v, err
}

// ModelIDs returns the registered model ids, sorted.
func (r *Registry) ModelIDs() []string {
	var ids []string
	r.locked(func() {
		ids = make([]string, 0, len(r.models))
		for id := range r.models {
			ids = append(ids, id)
		}
	})
	sort.Strings(ids)
	return ids
}

// Update leases a mutable draft of the model's state to fn. If fn returns
// an error or panics, the state is left untouched, effects queued during
// the call are discarded, and the failure propagates to the caller (an
// error is wrapped in UpdateError). On success the queued effects survive,
// and the effect queue is drained once the outermost kernel call returns.
func (r *Registry) Update(id string, fn func(draft any, ctx *Ctx) error) error {
	r.enter()
	defer r.exit()

	m, ok := r.models[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return r.wrap(Op{Kind: OpUpdate, Model: id}, func() error {
		return r.runUpdate(m, fn)
	})
}

// runUpdate executes one lease: clone, run, then commit or discard.
func (r *Registry) runUpdate(m *model, fn func(any, *Ctx) error) error {
	r.snapshotForTx(m)

	mark := len(r.queue)
	ctx := &Ctx{r: r, m: m, draft: deepClone(m.state)}

	var err error
	func() {
		defer func() {
			ctx.invalidate()
			if p := recover(); p != nil {
				r.queue = r.queue[:mark]
				panic(p)
			}
		}()
		err = fn(ctx.draft, ctx)
	}()

	if err != nil {
		r.queue = r.queue[:mark]
		return &UpdateError{Model: m.id, PreState: deepClone(m.state), Err: err}
	}

	r.commit(m, ctx)
	return nil
}

// commit installs the draft as the new state and materializes the pending
// effects onto the queue, in the order they were recorded. Notification
// snapshots are taken here so every listener sees the same committed pair.
func (r *Registry) commit(m *model, ctx *Ctx) {
	prev := m.state
	next := ctx.commitState()
	m.state = next
	m.version++

	for _, p := range ctx.pending {
		switch p.kind {
		case pendingNotify:
			r.queue = append(r.queue, effectEntry{
				kind:  entryNotify,
				model: m,
				prev:  deepClone(prev),
				curr:  deepClone(next),
			})
		case pendingEmit:
			r.queue = append(r.queue, effectEntry{kind: entryEmit, model: m, event: p.event})
		case pendingCallback:
			r.queue = append(r.queue, effectEntry{kind: entryCallback, model: m, fn: p.fn})
		}
	}
}

// UpdateAt reads the value at path, applies fn, writes the result back at
// the same path, and enqueues a change notification. The write runs inside
// a normal lease, so the whole state is still cloned on entry like any
// Update. All listeners on the model fire; path-level listener granularity
// is out of scope.
func (r *Registry) UpdateAt(id string, path Path, fn func(value any) any) error {
	return r.Update(id, func(draft any, ctx *Ctx) error {
		cur, err := path.get(draft)
		if err != nil {
			return err
		}
		next, err := path.set(draft, fn(cur))
		if err != nil {
			return err
		}
		ctx.SetState(next)
		ctx.Notify()
		return nil
	})
}

// Reset restores the model to its registration-time initial state and
// enqueues a change notification.
func (r *Registry) Reset(id string) error {
	return r.Update(id, func(_ any, ctx *Ctx) error {
		ctx.SetState(deepClone(ctx.m.initial))
		ctx.Notify()
		return nil
	})
}

// OnChange attaches a change listener to the model. Listeners fire during
// flush, in attach order, with defensive (current, previous) snapshots.
// The returned function detaches the listener.
func (r *Registry) OnChange(id string, fn func(current, previous any)) (func(), error) {
	var unsub func()
	var err error
	r.locked(func() {
		m, ok := r.models[id]
		if !ok {
			err = fmt.Errorf("%w: %q", ErrUnknownModel, id)
			return
		}
		sid := nextSubID()
		m.changeSubs = append(m.changeSubs, changeSub{id: sid, fn: fn})
		unsub = func() {
			r.locked(func() { m.removeChangeSub(sid) })
		}
	})
	return unsub, err
}

// OnEvent attaches an event handler to the model. Handlers fire during
// flush for every event the model emitted via ctx.Emit, in attach order.
func (r *Registry) OnEvent(id string, fn func(event any)) (func(), error) {
	var unsub func()
	var err error
	r.locked(func() {
		m, ok := r.models[id]
		if !ok {
			err = fmt.Errorf("%w: %q", ErrUnknownModel, id)
			return
		}
		sid := nextSubID()
		m.eventSubs = append(m.eventSubs, eventSub{id: sid, fn: fn})
		unsub = func() {
			r.locked(func() { m.removeEventSub(sid) })
		}
	})
	return unsub, err
}

// Destroy runs the model's retained cleanups (most recent first), removes
// its listeners, and unregisters it. Destroying an unknown id is a no-op;
// destruction is idempotent.
func (r *Registry) Destroy(id string) {
	r.enter()
	defer r.exit()

	m, ok := r.models[id]
	if !ok {
		return
	}
	_ = r.wrap(Op{Kind: OpDestroy, Model: id}, func() error {
		for i := len(m.cleanups) - 1; i >= 0; i-- {
			cleanup := m.cleanups[i]
			r.invokeListener(id, func() { cleanup() })
		}
		m.cleanups = nil
		m.changeSubs = nil
		m.eventSubs = nil
		delete(r.models, id)
		return nil
	})
}

// errAsUpdateError reports whether err is already an *UpdateError.
func errAsUpdateError(err error) bool {
	var ue *UpdateError
	return errors.As(err, &ue)
}
