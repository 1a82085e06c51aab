package statekit

// OpKind identifies a kernel operation for middleware.
type OpKind int

const (
	// OpUpdate is a single-model Update or UpdateAt.
	OpUpdate OpKind = iota

	// OpTransaction is a multi-model Transaction.
	OpTransaction

	// OpBatch is a notification-coalescing Batch.
	OpBatch

	// OpFlush is the draining of the effect queue.
	OpFlush

	// OpDestroy is a model destruction.
	OpDestroy
)

// String returns the operation name as used in metric and span labels.
func (k OpKind) String() string {
	switch k {
	case OpUpdate:
		return "update"
	case OpTransaction:
		return "transaction"
	case OpBatch:
		return "batch"
	case OpFlush:
		return "flush"
	case OpDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// Op describes the operation a middleware is wrapped around.
type Op struct {
	// Kind is the operation kind.
	Kind OpKind

	// Model is the target model id. Empty for transactions, batches, and
	// flushes, which are not scoped to a single model.
	Model string
}

// Middleware wraps kernel operations. It must call next exactly once and
// return its error (possibly decorated). Middleware runs on the caller's
// flow, inside the registry lease, so it must not call back into the
// registry.
//
// Middleware is how metrics and tracing attach to the kernel; see the
// middleware package for Prometheus and OpenTelemetry implementations.
type Middleware func(op Op, next func() error) error

// wrap runs fn through the registry's middleware chain, outermost first.
func (r *Registry) wrap(op Op, fn func() error) error {
	next := fn
	for i := len(r.middleware) - 1; i >= 0; i-- {
		mw := r.middleware[i]
		inner := next
		next = func() error { return mw(op, inner) }
	}
	return next()
}
