// Package statekit provides a centralized reactive state kernel.
//
// A Registry owns all model state and mediates every mutation through
// short-lived leases: the only mutable access to a model's state is the
// draft handed to an Update callback. Change notifications are never
// delivered synchronously; they are queued on a single ordered effect queue
// and drained (flushed) only when the outermost Update, Transaction, or
// Batch returns.
//
//	reg := statekit.New()
//	reg.CreateModel("counter", map[string]any{"count": 0})
//
//	reg.Update("counter", func(draft any, ctx *statekit.Ctx) error {
//	    draft.(map[string]any)["count"] = 5
//	    ctx.Notify()
//	    return nil
//	})
//
// # Run-to-completion
//
// Flushing is run-to-completion: no listener is ever invoked while a
// mutation is in progress, and a listener that triggers further mutations
// appends to the tail of the same queue instead of recursing into another
// flush. This is the mechanism that prevents reentrant corruption and
// unbounded call-stack growth.
//
// # Atomicity
//
// An Update whose callback fails leaves the model's state exactly as it was
// and discards the effects queued during the failed call. Transaction
// extends the same guarantee across every model touched inside it, with a
// single combined flush on success. Batch coalesces notifications without
// the snapshot overhead.
//
// # Concurrency
//
// The kernel is cooperative: "concurrency" means interleaving of logically
// nested synchronous calls, not parallelism. Nested calls on the same
// logical flow are detected by goroutine; callers on other goroutines
// serialize on the registry's lock and always observe fully committed state.
//
// Construction is explicit; there is no package-level registry.
package statekit
