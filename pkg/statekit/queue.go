package statekit

import "fmt"

// entryKind tags an effect queue entry.
type entryKind int

const (
	entryNotify entryKind = iota
	entryEmit
	entryCallback
)

// effectEntry is one deferred effect. The queue is a single ordered list
// shared by the whole registry, drained strictly FIFO.
type effectEntry struct {
	kind  entryKind
	model *model

	// prev and curr are the notification snapshots, materialized at commit
	// time as defensive copies.
	prev, curr any

	// event is the payload for emit entries.
	event any

	// fn is the user callback for callback entries. A non-nil returned
	// Cleanup is retained by the model and run on Destroy.
	fn func() Cleanup
}

// flush drains the effect queue, invoking queued listeners and callbacks in
// enqueue order. Entries appended while flushing (by listeners that mutate
// models) are drained in the same pass; the loop ends only when the queue
// is empty.
//
// flush runs with the registry depth held at 1, so any mutation triggered
// by a listener appends to this queue instead of starting a nested flush.
// A failing subscriber is reported and does not stop the remaining entries.
func (r *Registry) flush() {
	if r.flushing {
		// Single active flush invariant. Nested calls keep the depth above
		// zero, so this cannot be reached from kernel code paths.
		panic("statekit: reentrant flush")
	}
	r.flushing = true
	defer func() { r.flushing = false }()

	for i := 0; i < len(r.queue); i++ {
		e := r.queue[i]
		switch e.kind {
		case entryNotify:
			for _, l := range e.model.listeners() {
				r.invokeListener(e.model.id, func() { l.fn(e.curr, e.prev) })
			}
		case entryEmit:
			for _, h := range e.model.eventHandlers() {
				r.invokeListener(e.model.id, func() { h.fn(e.event) })
			}
		case entryCallback:
			r.invokeCallback(e.model, e.fn)
		}
	}
	r.queue = nil
}

// invokeListener runs a subscriber, converting a panic into a report.
func (r *Registry) invokeListener(modelID string, fn func()) {
	defer func() {
		if p := recover(); p != nil {
			r.report(modelID, fmt.Errorf("statekit: subscriber panic: %v", p))
		}
	}()
	fn()
}

// invokeCallback runs a ctx.Effect callback and retains its cleanup.
func (r *Registry) invokeCallback(m *model, fn func() Cleanup) {
	var cleanup Cleanup
	defer func() {
		if p := recover(); p != nil {
			r.report(m.id, fmt.Errorf("statekit: effect panic: %v", p))
			return
		}
		if cleanup != nil {
			m.addCleanup(cleanup)
		}
	}()
	cleanup = fn()
}
