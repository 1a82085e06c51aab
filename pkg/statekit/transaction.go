package statekit

// txFrame is one active transaction. Snapshots are taken lazily: the first
// lease of a model inside the transaction records its pre-transaction state
// into every open frame that has not seen it yet.
type txFrame struct {
	snapshots map[string]any
	queueMark int
}

// snapshotForTx records m's current state into every open transaction frame
// that has not touched m yet. Called before the lease mutates anything.
func (r *Registry) snapshotForTx(m *model) {
	for _, f := range r.txStack {
		if _, ok := f.snapshots[m.id]; !ok {
			f.snapshots[m.id] = deepClone(m.state)
		}
	}
}

// rollbackTx restores every model the frame touched and discards the
// effects queued since the frame opened.
func (r *Registry) rollbackTx(f *txFrame) {
	for id, snap := range f.snapshots {
		if m, ok := r.models[id]; ok {
			m.state = snap
			m.version++
		}
	}
	if f.queueMark <= len(r.queue) {
		r.queue = r.queue[:f.queueMark]
	}
}

// Transaction runs fn atomically across every model it touches. Snapshots
// are taken lazily on first touch. If fn returns an error or panics, all
// touched models are rolled back to their pre-transaction state, the
// effects queued during the transaction are discarded, and the failure
// propagates to the caller. On success the queue is drained once, after
// the whole transaction body has completed, not once per nested Update.
//
// Transactions nest: an inner transaction rolls back its own touches and
// re-raises; the outer transaction decides whether that aborts it too.
func (r *Registry) Transaction(fn func() error) error {
	r.enter()
	defer r.exit()

	return r.wrap(Op{Kind: OpTransaction}, func() error {
		frame := &txFrame{
			snapshots: make(map[string]any),
			queueMark: len(r.queue),
		}
		r.txStack = append(r.txStack, frame)

		var err error
		func() {
			defer func() {
				r.txStack = r.txStack[:len(r.txStack)-1]
				if p := recover(); p != nil {
					r.rollbackTx(frame)
					panic(p)
				}
			}()
			err = fn()
		}()

		if err != nil {
			r.rollbackTx(frame)
			if errAsUpdateError(err) {
				return err
			}
			return &UpdateError{Err: err}
		}
		return nil
	})
}

// Batch runs fn with notification coalescing only: every Notify and Emit
// enqueued inside fn is delivered in a single flush when the outermost call
// returns. Unlike Transaction, Batch takes no snapshots and gives no
// atomicity: a failure inside fn leaves earlier updates committed.
func (r *Registry) Batch(fn func()) {
	r.enter()
	defer r.exit()

	_ = r.wrap(Op{Kind: OpBatch}, func() error {
		fn()
		return nil
	})
}
