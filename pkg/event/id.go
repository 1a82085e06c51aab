package event

import "sync/atomic"

// idCounter is the source of unique subscription IDs.
var idCounter uint64

// nextID returns the next unique subscription ID.
// IDs are monotonically increasing and never reused.
func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}
