package statekit

import "runtime"

// goroutineID returns a unique identifier for the current goroutine.
// The registry uses it to tell nested calls on the active flow apart from
// callers on other goroutines. This is an implementation detail and is not
// exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack trace starts with "goroutine <id> ".
	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}
