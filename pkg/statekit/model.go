package statekit

import "sync/atomic"

// subID is the source of unique subscription ids.
// Ids are monotonically increasing and never reused.
var subID uint64

func nextSubID() uint64 {
	return atomic.AddUint64(&subID, 1)
}

type changeSub struct {
	id uint64
	fn func(current, previous any)
}

type eventSub struct {
	id uint64
	fn func(event any)
}

// model is a registry entry. All fields are owned by the registry and only
// touched while its lock is held by the current flow.
type model struct {
	id string

	// state is the committed state, exclusively owned by the registry.
	state any

	// initial is the immutable snapshot used by Reset.
	initial any

	// version increments on every commit. Cheap dirtiness input for
	// downstream memoization.
	version uint64

	// changeSubs and eventSubs are ordered: subscribers fire in the order
	// they were attached.
	changeSubs []changeSub
	eventSubs  []eventSub

	// cleanups are retained from ctx.Effect callbacks, run LIFO on Destroy.
	cleanups []Cleanup
}

// listeners returns a copy of the change subscribers, so a subscriber may
// attach or detach during the flush without affecting the current delivery.
func (m *model) listeners() []changeSub {
	out := make([]changeSub, len(m.changeSubs))
	copy(out, m.changeSubs)
	return out
}

// eventHandlers returns a copy of the event subscribers.
func (m *model) eventHandlers() []eventSub {
	out := make([]eventSub, len(m.eventSubs))
	copy(out, m.eventSubs)
	return out
}

func (m *model) addCleanup(fn Cleanup) {
	m.cleanups = append(m.cleanups, fn)
}

func (m *model) removeChangeSub(id uint64) {
	for i, s := range m.changeSubs {
		if s.id == id {
			m.changeSubs = append(m.changeSubs[:i], m.changeSubs[i+1:]...)
			return
		}
	}
}

func (m *model) removeEventSub(id uint64) {
	for i, s := range m.eventSubs {
		if s.id == id {
			m.eventSubs = append(m.eventSubs[:i], m.eventSubs[i+1:]...)
			return
		}
	}
}
