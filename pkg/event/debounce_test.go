package event

import (
	"sync"
	"testing"
	"time"
)

func TestDebounceDeliversLastValue(t *testing.T) {
	h, emit := New[int]()
	debounced := h.Debounce(20 * time.Millisecond)

	var mu sync.Mutex
	var got []int
	debounced.Subscribe(func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})

	// Rapid burst: only the last value should be delivered.
	emit(1)
	emit(2)
	emit(3)

	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("expected [3], got %v", got)
	}
}

func TestDebounceResetsOnNewValue(t *testing.T) {
	h, emit := New[int]()
	debounced := h.Debounce(40 * time.Millisecond)

	var mu sync.Mutex
	var got []int
	debounced.Subscribe(func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})

	emit(1)
	time.Sleep(20 * time.Millisecond)
	// Still within the window; this resets the timer and discards 1.
	emit(2)
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	if len(got) != 0 {
		mu.Unlock()
		t.Fatalf("nothing should be delivered yet, got %v", got)
	}
	mu.Unlock()

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("expected [2], got %v", got)
	}
}

func TestDebounceSeparateWindows(t *testing.T) {
	h, emit := New[int]()
	debounced := h.Debounce(10 * time.Millisecond)

	var mu sync.Mutex
	var got []int
	debounced.Subscribe(func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})

	emit(1)
	time.Sleep(40 * time.Millisecond)
	emit(2)
	time.Sleep(40 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected [1 2], got %v", got)
	}
}
