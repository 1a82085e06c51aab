package subject

import (
	"testing"

	"github.com/statekit-go/statekit/pkg/event"
)

func TestSubjectReducesEvents(t *testing.T) {
	onInc, emitInc := event.New[struct{}]()

	counter := New(0, Bind(onInc, func(struct{}) func(int) int {
		return func(c int) int { return c + 1 }
	}))

	emitInc(struct{}{})
	emitInc(struct{}{})
	emitInc(struct{}{})

	if got := counter.Value(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestSubjectInitialValue(t *testing.T) {
	s := New("hello")
	if got := s.Value(); got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}
}

func TestSubjectMultipleBindings(t *testing.T) {
	onAdd, emitAdd := event.New[int]()
	onReset, emitReset := event.New[struct{}]()

	total := New(0,
		Bind(onAdd, func(n int) func(int) int {
			return func(c int) int { return c + n }
		}),
		Bind(onReset, func(struct{}) func(int) int {
			return func(int) int { return 0 }
		}),
	)

	emitAdd(5)
	emitAdd(7)
	if got := total.Value(); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}

	emitReset(struct{}{})
	if got := total.Value(); got != 0 {
		t.Errorf("expected 0 after reset, got %d", got)
	}

	emitAdd(3)
	if got := total.Value(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestSubjectEventValueReachesReducer(t *testing.T) {
	onWord, emitWord := event.New[string]()

	sentence := New("", Bind(onWord, func(w string) func(string) string {
		return func(s string) string {
			if s == "" {
				return w
			}
			return s + " " + w
		}
	}))

	emitWord("state")
	emitWord("kernel")

	if got := sentence.Value(); got != "state kernel" {
		t.Errorf("expected %q, got %q", "state kernel", got)
	}
}

func TestSubjectClose(t *testing.T) {
	onInc, emitInc := event.New[struct{}]()
	counter := New(0, Bind(onInc, func(struct{}) func(int) int {
		return func(c int) int { return c + 1 }
	}))

	emitInc(struct{}{})
	counter.Close()
	emitInc(struct{}{})

	if got := counter.Value(); got != 1 {
		t.Errorf("closed subject should stop reducing, got %d", got)
	}
}

func TestSubjectThroughOperatorChain(t *testing.T) {
	onNum, emitNum := event.New[int]()
	positives := onNum.Filter(func(n int) bool { return n > 0 })

	sum := New(0, Bind(positives, func(n int) func(int) int {
		return func(c int) int { return c + n }
	}))

	emitNum(-5)
	emitNum(4)
	emitNum(-1)
	emitNum(6)

	if got := sum.Value(); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
}
