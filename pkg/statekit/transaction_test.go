package statekit

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTransactionCommits(t *testing.T) {
	r := New()
	r.CreateModel("a", 1)
	r.CreateModel("b", 2)

	err := r.Transaction(func() error {
		if err := r.Update("a", func(_ any, ctx *Ctx) error {
			ctx.SetState(10)
			ctx.Notify()
			return nil
		}); err != nil {
			return err
		}
		return r.Update("b", func(_ any, ctx *Ctx) error {
			ctx.SetState(20)
			ctx.Notify()
			return nil
		})
	})
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}

	a, _ := r.Read("a")
	b, _ := r.Read("b")
	if a.(int) != 10 || b.(int) != 20 {
		t.Errorf("expected 10/20, got %v/%v", a, b)
	}
}

// A transaction that throws after mutating A but before mutating B leaves
// both at their pre-transaction snapshots.
func TestTransactionMultiModelAtomicity(t *testing.T) {
	r := New()
	r.CreateModel("a", map[string]any{"v": 1})
	r.CreateModel("b", map[string]any{"v": 2})

	boom := errors.New("x")
	err := r.Transaction(func() error {
		if err := r.Update("a", func(draft any, ctx *Ctx) error {
			draft.(map[string]any)["v"] = 100
			ctx.Notify()
			return nil
		}); err != nil {
			return err
		}
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected transaction error, got %v", err)
	}

	a, _ := r.Read("a")
	b, _ := r.Read("b")
	if diff := cmp.Diff(map[string]any{"v": 1}, a); diff != "" {
		t.Errorf("model a not rolled back:\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"v": 2}, b); diff != "" {
		t.Errorf("model b changed:\n%s", diff)
	}
}

func TestTransactionDiscardsQueuedEffects(t *testing.T) {
	r := New()
	r.CreateModel("a", 0)

	notified := 0
	r.OnChange("a", func(any, any) { notified++ })

	_ = r.Transaction(func() error {
		r.Update("a", func(_ any, ctx *Ctx) error {
			ctx.SetState(1)
			ctx.Notify()
			return nil
		})
		return errors.New("abort")
	})

	if notified != 0 {
		t.Errorf("aborted transaction delivered %d notifications", notified)
	}
}

// On success the queue drains once, after the whole body completes, not
// once per nested update.
func TestTransactionSingleFlush(t *testing.T) {
	r := New()
	r.CreateModel("a", 0)
	r.CreateModel("b", 0)

	bodyDone := false
	var early bool
	r.OnChange("a", func(any, any) {
		if !bodyDone {
			early = true
		}
	})
	r.OnChange("b", func(any, any) {
		if !bodyDone {
			early = true
		}
	})

	r.Transaction(func() error {
		r.Update("a", func(_ any, ctx *Ctx) error {
			ctx.SetState(1)
			ctx.Notify()
			return nil
		})
		r.Update("b", func(_ any, ctx *Ctx) error {
			ctx.SetState(1)
			ctx.Notify()
			return nil
		})
		bodyDone = true
		return nil
	})

	if early {
		t.Error("a notification fired before the transaction body completed")
	}
}

func TestTransactionPanicRollsBack(t *testing.T) {
	r := New()
	r.CreateModel("a", 1)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic should propagate")
			}
		}()
		r.Transaction(func() error {
			r.Update("a", func(_ any, ctx *Ctx) error {
				ctx.SetState(99)
				return nil
			})
			panic("boom")
		})
	}()

	a, _ := r.Read("a")
	if a.(int) != 1 {
		t.Errorf("expected rollback to 1, got %v", a)
	}
}

func TestNestedTransactionInnerRollback(t *testing.T) {
	r := New()
	r.CreateModel("a", 1)
	r.CreateModel("b", 1)

	err := r.Transaction(func() error {
		r.Update("a", func(_ any, ctx *Ctx) error {
			ctx.SetState(2)
			return nil
		})

		// Inner transaction fails; its touches roll back. The outer
		// transaction absorbs the error and continues.
		inner := r.Transaction(func() error {
			r.Update("b", func(_ any, ctx *Ctx) error {
				ctx.SetState(99)
				return nil
			})
			return errors.New("inner fail")
		})
		if inner == nil {
			return errors.New("inner transaction should have failed")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("outer transaction: %v", err)
	}

	a, _ := r.Read("a")
	b, _ := r.Read("b")
	if a.(int) != 2 {
		t.Errorf("outer touch lost: %v", a)
	}
	if b.(int) != 1 {
		t.Errorf("inner touch not rolled back: %v", b)
	}
}

func TestBatchCoalescesWithoutAtomicity(t *testing.T) {
	r := New()
	r.CreateModel("a", 0)

	bodyDone := false
	early := false
	calls := 0
	r.OnChange("a", func(any, any) {
		calls++
		if !bodyDone {
			early = true
		}
	})

	r.Batch(func() {
		r.Update("a", func(_ any, ctx *Ctx) error {
			ctx.SetState(1)
			ctx.Notify()
			return nil
		})
		r.Update("a", func(_ any, ctx *Ctx) error {
			ctx.SetState(2)
			ctx.Notify()
			return nil
		})
		bodyDone = true
	})

	if early {
		t.Error("batch delivered notifications before its body completed")
	}
	if calls != 2 {
		t.Errorf("expected both notifications delivered, got %d", calls)
	}

	// Batch gives no rollback: a failed update inside leaves earlier
	// commits in place.
	r.Batch(func() {
		r.Update("a", func(_ any, ctx *Ctx) error {
			ctx.SetState(7)
			return nil
		})
		_ = r.Update("a", func(any, *Ctx) error { return errors.New("fail") })
	})

	a, _ := r.Read("a")
	if a.(int) != 7 {
		t.Errorf("batch should not roll back earlier commits, got %v", a)
	}
}

func TestNotifySnapshotsPerUpdate(t *testing.T) {
	r := New()
	r.CreateModel("a", 0)

	type pair struct{ cur, prev int }
	var pairs []pair
	r.OnChange("a", func(cur, prev any) {
		pairs = append(pairs, pair{cur.(int), prev.(int)})
	})

	r.Batch(func() {
		r.Update("a", func(_ any, ctx *Ctx) error {
			ctx.SetState(1)
			ctx.Notify()
			return nil
		})
		r.Update("a", func(_ any, ctx *Ctx) error {
			ctx.SetState(2)
			ctx.Notify()
			return nil
		})
	})

	want := []pair{{1, 0}, {2, 1}}
	if len(pairs) != 2 || pairs[0] != want[0] || pairs[1] != want[1] {
		t.Errorf("expected %v, got %v", want, pairs)
	}
}
