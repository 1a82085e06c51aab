package statekit

import (
	"errors"
	"testing"
)

func TestMiddlewareSeesOps(t *testing.T) {
	var ops []Op
	r := New(WithMiddleware(func(op Op, next func() error) error {
		ops = append(ops, op)
		return next()
	}))
	r.CreateModel("c", 0)

	r.Update("c", func(_ any, ctx *Ctx) error {
		ctx.Notify()
		return nil
	})

	if len(ops) != 2 {
		t.Fatalf("expected update and flush ops, got %v", ops)
	}
	if ops[0].Kind != OpUpdate || ops[0].Model != "c" {
		t.Errorf("first op: %+v", ops[0])
	}
	if ops[1].Kind != OpFlush {
		t.Errorf("second op: %+v", ops[1])
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(op Op, next func() error) error {
			order = append(order, name+"-in")
			err := next()
			order = append(order, name+"-out")
			return err
		}
	}

	r := New(WithMiddleware(mw("outer"), mw("inner")))
	r.CreateModel("c", 0)
	r.Update("c", func(any, *Ctx) error { return nil })

	want := []string{"outer-in", "inner-in", "inner-out", "outer-out"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestMiddlewareSeesUpdateError(t *testing.T) {
	var seen error
	r := New(WithMiddleware(func(op Op, next func() error) error {
		err := next()
		if op.Kind == OpUpdate {
			seen = err
		}
		return err
	}))
	r.CreateModel("c", 0)

	boom := errors.New("x")
	_ = r.Update("c", func(any, *Ctx) error { return boom })

	if !errors.Is(seen, boom) {
		t.Errorf("middleware did not observe the update error: %v", seen)
	}
}

func TestMiddlewareWrapsTransactionOnce(t *testing.T) {
	var txOps, updateOps int
	r := New(WithMiddleware(func(op Op, next func() error) error {
		switch op.Kind {
		case OpTransaction:
			txOps++
		case OpUpdate:
			updateOps++
		}
		return next()
	}))
	r.CreateModel("a", 0)
	r.CreateModel("b", 0)

	r.Transaction(func() error {
		r.Update("a", func(any, *Ctx) error { return nil })
		r.Update("b", func(any, *Ctx) error { return nil })
		return nil
	})

	if txOps != 1 {
		t.Errorf("expected 1 transaction op, got %d", txOps)
	}
	if updateOps != 2 {
		t.Errorf("expected 2 update ops, got %d", updateOps)
	}
}

func TestOpKindString(t *testing.T) {
	cases := map[OpKind]string{
		OpUpdate:      "update",
		OpTransaction: "transaction",
		OpBatch:       "batch",
		OpFlush:       "flush",
		OpDestroy:     "destroy",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Errorf("OpKind(%d).String() = %q, want %q", k, k.String(), want)
		}
	}
}
