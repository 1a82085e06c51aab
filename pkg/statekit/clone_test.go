package statekit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeepCloneMap(t *testing.T) {
	orig := map[string]any{
		"a": 1,
		"b": map[string]any{"c": []any{1, 2, 3}},
	}
	c := deepClone(orig).(map[string]any)

	if diff := cmp.Diff(orig, c); diff != "" {
		t.Fatalf("clone differs:\n%s", diff)
	}

	c["b"].(map[string]any)["c"].([]any)[0] = 99
	if orig["b"].(map[string]any)["c"].([]any)[0] != 1 {
		t.Error("nested mutation leaked into original")
	}
}

func TestDeepCloneSlice(t *testing.T) {
	orig := []map[string]int{{"x": 1}, {"y": 2}}
	c := deepClone(orig).([]map[string]int)

	c[0]["x"] = 9
	if orig[0]["x"] != 1 {
		t.Error("element mutation leaked into original")
	}
}

func TestDeepCloneStructWithPointer(t *testing.T) {
	type inner struct{ N int }
	type outer struct {
		P    *inner
		Name string
	}
	orig := outer{P: &inner{N: 1}, Name: "a"}
	c := deepClone(orig).(outer)

	if c.P == orig.P {
		t.Fatal("pointer shared between clone and original")
	}
	c.P.N = 42
	if orig.P.N != 1 {
		t.Error("pointee mutation leaked into original")
	}
}

func TestDeepCloneNilAndScalars(t *testing.T) {
	if deepClone(nil) != nil {
		t.Error("nil should clone to nil")
	}
	if deepClone(7) != 7 {
		t.Error("int clone")
	}
	if deepClone("s") != "s" {
		t.Error("string clone")
	}

	var m map[string]int
	if deepClone(m).(map[string]int) != nil {
		t.Error("nil map should stay nil")
	}
}
