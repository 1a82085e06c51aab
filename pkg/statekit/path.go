package statekit

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ErrBadPath is returned by ParsePath for a malformed path string and by
// path traversal when a segment does not apply to the value it meets
// (missing key, index out of range, unsupported container).
var ErrBadPath = errors.New("statekit: bad path")

// Segment is one step of a Path: either a map key / struct field name, or a
// sequence index.
type Segment struct {
	Key   string
	Index int
	index bool
}

// Key returns a key segment.
func Key(k string) Segment {
	return Segment{Key: k}
}

// Index returns an index segment.
func Index(i int) Segment {
	return Segment{Index: i, index: true}
}

// String returns the segment in path notation.
func (s Segment) String() string {
	if s.index {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path is a parsed, validated sequence of segments addressing a sub-value.
// Build one with ParsePath or P; the zero Path addresses the root value.
type Path struct {
	segments []Segment
}

// P builds a path from explicit segments.
func P(segments ...Segment) Path {
	return Path{segments: segments}
}

// ParsePath parses a dotted path like "profile.settings.theme" or "items.2".
// Purely numeric segments become index segments. Empty segments are invalid.
// Parsing validates once at construction; traversal never re-parses.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, ".")
	segs := make([]Segment, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			return Path{}, fmt.Errorf("%w: empty segment in %q", ErrBadPath, s)
		}
		if i, err := strconv.Atoi(p); err == nil {
			if i < 0 {
				return Path{}, fmt.Errorf("%w: negative index in %q", ErrBadPath, s)
			}
			segs = append(segs, Index(i))
		} else {
			segs = append(segs, Key(p))
		}
	}
	return Path{segments: segs}, nil
}

// MustParsePath is ParsePath that panics on error, for paths known at
// compile time.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the path in dotted notation.
func (p Path) String() string {
	parts := make([]string, len(p.segments))
	for i, s := range p.segments {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// get walks the path down from root and returns the addressed value.
func (p Path) get(root any) (any, error) {
	cur := root
	for _, seg := range p.segments {
		next, err := segGet(cur, seg)
		if err != nil {
			return nil, fmt.Errorf("%w at %q", err, p.String())
		}
		cur = next
	}
	return cur, nil
}

// set returns a new root with the addressed value replaced. Only the
// containers along the path are copied; siblings are shared with the input.
func (p Path) set(root any, val any) (any, error) {
	out, err := segSet(root, p.segments, val)
	if err != nil {
		return nil, fmt.Errorf("%w at %q", err, p.String())
	}
	return out, nil
}

func segGet(v any, seg Segment) (any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil at segment %q", ErrBadPath, seg)
		}
		rv = rv.Elem()
	}

	if seg.index {
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("%w: index segment %d on %s", ErrBadPath, seg.Index, rv.Kind())
		}
		if seg.Index < 0 || seg.Index >= rv.Len() {
			return nil, fmt.Errorf("%w: index %d past length %d", ErrBadPath, seg.Index, rv.Len())
		}
		return rv.Index(seg.Index).Interface(), nil
	}

	switch rv.Kind() {
	case reflect.Map:
		mv := rv.MapIndex(reflect.ValueOf(seg.Key))
		if !mv.IsValid() {
			return nil, fmt.Errorf("%w: missing key %q", ErrBadPath, seg.Key)
		}
		return mv.Interface(), nil
	case reflect.Struct:
		fv := rv.FieldByName(seg.Key)
		if !fv.IsValid() {
			return nil, fmt.Errorf("%w: no field %q on %s", ErrBadPath, seg.Key, rv.Type())
		}
		return fv.Interface(), nil
	default:
		return nil, fmt.Errorf("%w: key segment %q on %s", ErrBadPath, seg.Key, rv.Kind())
	}
}

func segSet(v any, segs []Segment, val any) (any, error) {
	if len(segs) == 0 {
		return val, nil
	}
	seg := segs[0]

	child, err := segGet(v, seg)
	if err != nil {
		return nil, err
	}
	newChild, err := segSet(child, segs[1:], val)
	if err != nil {
		return nil, err
	}

	// segGet above already rejected nil pointers, so this deref loop only
	// meets non-nil values. Pointer levels are counted and restored below so
	// a value held as *T stays a *T after the set.
	rv := reflect.ValueOf(v)
	ptrDepth := 0
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.Kind() == reflect.Ptr {
			ptrDepth++
		}
		rv = rv.Elem()
	}

	if seg.index {
		var out reflect.Value
		switch rv.Kind() {
		case reflect.Slice:
			out = reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
			reflect.Copy(out, rv)
		case reflect.Array:
			out = reflect.New(rv.Type()).Elem()
			reflect.Copy(out, rv)
		default:
			return nil, fmt.Errorf("%w: index segment %d on %s", ErrBadPath, seg.Index, rv.Kind())
		}
		out.Index(seg.Index).Set(reflect.ValueOf(newChild))
		return rewrapPtrs(out, ptrDepth), nil
	}

	switch rv.Kind() {
	case reflect.Map:
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		out.SetMapIndex(reflect.ValueOf(seg.Key), reflect.ValueOf(newChild))
		return rewrapPtrs(out, ptrDepth), nil
	case reflect.Struct:
		out := reflect.New(rv.Type()).Elem()
		out.Set(rv)
		out.FieldByName(seg.Key).Set(reflect.ValueOf(newChild))
		return rewrapPtrs(out, ptrDepth), nil
	default:
		return nil, fmt.Errorf("%w: key segment %q on %s", ErrBadPath, seg.Key, rv.Kind())
	}
}

// rewrapPtrs re-applies the pointer levels stripped while locating the
// container, keeping the container's declared type in the committed state.
func rewrapPtrs(out reflect.Value, depth int) any {
	for i := 0; i < depth; i++ {
		p := reflect.New(out.Type())
		p.Elem().Set(out)
		out = p
	}
	return out.Interface()
}
