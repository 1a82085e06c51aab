package lens

import (
	"errors"
	"fmt"
)

// ErrReadOnly is returned when Set is called on a derived read-only lens
// (Filtered, Mapped, Reduced). These lenses have no meaningful inverse.
var ErrReadOnly = errors.New("lens: set on read-only lens")

// ErrIndexOutOfRange is returned by Index lenses when the focused position
// does not exist in the sequence.
var ErrIndexOutOfRange = errors.New("lens: index out of range")

// ErrMissingKey is returned by AtKey lenses when the focused key is absent.
var ErrMissingKey = errors.New("lens: missing key")

// Lens is a composable (get, set) pair focusing on an A inside an S.
//
// Both legs return an error so that positional lenses (Index, AtKey) can
// report a missing focus and read-only derived lenses can reject Set.
// Lenses built from total functions (Field, New) never return errors.
type Lens[S, A any] struct {
	get func(S) (A, error)
	set func(S, A) (S, error)
}

// New constructs a lens from a getter and a setter.
// The caller is responsible for the lens laws holding.
func New[S, A any](get func(S) A, set func(S, A) S) Lens[S, A] {
	return Lens[S, A]{
		get: func(s S) (A, error) { return get(s), nil },
		set: func(s S, a A) (S, error) { return set(s, a), nil },
	}
}

// Field is an alias for New that reads better for struct field lenses.
func Field[S, A any](get func(S) A, set func(S, A) S) Lens[S, A] {
	return New(get, set)
}

// Get extracts the focused value.
func (l Lens[S, A]) Get(s S) (A, error) {
	return l.get(s)
}

// Set returns a new S with the focused value replaced.
// The input S is never mutated.
func (l Lens[S, A]) Set(s S, a A) (S, error) {
	if l.set == nil {
		var zero S
		return zero, ErrReadOnly
	}
	return l.set(s, a)
}

// Modify reads the focused value, applies fn, and writes the result back.
func (l Lens[S, A]) Modify(s S, fn func(A) A) (S, error) {
	a, err := l.get(s)
	if err != nil {
		return s, err
	}
	return l.Set(s, fn(a))
}

// ReadOnly reports whether this lens has no setter.
func (l Lens[S, A]) ReadOnly() bool {
	return l.set == nil
}

// Compose chains two lenses: outer focuses an A inside an S, inner focuses
// a B inside that A. The result focuses the B inside the S.
//
// Laws: Compose(o, i).Get(s) == i.Get(o.Get(s)), and set goes through the
// outer setter so a read-only leg anywhere makes the composite read-only
// at Set time.
func Compose[S, A, B any](outer Lens[S, A], inner Lens[A, B]) Lens[S, B] {
	return Lens[S, B]{
		get: func(s S) (B, error) {
			a, err := outer.get(s)
			if err != nil {
				var zero B
				return zero, err
			}
			return inner.get(a)
		},
		set: func(s S, b B) (S, error) {
			if outer.set == nil || inner.set == nil {
				var zero S
				return zero, ErrReadOnly
			}
			a, err := outer.get(s)
			if err != nil {
				var zero S
				return zero, err
			}
			a2, err := inner.set(a, b)
			if err != nil {
				var zero S
				return zero, err
			}
			return outer.set(s, a2)
		},
	}
}

// Index focuses element i of a slice.
//
// Get past the bounds fails with ErrIndexOutOfRange. Set copies the spine
// of the slice and replaces element i; the other elements are shared with
// the input slice.
func Index[E any](i int) Lens[[]E, E] {
	return Lens[[]E, E]{
		get: func(s []E) (E, error) {
			if i < 0 || i >= len(s) {
				var zero E
				return zero, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(s))
			}
			return s[i], nil
		},
		set: func(s []E, e E) ([]E, error) {
			if i < 0 || i >= len(s) {
				return nil, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(s))
			}
			out := make([]E, len(s))
			copy(out, s)
			out[i] = e
			return out, nil
		},
	}
}

// AtKey focuses the value under key k of a map.
//
// Get of an absent key fails with ErrMissingKey. Set copies the map and
// inserts the value under k, so setting an absent key creates it.
func AtKey[K comparable, V any](k K) Lens[map[K]V, V] {
	return Lens[map[K]V, V]{
		get: func(m map[K]V) (V, error) {
			v, ok := m[k]
			if !ok {
				var zero V
				return zero, fmt.Errorf("%w: %v", ErrMissingKey, k)
			}
			return v, nil
		},
		set: func(m map[K]V, v V) (map[K]V, error) {
			out := make(map[K]V, len(m)+1)
			for key, val := range m {
				out[key] = val
			}
			out[k] = v
			return out, nil
		},
	}
}

// Filtered derives a read-only lens producing the elements of the focused
// slice for which pred holds. Set fails with ErrReadOnly.
func Filtered[S any, E any](l Lens[S, []E], pred func(E) bool) Lens[S, []E] {
	return Lens[S, []E]{
		get: func(s S) ([]E, error) {
			es, err := l.get(s)
			if err != nil {
				return nil, err
			}
			var out []E
			for _, e := range es {
				if pred(e) {
					out = append(out, e)
				}
			}
			return out, nil
		},
	}
}

// Mapped derives a read-only lens applying fn to each element of the focused
// slice. Set fails with ErrReadOnly.
func Mapped[S any, E, R any](l Lens[S, []E], fn func(E) R) Lens[S, []R] {
	return Lens[S, []R]{
		get: func(s S) ([]R, error) {
			es, err := l.get(s)
			if err != nil {
				return nil, err
			}
			out := make([]R, len(es))
			for i, e := range es {
				out[i] = fn(e)
			}
			return out, nil
		},
	}
}

// Reduced derives a read-only lens folding the focused slice with fn from
// seed. Set fails with ErrReadOnly.
func Reduced[S any, E, R any](l Lens[S, []E], seed R, fn func(R, E) R) Lens[S, R] {
	return Lens[S, R]{
		get: func(s S) (R, error) {
			es, err := l.get(s)
			if err != nil {
				var zero R
				return zero, err
			}
			acc := seed
			for _, e := range es {
				acc = fn(acc, e)
			}
			return acc, nil
		},
	}
}
