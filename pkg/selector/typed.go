package selector

// Typed front-ends over the untyped core. Each wraps the readers and
// combiner once; memoization semantics are identical to New.

// Selector1 memoizes a function of one input.
type Selector1[A, R any] struct {
	s *Selector
}

// New1 creates a memoized function of one input reader.
func New1[A, R any](input func() A, combiner func(A) R, opts ...Option) *Selector1[A, R] {
	s := New(
		[]Reader{func() any { return input() }},
		func(vals []any) any { return combiner(vals[0].(A)) },
		opts...,
	)
	return &Selector1[A, R]{s: s}
}

// Get returns the memoized result for the current input.
func (s *Selector1[A, R]) Get() R {
	return s.s.Get().(R)
}

// Selector2 memoizes a function of two inputs.
type Selector2[A, B, R any] struct {
	s *Selector
}

// New2 creates a memoized function of two input readers.
func New2[A, B, R any](inA func() A, inB func() B, combiner func(A, B) R, opts ...Option) *Selector2[A, B, R] {
	s := New(
		[]Reader{
			func() any { return inA() },
			func() any { return inB() },
		},
		func(vals []any) any { return combiner(vals[0].(A), vals[1].(B)) },
		opts...,
	)
	return &Selector2[A, B, R]{s: s}
}

// Get returns the memoized result for the current inputs.
func (s *Selector2[A, B, R]) Get() R {
	return s.s.Get().(R)
}

// Selector3 memoizes a function of three inputs.
type Selector3[A, B, C, R any] struct {
	s *Selector
}

// New3 creates a memoized function of three input readers.
func New3[A, B, C, R any](inA func() A, inB func() B, inC func() C, combiner func(A, B, C) R, opts ...Option) *Selector3[A, B, C, R] {
	s := New(
		[]Reader{
			func() any { return inA() },
			func() any { return inB() },
			func() any { return inC() },
		},
		func(vals []any) any { return combiner(vals[0].(A), vals[1].(B), vals[2].(C)) },
		opts...,
	)
	return &Selector3[A, B, C, R]{s: s}
}

// Get returns the memoized result for the current inputs.
func (s *Selector3[A, B, C, R]) Get() R {
	return s.s.Get().(R)
}
