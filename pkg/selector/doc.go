// Package selector provides memoized pure functions over upstream readers.
//
// A Selector evaluates an ordered list of input readers, compares the result
// tuple against previously seen tuples using a configurable equality
// function, and only invokes its combiner on a miss. The cache is unbounded
// by default; bounded LRU and FIFO policies are available:
//
//	sel := selector.New(
//	    []selector.Reader{func() any { return reg.MustRead("cart") }},
//	    func(vals []any) any { return total(vals[0].(cart)) },
//	    selector.WithCacheStrategy(selector.LRU),
//	    selector.WithMaxCacheSize(64),
//	)
//	v := sel.Get()
//
// A cache hit is decided on the input tuple, never on the combiner's output.
package selector
