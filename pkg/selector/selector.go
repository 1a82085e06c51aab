package selector

import (
	"container/list"
	"reflect"
	"sync"
)

// Reader produces one input value for a selector.
type Reader func() any

// Combiner computes the selector's result from the input tuple.
type Combiner func(values []any) any

// Strategy selects the cache eviction policy.
type Strategy int

const (
	// Unbounded never evicts. Correct for selectors whose inputs take few
	// distinct values.
	Unbounded Strategy = iota

	// LRU evicts the least-recently-read entry when inserting beyond the
	// configured maximum size.
	LRU

	// FIFO evicts the oldest-inserted entry when inserting beyond the
	// configured maximum size, regardless of read recency.
	FIFO
)

// DefaultMaxCacheSize is the cache bound used by LRU and FIFO strategies
// when WithMaxCacheSize is not given.
const DefaultMaxCacheSize = 128

// EqualityFunc compares two input tuples. Tuples are always the same length.
type EqualityFunc func(a, b []any) bool

// Option configures a Selector.
type Option func(*config)

type config struct {
	equality EqualityFunc
	strategy Strategy
	maxSize  int
}

// WithEquality sets the tuple equality function.
// Default: element-wise deep equality.
func WithEquality(fn EqualityFunc) Option {
	return func(c *config) {
		c.equality = fn
	}
}

// WithCacheStrategy sets the eviction policy.
func WithCacheStrategy(s Strategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

// WithMaxCacheSize sets the cache bound for LRU and FIFO strategies.
// Ignored by Unbounded.
func WithMaxCacheSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// DeepEquality compares tuples element-wise with reflect.DeepEqual.
// This is the default equality function.
func DeepEquality(a, b []any) bool {
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Selector is a memoized pure function of its input readers.
type Selector struct {
	inputs   []Reader
	combiner Combiner
	cfg      config

	mu sync.Mutex

	// entries is ordered front-to-back by recency (LRU) or insertion (FIFO).
	// Lookup is a linear equality scan; input tuples are small and rarely
	// hashable, so a map keyed by tuple is not an option.
	entries *list.List
}

type cacheEntry struct {
	inputs []any
	result any
}

// New creates a selector over the given input readers and combiner.
func New(inputs []Reader, combiner Combiner, opts ...Option) *Selector {
	cfg := config{
		equality: DeepEquality,
		strategy: Unbounded,
		maxSize:  DefaultMaxCacheSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Selector{
		inputs:   inputs,
		combiner: combiner,
		cfg:      cfg,
		entries:  list.New(),
	}
}

// Get evaluates the inputs and returns the memoized result for that tuple,
// invoking the combiner only on a cache miss.
func (s *Selector) Get() any {
	tuple := make([]any, len(s.inputs))
	for i, in := range s.inputs {
		tuple[i] = in()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for el := s.entries.Front(); el != nil; el = el.Next() {
		entry := el.Value.(*cacheEntry)
		if s.cfg.equality(entry.inputs, tuple) {
			if s.cfg.strategy == LRU {
				s.entries.MoveToFront(el)
			}
			return entry.result
		}
	}

	result := s.combiner(tuple)
	s.entries.PushFront(&cacheEntry{inputs: tuple, result: result})

	if s.cfg.strategy != Unbounded && s.entries.Len() > s.cfg.maxSize {
		if back := s.entries.Back(); back != nil {
			s.entries.Remove(back)
		}
	}

	return result
}

// CacheLen returns the number of cached entries.
func (s *Selector) CacheLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Len()
}

// ClearCache drops all cached entries.
func (s *Selector) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Init()
}
