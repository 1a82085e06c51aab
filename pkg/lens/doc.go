// Package lens provides composable (get, set) pairs for immutable, focused
// access to sub-parts of a value.
//
// A Lens[S, A] focuses on an A inside an S. Getting never mutates; setting
// returns a new S with the focused part replaced, sharing everything else
// structurally where possible. Lenses are pure values with no owner and may
// be freely shared.
//
// Well-behaved lenses satisfy the lens laws:
//
//	Get(Set(s, a)) == a        // set-then-get
//	Set(s, Get(s)) == s        // get-then-set
//
// Composition preserves the laws:
//
//	addr := lens.Field(
//	    func(u User) Address { return u.Addr },
//	    func(u User, a Address) User { u.Addr = a; return u },
//	)
//	city := lens.Field(
//	    func(a Address) string { return a.City },
//	    func(a Address, c string) Address { a.City = c; return a },
//	)
//	userCity := lens.Compose(addr, city)
//
// Derived read-only lenses (Filtered, Mapped, Reduced) have no setter;
// calling Set on one fails with ErrReadOnly.
package lens
