// Package reflectx walks a Go declared type the way the core specification's
// evoke_types_chain/search_contract pair walks a Python type annotation: it
// flattens pointers and "batch" wrappers (slices, arrays) down to a sequence
// of candidate types, then searches that sequence for the first type that
// implements one of a set of target interfaces. This is the single mechanism
// the actor registry uses to tell a domain parameter from a context
// parameter from a dependency parameter (spec.md §4.2).
package reflectx

import "reflect"

// Chain is a flattened, depth-first view of a declared type. A bare type
// chains to itself; a pointer chains to its element; a slice or array
// chains to its element (so a "batch" actor parameter such as
// []EmployeeCreated still surfaces EmployeeCreated for searching).
//
// Chain stops flattening — and callers must treat it as opaque — the moment
// it reaches a func-kind type: a callable parameter (e.g. a dependency that
// is itself a function, such as a factory or hook) must never be
// misclassified as a message by search continuing into its signature.
type Chain struct {
	// Types holds the flattened sequence of candidate types, outermost first.
	Types []reflect.Type
	// Aborted is true when flattening stopped at a func-kind type.
	Aborted bool
}

// Walk flattens t into a Chain.
func Walk(t reflect.Type) Chain {
	var c Chain
	walk(t, &c)
	return c
}

func walk(t reflect.Type, c *Chain) {
	if t == nil || c.Aborted {
		return
	}
	if t.Kind() == reflect.Func {
		c.Aborted = true
		return
	}
	c.Types = append(c.Types, t)
	switch t.Kind() {
	case reflect.Pointer:
		walk(t.Elem(), c)
	case reflect.Slice, reflect.Array:
		walk(t.Elem(), c)
	}
}

// Search returns the first type in the chain that is identical to, or
// implements (when needle is an interface), one of the given needle types.
// It returns (nil, false) if the chain aborted on a callable marker or no
// element matches any needle — mirroring search_contract's "the search
// aborts" rule for callables.
func Search(c Chain, needles ...reflect.Type) (reflect.Type, bool) {
	if c.Aborted {
		return nil, false
	}
	for _, t := range c.Types {
		for _, needle := range needles {
			if t == needle {
				return t, true
			}
			if needle.Kind() == reflect.Interface && t.Implements(needle) {
				return t, true
			}
			// Allow matching via a pointer receiver's method set against a
			// value-kind needle interface (e.g. *T implements Message while
			// T is the declared needle's element form used elsewhere).
			if needle.Kind() == reflect.Interface && t.Kind() != reflect.Pointer {
				if reflect.PointerTo(t).Implements(needle) {
					return t, true
				}
			}
		}
	}
	return nil, false
}
