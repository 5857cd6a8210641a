package actor

// Namespace is the Go analogue of register_module's recursive walk over a
// Python module object (spec.md SUPPLEMENTED FEATURES): since Go has no
// runtime reflection over a package's top-level functions, a Namespace is
// an explicit, hand-written manifest of the functions and sub-namespaces it
// wants registered. A domain package typically exposes one Namespace value
// listing every actor function it declares plus any sub-domain Namespaces
// it wants folded in.
type Namespace interface {
	// Actors returns every actor function this namespace declares
	// directly, in the order they should be registered.
	Actors() []any
	// Children returns sub-namespaces to register recursively.
	Children() []Namespace
}

// RegisterNamespace registers every actor reachable from ns, recursing into
// its children depth-first, the same traversal order register_module uses.
func RegisterNamespace(r *Registry, ns Namespace, opts ...AddOption) error {
	for _, fn := range ns.Actors() {
		if err := r.Add(fn, opts...); err != nil {
			return err
		}
	}
	for _, child := range ns.Children() {
		if err := RegisterNamespace(r, child, opts...); err != nil {
			return err
		}
	}
	return nil
}
