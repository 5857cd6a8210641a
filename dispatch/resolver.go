package dispatch

import (
	"context"
	"reflect"
)

// Resolver is the dependency-injection contract CQProcessor and
// TaskExecutor consume to satisfy an actor's dependency parameters
// (spec.md §6 "Dependency-Resolver contract"). Implementations typically
// wrap a DI container scope; this package never constructs one itself.
type Resolver interface {
	// Resolve produces a value for the given declared dependency type.
	Resolve(ctx context.Context, contract reflect.Type) (any, error)
}

// Scope extends Resolver with the close half of the contract: a scope
// opened for one dispatch must be closed exactly once, via Close, which
// runs the resolver's success-close path when failed is false and its
// failure-close path when failed is true (spec.md §4.6, §5).
type Scope interface {
	Resolver
	Close(ctx context.Context, failed bool) error
}

// ResolverFactory opens a new Scope for one dispatch, optionally seeded
// with extra per-scope bindings (spec.md §6 "get_resolver(*extra_contexts)").
type ResolverFactory func(ctx context.Context, extraContexts ...any) (Scope, error)
