// Command demo wires the employee onboarding dispatch end to end with
// in-memory stand-ins for its infrastructure dependencies, mirroring the
// teacher's cmd/demo/main.go: a minimal main that wires everything by hand
// and runs the same request through it twice.
package main

import (
	"context"
	"fmt"
	"reflect"

	"goa.design/cq-runtime/actor"
	"goa.design/cq-runtime/dispatch"
	"goa.design/cq-runtime/domain/employee"
)

// stubChecker is a tiny in-memory ExistenceChecker: the demo has no real
// Redis to talk to, so it just remembers names it has already seen.
type stubChecker struct {
	seen map[string]bool
}

func (s *stubChecker) Exists(_ context.Context, firstName, lastName string) (bool, error) {
	key := firstName + " " + lastName
	if s.seen[key] {
		return true, nil
	}
	s.seen[key] = true
	return false, nil
}

// stubValidator accepts any payload with a non-empty first and last name.
type stubValidator struct{}

func (stubValidator) Validate(payload any) error {
	c, ok := payload.(employee.CreateEmployee)
	if !ok || c.FirstName == "" || c.LastName == "" {
		return fmt.Errorf("first and last name are required")
	}
	return nil
}

// stubGenerator drafts a deterministic work email local-part without
// calling out to a real model provider.
type stubGenerator struct{}

func (stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	return "", nil // empty forces the usecase's first.last fallback
}

// stubRepo is an in-memory Repo standing in for the Mongo-backed one.
type stubRepo struct {
	stored map[string]string
}

func (r *stubRepo) Save(_ context.Context, e employee.EmployeeCreated, email string) (string, error) {
	id := e.FirstName + "." + e.LastName
	r.stored[id] = email
	return id, nil
}

// demoResolver satisfies dispatch.Scope by looking dependency values up in
// a plain map keyed by the declared parameter type, the simplest possible
// Resolver implementation.
type demoResolver struct {
	values map[reflect.Type]any
}

func (r *demoResolver) Resolve(_ context.Context, contract reflect.Type) (any, error) {
	if v, ok := r.values[contract]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no value registered for %s", contract)
}

func (r *demoResolver) Close(context.Context, bool) error { return nil }

func main() {
	ctx := context.Background()

	// 1) Registry: bulk-register the employee domain's actors.
	registry := actor.New()
	if err := actor.RegisterNamespace(registry, employee.Namespace); err != nil {
		panic(err)
	}

	// 2) Resolver: map each dependency contract to an in-memory stand-in.
	checker := &stubChecker{seen: make(map[string]bool)}
	repo := &stubRepo{stored: make(map[string]string)}
	values := map[reflect.Type]any{
		reflect.TypeOf((*employee.ExistenceChecker)(nil)).Elem(): employee.ExistenceChecker(checker),
		reflect.TypeOf((*employee.Validator)(nil)).Elem():        employee.Validator(stubValidator{}),
		reflect.TypeOf((*employee.TextGenerator)(nil)).Elem():    employee.TextGenerator(stubGenerator{}),
		reflect.TypeOf((*employee.Repo)(nil)).Elem():             employee.Repo(repo),
	}
	resolverFactory := func(context.Context, ...any) (dispatch.Scope, error) {
		return &demoResolver{values: values}, nil
	}

	// 3) TaskExecutor: drives one onboarding dispatch to completion.
	executor := dispatch.NewTaskExecutor(registry, dispatch.WithResolverFactory(resolverFactory))

	results, err := executor.Run(ctx, employee.CreateEmployee{FirstName: "Ada", LastName: "Lovelace"})
	if err != nil {
		panic(err)
	}
	for _, m := range results {
		fmt.Printf("%T: %+v\n", m, m)
	}

	// 4) Re-running the same command shows the audit-duplicate path
	// (Scenario B): the checker already "saw" this name.
	results, err = executor.Run(ctx, employee.CreateEmployee{FirstName: "Ada", LastName: "Lovelace"})
	if err != nil {
		panic(err)
	}
	for _, m := range results {
		fmt.Printf("%T: %+v\n", m, m)
	}
}
