package employee_test

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goa.design/cq-runtime/actor"
	"goa.design/cq-runtime/dispatch"
	"goa.design/cq-runtime/domain/employee"
)

type fakeChecker struct{ exists bool }

func (f fakeChecker) Exists(context.Context, string, string) (bool, error) { return f.exists, nil }

type fakeValidator struct{ fail bool }

func (f fakeValidator) Validate(any) error {
	if f.fail {
		return fmt.Errorf("schema mismatch")
	}
	return nil
}

type fakeGenerator struct{}

func (fakeGenerator) Generate(context.Context, string) (string, error) { return "", nil }

type fakeRepo struct {
	saved []employee.EmployeeCreated
}

func (r *fakeRepo) Save(_ context.Context, e employee.EmployeeCreated, _ string) (string, error) {
	r.saved = append(r.saved, e)
	return e.FirstName + "." + e.LastName, nil
}

type failingRepo struct{}

func (failingRepo) Save(context.Context, employee.EmployeeCreated, string) (string, error) {
	return "", fmt.Errorf("connection refused")
}

// mapResolver implements dispatch.Resolver by looking dependency values up
// in a plain map keyed by the declared parameter type.
type mapResolver struct {
	values map[reflect.Type]any
}

func (r *mapResolver) Resolve(_ context.Context, contract reflect.Type) (any, error) {
	if v, ok := r.values[contract]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no value registered for %s", contract)
}

func testResolver(checker employee.ExistenceChecker, validator employee.Validator, gen employee.TextGenerator, repo employee.Repo) *mapResolver {
	return &mapResolver{values: map[reflect.Type]any{
		reflect.TypeOf((*employee.ExistenceChecker)(nil)).Elem(): checker,
		reflect.TypeOf((*employee.Validator)(nil)).Elem():        validator,
		reflect.TypeOf((*employee.TextGenerator)(nil)).Elem():    gen,
		reflect.TypeOf((*employee.Repo)(nil)).Elem():             repo,
	}}
}

func newRegistry(t *testing.T) *actor.Registry {
	t.Helper()
	r := actor.New()
	require.NoError(t, actor.RegisterNamespace(r, employee.Namespace))
	return r
}

func runAll(t *testing.T, proc *dispatch.Processor, seed employee.CreateEmployee) []string {
	t.Helper()
	var results []string
	for m, err := range proc.Run(context.Background(), seed) {
		require.NoError(t, err)
		results = append(results, fmt.Sprintf("%T", m))
	}
	return results
}

func TestScenarioAOnboardingSucceeds(t *testing.T) {
	repo := &fakeRepo{}
	r := newRegistry(t)
	proc := dispatch.New(r, testResolver(fakeChecker{exists: false}, fakeValidator{}, fakeGenerator{}, repo))

	seed := employee.CreateEmployee{FirstName: "Grace", LastName: "Hopper", Supervisor: "Howard"}
	results := runAll(t, proc, seed)

	assert.Equal(t, []string{
		"employee.CreateEmployeeContext",
		"employee.CreateEmployee",
		"employee.EmployeeCreated",
		"employee.GenerateEmployeeEmailContext",
		"employee.EmployeeWorkEmailGenerated",
		"employee.EmployeeStored",
	}, results)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "Grace", repo.saved[0].FirstName)
}

func TestScenarioBDuplicateAudited(t *testing.T) {
	repo := &fakeRepo{}
	r := newRegistry(t)
	proc := dispatch.New(r, testResolver(fakeChecker{exists: true}, fakeValidator{}, fakeGenerator{}, repo))

	seed := employee.CreateEmployee{FirstName: "Grace", LastName: "Hopper"}
	results := runAll(t, proc, seed)

	assert.Equal(t, []string{"employee.CreateEmployeeContext", "employee.EmployeeDuplicated"}, results)
	assert.Empty(t, repo.saved)
}

func TestInvalidPayloadRejectedBeforeDuplicateCheck(t *testing.T) {
	repo := &fakeRepo{}
	r := newRegistry(t)
	proc := dispatch.New(r, testResolver(fakeChecker{exists: false}, fakeValidator{fail: true}, fakeGenerator{}, repo))

	seed := employee.CreateEmployee{FirstName: "Grace", LastName: "Hopper"}
	results := runAll(t, proc, seed)

	assert.Equal(t, []string{"employee.CreateEmployeeContext", "employee.EmployeeRejected"}, results)
	assert.Empty(t, repo.saved)
}

func TestWriterFailurePropagatesAsErrorMessage(t *testing.T) {
	r := newRegistry(t)
	proc := dispatch.New(r, testResolver(fakeChecker{exists: false}, fakeValidator{}, fakeGenerator{}, failingRepo{}))

	seed := employee.CreateEmployee{FirstName: "Grace", LastName: "Hopper"}
	results := runAll(t, proc, seed)

	require.NotEmpty(t, results)
	assert.Contains(t, results[len(results)-1], "Error")
}

func TestMissingDependencyWithoutResolverFails(t *testing.T) {
	r := newRegistry(t)
	proc := dispatch.New(r, nil)

	seed := employee.CreateEmployee{FirstName: "Grace", LastName: "Hopper"}
	var sawErr error
	for _, err := range proc.Run(context.Background(), seed) {
		if err != nil {
			sawErr = err
		}
	}
	require.Error(t, sawErr)
	assert.ErrorIs(t, sawErr, dispatch.ErrCannotResolveActorParameter)
}
