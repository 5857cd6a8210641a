package actor_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goa.design/cq-runtime/actor"
	"goa.design/cq-runtime/message"
)

func reflectTypeOf(v any) reflect.Type { return reflect.TypeOf(v) }

type createEmployee struct {
	message.CommandBase
	Name string
}

type employeeExistsCtx struct {
	message.ContextBase
	Exists bool
}

type employeeCreated struct {
	message.BusinessDomainEventBase
	ID string
}

type employeeStored struct {
	message.WriteEventBase
}

type employeeFetched struct {
	message.ReadEventBase
}

type employeeResponse struct {
	message.ResponseEventBase
}

type fakeRepo struct{ saved []employeeCreated }

func createEmployeeContext(c createEmployee) employeeExistsCtx {
	return employeeExistsCtx{Exists: c.Name == "dup"}
}

func employeeCreationAuditor(c createEmployee, ctx employeeExistsCtx) message.AuditResult {
	if ctx.Exists {
		return message.NewError(409, "duplicate")
	}
	return c
}

func createEmployeeUsecase(c createEmployee) employeeCreated {
	return employeeCreated{ID: c.Name}
}

func employeeWriter(e employeeCreated, repo *fakeRepo) employeeStored {
	repo.saved = append(repo.saved, e)
	return employeeStored{}
}

func employeeReader(c createEmployee) employeeFetched {
	return employeeFetched{}
}

func employeeResponder(e employeeCreated) employeeResponse {
	return employeeResponse{}
}

func bareWrite(e employeeCreated) {}

func TestAddClassifiesBySemanticKindConvention(t *testing.T) {
	r := actor.New()

	require.NoError(t, r.Add(createEmployeeContext))
	require.NoError(t, r.Add(employeeCreationAuditor))
	require.NoError(t, r.Add(createEmployeeUsecase))
	require.NoError(t, r.Add(employeeWriter))
	require.NoError(t, r.Add(employeeReader))
	require.NoError(t, r.Add(employeeResponder))
	require.NoError(t, r.Add(bareWrite))

	entries := r.All()
	require.Len(t, entries, 7)

	kinds := map[int64]actor.SemanticKind{}
	for _, e := range entries {
		kinds[e.ID] = e.Kind
	}
	var counts = map[actor.SemanticKind]int{}
	for _, k := range kinds {
		counts[k]++
	}
	assert.Equal(t, 1, counts[actor.CONTEXT])
	assert.Equal(t, 1, counts[actor.AUDIT])
	assert.Equal(t, 1, counts[actor.USECASE])
	assert.Equal(t, 1, counts[actor.RESPONSE])
	assert.Equal(t, 3, counts[actor.IO]) // writer, reader, bareWrite
}

func TestAddIsIdempotentForSameFunction(t *testing.T) {
	r := actor.New()
	require.NoError(t, r.Add(createEmployeeUsecase))
	require.NoError(t, r.Add(createEmployeeUsecase))
	assert.Len(t, r.All(), 1)
}

func TestAddRejectsNonFunction(t *testing.T) {
	r := actor.New()
	err := r.Add(42)
	assert.ErrorIs(t, err, actor.ErrCannotRegisterActor)
}

func TestAddRejectsActorWithNoMessageParameter(t *testing.T) {
	r := actor.New()
	err := r.Add(func(n int) employeeStored { return employeeStored{} })
	assert.ErrorIs(t, err, actor.ErrCannotDefineActorParameter)
}

func TestAddRejectsUnrecognizedReturnType(t *testing.T) {
	r := actor.New()
	err := r.Add(func(c createEmployee) string { return "" })
	assert.ErrorIs(t, err, actor.ErrActorSemanticDefinitionFailed)
}

func TestDependencyParameterClassifiedWhenNotAMessage(t *testing.T) {
	r := actor.New()
	require.NoError(t, r.Add(employeeWriter))
	entries := r.All()
	require.Len(t, entries, 1)
	e := entries[0]
	require.Len(t, e.Parameters.Domain, 1)
	require.Len(t, e.Parameters.Dependencies, 1)
	assert.Equal(t, "*actor_test.fakeRepo", e.Parameters.Dependencies[0].Contract.String())
}

func TestDependencyDefaultSuppliedAtRegistration(t *testing.T) {
	r := actor.New()
	type limit int
	fn := func(c createEmployee, l limit) employeeCreated { return employeeCreated{} }
	require.NoError(t, r.Add(fn, actor.WithDefault(limit(10))))
	e := r.All()[0]
	require.Len(t, e.Parameters.Dependencies, 1)
	assert.True(t, e.Parameters.Dependencies[0].HasDefault)
	assert.Equal(t, limit(10), e.Parameters.Dependencies[0].Default)
}

func TestGetOrdersAuditEntriesBeforeNonAuditForSameContract(t *testing.T) {
	r := actor.New()
	require.NoError(t, r.Add(createEmployeeUsecase))
	require.NoError(t, r.Add(employeeCreationAuditor))
	require.NoError(t, r.Add(employeeReader))

	entries := r.Get(reflectTypeOf(createEmployee{}))
	require.Len(t, entries, 3)
	assert.Equal(t, actor.AUDIT, entries[0].Kind)
}

func TestGetMatchesOnInterfaceContract(t *testing.T) {
	r := actor.New()
	onAnyEvent := func(e message.Event) employeeResponse { return employeeResponse{} }
	require.NoError(t, r.Add(onAnyEvent))

	entries := r.Get(reflectTypeOf(employeeCreated{}))
	require.Len(t, entries, 1)
	assert.Equal(t, actor.RESPONSE, entries[0].Kind)
}

func TestGetContextEntryIndexedByReturnType(t *testing.T) {
	r := actor.New()
	require.NoError(t, r.Add(createEmployeeContext))

	entries := r.Get(reflectTypeOf(employeeExistsCtx{}))
	require.Len(t, entries, 1)
	assert.Equal(t, actor.CONTEXT, entries[0].Kind)
}

func TestMergeCombinesTwoRegistriesWithoutDuplication(t *testing.T) {
	a := actor.New()
	b := actor.New()
	require.NoError(t, a.Add(createEmployeeUsecase))
	require.NoError(t, b.Add(employeeWriter))
	require.NoError(t, b.Add(createEmployeeUsecase))

	merged := a.Merge(b)
	assert.Same(t, a, merged)
	assert.Len(t, merged.All(), 2)
}

type employeeNamespace struct{}

func (employeeNamespace) Actors() []any {
	return []any{createEmployeeContext, employeeCreationAuditor, createEmployeeUsecase}
}
func (employeeNamespace) Children() []actor.Namespace { return nil }

type rootNamespace struct{}

func (rootNamespace) Actors() []any                 { return []any{employeeWriter} }
func (rootNamespace) Children() []actor.Namespace { return []actor.Namespace{employeeNamespace{}} }

func TestRegisterNamespaceWalksChildrenDepthFirst(t *testing.T) {
	r := actor.New()
	require.NoError(t, actor.RegisterNamespace(r, rootNamespace{}))
	entries := r.All()
	require.Len(t, entries, 4)
	// Root's own actor first, then the child's actors in declaration order.
	assert.Equal(t, actor.IO, entries[0].Kind)
	assert.Equal(t, actor.CONTEXT, entries[1].Kind)
	assert.Equal(t, actor.AUDIT, entries[2].Kind)
	assert.Equal(t, actor.USECASE, entries[3].Kind)
}
