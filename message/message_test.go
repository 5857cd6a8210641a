package message_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goa.design/cq-runtime/message"
)

type createEmployee struct {
	message.CommandBase
	FirstName string
}

type findEmployee struct {
	message.QueryBase
	ID string
}

type employeeCreated struct {
	message.BusinessDomainEventBase
	ID string
}

type employeeStored struct {
	message.WriteEventBase
}

type employeeExistsCtx struct {
	message.ContextBase
	Exists bool
}

func TestCategoryMembership(t *testing.T) {
	cmd := createEmployee{FirstName: "John"}
	qry := findEmployee{ID: "1"}
	evt := employeeCreated{ID: "1"}
	wr := employeeStored{}
	ctx := employeeExistsCtx{Exists: true}
	errMsg := message.NewError(500, "boom")

	assert.True(t, message.IsCommand(cmd))
	assert.True(t, message.IsTask(cmd))
	assert.False(t, message.IsQuery(cmd))

	assert.True(t, message.IsQuery(qry))
	assert.True(t, message.IsTask(qry))

	assert.True(t, message.IsEvent(evt))
	assert.False(t, message.IsContext(evt))

	assert.True(t, message.IsEvent(wr))
	assert.True(t, message.IsContext(ctx))
	assert.False(t, message.IsTask(ctx))

	assert.True(t, message.IsError(errMsg))
	assert.True(t, message.IsEvent(errMsg))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "createEmployee", message.TypeName(createEmployee{}))
	assert.Equal(t, "createEmployee", message.TypeName(&createEmployee{}))
}
