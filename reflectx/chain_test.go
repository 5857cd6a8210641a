package reflectx_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goa.design/cq-runtime/message"
	"goa.design/cq-runtime/reflectx"
)

type fakeEvent struct {
	message.WriteEventBase
}

func TestWalkFlattensPointerAndSlice(t *testing.T) {
	ptrChain := reflectx.Walk(reflect.TypeOf(&fakeEvent{}))
	require.Len(t, ptrChain.Types, 2)
	assert.Equal(t, reflect.TypeOf(fakeEvent{}), ptrChain.Types[1])

	sliceChain := reflectx.Walk(reflect.TypeOf([]fakeEvent{}))
	require.Len(t, sliceChain.Types, 2)
	assert.Equal(t, reflect.TypeOf(fakeEvent{}), sliceChain.Types[1])
}

func TestWalkAbortsOnFunc(t *testing.T) {
	type hook func(int) error
	c := reflectx.Walk(reflect.TypeOf(hook(nil)))
	assert.True(t, c.Aborted)
}

func TestSearchFindsInterfaceImplementor(t *testing.T) {
	msgType := reflect.TypeOf((*message.Message)(nil)).Elem()
	c := reflectx.Walk(reflect.TypeOf(fakeEvent{}))
	found, ok := reflectx.Search(c, msgType)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(fakeEvent{}), found)
}

func TestSearchAbortedChainNeverMatches(t *testing.T) {
	type hook func(int) error
	c := reflectx.Walk(reflect.TypeOf(hook(nil)))
	msgType := reflect.TypeOf((*message.Message)(nil)).Elem()
	_, ok := reflectx.Search(c, msgType)
	assert.False(t, ok)
}
