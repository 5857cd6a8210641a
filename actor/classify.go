package actor

import (
	"fmt"
	"reflect"

	"goa.design/cq-runtime/message"
	"goa.design/cq-runtime/reflectx"
)

var (
	errorType           = reflect.TypeOf((*error)(nil)).Elem()
	messageType         = reflect.TypeOf((*message.Message)(nil)).Elem()
	contextType         = reflect.TypeOf((*message.Context)(nil)).Elem()
	businessDomainEvent = reflect.TypeOf((*message.BusinessDomainEvent)(nil)).Elem()
	auditResultType     = reflect.TypeOf((*message.AuditResult)(nil)).Elem()
	commandType         = reflect.TypeOf((*message.Command)(nil)).Elem()
	queryType           = reflect.TypeOf((*message.Query)(nil)).Elem()
	readEventType       = reflect.TypeOf((*message.ReadEvent)(nil)).Elem()
	writeEventType      = reflect.TypeOf((*message.WriteEvent)(nil)).Elem()
	responseEventType   = reflect.TypeOf((*message.ResponseEvent)(nil)).Elem()
)

// classifyReturn derives an actor's semantic kind and IO subkind from its
// first non-error return type, following the ordered precedence the core
// specification's return-type convention defines (spec.md §4.3): CONTEXT,
// then USECASE, then AUDIT, then IO-read, then IO-write, then RESPONSE. A
// function with no non-error return value is always IO-write (a bare
// side-effecting actor).
func classifyReturn(fnType reflect.Type, name string) (SemanticKind, IOKind, reflect.Type, error) {
	logical := logicalReturns(fnType)
	if len(logical) == 0 {
		return IO, IOWrite, nil, nil
	}

	ret := logical[0]
	chain := reflectx.Walk(ret)

	switch {
	case matches(chain, contextType):
		return CONTEXT, IONone, ret, nil
	case matches(chain, businessDomainEvent):
		return USECASE, IONone, ret, nil
	case matches(chain, auditResultType, commandType, queryType):
		return AUDIT, IONone, ret, nil
	case matches(chain, readEventType):
		return IO, IORead, ret, nil
	case matches(chain, writeEventType):
		return IO, IOWrite, ret, nil
	case matches(chain, responseEventType):
		return RESPONSE, IONone, ret, nil
	default:
		return 0, IONone, nil, ActorSemanticDefinitionFailed(
			fmt.Sprintf("%s: return type %s matches no recognized message category", name, ret))
	}
}

// logicalReturns strips a single trailing error return, the idiomatic Go
// analogue of a bare function with no declared return annotation.
func logicalReturns(fnType reflect.Type) []reflect.Type {
	n := fnType.NumOut()
	if n == 0 {
		return nil
	}
	if fnType.Out(n-1) == errorType {
		n--
	}
	outs := make([]reflect.Type, 0, n)
	for i := 0; i < n; i++ {
		outs = append(outs, fnType.Out(i))
	}
	return outs
}

func matches(c reflectx.Chain, needles ...reflect.Type) bool {
	_, ok := reflectx.Search(c, needles...)
	return ok
}

// classifyParameter partitions a single parameter by the same mechanism the
// specification's _derive_parameter uses: a parameter whose type chain
// reaches message.Message is a domain parameter (further refined to a
// context parameter when the chain also reaches message.Context); anything
// else is a dependency resolved from the TaskExecutor's Resolver scope.
func classifyParameter(paramType reflect.Type) (isMessageParam, isContextParam bool, contract reflect.Type) {
	chain := reflectx.Walk(paramType)
	found, ok := reflectx.Search(chain, messageType)
	if !ok {
		return false, false, paramType
	}
	_, isCtx := reflectx.Search(chain, contextType)
	return true, isCtx, found
}
