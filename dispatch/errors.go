// Package dispatch implements the priority-queue scheduling loop, the
// message-generating processor built on top of it, and the task executor
// that opens a dependency-resolver scope around one dispatch (spec.md
// §4.4-§4.6). It consumes an *actor.Registry; it never mutates one.
package dispatch

import "fmt"

// DispatchError is a structured failure raised while running a dispatch,
// as opposed to a RegistrationError raised while building the registry
// (spec.md §7: "classification errors surface to the site that builds the
// registry; dispatch-time programming errors propagate out of the
// generator").
type DispatchError struct {
	Message string
	Cause   error
}

func (e *DispatchError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DispatchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newDispatchError(message string, cause error) *DispatchError {
	return &DispatchError{Message: message, Cause: cause}
}

// Sentinel causes, mirroring the dispatch-time half of the specification's
// exception hierarchy.
var (
	// ErrCannotResolveActorParameter means a dependency parameter has
	// neither a configured Resolver nor a registered default.
	ErrCannotResolveActorParameter = fmt.Errorf("cannot resolve actor parameter")

	// ErrCannotProcessActorResult means an actor returned a value that is
	// neither nil, a message.Message, nor a slice of message.Message.
	ErrCannotProcessActorResult = fmt.Errorf("cannot process actor result")
)

// CannotResolveActorParameter reports actorID and the unresolved
// parameter's contract type name, which stands in for a parameter name
// since Go reflection cannot recover one.
func CannotResolveActorParameter(actorID int64, contract string) error {
	return newDispatchError(
		fmt.Sprintf("cannot resolve actor parameter %s of actor %d", contract, actorID),
		ErrCannotResolveActorParameter)
}

// CannotProcessActorResult reports actorID, matching the specification's
// CannotProcessActorResult(actor_id).
func CannotProcessActorResult(actorID int64, detail string) error {
	return newDispatchError(
		fmt.Sprintf("cannot process actor result of actor %d: %s", actorID, detail),
		ErrCannotProcessActorResult)
}
