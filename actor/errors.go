// Package actor implements the registry that classifies Go functions into
// semantic actor kinds and extracts their domain, context and dependency
// parameters by return-type and parameter-type inspection (spec.md §4.2,
// §4.3).
package actor

import (
	"errors"
	"fmt"
)

// RegistrationError is a structured failure raised while adding an actor to
// a Registry. Errors chain via Cause the same way the runtime's tool errors
// do, so callers can still errors.Is/As through to a root cause.
type RegistrationError struct {
	// Message is the human-readable summary of the failure.
	Message string
	// Cause links to an underlying error, when the failure was not raised
	// directly by the registry itself.
	Cause error
}

func (e *RegistrationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RegistrationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newRegistrationError(message string, cause error) *RegistrationError {
	return &RegistrationError{Message: message, Cause: cause}
}

// Sentinel causes distinguished with errors.Is, mirroring the exception
// hierarchy in the specification's definition/exceptions module.
var (
	// ErrCannotRegisterActor means fn is not a func value. Re-adding an
	// already registered func value is a no-op, not an error.
	ErrCannotRegisterActor = errors.New("cannot register actor")

	// ErrCannotDeriveActorPurpose means the actor's semantic kind could not
	// be determined from its signature.
	ErrCannotDeriveActorPurpose = errors.New("cannot derive actor purpose")

	// ErrCannotDefineActorParameter means fn declares no domain or context
	// parameter (every other parameter is classified as a dependency).
	ErrCannotDefineActorParameter = errors.New("cannot define actor parameter")

	// ErrActorSemanticDefinitionFailed means the actor's return type chain
	// matched none of the recognized message categories.
	ErrActorSemanticDefinitionFailed = errors.New("actor semantic definition failed")
)

// CannotRegisterActor wraps ErrCannotRegisterActor with actor-specific detail.
func CannotRegisterActor(detail string) error {
	return newRegistrationError("cannot register actor: "+detail, ErrCannotRegisterActor)
}

// CannotDeriveActorPurpose wraps ErrCannotDeriveActorPurpose with detail
// about the offending return type.
func CannotDeriveActorPurpose(detail string) error {
	return newRegistrationError("cannot derive actor purpose: "+detail, ErrCannotDeriveActorPurpose)
}

// CannotDefineActorParameter wraps ErrCannotDefineActorParameter with detail
// about the offending parameter.
func CannotDefineActorParameter(detail string) error {
	return newRegistrationError("cannot define actor parameter: "+detail, ErrCannotDefineActorParameter)
}

// ActorSemanticDefinitionFailed wraps ErrActorSemanticDefinitionFailed with
// detail about the offending return type.
func ActorSemanticDefinitionFailed(detail string) error {
	return newRegistrationError("actor semantic definition failed: "+detail, ErrActorSemanticDefinitionFailed)
}
