// Package modelclient is a provider-agnostic text generator for the
// employee domain's work-email drafting step, with adapters over
// Anthropic, OpenAI and Bedrock, grounded on the teacher's
// features/model/{anthropic,openai,bedrock} adapters trimmed to the one
// call this domain needs.
package modelclient

import (
	"context"
	"errors"

	"goa.design/cq-runtime/domain/employee"
)

// Client drafts a short piece of text from a prompt. Every adapter in this
// package implements it; domain/employee.generateWorkEmailUsecase depends
// on whichever one is wired in.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Compile-time check that Client satisfies the domain's TextGenerator
// contract (they are structurally identical; this alias keeps the domain
// package independent of modelclient's import).
var _ employee.TextGenerator = (Client)(nil)

// ErrEmptyCompletion is returned when a provider responds successfully but
// with no usable text.
var ErrEmptyCompletion = errors.New("modelclient: empty completion")
