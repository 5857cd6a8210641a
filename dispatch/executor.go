package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"goa.design/cq-runtime/actor"
	"goa.design/cq-runtime/message"
	"goa.design/cq-runtime/runtime/telemetry"
)

// ErrorWrapper converts an unexpected dispatch-time failure into a
// terminal Error message, letting TaskExecutor.Run return a clean message
// slice instead of propagating the raw error (spec.md §4.6 step 4).
type ErrorWrapper func(cause error) message.ErrorEnvelope

// DefaultErrorWrapper mirrors the specification's default wrapper:
// status 500, the error's own message, no further detail.
func DefaultErrorWrapper(cause error) message.ErrorEnvelope {
	return message.NewErrorf(500, "%v", cause)
}

// ExecutorOption configures a TaskExecutor at construction time.
type ExecutorOption func(*TaskExecutor)

// WithResolverFactory configures the Resolver scope TaskExecutor opens
// for each Run. Omitting it means every dependency parameter must carry a
// registered default (spec.md Scenario D).
func WithResolverFactory(f ResolverFactory) ExecutorOption {
	return func(e *TaskExecutor) { e.resolverFactory = f }
}

// WithErrorWrapper configures the wrapper TaskExecutor applies to an
// unexpected dispatch-time error. Without one, such an error propagates
// from Run unchanged.
func WithErrorWrapper(w ErrorWrapper) ExecutorOption {
	return func(e *TaskExecutor) { e.errorWrapper = w }
}

// WithTelemetry configures the logger/tracer TaskExecutor uses to report
// per-job outcomes. Defaults to the no-op implementations.
func WithTelemetry(logger telemetry.Logger, tracer telemetry.Tracer) ExecutorOption {
	return func(e *TaskExecutor) {
		e.logger = logger
		e.tracer = tracer
	}
}

// TaskExecutor is the specification's C6: it opens a Resolver scope around
// one Processor run, accumulates every yielded message, and guarantees the
// scope's success- or failure-close runs exactly once regardless of how
// the run ends (spec.md §4.6, §5).
type TaskExecutor struct {
	registry        *actor.Registry
	resolverFactory ResolverFactory
	errorWrapper    ErrorWrapper
	logger          telemetry.Logger
	tracer          telemetry.Tracer
}

// NewTaskExecutor returns a TaskExecutor scheduling against registry.
func NewTaskExecutor(registry *actor.Registry, opts ...ExecutorOption) *TaskExecutor {
	e := &TaskExecutor{
		registry: registry,
		logger:   telemetry.NewNoopLogger(),
		tracer:   telemetry.NewNoopTracer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run opens a Resolver scope (if configured), seeded with extraContexts as
// additional per-scope bindings, drives a Processor over task, and returns
// every message yielded. A panic escaping an actor invocation is recovered
// and treated the same as any other dispatch-time failure. The scope's
// Close always runs: with failed=true if the run ended in an Error message,
// an unexpected error, or a recovered panic; failed=false otherwise.
func (e *TaskExecutor) Run(ctx context.Context, task message.Message, extraContexts ...any) (results []message.Message, err error) {
	traceID := uuid.NewString()
	ctx, span := e.tracer.Start(ctx, "dispatch.TaskExecutor.Run")
	span.AddEvent("run.start", "trace_id", traceID, "seed_type", fmt.Sprintf("%T", task))
	defer span.End()
	e.logger.Info(ctx, "dispatch run started", "trace_id", traceID, "seed_type", fmt.Sprintf("%T", task))

	var scope Scope
	if e.resolverFactory != nil {
		scope, err = e.resolverFactory(ctx, extraContexts...)
		if err != nil {
			return nil, err
		}
	}

	failed := false
	defer func() {
		if r := recover(); r != nil {
			failed = true
			cause := fmt.Errorf("actor panic: %v", r)
			if e.errorWrapper != nil {
				results = append(results, e.errorWrapper(cause))
				err = nil
			} else {
				err = cause
			}
			span.RecordError(cause)
		}
		if scope != nil {
			if closeErr := scope.Close(ctx, failed); closeErr != nil {
				e.logger.Error(ctx, "resolver scope close failed", "error", closeErr)
			}
		}
	}()

	proc := New(e.registry, resolverOrNil(scope), WithProcessorTelemetry(e.logger, e.tracer))
	for m, runErr := range proc.Run(ctx, task) {
		if runErr != nil {
			failed = true
			e.logger.Error(ctx, "dispatch run failed", "trace_id", traceID, "error", runErr)
			if e.errorWrapper != nil {
				results = append(results, e.errorWrapper(runErr))
				return results, nil
			}
			return results, runErr
		}
		results = append(results, m)
		if message.IsError(m) {
			failed = true
		}
	}
	e.logger.Info(ctx, "dispatch run finished", "trace_id", traceID, "message_count", len(results), "failed", failed)
	return results, nil
}

// resolverOrNil returns scope as a Resolver, or a true nil interface value
// when scope itself is nil — a typed-nil Scope stored in a Resolver
// variable would otherwise compare non-nil to Processor.
func resolverOrNil(scope Scope) Resolver {
	if scope == nil {
		return nil
	}
	return scope
}
