package dispatch

import (
	"context"
	"fmt"
	"iter"
	"reflect"
	"time"

	"goa.design/cq-runtime/actor"
	"goa.design/cq-runtime/message"
	"goa.design/cq-runtime/runtime/telemetry"
)

var processorErrorType = reflect.TypeOf((*error)(nil)).Elem()

// Processor is the async-generator equivalent of the specification's
// CQProcessor (C5): seeded with one message, it drives a fresh Loop to
// completion, yielding every message any scheduled actor produces along
// the way. Go has no native async generator, so Run returns a Go 1.23+
// range-over-func iterator (iter.Seq2) instead: the yielded error half of
// the pair plays the role of the specification's "unhandled exception
// breaks the generator" path, since idiomatic Go propagates failure
// through return values rather than exceptions (see DESIGN.md).
type Processor struct {
	registry *actor.Registry
	resolver Resolver
	logger   telemetry.Logger
	tracer   telemetry.Tracer
}

// ProcessorOption configures a Processor at construction time.
type ProcessorOption func(*Processor)

// WithProcessorTelemetry configures the logger/tracer a Processor uses to
// report per-job outcomes. Defaults to the no-op implementations, the same
// default TaskExecutor uses absent WithTelemetry.
func WithProcessorTelemetry(logger telemetry.Logger, tracer telemetry.Tracer) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger
		p.tracer = tracer
	}
}

// New returns a Processor scheduling against registry. resolver may be
// nil, in which case every actor's dependency parameters must carry a
// registered default (spec.md §6, Scenario D).
func New(registry *actor.Registry, resolver Resolver, opts ...ProcessorOption) *Processor {
	p := &Processor{
		registry: registry,
		resolver: resolver,
		logger:   telemetry.NewNoopLogger(),
		tracer:   telemetry.NewNoopTracer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run seeds a fresh Loop with seed and iterates it to completion. If no
// registered actor consumes the seed, nothing would ever be produced, so
// Run yields the seed itself and stops — property P5. Otherwise the seed
// is never yielded directly: what the caller sees is whatever the
// scheduled actors produce, in priority order, starting with the seed's
// lowest-priority consumer (typically a CONTEXT actor). Whenever any
// yielded message satisfies message.IsError, or the actor invocation
// itself fails, the iterator yields that failure and stops (invariant I5 /
// property P4).
func (p *Processor) Run(ctx context.Context, seed message.Message) iter.Seq2[message.Message, error] {
	return func(yield func(message.Message, error) bool) {
		loop := NewLoop(p.registry)
		loop.Register(seed, false)

		if loop.Len() == 0 {
			yield(seed, nil)
			return
		}

		for loop.Len() > 0 {
			job := loop.Pop()
			results, err := p.runJob(ctx, job, loop.Stream())
			if err != nil {
				yield(nil, err)
				return
			}
			for _, m := range results {
				if !yield(m, nil) {
					return
				}
				if message.IsError(m) {
					return
				}
				loop.Register(m, job.Entry.Kind == actor.AUDIT)
			}
		}
	}
}

// runJob assembles entry's positional arguments from the Stream and the
// Resolver, invokes it, and normalizes its result into zero or more
// messages (spec.md §4.5 "_run_job"). Reports one span per invocation, plus
// a debug log line when the invocation fails, each tagged with the actor's
// registry ID and semantic kind, the JobTelemetry fields a caller is most
// likely to correlate a slow or failing actor by.
func (p *Processor) runJob(ctx context.Context, job *Job, stream *Stream) ([]message.Message, error) {
	entry := job.Entry
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "dispatch.Processor.runJob")
	defer func() {
		span.AddEvent("job.done", "actor_id", entry.ID, "kind", entry.Kind.String(), "duration_ms", time.Since(start).Milliseconds())
		span.End()
	}()

	msgs, err := p.runJobBody(ctx, entry, stream)
	if err != nil {
		span.RecordError(err)
		p.logger.Debug(ctx, "actor invocation failed", "actor_id", entry.ID, "kind", entry.Kind.String(), "error", err)
	}
	return msgs, err
}

func (p *Processor) runJobBody(ctx context.Context, entry *actor.Entry, stream *Stream) ([]message.Message, error) {
	fnType := entry.Fn.Type()
	args := make([]reflect.Value, fnType.NumIn())

	for _, dp := range entry.Parameters.Domain {
		v, ok := stream.Get(dp.Contract.Name())
		if !ok {
			return nil, newDispatchError(
				fmt.Sprintf("domain parameter %s missing from stream for actor %d", dp.Contract.Name(), entry.ID), nil)
		}
		args[dp.Index] = toArgValue(v, fnType.In(dp.Index))
	}
	for _, cp := range entry.Parameters.Context {
		v, ok := stream.Get(cp.Contract.Name())
		if !ok {
			return nil, newDispatchError(
				fmt.Sprintf("context parameter %s missing from stream for actor %d", cp.Contract.Name(), entry.ID), nil)
		}
		args[cp.Index] = toArgValue(v, fnType.In(cp.Index))
	}
	for _, dep := range entry.Parameters.Dependencies {
		val, err := p.resolveDependency(ctx, entry.ID, dep)
		if err != nil {
			return nil, err
		}
		args[dep.Index] = toArgValue(val, fnType.In(dep.Index))
	}

	out := entry.Fn.Call(args)
	return normalizeResult(entry, out)
}

// resolveDependency implements "_compile_dependency_parameters": prefer a
// configured Resolver; fall back to a registered default; fail otherwise.
func (p *Processor) resolveDependency(ctx context.Context, actorID int64, dep actor.DependencyParameter) (any, error) {
	if p.resolver != nil {
		v, err := p.resolver.Resolve(ctx, dep.Contract)
		if err != nil {
			return nil, CannotResolveActorParameter(actorID, dep.Contract.String())
		}
		return v, nil
	}
	if !dep.HasDefault {
		return nil, CannotResolveActorParameter(actorID, dep.Contract.String())
	}
	return dep.Default, nil
}

// toArgValue produces a reflect.Value assignable to t for v, treating a
// nil v as the zero value of t.
func toArgValue(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}

// normalizeResult implements "_run_job"'s result normalisation: no
// non-error return value → empty; a non-nil trailing error return →
// a synthesized Error message (the idiomatic Go equivalent of an actor
// raising, since Go actors signal failure by returning an error rather
// than throwing); a message.Message → singleton; a slice of
// message.Message → as-is; anything else → CannotProcessActorResult.
func normalizeResult(entry *actor.Entry, out []reflect.Value) ([]message.Message, error) {
	n := len(out)
	logical := n
	if n > 0 && out[n-1].Type() == processorErrorType {
		logical = n - 1
		if !out[n-1].IsNil() {
			callErr := out[n-1].Interface().(error)
			return []message.Message{
				message.NewErrorf(500, "%s: %v", entry.Name(), callErr),
			}, nil
		}
	}
	if logical == 0 {
		return nil, nil
	}

	v := out[0]
	if isNilable(v.Kind()) && v.IsNil() {
		return nil, nil
	}
	if m, ok := asMessage(v); ok {
		return []message.Message{m}, nil
	}
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		result := make([]message.Message, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i)
			m, ok := asMessage(elem)
			if !ok {
				return nil, CannotProcessActorResult(entry.ID, fmt.Sprintf("element %d of slice result is not a message.Message", i))
			}
			result = append(result, m)
		}
		return result, nil
	}
	return nil, CannotProcessActorResult(entry.ID, fmt.Sprintf("unexpected result type %s", v.Type()))
}

func isNilable(k reflect.Kind) bool {
	switch k {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

func asMessage(v reflect.Value) (message.Message, bool) {
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	m, ok := v.Interface().(message.Message)
	return m, ok
}
