package dispatch

import (
	"container/heap"
	"reflect"

	"goa.design/cq-runtime/actor"
	"goa.design/cq-runtime/message"
)

// Loop owns the Stream, the priority queue and the monotonic sequence
// counter for one dispatch (spec.md §4.4, C4). A Loop is single-use: it is
// constructed fresh for each CQProcessor invocation.
type Loop struct {
	registry *actor.Registry
	stream   *Stream
	queue    jobHeap
	seq      int64
}

// NewLoop returns a Loop scheduling against registry, with a fresh Stream.
func NewLoop(registry *actor.Registry) *Loop {
	return &Loop{registry: registry, stream: NewStream()}
}

// Stream returns the Loop's Stream, so a caller (the CQProcessor) can look
// up parameter values for a popped Job.
func (l *Loop) Stream() *Stream { return l.stream }

// Register inserts or replaces m in the Stream. When replace is false,
// Register only schedules jobs for m's consumers if the Stream key was
// new — inserting an already-present type is a no-op (Open Question
// (iii)). When replace is true, the Stream entry is overwritten
// unconditionally and no jobs are (re-)scheduled: this is how an AUDIT
// actor's verdict reaches the Stream without re-triggering the use-case
// job already queued for the original message (spec.md §4.5).
func (l *Loop) Register(m message.Message, replace bool) {
	if replace {
		l.stream.Replace(m)
		return
	}
	if l.stream.Insert(m) {
		l.registerJob(m)
	}
}

// registerJob schedules every registry entry applicable to m, plus any
// CONTEXT actor needed to supply a context parameter of those entries
// (spec.md §4.4 "_register_job").
func (l *Loop) registerJob(m message.Message) {
	isContext := message.IsContext(m)
	t := reflect.TypeOf(m)
	for _, entry := range l.registry.Get(t) {
		if isContext && entry.Kind == actor.CONTEXT {
			continue
		}
		for _, ctxParam := range entry.Parameters.Context {
			l.registerContextJob(ctxParam.Contract)
		}
		l.enqueueJob(entry)
	}
}

// registerContextJob proactively schedules the CONTEXT actor that
// produces contract, unless a value of that type is already present
// (spec.md §4.4 "_register_context_job").
func (l *Loop) registerContextJob(contract reflect.Type) {
	if l.stream.Has(contract.Name()) {
		return
	}
	for _, entry := range l.registry.Get(contract) {
		if entry.Kind == actor.CONTEXT {
			l.enqueueJob(entry)
		}
	}
}

// enqueueJob pushes a Job for entry onto the priority queue, unless one of
// its domain or context parameter types is not yet present in the Stream
// (invariant I3) — in which case enqueueing is silently skipped; the job
// will be attempted again the next time a matching message is registered.
func (l *Loop) enqueueJob(entry *actor.Entry) {
	for _, p := range entry.Parameters.Domain {
		if !l.stream.Has(p.Contract.Name()) {
			return
		}
	}
	for _, p := range entry.Parameters.Context {
		if !l.stream.Has(p.Contract.Name()) {
			return
		}
	}
	l.seq++
	heap.Push(&l.queue, &Job{
		Priority: semanticPriority[entry.Kind],
		Sequence: l.seq,
		Entry:    entry,
	})
}

// Len reports how many jobs remain queued.
func (l *Loop) Len() int { return l.queue.Len() }

// Pop removes and returns the highest-priority (lowest value, FIFO
// tie-break) queued job. Pop must only be called when Len() > 0.
func (l *Loop) Pop() *Job {
	return heap.Pop(&l.queue).(*Job)
}
