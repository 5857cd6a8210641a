package dispatch

import (
	"container/heap"

	"goa.design/cq-runtime/actor"
)

// semanticPriority is the Loop's fixed scheduling table (spec.md §4.4):
// lower runs earlier, ties broken on sequence number.
var semanticPriority = map[actor.SemanticKind]int{
	actor.CONTEXT:  0,
	actor.AUDIT:    1,
	actor.USECASE:  2,
	actor.IO:       3,
	actor.RESPONSE: 9,
}

// Job is one scheduled actor invocation (spec.md §3 Job,
// "(semantic_priority, sequence_number, entry, parameters_map)"). The
// parameters themselves are not captured at enqueue time: _run_job looks
// them up from the Stream by contract name when the job actually runs, so
// a job sees whatever value is current at execution time even if an AUDIT
// replace happened after it was queued but before it ran.
type Job struct {
	Priority int
	Sequence int64
	Entry    *actor.Entry
}

type jobHeap []*Job

func (h jobHeap) Len() int { return len(h) }
func (h jobHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].Sequence < h[j].Sequence
}
func (h jobHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *jobHeap) Push(x any) {
	*h = append(*h, x.(*Job))
}

func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

var _ heap.Interface = (*jobHeap)(nil)
