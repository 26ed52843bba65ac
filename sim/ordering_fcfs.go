package sim

import (
	"fmt"

	"github.com/addrummond/heap"
)

// fcfsItem keys the FCFS ready-heap by (submission time, task id) per
// spec §4.3.
type fcfsItem struct {
	task       TaskID
	submission int64
}

func (a *fcfsItem) Cmp(b *fcfsItem) int {
	if a.submission != b.submission {
		if a.submission < b.submission {
			return -1
		}
		return 1
	}
	if a.task != b.task {
		if a.task < b.task {
			return -1
		}
		return 1
	}
	return 0
}

// FCFSPolicy orders ready tasks by (submission time ascending, task id
// ascending).
type FCFSPolicy struct {
	trace *Trace
	h     heap.Heap[fcfsItem, heap.Min]
}

// NewFCFSPolicy returns an OrderingPolicy implementing first-come,
// first-served.
func NewFCFSPolicy(trace *Trace) *FCFSPolicy {
	return &FCFSPolicy{trace: trace}
}

func (p *FCFSPolicy) RegisterReady(task TaskID) {
	t := p.trace.Task(task)
	heap.PushOrderable(&p.h, fcfsItem{task: task, submission: t.Submission})
}

func (p *FCFSPolicy) NextCandidate() (TaskID, bool) {
	item, ok := heap.Peek(&p.h)
	if !ok {
		return 0, false
	}
	return item.task, true
}

func (p *FCFSPolicy) Remove(task TaskID) {
	item, ok := heap.PopOrderable(&p.h)
	if !ok || item.task != task {
		panic(fmt.Sprintf("FCFSPolicy.Remove: task %d is not the current head", task))
	}
}
