package sim

import (
	"fmt"

	"github.com/addrummond/heap"
)

// sjfItem keys the SJF ready-heap by (runtime, submission time, task id)
// per spec §4.3.
type sjfItem struct {
	task       TaskID
	runtime    int64
	submission int64
}

func (a *sjfItem) Cmp(b *sjfItem) int {
	if a.runtime != b.runtime {
		if a.runtime < b.runtime {
			return -1
		}
		return 1
	}
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

// SJFPolicy orders ready tasks by (runtime ascending, submission time
// ascending, task id ascending) — shortest job first.
type SJFPolicy struct {
	trace *Trace
	h     heap.Heap[sjfItem, heap.Min]
}

// NewSJFPolicy returns an OrderingPolicy implementing shortest-job-first.
func NewSJFPolicy(trace *Trace) *SJFPolicy {
	return &SJFPolicy{trace: trace}
}

func (p *SJFPolicy) RegisterReady(task TaskID) {
	t := p.trace.Task(task)
	heap.PushOrderable(&p.h, sjfItem{task: task, runtime: t.Runtime, submission: t.Submission})
}

func (p *SJFPolicy) NextCandidate() (TaskID, bool) {
	item, ok := heap.Peek(&p.h)
	if !ok {
		return 0, false
	}
	return item.task, true
}

func (p *SJFPolicy) Remove(task TaskID) {
	item, ok := heap.PopOrderable(&p.h)
	if !ok || item.task != task {
		panic(fmt.Sprintf("SJFPolicy.Remove: task %d is not the current head", task))
	}
}
