package sim

import (
	"fmt"

	"github.com/addrummond/heap"
)

// ewfItem keys the EWF ready-heap by (workflow deadline, submission time,
// task id) per spec §4.3.
type ewfItem struct {
	task       TaskID
	deadline   int64
	submission int64
}

func (a *ewfItem) Cmp(b *ewfItem) int {
	if a.deadline != b.deadline {
		if a.deadline < b.deadline {
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

// EWFPolicy orders ready tasks by (workflow-critical-path-weighted
// deadline ascending, submission time ascending, task id ascending) —
// earliest workflow first.
type EWFPolicy struct {
	trace     *Trace
	deadlines WorkflowDeadlineProvider
	h         heap.Heap[ewfItem, heap.Min]
}

// NewEWFPolicy returns an OrderingPolicy implementing earliest-workflow-
// first. deadlines must be registered as an Observer with the Simulator
// before the first task becomes ready (spec §9's explicit handshake).
func NewEWFPolicy(trace *Trace, deadlines WorkflowDeadlineProvider) *EWFPolicy {
	return &EWFPolicy{trace: trace, deadlines: deadlines}
}

// Deadlines returns the WorkflowDeadlineProvider this policy queries.
// Hosts that also implement WorkflowStatsCollector as the provider use
// this to register it as a Simulator observer (spec §9's handshake).
func (p *EWFPolicy) Deadlines() WorkflowDeadlineProvider { return p.deadlines }

func (p *EWFPolicy) RegisterReady(task TaskID) {
	t := p.trace.Task(task)
	heap.PushOrderable(&p.h, ewfItem{
		task:       task,
		deadline:   p.deadlines.Deadline(t.WorkflowID),
		submission: t.Submission,
	})
}

func (p *EWFPolicy) NextCandidate() (TaskID, bool) {
	item, ok := heap.Peek(&p.h)
	if !ok {
		return 0, false
	}
	return item.task, true
}

func (p *EWFPolicy) Remove(task TaskID) {
	item, ok := heap.PopOrderable(&p.h)
	if !ok || item.task != task {
		panic(fmt.Sprintf("EWFPolicy.Remove: task %d is not the current head", task))
	}
}
