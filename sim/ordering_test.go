package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func orderingTrace() *Trace {
	tasks := []Task{
		{ID: 3, WorkflowID: 1, Submission: 5, Runtime: 1},
		{ID: 1, WorkflowID: 1, Submission: 0, Runtime: 10},
		{ID: 2, WorkflowID: 1, Submission: 0, Runtime: 2},
	}
	wfs := []Workflow{{ID: 1, Tasks: []TaskID{1, 2, 3}}}
	return NewTrace(tasks, wfs)
}

func TestFCFSOrdersBySubmissionThenID(t *testing.T) {
	tr := orderingTrace()
	p := NewFCFSPolicy(tr)
	for _, id := range []TaskID{3, 1, 2} {
		p.RegisterReady(id)
	}
	var order []TaskID
	for {
		c, ok := p.NextCandidate()
		if !ok {
			break
		}
		order = append(order, c)
		p.Remove(c)
	}
	require.Equal(t, []TaskID{1, 2, 3}, order)
}

func TestSJFOrdersByRuntimeThenSubmissionThenID(t *testing.T) {
	tr := orderingTrace()
	p := NewSJFPolicy(tr)
	for _, id := range []TaskID{3, 1, 2} {
		p.RegisterReady(id)
	}
	var order []TaskID
	for {
		c, ok := p.NextCandidate()
		if !ok {
			break
		}
		order = append(order, c)
		p.Remove(c)
	}
	// runtimes: task1=10, task2=2, task3=1
	require.Equal(t, []TaskID{3, 2, 1}, order)
}

func TestOrderingNextCandidateEmpty(t *testing.T) {
	tr := orderingTrace()
	p := NewFCFSPolicy(tr)
	_, ok := p.NextCandidate()
	require.False(t, ok)
}

func TestOrderingRemoveWrongHeadPanics(t *testing.T) {
	tr := orderingTrace()
	p := NewFCFSPolicy(tr)
	p.RegisterReady(1)
	p.RegisterReady(2)
	require.Panics(t, func() { p.Remove(2) }, "task 1 is the current head, not 2")
}

// fixedDeadlines is a WorkflowDeadlineProvider stub for testing EWF in
// isolation, without a live Simulator driving WorkflowStatsCollector.
type fixedDeadlines map[WorkflowID]int64

func (f fixedDeadlines) Deadline(wf WorkflowID) int64 { return f[wf] }

func TestEWFOrdersByDeadlineThenSubmissionThenID(t *testing.T) {
	tasks := []Task{
		{ID: 1, WorkflowID: 10, Submission: 0},
		{ID: 2, WorkflowID: 20, Submission: 0},
		{ID: 3, WorkflowID: 20, Submission: 1},
	}
	wfs := []Workflow{
		{ID: 10, Tasks: []TaskID{1}},
		{ID: 20, Tasks: []TaskID{2, 3}},
	}
	tr := NewTrace(tasks, wfs)
	deadlines := fixedDeadlines{10: 100, 20: 5}
	p := NewEWFPolicy(tr, deadlines)
	for _, id := range []TaskID{1, 2, 3} {
		p.RegisterReady(id)
	}
	var order []TaskID
	for {
		c, ok := p.NextCandidate()
		if !ok {
			break
		}
		order = append(order, c)
		p.Remove(c)
	}
	// workflow 20 has the earlier deadline (5 < 100); within it, task 2
	// (submission 0) precedes task 3 (submission 1).
	require.Equal(t, []TaskID{2, 3, 1}, order)
}
