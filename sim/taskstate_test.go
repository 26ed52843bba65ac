package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func chainTrace() *Trace {
	tasks := []Task{
		{ID: 1, WorkflowID: 1, Submission: 0, Runtime: 10, CPUDemand: 1},
		{ID: 2, WorkflowID: 1, Submission: 0, Runtime: 5, CPUDemand: 1, Deps: []TaskID{1}},
	}
	wfs := []Workflow{{ID: 1, Tasks: []TaskID{1, 2}}}
	return NewTrace(tasks, wfs)
}

func TestTaskStateMonitorLifecycle(t *testing.T) {
	tr := chainTrace()
	m := NewTaskStateMonitor(tr)

	require.Equal(t, TaskUnsubmitted, m.Phase(1))
	require.Equal(t, 0, m.RemainingDeps(1))
	require.Equal(t, 1, m.RemainingDeps(2))

	m.MarkSubmitted(1)
	require.Equal(t, TaskSubmitted, m.Phase(1))
	m.MarkReady(1)
	require.Equal(t, TaskReady, m.Phase(1))
	m.MarkRunning(1, 0, 5)
	require.Equal(t, TaskRunning, m.Phase(1))
	start, ok := m.StartTime(1)
	require.True(t, ok)
	require.Equal(t, int64(5), start)

	unblocked := m.MarkCompleted(1, 15)
	require.Equal(t, TaskCompleted, m.Phase(1))
	require.Equal(t, []TaskID{2}, unblocked)
	require.Equal(t, 0, m.RemainingDeps(2))
}

func TestTaskStateMonitorIllegalTransitionPanics(t *testing.T) {
	tr := chainTrace()
	m := NewTaskStateMonitor(tr)
	require.Panics(t, func() { m.MarkReady(1) }, "cannot go straight from UNSUBMITTED to READY")
	require.Panics(t, func() { m.MarkRunning(1, 0, 0) })
	require.Panics(t, func() { m.MarkCompleted(1, 0) })
}

func TestTaskStateMonitorNoRevisit(t *testing.T) {
	tr := chainTrace()
	m := NewTaskStateMonitor(tr)
	m.MarkSubmitted(1)
	require.Panics(t, func() { m.MarkSubmitted(1) })
}

func TestAllCompleted(t *testing.T) {
	tr := chainTrace()
	m := NewTaskStateMonitor(tr)
	require.False(t, m.AllCompleted())

	m.MarkSubmitted(1)
	m.MarkReady(1)
	m.MarkRunning(1, 0, 0)
	m.MarkCompleted(1, 10)
	require.False(t, m.AllCompleted())

	m.MarkSubmitted(2)
	m.MarkReady(2)
	m.MarkRunning(2, 0, 10)
	m.MarkCompleted(2, 15)
	require.True(t, m.AllCompleted())
}
