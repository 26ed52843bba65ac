package sanity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracesim/tracesim/sim"
)

func runPipeOfTwo() (*sim.Trace, *sim.TaskStateMonitor) {
	tasks := []sim.Task{
		{ID: 1, WorkflowID: 1, Submission: 0, Runtime: 10, CPUDemand: 1},
		{ID: 2, WorkflowID: 1, Submission: 0, Runtime: 5, CPUDemand: 1, Deps: []sim.TaskID{1}},
	}
	tr := sim.NewTrace(tasks, []sim.Workflow{{ID: 1, Tasks: []sim.TaskID{1, 2}}})
	env := sim.NewEnvironment([]sim.Machine{{ID: 0, ClusterID: 0, CPUs: 1}}, []sim.Cluster{{ID: 0}})
	s := sim.NewSimulator(tr, env, sim.NewFCFSPolicy(tr), sim.NewBestFitPlacement())
	s.Run()
	return tr, s.TaskState()
}

func TestCheckPassesOnValidRun(t *testing.T) {
	tr, state := runPipeOfTwo()
	violations := Check(tr, state)
	require.Empty(t, violations)
}

func TestCheckCatchesRuntimeMismatch(t *testing.T) {
	tasks := []sim.Task{{ID: 1, WorkflowID: 1, Submission: 0, Runtime: 10, CPUDemand: 1}}
	tr := sim.NewTrace(tasks, []sim.Workflow{{ID: 1, Tasks: []sim.TaskID{1}}})

	state := sim.NewTaskStateMonitor(tr)
	state.MarkSubmitted(1)
	state.MarkReady(1)
	state.MarkRunning(1, 0, 0)
	state.MarkCompleted(1, 3) // declared runtime is 10, not 3

	violations := Check(tr, state)
	require.Len(t, violations, 1)
	require.Equal(t, sim.TaskID(1), violations[0].Task)
}

func TestCheckCatchesDependencyOrderingViolation(t *testing.T) {
	tasks := []sim.Task{
		{ID: 1, WorkflowID: 1, Submission: 0, Runtime: 10, CPUDemand: 1},
		{ID: 2, WorkflowID: 1, Submission: 0, Runtime: 5, CPUDemand: 1, Deps: []sim.TaskID{1}},
	}
	tr := sim.NewTrace(tasks, []sim.Workflow{{ID: 1, Tasks: []sim.TaskID{1, 2}}})

	state := sim.NewTaskStateMonitor(tr)
	state.MarkSubmitted(1)
	state.MarkReady(1)
	state.MarkRunning(1, 0, 0)
	// Task 2 is force-marked running before task 1 completes, which
	// Check must catch even though the monitor itself only enforces
	// phase transitions, not dependency completion order.
	state.MarkSubmitted(2)
	state.MarkCompleted(1, 10) // unblocks task 2's single dependency
	state.MarkReady(2)
	state.MarkRunning(2, 0, 3) // started before its dependency's declared completion
	state.MarkCompleted(2, 8)

	violations := Check(tr, state)
	require.NotEmpty(t, violations)
}
