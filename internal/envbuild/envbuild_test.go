package envbuild

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracesim/tracesim/sim"
)

func singleTaskTrace(runtime, demand int64) *sim.Trace {
	tasks := []sim.Task{{ID: 1, WorkflowID: 1, Submission: 0, Runtime: runtime, CPUDemand: demand}}
	return sim.NewTrace(tasks, []sim.Workflow{{ID: 1, Tasks: []sim.TaskID{1}}})
}

func TestBuildExplicitMachineCount(t *testing.T) {
	tr := singleTaskTrace(10, 1)
	env := Build(tr, Config{ExplicitMachines: 3, CPUsPerMachine: 2})
	require.Equal(t, 3, env.NumMachines())
	require.Equal(t, int64(2), env.Machine(0).CPUs)
}

func TestBuildRaisesCPUsPerMachineToLargestDemand(t *testing.T) {
	tr := singleTaskTrace(10, 8)
	env := Build(tr, Config{ExplicitMachines: 1, CPUsPerMachine: 2})
	require.Equal(t, int64(8), env.Machine(0).CPUs)
}

func TestBuildTargetUtilizationSizing(t *testing.T) {
	// One task: runtime=10, demand=1, submission=0. Span = critical path
	// length = 10. cpus_per_machine=1, rho=1 -> n = ceil(10/(10*1*1)) = 1.
	tr := singleTaskTrace(10, 1)
	env := Build(tr, Config{TargetUtilization: 1, CPUsPerMachine: 1})
	require.Equal(t, 1, env.NumMachines())
}

func TestBuildTargetUtilizationScalesWithLoad(t *testing.T) {
	tasks := []sim.Task{
		{ID: 1, WorkflowID: 1, Submission: 0, Runtime: 10, CPUDemand: 1},
		{ID: 2, WorkflowID: 2, Submission: 0, Runtime: 10, CPUDemand: 1},
		{ID: 3, WorkflowID: 3, Submission: 0, Runtime: 10, CPUDemand: 1},
	}
	wfs := []sim.Workflow{
		{ID: 1, Tasks: []sim.TaskID{1}},
		{ID: 2, Tasks: []sim.TaskID{2}},
		{ID: 3, Tasks: []sim.TaskID{3}},
	}
	tr := sim.NewTrace(tasks, wfs)
	// total CPU-ticks = 30, span = 10, cpus_per_machine=1, rho=1 -> n=3.
	env := Build(tr, Config{TargetUtilization: 1, CPUsPerMachine: 1})
	require.Equal(t, 3, env.NumMachines())
}

func TestBuildEmptyTraceYieldsOneMachine(t *testing.T) {
	tr := sim.NewTrace(nil, nil)
	env := Build(tr, Config{TargetUtilization: 0.5, CPUsPerMachine: 4})
	require.Equal(t, 1, env.NumMachines())
}

func TestBuildStoresMemoryPerMachineOntoEachMachine(t *testing.T) {
	tr := singleTaskTrace(10, 1)
	env := Build(tr, Config{ExplicitMachines: 2, CPUsPerMachine: 1, MemoryPerMachine: 4096})
	require.Equal(t, int64(4096), env.Machine(0).MemoryCap)
	require.Equal(t, int64(4096), env.Machine(1).MemoryCap)
}
