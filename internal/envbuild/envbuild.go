// Package envbuild sizes a sim.Environment either from an explicit machine
// count or from a target-utilization heuristic driven by a loaded trace.
package envbuild

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/tracesim/tracesim/sim"
)

// Config carries the sizing knobs accepted from the CLI.
type Config struct {
	// ExplicitMachines, if > 0, sizes the environment directly and skips
	// the target-utilization formula.
	ExplicitMachines int
	// TargetUtilization is the fraction ρ of aggregate cluster CPU-time
	// the trace should consume under ideal packing. Ignored if
	// ExplicitMachines is set.
	TargetUtilization float64
	// CPUsPerMachine is the baseline CPU count assigned to every built
	// machine, raised automatically to the largest single task's demand
	// if that demand exceeds it.
	CPUsPerMachine int64
	// MemoryPerMachine is stored onto every built Machine's MemoryCap.
	// Reserved: no component reads it back (see DESIGN.md Open Question 1).
	MemoryPerMachine int64
}

// Build sizes a homogeneous single-cluster Environment for trace according
// to cfg, following the formula:
//
//	n = ceil( Σ_t (runtime_t · cpu_demand_t) / ((t_end − t_start) · cpus_per_machine · ρ) )
//
// where t_start is the minimum submission time and t_end is the maximum
// earliest-possible completion time, computed per workflow via a
// topological longest-path pass and offset by that workflow's earliest
// submission.
func Build(trace *sim.Trace, cfg Config) *sim.Environment {
	cpus := cfg.CPUsPerMachine
	if cpus <= 0 {
		cpus = 1
	}
	if maxDemand := maxTaskDemand(trace); maxDemand > cpus {
		logrus.Infof("envbuild: raising cpus-per-machine from %d to %d to fit largest task demand", cpus, maxDemand)
		cpus = maxDemand
	}

	n := cfg.ExplicitMachines
	if n <= 0 {
		n = targetUtilizationMachineCount(trace, cpus, cfg.TargetUtilization)
	}
	if n < 1 {
		n = 1
	}

	machines := make([]sim.Machine, n)
	for i := 0; i < n; i++ {
		machines[i] = sim.Machine{ID: sim.MachineID(i), ClusterID: 0, CPUs: cpus, MemoryCap: cfg.MemoryPerMachine}
	}
	logrus.Infof("envbuild: built environment with %d machine(s) of %d cpus each", n, cpus)
	return sim.NewEnvironment(machines, []sim.Cluster{{ID: 0}})
}

func maxTaskDemand(trace *sim.Trace) int64 {
	var max int64
	for _, task := range trace.Tasks() {
		if task.CPUDemand > max {
			max = task.CPUDemand
		}
	}
	return max
}

func targetUtilizationMachineCount(trace *sim.Trace, cpusPerMachine int64, rho float64) int {
	tasks := trace.Tasks()
	if len(tasks) == 0 {
		return 1
	}
	if rho <= 0 {
		rho = 1
	}

	var totalCPUTicks float64
	minSubmission := tasks[0].Submission
	for _, task := range tasks {
		totalCPUTicks += float64(task.Runtime) * float64(task.CPUDemand)
		if task.Submission < minSubmission {
			minSubmission = task.Submission
		}
	}

	maxCompletion := minSubmission
	for _, wf := range trace.Workflows() {
		earliest := earliestSubmission(trace, wf)
		completion := earliest + trace.CriticalPathLength(wf.ID)
		if completion > maxCompletion {
			maxCompletion = completion
		}
	}

	span := float64(maxCompletion - minSubmission)
	if span <= 0 {
		span = 1
	}

	denom := span * float64(cpusPerMachine) * rho
	if denom <= 0 {
		return 1
	}
	return int(math.Ceil(totalCPUTicks / denom))
}

func earliestSubmission(trace *sim.Trace, wf sim.Workflow) int64 {
	first := trace.Task(wf.Tasks[0]).Submission
	for _, id := range wf.Tasks[1:] {
		if s := trace.Task(id).Submission; s < first {
			first = s
		}
	}
	return first
}
