// Package statsio collects per-task and per-workflow timing statistics
// during a simulation run and flushes them as tab-separated files.
package statsio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tracesim/tracesim/sim"
)

// Collector is a sim.Observer that buffers task start/end times and
// derives per-workflow makespan/wait statistics once the run completes.
// Grounded on the teacher's Metrics aggregate-then-report shape, adapted
// to write files instead of stdout.
type Collector struct {
	sim.NopObserver

	trace *sim.Trace

	submissions map[sim.TaskID]int64
	starts      map[sim.TaskID]int64
	startMach   map[sim.TaskID]sim.MachineID
	ends        map[sim.TaskID]int64
}

// NewCollector builds a Collector over trace, used to fill in per-task
// runtime/demand/workflow fields that the observer callbacks alone don't
// carry.
func NewCollector(trace *sim.Trace) *Collector {
	return &Collector{
		trace:       trace,
		submissions: make(map[sim.TaskID]int64),
		starts:      make(map[sim.TaskID]int64),
		startMach:   make(map[sim.TaskID]sim.MachineID),
		ends:        make(map[sim.TaskID]int64),
	}
}

func (c *Collector) OnTaskSubmitted(task sim.TaskID, now int64) {
	c.submissions[task] = now
}

func (c *Collector) OnTaskStarted(task sim.TaskID, machine sim.MachineID, tStart int64) {
	c.starts[task] = tStart
	c.startMach[task] = machine
}

func (c *Collector) OnTaskCompleted(task sim.TaskID, tEnd int64) {
	c.ends[task] = tEnd
}

// WriteTasks writes one header row plus one row per task to path, in
// ascending task-id order: task id, workflow id, submission time, start
// time, end time, runtime, CPU demand, machine id.
func (c *Collector) WriteTasks(path string) error {
	tasks := append([]sim.Task(nil), c.trace.Tasks()...)
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "task_id\tworkflow_id\tsubmission_time\tstart_time\tend_time\truntime\tcpu_demand\tmachine_id")
	for _, task := range tasks {
		fmt.Fprintf(f, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			task.ID, task.WorkflowID, c.submissions[task.ID], c.starts[task.ID],
			c.ends[task.ID], task.Runtime, task.CPUDemand, c.startMach[task.ID])
	}
	return nil
}

// WriteWorkflows writes one header row plus one row per workflow to path,
// in ascending workflow-id order: workflow id, first submission, last
// completion, critical-path length, wait time, makespan.
func (c *Collector) WriteWorkflows(path string) error {
	workflows := append([]sim.Workflow(nil), c.trace.Workflows()...)
	sort.Slice(workflows, func(i, j int) bool { return workflows[i].ID < workflows[j].ID })

	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "workflow_id\tfirst_submission\tlast_completion\tcritical_path_length\twait_time\tmakespan")
	for _, wf := range workflows {
		firstSub, lastComp := c.workflowSpan(wf)
		cpLen := c.trace.CriticalPathLength(wf.ID)
		makespan := lastComp - firstSub
		wait := makespan - cpLen
		fmt.Fprintf(f, "%d\t%d\t%d\t%d\t%d\t%d\n", wf.ID, firstSub, lastComp, cpLen, wait, makespan)
	}
	return nil
}

func (c *Collector) workflowSpan(wf sim.Workflow) (firstSub, lastComp int64) {
	firstSub = c.submissions[wf.Tasks[0]]
	lastComp = c.ends[wf.Tasks[0]]
	for _, id := range wf.Tasks[1:] {
		if s := c.submissions[id]; s < firstSub {
			firstSub = s
		}
		if e := c.ends[id]; e > lastComp {
			lastComp = e
		}
	}
	return firstSub, lastComp
}

func create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}
