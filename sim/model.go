package sim

import "fmt"

// TaskID uniquely identifies a Task within a Trace.
type TaskID int

// WorkflowID uniquely identifies a Workflow within a Trace.
type WorkflowID int

// MachineID uniquely identifies a Machine within an Environment. Machines
// are indexed contiguously from zero (spec §3).
type MachineID int

// ClusterID uniquely identifies a Cluster within an Environment.
type ClusterID int

// Task is an immutable unit of work: identity, workflow back-reference,
// submission time, runtime, CPU demand, and an ordered list of
// dependencies. Equality is by ID.
type Task struct {
	ID           TaskID
	WorkflowID   WorkflowID
	Submission   int64
	Runtime      int64
	CPUDemand    int64
	MemoryDemand int64 // carried but unenforced; see DESIGN.md Open Question 1
	Deps         []TaskID
}

// Workflow is a set of member tasks sharing precedence edges within one
// submission. CriticalPathLength is computed on demand by Trace, since it
// requires resolving Deps against sibling tasks.
type Workflow struct {
	ID    WorkflowID
	Tasks []TaskID
}

// Machine is an immutable compute resource: identity, cluster
// back-reference, and a positive CPU count.
type Machine struct {
	ID           MachineID
	ClusterID    ClusterID
	CPUs         int64
	MemoryCap    int64 // reserved, unenforced; see DESIGN.md Open Question 1
}

// Cluster groups machines under one identity. Membership is derived from
// Environment.Machines[i].ClusterID rather than stored redundantly here,
// so there is exactly one place a machine's cluster assignment can live.
type Cluster struct {
	ID ClusterID
}

// Trace owns every Task and Workflow loaded from a collaborator (see
// internal/traceio) and provides indexed lookup by integer id.
type Trace struct {
	tasks      []Task
	workflows  []Workflow
	taskIndex  map[TaskID]int
	wfIndex    map[WorkflowID]int
	dependents map[TaskID][]TaskID // reverse edges, built once at NewTrace
}

// NewTrace builds a Trace from a flat list of tasks and workflows,
// indexing both by id and precomputing the reverse-dependency (dependent)
// edges the simulation core needs when a task completes (spec §4.5:
// "for every dependent d of t, decrement remaining_deps(d)").
//
// Panics if two tasks share an id, two workflows share an id, or a task
// references a workflow or dependency id not present in the inputs — this
// is load-time data corruption, not a runtime condition (spec §7:
// "Unknown entity").
func NewTrace(tasks []Task, workflows []Workflow) *Trace {
	t := &Trace{
		tasks:      append([]Task(nil), tasks...),
		workflows:  append([]Workflow(nil), workflows...),
		taskIndex:  make(map[TaskID]int, len(tasks)),
		wfIndex:    make(map[WorkflowID]int, len(workflows)),
		dependents: make(map[TaskID][]TaskID),
	}
	for i, task := range t.tasks {
		if _, dup := t.taskIndex[task.ID]; dup {
			panic(fmt.Sprintf("NewTrace: duplicate task id %d", task.ID))
		}
		t.taskIndex[task.ID] = i
	}
	for i, wf := range t.workflows {
		if _, dup := t.wfIndex[wf.ID]; dup {
			panic(fmt.Sprintf("NewTrace: duplicate workflow id %d", wf.ID))
		}
		t.wfIndex[wf.ID] = i
	}
	for _, task := range t.tasks {
		if _, ok := t.wfIndex[task.WorkflowID]; !ok {
			panic(fmt.Sprintf("NewTrace: task %d references unknown workflow %d", task.ID, task.WorkflowID))
		}
		for _, dep := range task.Deps {
			if _, ok := t.taskIndex[dep]; !ok {
				panic(fmt.Sprintf("NewTrace: task %d depends on unknown task %d", task.ID, dep))
			}
			t.dependents[dep] = append(t.dependents[dep], task.ID)
		}
	}
	return t
}

// NumTasks returns the number of tasks in the trace.
func (t *Trace) NumTasks() int { return len(t.tasks) }

// Task looks up a task by id. Panics if the id is not present (spec §7:
// "Unknown entity" is a fatal invariant, never a soft-error path).
func (t *Trace) Task(id TaskID) Task {
	idx, ok := t.taskIndex[id]
	if !ok {
		panic(fmt.Sprintf("Trace.Task: unknown task id %d", id))
	}
	return t.tasks[idx]
}

// HasTask reports whether id is present in the trace.
func (t *Trace) HasTask(id TaskID) bool {
	_, ok := t.taskIndex[id]
	return ok
}

// Tasks returns every task in the trace, in load order.
func (t *Trace) Tasks() []Task { return t.tasks }

// Workflow looks up a workflow by id. Panics if not present.
func (t *Trace) Workflow(id WorkflowID) Workflow {
	idx, ok := t.wfIndex[id]
	if !ok {
		panic(fmt.Sprintf("Trace.Workflow: unknown workflow id %d", id))
	}
	return t.workflows[idx]
}

// Workflows returns every workflow in the trace, in load order.
func (t *Trace) Workflows() []Workflow { return t.workflows }

// Dependents returns the tasks that directly depend on task, i.e. those
// whose Deps list contains task. Used by the simulation core to find
// which tasks to re-check on TaskCompleted.
func (t *Trace) Dependents(task TaskID) []TaskID { return t.dependents[task] }

// RootTasks returns every task with no dependencies, in load order.
func (t *Trace) RootTasks() []TaskID {
	var roots []TaskID
	for _, task := range t.tasks {
		if len(task.Deps) == 0 {
			roots = append(roots, task.ID)
		}
	}
	return roots
}

// CriticalPathLength computes the longest weighted chain of member tasks
// in the workflow, using per-task runtimes as edge weights and ignoring
// edges to tasks outside the workflow (spec §3). Computed via a
// topological longest-path dynamic program over the workflow's induced
// subgraph.
func (t *Trace) CriticalPathLength(wf WorkflowID) int64 {
	w := t.Workflow(wf)
	members := make(map[TaskID]bool, len(w.Tasks))
	for _, id := range w.Tasks {
		members[id] = true
	}
	longest := make(map[TaskID]int64, len(w.Tasks))
	var visit func(id TaskID) int64
	visiting := make(map[TaskID]bool)
	visit = func(id TaskID) int64 {
		if v, done := longest[id]; done {
			return v
		}
		if visiting[id] {
			panic(fmt.Sprintf("CriticalPathLength: dependency cycle involving task %d", id))
		}
		visiting[id] = true
		task := t.Task(id)
		var best int64
		for _, dep := range task.Deps {
			if !members[dep] {
				continue // cross-workflow edge, ignored per spec
			}
			if v := visit(dep); v > best {
				best = v
			}
		}
		visiting[id] = false
		result := best + task.Runtime
		longest[id] = result
		return result
	}
	var maxLen int64
	for _, id := range w.Tasks {
		if v := visit(id); v > maxLen {
			maxLen = v
		}
	}
	return maxLen
}

// Environment owns every Machine and Cluster available to the simulation.
// Machines are indexed contiguously from zero (spec §3).
type Environment struct {
	machines     []Machine
	clusters     []Cluster
	machineIndex map[MachineID]int
}

// NewEnvironment builds an Environment from a flat list of machines and
// clusters. Panics on duplicate ids or a machine referencing an unknown
// cluster.
func NewEnvironment(machines []Machine, clusters []Cluster) *Environment {
	e := &Environment{
		machines:     append([]Machine(nil), machines...),
		clusters:     append([]Cluster(nil), clusters...),
		machineIndex: make(map[MachineID]int, len(machines)),
	}
	clusterIDs := make(map[ClusterID]bool, len(clusters))
	for _, c := range e.clusters {
		clusterIDs[c.ID] = true
	}
	for i, m := range e.machines {
		if _, dup := e.machineIndex[m.ID]; dup {
			panic(fmt.Sprintf("NewEnvironment: duplicate machine id %d", m.ID))
		}
		if m.CPUs <= 0 {
			panic(fmt.Sprintf("NewEnvironment: machine %d has non-positive CPU count %d", m.ID, m.CPUs))
		}
		if !clusterIDs[m.ClusterID] {
			panic(fmt.Sprintf("NewEnvironment: machine %d references unknown cluster %d", m.ID, m.ClusterID))
		}
		e.machineIndex[m.ID] = i
	}
	return e
}

// NumMachines returns the number of machines in the environment.
func (e *Environment) NumMachines() int { return len(e.machines) }

// Machine looks up a machine by id. Panics if not present.
func (e *Environment) Machine(id MachineID) Machine {
	idx, ok := e.machineIndex[id]
	if !ok {
		panic(fmt.Sprintf("Environment.Machine: unknown machine id %d", id))
	}
	return e.machines[idx]
}

// Machines returns every machine, in load order (== index order, since
// machines are indexed contiguously from zero).
func (e *Environment) Machines() []Machine { return e.machines }

// Clusters returns every cluster, in load order.
func (e *Environment) Clusters() []Cluster { return e.clusters }
