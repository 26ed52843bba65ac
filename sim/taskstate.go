package sim

// TaskPhase enumerates a task's lifecycle position. Transitions are
// monotone: no phase is ever revisited (spec §3).
type TaskPhase int

const (
	TaskUnsubmitted TaskPhase = iota
	TaskSubmitted
	TaskReady
	TaskRunning
	TaskCompleted
)

func (p TaskPhase) String() string {
	switch p {
	case TaskUnsubmitted:
		return "UNSUBMITTED"
	case TaskSubmitted:
		return "SUBMITTED"
	case TaskReady:
		return "READY"
	case TaskRunning:
		return "RUNNING"
	case TaskCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// taskRecord is the mutable per-task state the monitor owns.
type taskRecord struct {
	phase          TaskPhase
	remainingDeps  int
	assignedMach   MachineID
	hasMachine     bool
	startTime      int64
	hasStartTime   bool
	completionTime int64
	hasCompletion  bool
}

// TaskStateMonitor holds the TaskState array for every task in a Trace
// and enforces the phase transitions of spec §3/§4.2.
type TaskStateMonitor struct {
	trace   *Trace
	records map[TaskID]*taskRecord
}

// NewTaskStateMonitor creates a monitor with every task in trace starting
// at phase UNSUBMITTED, with remainingDeps initialized to len(task.Deps).
func NewTaskStateMonitor(trace *Trace) *TaskStateMonitor {
	m := &TaskStateMonitor{
		trace:   trace,
		records: make(map[TaskID]*taskRecord, trace.NumTasks()),
	}
	for _, task := range trace.Tasks() {
		m.records[task.ID] = &taskRecord{
			phase:         TaskUnsubmitted,
			remainingDeps: len(task.Deps),
		}
	}
	return m
}

func (m *TaskStateMonitor) rec(task TaskID) *taskRecord {
	r, ok := m.records[task]
	if !ok {
		errUnknownEntity("task", task)
	}
	return r
}

// Phase returns the current lifecycle phase of task.
func (m *TaskStateMonitor) Phase(task TaskID) TaskPhase {
	return m.rec(task).phase
}

// RemainingDeps returns the number of dependencies of task not yet
// completed.
func (m *TaskStateMonitor) RemainingDeps(task TaskID) int {
	return m.rec(task).remainingDeps
}

func (m *TaskStateMonitor) assertTransition(task TaskID, from, to TaskPhase) *taskRecord {
	r := m.rec(task)
	if r.phase != from {
		errLifecycleViolation(task, r.phase, from)
	}
	r.phase = to
	return r
}

// MarkSubmitted transitions task UNSUBMITTED -> SUBMITTED.
func (m *TaskStateMonitor) MarkSubmitted(task TaskID) {
	m.assertTransition(task, TaskUnsubmitted, TaskSubmitted)
}

// MarkReady transitions task SUBMITTED -> READY.
func (m *TaskStateMonitor) MarkReady(task TaskID) {
	m.assertTransition(task, TaskSubmitted, TaskReady)
}

// MarkRunning transitions task READY -> RUNNING, recording its assigned
// machine and start time.
func (m *TaskStateMonitor) MarkRunning(task TaskID, machine MachineID, tStart int64) {
	r := m.assertTransition(task, TaskReady, TaskRunning)
	r.assignedMach = machine
	r.hasMachine = true
	r.startTime = tStart
	r.hasStartTime = true
}

// MarkCompleted transitions task RUNNING -> COMPLETED, recording its
// completion time, and decrements RemainingDeps for every direct
// dependent, returning those whose count reached zero (spec §4.5's
// TaskCompleted handler: "for every dependent d of t, decrement
// remaining_deps(d); if it reaches zero, enqueue TaskReady(d)").
func (m *TaskStateMonitor) MarkCompleted(task TaskID, tEnd int64) []TaskID {
	r := m.assertTransition(task, TaskRunning, TaskCompleted)
	r.completionTime = tEnd
	r.hasCompletion = true

	var newlyUnblocked []TaskID
	for _, dep := range m.trace.Dependents(task) {
		dr := m.rec(dep)
		dr.remainingDeps--
		if dr.remainingDeps == 0 {
			newlyUnblocked = append(newlyUnblocked, dep)
		}
	}
	return newlyUnblocked
}

// AssignedMachine returns the machine task is/was running on and whether
// one has been assigned yet.
func (m *TaskStateMonitor) AssignedMachine(task TaskID) (MachineID, bool) {
	r := m.rec(task)
	return r.assignedMach, r.hasMachine
}

// StartTime returns task's start time and whether it has started.
func (m *TaskStateMonitor) StartTime(task TaskID) (int64, bool) {
	r := m.rec(task)
	return r.startTime, r.hasStartTime
}

// CompletionTime returns task's completion time and whether it has
// completed.
func (m *TaskStateMonitor) CompletionTime(task TaskID) (int64, bool) {
	r := m.rec(task)
	return r.completionTime, r.hasCompletion
}

// AllCompleted reports whether every task tracked by the monitor has
// reached phase COMPLETED. Used by the simulation core's termination
// invariant (spec §4.5).
func (m *TaskStateMonitor) AllCompleted() bool {
	for _, r := range m.records {
		if r.phase != TaskCompleted {
			return false
		}
	}
	return true
}
