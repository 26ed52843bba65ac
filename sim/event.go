package sim

// EventKind tags the variant of an Event. Spec §3 models Event as a
// tagged variant with a timestamp and a stable sequence number.
type EventKind int

const (
	EventTaskCompleted EventKind = iota
	EventTaskSubmitted
	EventTaskReady
	EventScheduleTick
	EventTaskStarted
)

func (k EventKind) String() string {
	switch k {
	case EventTaskCompleted:
		return "TaskCompleted"
	case EventTaskSubmitted:
		return "TaskSubmitted"
	case EventTaskReady:
		return "TaskReady"
	case EventScheduleTick:
		return "ScheduleTick"
	case EventTaskStarted:
		return "TaskStarted"
	default:
		return "Unknown"
	}
}

// eventKindPriority breaks timestamp ties. Lower values are processed
// first. This ordering is load-bearing (spec §4.1): a task completing at
// t must free its machine's CPUs before another task can start at t, and
// a ScheduleTick must run only after every TaskSubmitted/TaskReady event
// at t has been processed so it sees a settled ready queue.
var eventKindPriority = map[EventKind]int{
	EventTaskCompleted: 1,
	EventTaskSubmitted: 2,
	EventTaskReady:     3,
	EventScheduleTick:  4,
	EventTaskStarted:   5,
}

// Event is the common interface satisfied by every event variant. Seq is
// assigned by EventQueue.Push at enqueue time, not by the constructor —
// spec §4.1 defines seq as "a monotonically increasing counter assigned
// at push".
type Event interface {
	Timestamp() int64
	Kind() EventKind
	Seq() uint64
	setSeq(uint64)
}

type eventBase struct {
	ts  int64
	seq uint64
}

func (e *eventBase) Timestamp() int64  { return e.ts }
func (e *eventBase) Seq() uint64       { return e.seq }
func (e *eventBase) setSeq(s uint64)   { e.seq = s }

// TaskSubmittedEvent marks a task as admitted at its submission time.
type TaskSubmittedEvent struct {
	eventBase
	Task TaskID
}

func NewTaskSubmittedEvent(ts int64, task TaskID) *TaskSubmittedEvent {
	return &TaskSubmittedEvent{eventBase: eventBase{ts: ts}, Task: task}
}
func (e *TaskSubmittedEvent) Kind() EventKind { return EventTaskSubmitted }

// TaskReadyEvent marks a task as having all dependencies satisfied.
type TaskReadyEvent struct {
	eventBase
	Task TaskID
}

func NewTaskReadyEvent(ts int64, task TaskID) *TaskReadyEvent {
	return &TaskReadyEvent{eventBase: eventBase{ts: ts}, Task: task}
}
func (e *TaskReadyEvent) Kind() EventKind { return EventTaskReady }

// TaskStartedEvent records that a task began running on a machine.
type TaskStartedEvent struct {
	eventBase
	Task    TaskID
	Machine MachineID
}

func NewTaskStartedEvent(ts int64, task TaskID, machine MachineID) *TaskStartedEvent {
	return &TaskStartedEvent{eventBase: eventBase{ts: ts}, Task: task, Machine: machine}
}
func (e *TaskStartedEvent) Kind() EventKind { return EventTaskStarted }

// TaskCompletedEvent records that a task finished running on a machine.
type TaskCompletedEvent struct {
	eventBase
	Task    TaskID
	Machine MachineID
}

func NewTaskCompletedEvent(ts int64, task TaskID, machine MachineID) *TaskCompletedEvent {
	return &TaskCompletedEvent{eventBase: eventBase{ts: ts}, Task: task, Machine: machine}
}
func (e *TaskCompletedEvent) Kind() EventKind { return EventTaskCompleted }

// ScheduleTickEvent drives a scheduling pass over the ready queue. At
// most one may be pending per timestamp (spec §4.5).
type ScheduleTickEvent struct {
	eventBase
}

func NewScheduleTickEvent(ts int64) *ScheduleTickEvent {
	return &ScheduleTickEvent{eventBase: eventBase{ts: ts}}
}
func (e *ScheduleTickEvent) Kind() EventKind { return EventScheduleTick }
