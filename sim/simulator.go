package sim

import "fmt"

// Simulator is the discrete-event core described by spec §4.5: it owns
// the event queue, the task-state monitor, the machine-state table, and
// the ordering/placement policies, and drives the main loop that ties
// them together. It is single-threaded and synchronous end to end (spec
// §5) — nothing here spawns a goroutine or blocks.
type Simulator struct {
	trace     *Trace
	env       *Environment
	clock     int64
	queue     *EventQueue
	taskState *TaskStateMonitor
	machState *MachineStateTable
	ordering  OrderingPolicy
	placement PlacementPolicy
	observers observerList

	// tickPending de-duplicates ScheduleTick events per spec §4.5: "at
	// most one ScheduleTick may be pending at any given timestamp".
	tickPending map[int64]bool

	hasRun bool
}

// NewSimulator builds a Simulator over trace and env, wired to the given
// ordering and placement policies. It seeds a TaskSubmitted event for
// every task at its submission time (spec §4.5's initial event seeding).
func NewSimulator(trace *Trace, env *Environment, ordering OrderingPolicy, placement PlacementPolicy) *Simulator {
	s := &Simulator{
		trace:       trace,
		env:         env,
		queue:       NewEventQueue(),
		taskState:   NewTaskStateMonitor(trace),
		machState:   NewMachineStateTable(env),
		ordering:    ordering,
		placement:   placement,
		tickPending: make(map[int64]bool),
	}
	for _, task := range trace.Tasks() {
		s.queue.Push(NewTaskSubmittedEvent(task.Submission, task.ID))
	}
	return s
}

// RegisterObserver adds o to the set of observers notified on every
// lifecycle callback (spec §4.6). Must be called before Run.
func (s *Simulator) RegisterObserver(o Observer) {
	s.observers.Register(o)
}

// Clock returns the simulator's current logical time.
func (s *Simulator) Clock() int64 { return s.clock }

// TaskState exposes the task-state monitor for read-only inspection
// (used by collaborators such as the statistics collector and the host
// sanity check).
func (s *Simulator) TaskState() *TaskStateMonitor { return s.taskState }

// MachineState exposes the machine-state table for read-only inspection.
func (s *Simulator) MachineState() *MachineStateTable { return s.machState }

// Trace returns the trace this simulator was built from.
func (s *Simulator) Trace() *Trace { return s.trace }

// Environment returns the environment this simulator was built from.
func (s *Simulator) Environment() *Environment { return s.env }

// Run drives the event loop to completion (spec §4.5). Panics with an
// *InvariantError if any fatal invariant is violated. Panics if called
// more than once, mirroring the teacher's ClusterSimulator.Run guard.
func (s *Simulator) Run() {
	if s.hasRun {
		panic("Simulator.Run called more than once")
	}
	s.hasRun = true

	for !s.queue.Empty() {
		ev, _ := s.queue.Pop()
		if ev.Timestamp() < s.clock {
			errTemporalRegression(ev.Timestamp(), s.clock)
		}
		s.clock = ev.Timestamp()

		switch e := ev.(type) {
		case *TaskCompletedEvent:
			s.handleTaskCompleted(e)
		case *TaskSubmittedEvent:
			s.handleTaskSubmitted(e)
		case *TaskReadyEvent:
			s.handleTaskReady(e)
		case *ScheduleTickEvent:
			s.handleScheduleTick(e)
		case *TaskStartedEvent:
			s.handleTaskStarted(e)
		default:
			panic(fmt.Sprintf("Simulator.Run: unhandled event type %T", ev))
		}

		s.observers.tick(s.clock)
	}

	if !s.taskState.AllCompleted() {
		panicInvariant(CategoryLifecycleViolation, false, true,
			"simulation ended with incomplete tasks")
	}
	if !s.machState.AllIdle() {
		panicInvariant(CategoryCapacityViolation, false, true,
			"simulation ended with machines still reserved")
	}
}

func (s *Simulator) scheduleTickIfNeeded(t int64) {
	if s.tickPending[t] {
		return
	}
	s.tickPending[t] = true
	s.queue.Push(NewScheduleTickEvent(t))
}

// handleTaskSubmitted implements spec §4.5's TaskSubmitted handler: set
// phase SUBMITTED, compute remaining_deps; if zero, enqueue TaskReady at
// the same timestamp.
func (s *Simulator) handleTaskSubmitted(e *TaskSubmittedEvent) {
	s.taskState.MarkSubmitted(e.Task)
	s.observers.taskSubmitted(e.Task, s.clock)
	if s.taskState.RemainingDeps(e.Task) == 0 {
		s.queue.Push(NewTaskReadyEvent(s.clock, e.Task))
	}
}

// handleTaskReady implements spec §4.5's TaskReady handler: set phase
// READY, register with the ordering policy, and ensure a ScheduleTick is
// pending for this timestamp.
func (s *Simulator) handleTaskReady(e *TaskReadyEvent) {
	s.taskState.MarkReady(e.Task)
	s.observers.taskReady(e.Task, s.clock)
	s.ordering.RegisterReady(e.Task)
	s.scheduleTickIfNeeded(s.clock)
}

// handleScheduleTick implements spec §4.5's ScheduleTick handler: drain
// the ordering policy, placing candidates until the head cannot be
// placed. It never reorders past an unplaceable head.
func (s *Simulator) handleScheduleTick(e *ScheduleTickEvent) {
	delete(s.tickPending, s.clock)

	for {
		candidate, ok := s.ordering.NextCandidate()
		if !ok {
			break
		}
		task := s.trace.Task(candidate)
		candidates := s.eligibleMachines(task.CPUDemand)
		machine, ok := s.placement.SelectMachine(candidate, candidates, s.machState)
		if !ok {
			break // head stays queued for the next tick
		}

		s.machState.Reserve(machine, candidate, task.CPUDemand)
		s.ordering.Remove(candidate)
		s.taskState.MarkRunning(candidate, machine, s.clock)

		completion := s.clock + task.Runtime
		s.queue.Push(NewTaskCompletedEvent(completion, candidate, machine))
		s.queue.Push(NewTaskStartedEvent(s.clock, candidate, machine))
	}
}

// handleTaskStarted implements spec §4.5's start notification: the state
// mutation already happened synchronously in handleScheduleTick, so this
// only fires the observer callback, at the ordering position (priority 5)
// spec §4.1 assigns it.
func (s *Simulator) handleTaskStarted(e *TaskStartedEvent) {
	s.observers.taskStarted(e.Task, e.Machine, e.Timestamp())
}

// handleTaskCompleted implements spec §4.5's TaskCompleted handler:
// release CPUs, mark COMPLETED, enqueue TaskReady for every dependent
// whose remaining_deps reaches zero, and enqueue a ScheduleTick.
func (s *Simulator) handleTaskCompleted(e *TaskCompletedEvent) {
	task := s.trace.Task(e.Task)
	s.machState.Release(e.Machine, e.Task, task.CPUDemand)
	newlyUnblocked := s.taskState.MarkCompleted(e.Task, s.clock)
	s.observers.taskCompleted(e.Task, s.clock)

	for _, dep := range newlyUnblocked {
		s.queue.Push(NewTaskReadyEvent(s.clock, dep))
	}
	s.scheduleTickIfNeeded(s.clock)
}

// eligibleMachines returns every machine whose free CPUs meet demand,
// the candidate set spec §4.4 defines for the placement policy.
func (s *Simulator) eligibleMachines(demand int64) []MachineID {
	var out []MachineID
	for _, m := range s.env.Machines() {
		if s.machState.FreeCPUs(m.ID) >= demand {
			out = append(out, m.ID)
		}
	}
	return out
}
