package sim

// Observer receives synchronous lifecycle callbacks from the simulation
// core after state has been mutated (spec §4.6). Observers must not
// mutate core state — they are notified strictly after the fact.
type Observer interface {
	OnTaskSubmitted(task TaskID, now int64)
	OnTaskReady(task TaskID, now int64)
	OnTaskStarted(task TaskID, machine MachineID, tStart int64)
	OnTaskCompleted(task TaskID, tEnd int64)
	OnTick(now int64)
}

// NopObserver implements Observer with no-op methods, so collaborators
// only need to embed it and override the callbacks they care about.
type NopObserver struct{}

func (NopObserver) OnTaskSubmitted(TaskID, int64)          {}
func (NopObserver) OnTaskReady(TaskID, int64)              {}
func (NopObserver) OnTaskStarted(TaskID, MachineID, int64) {}
func (NopObserver) OnTaskCompleted(TaskID, int64)          {}
func (NopObserver) OnTick(int64)                           {}

// observerList dispatches each callback to every registered observer, in
// registration order, exactly once per event (spec §4.6: "dispatches
// lifecycle notifications to registered collectors").
type observerList struct {
	observers []Observer
}

func (l *observerList) Register(o Observer) {
	l.observers = append(l.observers, o)
}

func (l *observerList) taskSubmitted(task TaskID, now int64) {
	for _, o := range l.observers {
		o.OnTaskSubmitted(task, now)
	}
}

func (l *observerList) taskReady(task TaskID, now int64) {
	for _, o := range l.observers {
		o.OnTaskReady(task, now)
	}
}

func (l *observerList) taskStarted(task TaskID, machine MachineID, tStart int64) {
	for _, o := range l.observers {
		o.OnTaskStarted(task, machine, tStart)
	}
}

func (l *observerList) taskCompleted(task TaskID, tEnd int64) {
	for _, o := range l.observers {
		o.OnTaskCompleted(task, tEnd)
	}
}

func (l *observerList) tick(now int64) {
	for _, o := range l.observers {
		o.OnTick(now)
	}
}
