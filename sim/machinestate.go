package sim

// machineRecord is the mutable per-machine state MachineStateTable owns.
type machineRecord struct {
	freeCPUs int64
	running  map[TaskID]bool
}

// MachineStateTable holds one MachineState per Machine in an Environment,
// enforcing the invariant of spec §3: free_cpus = machine.cpus - Σ demand
// of running tasks, and 0 ≤ free_cpus ≤ machine.cpus.
type MachineStateTable struct {
	env     *Environment
	records map[MachineID]*machineRecord
}

// NewMachineStateTable creates a table with every machine in env starting
// fully free.
func NewMachineStateTable(env *Environment) *MachineStateTable {
	t := &MachineStateTable{
		env:     env,
		records: make(map[MachineID]*machineRecord, env.NumMachines()),
	}
	for _, m := range env.Machines() {
		t.records[m.ID] = &machineRecord{
			freeCPUs: m.CPUs,
			running:  make(map[TaskID]bool),
		}
	}
	return t
}

func (t *MachineStateTable) rec(machine MachineID) *machineRecord {
	r, ok := t.records[machine]
	if !ok {
		errUnknownEntity("machine", machine)
	}
	return r
}

// FreeCPUs returns the current free-CPU count of machine.
func (t *MachineStateTable) FreeCPUs(machine MachineID) int64 {
	return t.rec(machine).freeCPUs
}

// RunningTasks returns the set of tasks currently running on machine.
func (t *MachineStateTable) RunningTasks(machine MachineID) []TaskID {
	r := t.rec(machine)
	tasks := make([]TaskID, 0, len(r.running))
	for id := range r.running {
		tasks = append(tasks, id)
	}
	return tasks
}

// Reserve accounts for task starting on machine: decrements free_cpus by
// demand and records task as running. Fatal capacity violation if demand
// exceeds free_cpus (spec §7).
func (t *MachineStateTable) Reserve(machine MachineID, task TaskID, demand int64) {
	r := t.rec(machine)
	if demand > r.freeCPUs {
		errCapacityViolation(machine, task, r.freeCPUs, demand)
	}
	r.freeCPUs -= demand
	r.running[task] = true
}

// Release accounts for task completing on machine: increments free_cpus
// by demand and removes task from the running set.
func (t *MachineStateTable) Release(machine MachineID, task TaskID, demand int64) {
	r := t.rec(machine)
	delete(r.running, task)
	r.freeCPUs += demand
	if r.freeCPUs > t.env.Machine(machine).CPUs {
		panicInvariant(CategoryCapacityViolation, r.freeCPUs, t.env.Machine(machine).CPUs,
			"machine %d free CPUs exceeded capacity after releasing task %d", machine, task)
	}
}

// AllIdle reports whether every machine has free_cpus == machine.cpus and
// no running tasks — the termination invariant of spec §4.5.
func (t *MachineStateTable) AllIdle() bool {
	for id, r := range t.records {
		if len(r.running) != 0 {
			return false
		}
		if r.freeCPUs != t.env.Machine(id).CPUs {
			return false
		}
	}
	return true
}
