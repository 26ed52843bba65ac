package sim

import "fmt"

// InvariantCategory tags one of the fatal error categories in spec §7.
// Every category implies a modeling bug, not a recoverable runtime
// condition, so InvariantError is raised via panic. cmd/root.go does not
// recover it: a violation ends the process with a non-zero exit status
// and the error's message.
type InvariantCategory string

const (
	CategoryCapacityViolation   InvariantCategory = "capacity_violation"
	CategoryLifecycleViolation  InvariantCategory = "lifecycle_violation"
	CategoryTemporalRegression  InvariantCategory = "temporal_regression"
	CategoryUnknownEntity       InvariantCategory = "unknown_entity"
	CategoryDependencyInversion InvariantCategory = "dependency_inversion"
)

// InvariantError names the offending task or machine and the observed vs
// expected values (spec §7: "surfaced to the host with a message naming
// the offending task or machine and the observed vs expected values").
type InvariantError struct {
	Category InvariantCategory
	Message  string
	Observed any
	Expected any
}

func (e *InvariantError) Error() string {
	if e.Observed == nil && e.Expected == nil {
		return fmt.Sprintf("[%s] %s", e.Category, e.Message)
	}
	return fmt.Sprintf("[%s] %s (observed=%v, expected=%v)", e.Category, e.Message, e.Observed, e.Expected)
}

func panicInvariant(category InvariantCategory, observed, expected any, format string, args ...any) {
	panic(&InvariantError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Observed: observed,
		Expected: expected,
	})
}

func errCapacityViolation(machine MachineID, task TaskID, freeCPUs, demand int64) {
	panicInvariant(CategoryCapacityViolation, freeCPUs, demand,
		"machine %d has insufficient free CPUs to start task %d", machine, task)
}

func errLifecycleViolation(task TaskID, observed, expected TaskPhase) {
	panicInvariant(CategoryLifecycleViolation, observed, expected,
		"task %d cannot transition from phase %s", task, observed)
}

func errTemporalRegression(observed, expected int64) {
	panicInvariant(CategoryTemporalRegression, observed, expected,
		"event timestamp %d precedes current clock %d", observed, expected)
}

func errUnknownEntity(kind string, id any) {
	panicInvariant(CategoryUnknownEntity, id, nil, "unknown %s id %v", kind, id)
}
