// Package sanity runs the post-run consistency check a host performs
// after Simulator.Run returns: every recorded start/end time must be
// consistent with declared submission times, runtimes, and dependency
// edges.
package sanity

import (
	"fmt"

	"github.com/tracesim/tracesim/sim"
)

// Violation describes one failed check, naming the offending task and the
// observed-vs-expected values, in the same reporting shape as the core's
// own invariant errors (spec §7).
type Violation struct {
	Task    sim.TaskID
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("task %d: %s", v.Task, v.Message)
}

// Check verifies, for every task in trace, that:
//   - start(t) >= submission(t)
//   - if runtime(t) > 0 then end(t) - start(t) == runtime(t), else end(t) == start(t)
//   - for every dependency d of t, end(d) <= start(t)
//
// It reads recorded times from state rather than re-deriving them, so it
// is a check on what the simulator actually did, not a re-simulation.
func Check(trace *sim.Trace, state *sim.TaskStateMonitor) []Violation {
	var violations []Violation
	for _, task := range trace.Tasks() {
		start, hasStart := state.StartTime(task.ID)
		end, hasEnd := state.CompletionTime(task.ID)
		if !hasStart || !hasEnd {
			violations = append(violations, Violation{task.ID, "task never ran to completion"})
			continue
		}

		if start < task.Submission {
			violations = append(violations, Violation{task.ID,
				fmt.Sprintf("start time %d precedes submission time %d", start, task.Submission)})
		}

		if task.Runtime > 0 {
			if end-start != task.Runtime {
				violations = append(violations, Violation{task.ID,
					fmt.Sprintf("ran for %d ticks, want runtime %d", end-start, task.Runtime)})
			}
		} else if end != start {
			violations = append(violations, Violation{task.ID,
				fmt.Sprintf("zero-runtime task has end time %d != start time %d", end, start)})
		}

		for _, dep := range task.Deps {
			depEnd, _ := state.CompletionTime(dep)
			if depEnd > start {
				violations = append(violations, Violation{task.ID,
					fmt.Sprintf("started at %d before dependency %d completed at %d", start, dep, depEnd)})
			}
		}
	}
	return violations
}
