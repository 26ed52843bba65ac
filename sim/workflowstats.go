package sim

import "math"

// WorkflowDeadlineProvider supplies the per-workflow deadline the EWF
// ordering policy needs. Spec §9 models this as an explicit handshake:
// the host constructs a provider, registers it as an Observer so it can
// watch submissions arrive, and passes it into the EWF policy
// constructor — no late rebinding through mutable process-wide state.
type WorkflowDeadlineProvider interface {
	Deadline(wf WorkflowID) int64
}

// WorkflowStatsCollector is an Observer that tracks each workflow's first
// submission time and derives a deadline as
// first_submission + ceil(slackFactor * critical_path_length), caching
// the result per spec §4.3 ("the deadline ... is cached").
type WorkflowStatsCollector struct {
	NopObserver
	trace           *Trace
	slackFactor     float64
	firstSubmission map[WorkflowID]int64
	deadlineCache   map[WorkflowID]int64
}

// NewWorkflowStatsCollector returns a WorkflowStatsCollector for trace.
// slackFactor scales the critical-path term of the deadline; 1.0 means no
// slack. Callers get this from a policy config's EWF.DeadlineSlackFactor,
// defaulting to 1.0 when unset.
func NewWorkflowStatsCollector(trace *Trace, slackFactor float64) *WorkflowStatsCollector {
	return &WorkflowStatsCollector{
		trace:           trace,
		slackFactor:     slackFactor,
		firstSubmission: make(map[WorkflowID]int64),
		deadlineCache:   make(map[WorkflowID]int64),
	}
}

// OnTaskSubmitted records the earliest submission time seen for the
// task's workflow.
func (c *WorkflowStatsCollector) OnTaskSubmitted(task TaskID, now int64) {
	wf := c.trace.Task(task).WorkflowID
	if first, ok := c.firstSubmission[wf]; !ok || now < first {
		c.firstSubmission[wf] = now
	}
}

// Deadline returns the cached workflow deadline, computing it on first
// use. Panics if no task in wf has been submitted yet — a caller
// requesting a deadline for a workflow with no submitted tasks indicates
// a wiring bug, since EWF only queries deadlines for tasks that are
// already READY (and therefore already SUBMITTED).
func (c *WorkflowStatsCollector) Deadline(wf WorkflowID) int64 {
	if d, ok := c.deadlineCache[wf]; ok {
		return d
	}
	first, ok := c.firstSubmission[wf]
	if !ok {
		errUnknownEntity("workflow (no submissions observed)", wf)
	}
	d := first + int64(math.Ceil(c.slackFactor*float64(c.trace.CriticalPathLength(wf))))
	c.deadlineCache[wf] = d
	return d
}
