package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkflowStatsCollectorDeadline(t *testing.T) {
	tr := chainTrace() // workflow 1: task1(runtime10)->task2(runtime5)
	c := NewWorkflowStatsCollector(tr, 1.0)
	c.OnTaskSubmitted(1, 3)
	require.Equal(t, int64(3+15), c.Deadline(1))
}

func TestWorkflowStatsCollectorUsesEarliestSubmission(t *testing.T) {
	tr := chainTrace()
	c := NewWorkflowStatsCollector(tr, 1.0)
	c.OnTaskSubmitted(2, 10)
	c.OnTaskSubmitted(1, 2)
	require.Equal(t, int64(2+15), c.Deadline(1))
}

func TestWorkflowStatsCollectorCaches(t *testing.T) {
	tr := chainTrace()
	c := NewWorkflowStatsCollector(tr, 1.0)
	c.OnTaskSubmitted(1, 0)
	first := c.Deadline(1)
	c.OnTaskSubmitted(1, 999) // must not affect cached deadline
	require.Equal(t, first, c.Deadline(1))
}

func TestWorkflowStatsCollectorPanicsOnUnsubmittedWorkflow(t *testing.T) {
	tr := chainTrace()
	c := NewWorkflowStatsCollector(tr, 1.0)
	require.Panics(t, func() { c.Deadline(1) })
}

func TestWorkflowStatsCollectorAppliesSlackFactor(t *testing.T) {
	tr := chainTrace() // critical path length 15
	c := NewWorkflowStatsCollector(tr, 1.5)
	c.OnTaskSubmitted(1, 0)
	require.Equal(t, int64(23), c.Deadline(1)) // ceil(1.5*15) == 23
}
