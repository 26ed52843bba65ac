package statsio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracesim/tracesim/sim"
)

func chainTrace() *sim.Trace {
	tasks := []sim.Task{
		{ID: 1, WorkflowID: 1, Submission: 0, Runtime: 10, CPUDemand: 1},
		{ID: 2, WorkflowID: 1, Submission: 0, Runtime: 5, CPUDemand: 1, Deps: []sim.TaskID{1}},
	}
	return sim.NewTrace(tasks, []sim.Workflow{{ID: 1, Tasks: []sim.TaskID{1, 2}}})
}

func TestCollectorWriteTasks(t *testing.T) {
	tr := chainTrace()
	c := NewCollector(tr)
	c.OnTaskSubmitted(1, 0)
	c.OnTaskSubmitted(2, 0)
	c.OnTaskStarted(1, 0, 0)
	c.OnTaskCompleted(1, 10)
	c.OnTaskStarted(2, 0, 10)
	c.OnTaskCompleted(2, 15)

	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.tsv")
	require.NoError(t, c.WriteTasks(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(body), "task_id\tworkflow_id\tsubmission_time\tstart_time\tend_time\truntime\tcpu_demand\tmachine_id\n")
	require.Contains(t, string(body), "1\t1\t0\t0\t10\t10\t1\t0\n")
	require.Contains(t, string(body), "2\t1\t0\t10\t15\t5\t1\t0\n")
}

func TestCollectorWriteWorkflows(t *testing.T) {
	tr := chainTrace()
	c := NewCollector(tr)
	c.OnTaskSubmitted(1, 0)
	c.OnTaskSubmitted(2, 0)
	c.OnTaskStarted(1, 0, 0)
	c.OnTaskCompleted(1, 10)
	c.OnTaskStarted(2, 0, 10)
	c.OnTaskCompleted(2, 15)

	dir := t.TempDir()
	path := filepath.Join(dir, "workflows.tsv")
	require.NoError(t, c.WriteWorkflows(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	// critical path length = 15 (10+5), makespan = 15-0 = 15, wait = 0.
	require.Contains(t, string(body), "1\t0\t15\t15\t0\t15\n")
}

func TestCollectorCreatesOutputDir(t *testing.T) {
	tr := chainTrace()
	c := NewCollector(tr)
	dir := filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, c.WriteTasks(filepath.Join(dir, "tasks.tsv")))
	_, err := os.Stat(filepath.Join(dir, "tasks.tsv"))
	require.NoError(t, err)
}
