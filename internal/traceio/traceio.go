// Package traceio reads workflow task traces from on-disk CSV files into
// the sim package's domain model.
package traceio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tracesim/tracesim/sim"
)

// wantedColumns is the fixed header this reader accepts, in order.
var wantedColumns = []string{"task_id", "workflow_id", "submission_time", "runtime", "cpu_demand", "deps"}

// ReadFiles parses one or more CSV trace files and merges them into a
// single sim.Trace. Each file must carry the wantedColumns header. Rows
// across files are concatenated in argument order before workflows are
// derived.
func ReadFiles(paths []string) (*sim.Trace, error) {
	var tasks []sim.Task
	wfSeen := make(map[sim.WorkflowID][]sim.TaskID)
	var wfOrder []sim.WorkflowID

	for _, path := range paths {
		rows, err := readOne(path)
		if err != nil {
			return nil, fmt.Errorf("reading trace %s: %w", path, err)
		}
		for _, task := range rows {
			if _, ok := wfSeen[task.WorkflowID]; !ok {
				wfOrder = append(wfOrder, task.WorkflowID)
			}
			wfSeen[task.WorkflowID] = append(wfSeen[task.WorkflowID], task.ID)
			tasks = append(tasks, task)
		}
	}

	sort.Slice(wfOrder, func(i, j int) bool { return wfOrder[i] < wfOrder[j] })
	workflows := make([]sim.Workflow, 0, len(wfOrder))
	for _, id := range wfOrder {
		workflows = append(workflows, sim.Workflow{ID: id, Tasks: wfSeen[id]})
	}

	logrus.Infof("traceio: loaded %d tasks across %d workflows from %d file(s)", len(tasks), len(workflows), len(paths))
	return sim.NewTrace(tasks, workflows), nil
}

func readOne(path string) ([]sim.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	colIndex, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var tasks []sim.Task
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		task, err := parseRow(record, colIndex)
		if err != nil {
			return nil, fmt.Errorf("parsing row %v: %w", record, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func indexColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, want := range wantedColumns {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("missing required column %q", want)
		}
	}
	return idx, nil
}

func parseRow(record []string, col map[string]int) (sim.Task, error) {
	id, err := strconv.Atoi(record[col["task_id"]])
	if err != nil {
		return sim.Task{}, fmt.Errorf("task_id: %w", err)
	}
	wf, err := strconv.Atoi(record[col["workflow_id"]])
	if err != nil {
		return sim.Task{}, fmt.Errorf("workflow_id: %w", err)
	}
	sub, err := strconv.ParseInt(record[col["submission_time"]], 10, 64)
	if err != nil {
		return sim.Task{}, fmt.Errorf("submission_time: %w", err)
	}
	rt, err := strconv.ParseInt(record[col["runtime"]], 10, 64)
	if err != nil {
		return sim.Task{}, fmt.Errorf("runtime: %w", err)
	}
	demand, err := strconv.ParseInt(record[col["cpu_demand"]], 10, 64)
	if err != nil {
		return sim.Task{}, fmt.Errorf("cpu_demand: %w", err)
	}

	var deps []sim.TaskID
	raw := strings.TrimSpace(record[col["deps"]])
	if raw != "" {
		for _, part := range strings.Split(raw, ";") {
			depID, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return sim.Task{}, fmt.Errorf("deps: %w", err)
			}
			deps = append(deps, sim.TaskID(depID))
		}
	}

	return sim.Task{
		ID:         sim.TaskID(id),
		WorkflowID: sim.WorkflowID(wf),
		Submission: sub,
		Runtime:    rt,
		CPUDemand:  demand,
		Deps:       deps,
	}, nil
}

// Sample retains the first ceil(fraction * len(workflows)) workflows in
// full, ordered by ascending workflow id, together with every member task.
// This is the only sampling granularity that cannot break a precedence
// edge: a task-level sample could keep a task while dropping one of its
// dependencies.
func Sample(trace *sim.Trace, fraction float64) *sim.Trace {
	if fraction >= 1 {
		return trace
	}
	if fraction <= 0 {
		return sim.NewTrace(nil, nil)
	}

	workflows := append([]sim.Workflow(nil), trace.Workflows()...)
	sort.Slice(workflows, func(i, j int) bool { return workflows[i].ID < workflows[j].ID })

	keep := int(math.Ceil(fraction * float64(len(workflows))))
	if keep > len(workflows) {
		keep = len(workflows)
	}
	kept := workflows[:keep]

	keptWF := make(map[sim.WorkflowID]bool, len(kept))
	for _, wf := range kept {
		keptWF[wf.ID] = true
	}

	var tasks []sim.Task
	for _, task := range trace.Tasks() {
		if keptWF[task.WorkflowID] {
			tasks = append(tasks, task)
		}
	}

	return sim.NewTrace(tasks, kept)
}
