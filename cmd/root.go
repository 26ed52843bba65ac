package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tracesim/tracesim/internal/envbuild"
	"github.com/tracesim/tracesim/internal/policycfg"
	"github.com/tracesim/tracesim/internal/progress"
	"github.com/tracesim/tracesim/internal/sanity"
	"github.com/tracesim/tracesim/internal/statsio"
	"github.com/tracesim/tracesim/internal/traceio"
	"github.com/tracesim/tracesim/sim"
)

var (
	tracePaths        []string
	outputDir         string
	explicitMachines  int
	targetUtilization float64
	cpusPerMachine    int64
	memoryPerMachine  int64 // stored onto Machine.MemoryCap, unenforced (see DESIGN.md Open Question 1)
	placementName     string
	orderingName      string
	samplingFraction  float64
	policyConfigPath  string
	logLevel          string
	metricsAddr       string
)

var rootCmd = &cobra.Command{
	Use:   "tracesim",
	Short: "Discrete-event simulator for workflow task traces",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a workflow task trace against a machine environment",
	Run:   runSimulation,
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringSliceVar(&tracePaths, "input", nil, "Trace CSV file(s), comma-separated")
	runCmd.Flags().StringVar(&outputDir, "output-dir", ".", "Directory to write task/workflow statistics TSVs into")
	runCmd.Flags().IntVar(&explicitMachines, "machines", 0, "Explicit machine count (overrides --target-utilization)")
	runCmd.Flags().Float64Var(&targetUtilization, "target-utilization", 0.7, "Target CPU utilization used to size the environment when --machines is not set")
	runCmd.Flags().Int64Var(&cpusPerMachine, "cpus-per-machine", 4, "CPUs assigned to each built machine")
	runCmd.Flags().Int64Var(&memoryPerMachine, "memory-per-machine", 0, "Memory per machine, stored on each built machine but not enforced during placement")
	runCmd.Flags().StringVar(&placementName, "placement-policy", "best-fit", "Placement policy name")
	runCmd.Flags().StringVar(&orderingName, "order-policy", "fcfs", "Task-ordering policy name")
	runCmd.Flags().Float64Var(&samplingFraction, "sample", 1.0, "Fraction of workflows to retain, by ascending workflow id")
	runCmd.Flags().StringVar(&policyConfigPath, "policy-config", "", "Optional YAML policy bundle; CLI flags take precedence over its values")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Optional address to serve live Prometheus progress metrics on, e.g. :9090")

	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, args []string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level %q: %v", logLevel, err)
	}
	logrus.SetLevel(level)

	if len(tracePaths) == 0 {
		logrus.Fatalf("no trace input provided; pass --input")
	}

	ordering, placement := orderingName, placementName
	deadlineSlackFactor := 1.0
	if policyConfigPath != "" {
		bundle, err := policycfg.Load(policyConfigPath)
		if err != nil {
			logrus.Fatalf("loading policy config: %v", err)
		}
		if !cmd.Flags().Changed("order-policy") && bundle.Ordering != "" {
			ordering = bundle.Ordering
		}
		if !cmd.Flags().Changed("placement-policy") && bundle.Placement != "" {
			placement = bundle.Placement
		}
		if bundle.EWF.DeadlineSlackFactor != nil {
			deadlineSlackFactor = *bundle.EWF.DeadlineSlackFactor
		}
	}

	trace, err := traceio.ReadFiles(tracePaths)
	if err != nil {
		logrus.Fatalf("reading trace: %v", err)
	}
	if samplingFraction < 1 {
		trace = traceio.Sample(trace, samplingFraction)
		logrus.Infof("sampled trace down to %d task(s) across %d workflow(s)", trace.NumTasks(), len(trace.Workflows()))
	}

	env := envbuild.Build(trace, envbuild.Config{
		ExplicitMachines:  explicitMachines,
		TargetUtilization: targetUtilization,
		CPUsPerMachine:    cpusPerMachine,
		MemoryPerMachine:  memoryPerMachine,
	})

	orderingPolicy, orderingObserver, err := buildOrderingPolicy(ordering, trace, deadlineSlackFactor)
	if err != nil {
		logrus.Fatalf("building ordering policy: %v", err)
	}
	placementPolicy, err := buildPlacementPolicy(placement)
	if err != nil {
		logrus.Fatalf("building placement policy: %v", err)
	}

	simulator := sim.NewSimulator(trace, env, orderingPolicy, placementPolicy)

	stats := statsio.NewCollector(trace)
	simulator.RegisterObserver(stats)
	if orderingObserver != nil {
		simulator.RegisterObserver(orderingObserver)
	}

	if metricsAddr != "" {
		progressCollector := progress.NewCollector()
		simulator.RegisterObserver(progressCollector)
		errc := make(chan error, 1)
		progressCollector.Serve(metricsAddr, errc)
		logrus.Infof("serving progress metrics on %s/metrics", metricsAddr)
	}

	logrus.Infof("running simulation: %d task(s), %d machine(s), ordering=%s, placement=%s",
		trace.NumTasks(), env.NumMachines(), ordering, placement)
	simulator.Run()

	if err := writeStats(stats); err != nil {
		logrus.Fatalf("writing statistics: %v", err)
	}

	violations := sanity.Check(trace, simulator.TaskState())
	if len(violations) > 0 {
		for _, v := range violations {
			logrus.Errorf("sanity check failed: %s", v)
		}
		os.Exit(1)
	}

	logrus.Info("simulation complete, sanity check passed")
}

func writeStats(stats *statsio.Collector) error {
	if err := stats.WriteTasks(filepath.Join(outputDir, "tasks.tsv")); err != nil {
		return err
	}
	return stats.WriteWorkflows(filepath.Join(outputDir, "workflows.tsv"))
}

// buildOrderingRegistry constructs the host's named-provider registry for
// ordering policies (spec §4.7), binding each factory to trace. FCFS is
// the default when --order-policy is left at its flag default and no
// policy config overrides it. deadlineSlackFactor scales EWF's deadline
// computation (policycfg.EWFConfig.DeadlineSlackFactor, 1.0 if unset).
func buildOrderingRegistry(trace *sim.Trace, deadlineSlackFactor float64) *sim.Registry[sim.OrderingPolicy] {
	r := sim.NewRegistry[sim.OrderingPolicy]()
	r.Register("fcfs", func() sim.OrderingPolicy { return sim.NewFCFSPolicy(trace) })
	r.Register("sjf", func() sim.OrderingPolicy { return sim.NewSJFPolicy(trace) })
	r.Register("ewf", func() sim.OrderingPolicy {
		return sim.NewEWFPolicy(trace, sim.NewWorkflowStatsCollector(trace, deadlineSlackFactor))
	})
	r.SetDefault("fcfs")
	return r
}

// buildPlacementRegistry constructs the host's named-provider registry for
// placement policies (spec §4.7). best-fit is the only variant and the
// default.
func buildPlacementRegistry() *sim.Registry[sim.PlacementPolicy] {
	r := sim.NewRegistry[sim.PlacementPolicy]()
	r.Register("best-fit", func() sim.PlacementPolicy { return sim.NewBestFitPlacement() })
	r.SetDefault("best-fit")
	return r
}

// deadlineProvider is implemented by EWFPolicy so the host can recover the
// WorkflowStatsCollector it needs to register as a Simulator observer
// (spec §9's explicit handshake between EWF and workflow statistics).
type deadlineProvider interface {
	Deadlines() sim.WorkflowDeadlineProvider
}

func buildOrderingPolicy(name string, trace *sim.Trace, deadlineSlackFactor float64) (sim.OrderingPolicy, sim.Observer, error) {
	policy, err := buildOrderingRegistry(trace, deadlineSlackFactor).Get(strings.ToLower(name))
	if err != nil {
		return nil, nil, unknownPolicyError("ordering", name)
	}
	if dp, ok := policy.(deadlineProvider); ok {
		if observer, ok := dp.Deadlines().(sim.Observer); ok {
			return policy, observer, nil
		}
	}
	return policy, nil, nil
}

func buildPlacementPolicy(name string) (sim.PlacementPolicy, error) {
	policy, err := buildPlacementRegistry().Get(strings.ToLower(name))
	if err != nil {
		return nil, unknownPolicyError("placement", name)
	}
	return policy, nil
}

func unknownPolicyError(kind, name string) error {
	return fmt.Errorf("unknown %s policy %q", kind, name)
}
