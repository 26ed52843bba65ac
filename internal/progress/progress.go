// Package progress exposes live simulation progress as Prometheus metrics.
package progress

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tracesim/tracesim/sim"
)

// Collector is a sim.Observer that reports task-lifecycle counters and the
// simulation clock as Prometheus metrics. It uses its own registry rather
// than the global default so a process can run more than one Simulator
// (e.g. in tests) without a duplicate-registration panic.
type Collector struct {
	sim.NopObserver

	registry *prometheus.Registry

	tasksSubmitted prometheus.Counter
	tasksStarted   prometheus.Counter
	tasksCompleted prometheus.Counter
	simClock       prometheus.Gauge
	readyDepth     prometheus.Gauge

	ready map[sim.TaskID]bool
}

// NewCollector builds a Collector with a private registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		tasksSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracesim_tasks_submitted_total",
			Help: "Total number of tasks submitted so far.",
		}),
		tasksStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracesim_tasks_started_total",
			Help: "Total number of tasks that have begun running.",
		}),
		tasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracesim_tasks_completed_total",
			Help: "Total number of tasks that have completed.",
		}),
		simClock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracesim_sim_clock",
			Help: "Current simulation logical clock, in ticks.",
		}),
		readyDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracesim_ready_queue_depth",
			Help: "Number of tasks currently in the READY phase, awaiting placement.",
		}),
		ready: make(map[sim.TaskID]bool),
	}
	c.registry.MustRegister(c.tasksSubmitted, c.tasksStarted, c.tasksCompleted, c.simClock, c.readyDepth)
	return c
}

func (c *Collector) OnTaskSubmitted(sim.TaskID, int64) {
	c.tasksSubmitted.Inc()
}

func (c *Collector) OnTaskReady(task sim.TaskID, now int64) {
	c.ready[task] = true
	c.readyDepth.Set(float64(len(c.ready)))
}

func (c *Collector) OnTaskStarted(task sim.TaskID, machine sim.MachineID, tStart int64) {
	delete(c.ready, task)
	c.readyDepth.Set(float64(len(c.ready)))
	c.tasksStarted.Inc()
}

func (c *Collector) OnTaskCompleted(sim.TaskID, int64) {
	c.tasksCompleted.Inc()
}

func (c *Collector) OnTick(now int64) {
	c.simClock.Set(float64(now))
}

// Serve starts a background HTTP server exposing the collector's metrics
// at /metrics on addr (e.g. ":9090"). It never blocks the caller; a
// listener error is delivered to errc.
func (c *Collector) Serve(addr string, errc chan<- error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			errc <- fmt.Errorf("progress: metrics server: %w", err)
		}
	}()
}
