// Package sim implements the discrete-event core of the workflow task
// trace simulator: the domain model, the event queue, machine and task
// state bookkeeping, the pluggable ordering/placement policies, and the
// simulation loop that ties them together.
//
// Everything under this package is single-threaded and synchronous by
// design (see spec §5): the Simulator owns all mutable state and
// policies are never queried concurrently with a mutation. Trace
// ingestion, environment sizing, statistics collection and CLI parsing
// live in internal/ and cmd/, outside this package, and talk to it only
// through the Observer and registry interfaces defined here.
package sim
