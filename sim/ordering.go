package sim

// OrderingPolicy maintains a view of READY tasks and hands the
// simulation core its next scheduling candidate (spec §4.3). Queries
// must be deterministic given insertion order — every concrete policy
// breaks ties by ascending task id.
type OrderingPolicy interface {
	// RegisterReady adds task to the READY view.
	RegisterReady(task TaskID)
	// NextCandidate returns the highest-priority READY task without
	// removing it, or false if none are queued.
	NextCandidate() (TaskID, bool)
	// Remove drops task from the READY view after a successful
	// placement. task must be the current NextCandidate.
	Remove(task TaskID)
}
