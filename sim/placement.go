package sim

// PlacementPolicy chooses a machine for a task among a pre-filtered set
// of candidates (spec §4.4). Candidates passed in are already restricted
// to machines whose free CPUs meet the task's demand; the policy only
// needs to break ties among them.
type PlacementPolicy interface {
	SelectMachine(task TaskID, candidates []MachineID, state *MachineStateTable) (MachineID, bool)
}

// BestFitPlacement selects the candidate with the smallest free-CPU
// count, breaking ties by ascending machine id (spec §4.4).
type BestFitPlacement struct{}

// NewBestFitPlacement returns a PlacementPolicy implementing best-fit.
func NewBestFitPlacement() *BestFitPlacement { return &BestFitPlacement{} }

func (BestFitPlacement) SelectMachine(_ TaskID, candidates []MachineID, state *MachineStateTable) (MachineID, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	best := candidates[0]
	bestFree := state.FreeCPUs(best)
	for _, c := range candidates[1:] {
		free := state.FreeCPUs(c)
		if free < bestFree || (free == bestFree && c < best) {
			best, bestFree = c, free
		}
	}
	return best, true
}
