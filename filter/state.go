package filter

// PairState is the lifecycle of a single candidate pair in the backend.
//
//	Candidate -> Discarded | Suppressed | Tracked
//	Suppressed -> Candidate (next step)
//	Tracked -> Lost
type PairState uint8

const (
	PairCandidate PairState = iota
	PairDiscarded
	PairSuppressed
	PairTracked
	PairLost
)

func (s PairState) String() string {
	switch s {
	case PairCandidate:
		return "candidate"
	case PairDiscarded:
		return "discarded"
	case PairSuppressed:
		return "suppressed"
	case PairTracked:
		return "tracked"
	case PairLost:
		return "lost"
	}
	return "unknown"
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s PairState) CanTransition(next PairState) bool {
	switch s {
	case PairCandidate:
		return next == PairDiscarded || next == PairSuppressed || next == PairTracked
	case PairSuppressed:
		return next == PairCandidate
	case PairTracked:
		return next == PairLost
	}
	return false
}

// StateOf maps a decision to the state a candidate enters.
func StateOf(d Decision) PairState {
	switch d {
	case Discard:
		return PairDiscarded
	case Suppress:
		return PairSuppressed
	}
	return PairTracked
}
