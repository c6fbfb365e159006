package filter

// FilterFlags tell the simulation what to do with a candidate pair.
type FilterFlags uint16

const (
	// FilterDefault processes the pair normally.
	FilterDefault FilterFlags = 0

	// FilterKill discards the pair for as long as the two bounding volumes overlap.
	FilterKill FilterFlags = 1 << iota
	// FilterSuppress ignores the pair for this step only.
	FilterSuppress
	// FilterCallback asks the backend to run the filter callback for the pair.
	FilterCallback
	// FilterNotify asks the backend to report the loss of the pair.
	FilterNotify
)

func (f FilterFlags) Has(flag FilterFlags) bool {
	return f&flag == flag
}

// PairFlags describe how an accepted pair is processed.
type PairFlags uint32

const (
	PairSolveContact PairFlags = 1 << iota
	PairDetectDiscreteContact
	PairNotifyTouchFound
	PairNotifyTouchPersists
	PairNotifyTouchLost
	PairNotifyContactPoints

	PairContactDefault = PairSolveContact | PairDetectDiscreteContact
)

// trackedPairFlags are added to every pair accepted by the callback.
const trackedPairFlags = PairDetectDiscreteContact | PairNotifyTouchFound | PairNotifyTouchLost | PairNotifyContactPoints

func (f PairFlags) Has(flag PairFlags) bool {
	return f&flag == flag
}

// Decision is the coarse classification of a candidate pair.
type Decision uint8

const (
	Discard Decision = iota
	Suppress
	Track
)

func (d Decision) String() string {
	switch d {
	case Discard:
		return "discard"
	case Suppress:
		return "suppress"
	case Track:
		return "track"
	}
	return "unknown"
}

// DecisionOf maps filter flags returned by a shader or a callback to a Decision.
func DecisionOf(flags FilterFlags) Decision {
	switch {
	case flags.Has(FilterKill):
		return Discard
	case flags.Has(FilterSuppress):
		return Suppress
	}
	return Track
}
