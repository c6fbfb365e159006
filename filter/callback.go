// Package filter decides, for every candidate pair surfaced by the broadphase, whether the
// pair is discarded, suppressed for the current step, or accepted and tracked until it is lost.
//
// The decision honors three sources, evaluated in order:
//  1. the enabled state of both entities, read from the running contact test
//  2. the group/mask carried in each entity's filter data
//  3. an optional application predicate allowing or denying contact between two entities
//
// The callbacks run on the simulation hot path: they never block, log or allocate.
package filter

// PairID is the handle assigned by the simulation backend to a tracked pair.
type PairID uint32

// Entity identifies a collision object.
type Entity interface {
	Name() string
}

// Shape is the backend's shape handle. The filter never inspects it and it may be nil.
type Shape interface{}

// ContactTestData is the read-only view of the contact test in progress.
// Enabled reports the enabled state of an entity, ok is false when the entity is unknown.
type ContactTestData interface {
	Enabled(name string) (enabled bool, ok bool)
}

// IsContactAllowedFn reports whether contact between two entities is allowed by the application.
type IsContactAllowedFn func(a, b string) bool

// Callback is the contract between the simulation backend and a pair filter.
type Callback interface {
	// PairFound classifies a new candidate pair. pairFlags holds the shader's pair flags on input
	// and the flags to use for an accepted pair on output.
	PairFound(pairID PairID,
		attributes0 ObjectAttributes, filterData0 Data, a0 Entity, s0 Shape,
		attributes1 ObjectAttributes, filterData1 Data, a1 Entity, s1 Shape,
		pairFlags *PairFlags) FilterFlags

	// PairLost reports that a pair accepted with FilterNotify is gone.
	PairLost(pairID PairID,
		attributes0 ObjectAttributes, filterData0 Data,
		attributes1 ObjectAttributes, filterData1 Data,
		objectRemoved bool)

	// StatusChange is called repeatedly once per step until ok is false.
	// A true ok applies pairFlags and filterFlags to the pair identified by pairID.
	StatusChange() (pairID PairID, pairFlags PairFlags, filterFlags FilterFlags, ok bool)
}

// SimulationFilterCallback honors the enabled state of the running contact test and an
// application predicate.
type SimulationFilterCallback struct {
	contactData ContactTestData
	fn          IsContactAllowedFn
}

var _ Callback = (*SimulationFilterCallback)(nil)

// NewSimulationFilterCallback borrows contactData, which must outlive the callback.
func NewSimulationFilterCallback(contactData ContactTestData) *SimulationFilterCallback {
	return &SimulationFilterCallback{contactData: contactData}
}

// SetIsContactAllowedFn replaces the predicate. It applies to the next PairFound call only:
// pairs already accepted keep their classification.
func (cb *SimulationFilterCallback) SetIsContactAllowedFn(fn IsContactAllowedFn) {
	cb.fn = fn
}

func (cb *SimulationFilterCallback) IsContactAllowedFn() IsContactAllowedFn {
	return cb.fn
}

func (cb *SimulationFilterCallback) PairFound(pairID PairID,
	attributes0 ObjectAttributes, filterData0 Data, a0 Entity, s0 Shape,
	attributes1 ObjectAttributes, filterData1 Data, a1 Entity, s1 Shape,
	pairFlags *PairFlags) FilterFlags {
	if Decide(cb.contactData, cb.fn, filterData0, a0, filterData1, a1) == Discard {
		return FilterKill
	}

	if pairFlags != nil {
		*pairFlags |= trackedPairFlags
	}

	return FilterDefault | FilterNotify
}

// PairLost holds no per-pair state, losing an unknown pair twice is fine.
func (cb *SimulationFilterCallback) PairLost(pairID PairID,
	attributes0 ObjectAttributes, filterData0 Data,
	attributes1 ObjectAttributes, filterData1 Data,
	objectRemoved bool) {
}

// StatusChange never reclassifies pairs.
func (cb *SimulationFilterCallback) StatusChange() (PairID, PairFlags, FilterFlags, bool) {
	return 0, 0, 0, false
}

// Decide is the pure decision procedure behind PairFound: either Discard or Track.
// The result does not depend on the order of the two sides.
func Decide(contactData ContactTestData, fn IsContactAllowedFn, filterData0 Data, a0 Entity, filterData1 Data, a1 Entity) Decision {
	if !enabled(contactData, a0) || !enabled(contactData, a1) {
		return Discard
	}

	if !Compatible(filterData0, filterData1) {
		return Discard
	}

	if fn != nil && a0 != nil && a1 != nil {
		n0, n1 := a0.Name(), a1.Name()
		// both orders must allow, so an asymmetric predicate still yields a symmetric decision
		if !fn(n0, n1) || !fn(n1, n0) {
			return Discard
		}
	}

	return Track
}

func enabled(contactData ContactTestData, e Entity) bool {
	if contactData == nil || e == nil {
		return true
	}

	isEnabled, ok := contactData.Enabled(e.Name())
	return !ok || isEnabled
}
