package collision

import (
	"sort"

	"github.com/akmonengine/collision/actor"
	"github.com/akmonengine/collision/filter"
	"github.com/sirupsen/logrus"
)

type scenePair struct {
	id          filter.PairID
	links       LinkPair
	a, b        *actor.CollisionObject
	state       filter.PairState
	pairFlags   filter.PairFlags
	filterFlags filter.FilterFlags
}

// Scene is the simulation backend driving a filter callback. Every Simulate call runs the
// broadphase and reports the pair lifecycle to the callback:
//   - pairs no longer overlapping are lost
//   - new pairs go through the shader, then the callback when the shader asks for it
//   - killed pairs stay discarded while they overlap, suppressed pairs are filtered again
//     on the next call
//   - status changes are applied until the callback reports none
//
// Pairs are tracked per object: the shape handle passed to the callback is nil.
type Scene struct {
	objects []*actor.CollisionObject
	index   map[string]int

	callback filter.Callback
	shader   filter.Shader
	grid     *SpatialGrid
	workers  int
	margin   float64

	pairs  map[LinkPair]*scenePair
	ids    map[filter.PairID]LinkPair
	nextID filter.PairID

	events *Events
}

// NewScene creates an empty scene. A nil shader means filter.DefaultShader.
func NewScene(callback filter.Callback, shader filter.Shader, grid *SpatialGrid, workers int, events *Events) *Scene {
	if shader == nil {
		shader = filter.DefaultShader
	}

	return &Scene{
		index:    make(map[string]int),
		callback: callback,
		shader:   shader,
		grid:     grid,
		workers:  max(1, workers),
		pairs:    make(map[LinkPair]*scenePair),
		ids:      make(map[filter.PairID]LinkPair),
		nextID:   1,
		events:   events,
	}
}

// SetMargin sets the distance under which the broadphase reports pairs.
func (s *Scene) SetMargin(margin float64) {
	s.margin = margin
}

func (s *Scene) AddObject(o *actor.CollisionObject) {
	s.index[o.Name()] = len(s.objects)
	s.objects = append(s.objects, o)
}

func (s *Scene) Object(name string) (*actor.CollisionObject, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.objects[i], true
}

// Objects returns the objects in insertion order.
func (s *Scene) Objects() []*actor.CollisionObject {
	return s.objects
}

// RemoveObject loses every pair of the object, reporting it as removed.
func (s *Scene) RemoveObject(name string) bool {
	i, ok := s.index[name]
	if !ok {
		return false
	}

	s.dropPairsOf(name, true)

	s.objects = append(s.objects[:i], s.objects[i+1:]...)
	delete(s.index, name)
	for j := i; j < len(s.objects); j++ {
		s.index[s.objects[j].Name()] = j
	}

	return true
}

// ResetFiltering forgets the decisions involving an object, so its pairs are filtered
// again on the next Simulate. Tracked pairs are lost first.
func (s *Scene) ResetFiltering(name string) {
	s.dropPairsOf(name, false)
}

// ResetAllFiltering forgets every decision.
func (s *Scene) ResetAllFiltering() {
	for _, key := range s.sortedPairKeys() {
		s.drop(key, false)
	}
}

// Simulate runs one step of the pair lifecycle.
func (s *Scene) Simulate() {
	overlapping := s.broadPhase()

	current := make(map[LinkPair]Pair, len(overlapping))
	for _, p := range overlapping {
		current[MakeLinkPair(p.A.Name(), p.B.Name())] = p
	}

	for _, key := range s.sortedPairKeys() {
		if _, ok := current[key]; !ok {
			s.drop(key, false)
		}
	}

	for _, p := range overlapping {
		key := MakeLinkPair(p.A.Name(), p.B.Name())
		sp, known := s.pairs[key]

		switch {
		case !known:
			s.filter(s.newPair(key, p.A, p.B))
		case sp.state == filter.PairSuppressed:
			s.transition(sp, filter.PairCandidate)
			s.filter(sp)
		}
	}

	s.applyStatusChanges()
}

// TrackedPairs returns the accepted pairs ordered by link names.
func (s *Scene) TrackedPairs() []TrackedPair {
	tracked := make([]TrackedPair, 0, len(s.pairs))
	for _, key := range s.sortedPairKeys() {
		sp := s.pairs[key]
		if sp.state != filter.PairTracked {
			continue
		}
		tracked = append(tracked, TrackedPair{ID: sp.id, Links: key, A: sp.a, B: sp.b, Flags: sp.pairFlags})
	}
	return tracked
}

// PairState reports the state of the pair of two objects.
func (s *Scene) PairState(a, b string) (filter.PairState, bool) {
	sp, ok := s.pairs[MakeLinkPair(a, b)]
	if !ok {
		return 0, false
	}
	return sp.state, true
}

func (s *Scene) broadPhase() []Pair {
	s.grid.Build(s.objects)

	if s.workers <= 1 {
		return s.grid.FindPairs(s.objects, s.margin)
	}

	pairs := make([]Pair, 0, len(s.objects))
	for p := range s.grid.FindPairsParallel(s.objects, s.margin, s.workers) {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := s.index[pairs[i].A.Name()], s.index[pairs[j].A.Name()]
		if ai != aj {
			return ai < aj
		}
		return s.index[pairs[i].B.Name()] < s.index[pairs[j].B.Name()]
	})
	return pairs
}

// newPair registers a candidate pair under a fresh id.
func (s *Scene) newPair(key LinkPair, a, b *actor.CollisionObject) *scenePair {
	if a.Name() != key.First {
		a, b = b, a
	}
	sp := &scenePair{id: s.nextID, links: key, a: a, b: b, state: filter.PairCandidate}
	s.nextID++
	s.pairs[key] = sp
	s.ids[sp.id] = key
	return sp
}

// filter runs the shader and, when requested, the callback on a candidate pair.
func (s *Scene) filter(sp *scenePair) {
	var pairFlags filter.PairFlags
	flags := s.shader(sp.a.Attributes, sp.a.FilterData, sp.b.Attributes, sp.b.FilterData, &pairFlags)

	if !flags.Has(filter.FilterKill) && !flags.Has(filter.FilterSuppress) && flags.Has(filter.FilterCallback) {
		flags = s.callback.PairFound(sp.id,
			sp.a.Attributes, sp.a.FilterData, sp.a, nil,
			sp.b.Attributes, sp.b.FilterData, sp.b, nil,
			&pairFlags)
	}

	sp.pairFlags = pairFlags
	sp.filterFlags = flags
	s.transition(sp, filter.StateOf(filter.DecisionOf(flags)))

	if sp.state == filter.PairTracked {
		s.events.emit(PairFoundEvent{PairID: sp.id, Links: sp.links})
	}
}

func (s *Scene) transition(sp *scenePair, next filter.PairState) {
	if !sp.state.CanTransition(next) {
		logrus.WithFields(logrus.Fields{"pair": sp.id, "from": sp.state, "to": next}).Warn("invalid pair transition")
		return
	}

	logrus.WithFields(logrus.Fields{
		"pair":   sp.id,
		"link_a": sp.links.First,
		"link_b": sp.links.Second,
	}).Tracef("%s -> %s", sp.state, next)
	sp.state = next
}

// drop removes a pair, reporting the loss of a tracked pair when it asked for notification.
func (s *Scene) drop(key LinkPair, objectRemoved bool) {
	sp, ok := s.pairs[key]
	if !ok {
		return
	}

	if sp.state == filter.PairTracked {
		s.lose(sp, objectRemoved)
	}

	delete(s.pairs, key)
	delete(s.ids, sp.id)
}

func (s *Scene) lose(sp *scenePair, objectRemoved bool) {
	s.transition(sp, filter.PairLost)

	if sp.filterFlags.Has(filter.FilterNotify) {
		s.callback.PairLost(sp.id,
			sp.a.Attributes, sp.a.FilterData,
			sp.b.Attributes, sp.b.FilterData,
			objectRemoved)
	}
	s.events.emit(PairLostEvent{PairID: sp.id, Links: sp.links, ObjectRemoved: objectRemoved})
}

func (s *Scene) dropPairsOf(name string, objectRemoved bool) {
	for _, key := range s.sortedPairKeys() {
		if key.Contains(name) {
			s.drop(key, objectRemoved)
		}
	}
}

// applyStatusChanges applies the callback's reclassifications until it reports none.
// A pair is expected to change at most once per step, which bounds the loop.
func (s *Scene) applyStatusChanges() {
	for budget := len(s.pairs) + 1; ; budget-- {
		id, pairFlags, flags, ok := s.callback.StatusChange()
		if !ok {
			return
		}
		if budget == 0 {
			logrus.Warn("status change callback did not settle")
			return
		}

		key, known := s.ids[id]
		if !known {
			continue
		}
		sp := s.pairs[key]
		sp.pairFlags = pairFlags

		switch {
		case flags.Has(filter.FilterKill):
			// lost pairs never come back: the pair is remembered as discarded under a new id
			// while it overlaps
			s.drop(key, false)
			discarded := s.newPair(key, sp.a, sp.b)
			discarded.pairFlags = pairFlags
			discarded.filterFlags = flags
			s.transition(discarded, filter.PairDiscarded)
		case flags.Has(filter.FilterSuppress):
			s.drop(key, false)
		default:
			sp.filterFlags = flags
		}
	}
}

func (s *Scene) sortedPairKeys() []LinkPair {
	keys := make([]LinkPair, 0, len(s.pairs))
	for k := range s.pairs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].First != keys[j].First {
			return keys[i].First < keys[j].First
		}
		return keys[i].Second < keys[j].Second
	})
	return keys
}
