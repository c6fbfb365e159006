package collision

import (
	"github.com/akmonengine/collision/actor"
	"github.com/akmonengine/collision/filter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	activeData   = filter.NewData(filter.GroupKinematic, filter.MaskOf(filter.GroupStatic, filter.GroupKinematic))
	inactiveData = filter.NewData(filter.GroupStatic, filter.MaskOf(filter.GroupKinematic))
)

// contactTestData is the state of the contact test, read by the filter callback.
type contactTestData struct {
	scene   *Scene
	request ContactRequest
	results ContactResultMap
	done    bool
}

var _ filter.ContactTestData = (*contactTestData)(nil)

func (d *contactTestData) Enabled(name string) (bool, bool) {
	o, ok := d.scene.Object(name)
	if !ok {
		return false, false
	}
	return o.Enabled, true
}

// DiscreteManager answers contact tests between named collision objects at fixed poses.
// Active objects collide with every object, inactive ones only with active ones.
// It is not safe for concurrent use; Clone gives an independent manager.
type DiscreteManager struct {
	config   Config
	scene    *Scene
	data     *contactTestData
	callback *filter.SimulationFilterCallback
	events   Events

	active          map[string]bool
	contactDistance float64
}

func NewDiscreteManager(config Config) *DiscreteManager {
	m := &DiscreteManager{
		config:          config,
		events:          NewEvents(),
		active:          make(map[string]bool),
		contactDistance: config.ContactDistance,
	}

	m.data = &contactTestData{}
	m.callback = filter.NewSimulationFilterCallback(m.data)
	m.scene = NewScene(m.callback, filter.DefaultShader, NewSpatialGrid(config.CellSize, config.NumCells), config.Workers, &m.events)
	m.data.scene = m.scene

	return m
}

// AddCollisionObject adds an active object made of shapes placed at poses.
// enabled defaults to true.
func (m *DiscreteManager) AddCollisionObject(name string, maskID int, shapes []actor.ShapeInterface, poses []actor.Transform, enabled ...bool) error {
	if m.HasCollisionObject(name) {
		return errors.Errorf("collision object %q already exists", name)
	}

	o, err := actor.NewCollisionObject(name, maskID, shapes, poses)
	if err != nil {
		return errors.Wrap(err, "adding collision object")
	}
	if len(enabled) > 0 {
		o.Enabled = enabled[0]
	}

	m.active[name] = true
	applyActivity(o, true)
	m.scene.AddObject(o)

	logrus.WithFields(logrus.Fields{"name": name, "shapes": len(shapes), "enabled": o.Enabled}).Debug("collision object added")
	return nil
}

func (m *DiscreteManager) HasCollisionObject(name string) bool {
	_, ok := m.scene.Object(name)
	return ok
}

// RemoveCollisionObject reports whether the object existed.
func (m *DiscreteManager) RemoveCollisionObject(name string) bool {
	if !m.scene.RemoveObject(name) {
		logrus.WithField("name", name).Warn("removing unknown collision object")
		return false
	}

	delete(m.active, name)
	m.events.forget(name)
	m.events.dispatch()

	logrus.WithField("name", name).Debug("collision object removed")
	return true
}

func (m *DiscreteManager) EnableCollisionObject(name string) bool {
	return m.setEnabled(name, true)
}

func (m *DiscreteManager) DisableCollisionObject(name string) bool {
	return m.setEnabled(name, false)
}

func (m *DiscreteManager) setEnabled(name string, enabled bool) bool {
	o, ok := m.scene.Object(name)
	if !ok {
		logrus.WithField("name", name).Warn("unknown collision object")
		return false
	}

	if o.Enabled != enabled {
		o.Enabled = enabled
		m.scene.ResetFiltering(name)
		logrus.WithFields(logrus.Fields{"name": name, "enabled": enabled}).Debug("collision object toggled")
	}
	return true
}

// SetCollisionObjectsTransform moves one object.
func (m *DiscreteManager) SetCollisionObjectsTransform(name string, pose actor.Transform) {
	o, ok := m.scene.Object(name)
	if !ok {
		logrus.WithField("name", name).Warn("unknown collision object")
		return
	}
	o.SetTransform(pose)
}

// SetCollisionObjectsTransformMap moves several objects.
func (m *DiscreteManager) SetCollisionObjectsTransformMap(poses map[string]actor.Transform) {
	for name, pose := range poses {
		m.SetCollisionObjectsTransform(name, pose)
	}
}

// GetCollisionObjects returns the object names in insertion order.
func (m *DiscreteManager) GetCollisionObjects() []string {
	objects := m.scene.Objects()
	names := make([]string, len(objects))
	for i, o := range objects {
		names[i] = o.Name()
	}
	return names
}

// SetActiveCollisionObjects makes the named objects active and every other one inactive.
func (m *DiscreteManager) SetActiveCollisionObjects(names []string) {
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		if !m.HasCollisionObject(name) {
			logrus.WithField("name", name).Warn("activating unknown collision object")
			continue
		}
		requested[name] = true
	}

	for _, o := range m.scene.Objects() {
		isActive := requested[o.Name()]
		if m.active[o.Name()] == isActive {
			continue
		}

		m.active[o.Name()] = isActive
		applyActivity(o, isActive)
		m.scene.ResetFiltering(o.Name())
	}
}

// GetActiveCollisionObjects returns the active object names in insertion order.
func (m *DiscreteManager) GetActiveCollisionObjects() []string {
	names := make([]string, 0, len(m.active))
	for _, o := range m.scene.Objects() {
		if m.active[o.Name()] {
			names = append(names, o.Name())
		}
	}
	return names
}

func applyActivity(o *actor.CollisionObject, active bool) {
	if active {
		o.Attributes = filter.AttributeKinematic
		o.FilterData = activeData
		return
	}
	o.Attributes = filter.AttributeStatic
	o.FilterData = inactiveData
}

// SetContactDistanceThreshold sets the distance under which separated shapes are reported.
// Negative values are clamped to zero: a shrunk broadphase margin would hide shallow
// penetrations.
func (m *DiscreteManager) SetContactDistanceThreshold(distance float64) {
	if distance < 0 {
		logrus.WithField("distance", distance).Warn("negative contact distance clamped to 0")
		distance = 0
	}
	m.contactDistance = distance
}

func (m *DiscreteManager) GetContactDistanceThreshold() float64 {
	return m.contactDistance
}

// SetIsContactAllowedFn replaces the predicate. Existing pairs are filtered again on the
// next contact test.
func (m *DiscreteManager) SetIsContactAllowedFn(fn filter.IsContactAllowedFn) {
	m.callback.SetIsContactAllowedFn(fn)
	m.scene.ResetAllFiltering()
}

func (m *DiscreteManager) GetIsContactAllowedFn() filter.IsContactAllowedFn {
	return m.callback.IsContactAllowedFn()
}

// Events gives access to pair and contact listeners.
func (m *DiscreteManager) Events() *Events {
	return &m.events
}

// Scene exposes the backend, mostly to inspect pair states.
func (m *DiscreteManager) Scene() *Scene {
	return m.scene
}

// ContactTest runs the filter over the current poses and measures the accepted pairs.
func (m *DiscreteManager) ContactTest(request ContactRequest) ContactResultMap {
	results := make(ContactResultMap)
	m.data.request = request
	m.data.results = results
	m.data.done = false

	m.scene.SetMargin(m.contactDistance)
	m.scene.Simulate()

	for _, contact := range NarrowPhase(m.scene.TrackedPairs(), m.contactDistance, m.config.Workers) {
		if m.data.done = results.add(request, contact); m.data.done {
			break
		}
	}

	m.events.recordContacts(results)
	m.events.flush()

	logrus.WithFields(logrus.Fields{"type": request.Type, "contacts": results.Count()}).Debug("contact test")
	return results
}

// Clone copies the objects, their state and the predicate into an independent manager.
// Listeners are not copied.
func (m *DiscreteManager) Clone() *DiscreteManager {
	c := NewDiscreteManager(m.config)
	c.contactDistance = m.contactDistance
	c.callback.SetIsContactAllowedFn(m.callback.IsContactAllowedFn())

	for _, o := range m.scene.Objects() {
		c.scene.AddObject(o.Clone())
		c.active[o.Name()] = m.active[o.Name()]
	}

	return c
}
