package collision

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) count() int {
	return len(ec.events)
}

func (ec *eventCapture) hasEventType(eventType EventType) bool {
	for _, e := range ec.events {
		if e.Type() == eventType {
			return true
		}
	}
	return false
}

func createTestResults(distances map[LinkPair]float64) ContactResultMap {
	results := make(ContactResultMap)
	for key, d := range distances {
		results[key] = []ContactResult{{
			LinkNames: [2]string{key.First, key.Second},
			Distance:  d,
			Normal:    mgl64.Vec3{1, 0, 0},
		}}
	}
	return results
}

func subscribeAll(events *Events, capture *eventCapture) {
	for _, eventType := range []EventType{PAIR_FOUND, PAIR_LOST, CONTACT_BEGIN, CONTACT_PERSIST, CONTACT_END} {
		events.Subscribe(eventType, capture.capture)
	}
}

// =============================================================================
// Subscribe and Listeners Tests
// =============================================================================

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(CONTACT_BEGIN, capture.capture)

	if len(events.listeners[CONTACT_BEGIN]) != 1 {
		t.Errorf("Expected 1 listener for CONTACT_BEGIN, got %d", len(events.listeners[CONTACT_BEGIN]))
	}
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	capture1 := &eventCapture{}
	capture2 := &eventCapture{}

	events.Subscribe(PAIR_FOUND, capture1.capture)
	events.Subscribe(PAIR_FOUND, capture2.capture)

	events.emit(PairFoundEvent{PairID: 1, Links: MakeLinkPair("a", "b")})
	events.flush()

	if capture1.count() != 1 || capture2.count() != 1 {
		t.Errorf("Expected both listeners to receive 1 event, got %d and %d", capture1.count(), capture2.count())
	}
}

func TestEvents_DifferentEventTypes(t *testing.T) {
	events := NewEvents()
	found := &eventCapture{}
	lost := &eventCapture{}

	events.Subscribe(PAIR_FOUND, found.capture)
	events.Subscribe(PAIR_LOST, lost.capture)

	events.emit(PairLostEvent{PairID: 3, Links: MakeLinkPair("a", "b"), ObjectRemoved: true})
	events.flush()

	if found.count() != 0 {
		t.Errorf("PAIR_FOUND listener should not receive PAIR_LOST events")
	}
	if lost.count() != 1 {
		t.Fatalf("Expected 1 PAIR_LOST event, got %d", lost.count())
	}
	if e := lost.events[0].(PairLostEvent); !e.ObjectRemoved || e.PairID != 3 {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestMakeLinkPair(t *testing.T) {
	if MakeLinkPair("sphere_link", "box_link") != MakeLinkPair("box_link", "sphere_link") {
		t.Error("link pair must not depend on argument order")
	}

	p := MakeLinkPair("b", "a")
	if p.First != "a" || p.Second != "b" {
		t.Errorf("MakeLinkPair(b, a) = %+v", p)
	}
	if !p.Contains("a") || !p.Contains("b") || p.Contains("c") {
		t.Error("Contains mismatch")
	}
}

// =============================================================================
// Contact Begin / Persist / End
// =============================================================================

func TestEvents_ContactBegin(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	key := MakeLinkPair("box_link", "sphere_link")
	events.recordContacts(createTestResults(map[LinkPair]float64{key: -0.1}))
	events.flush()

	if capture.count() != 1 || !capture.hasEventType(CONTACT_BEGIN) {
		t.Fatalf("Expected a single CONTACT_BEGIN, got %v", capture.events)
	}
	if e := capture.events[0].(ContactBeginEvent); e.Links != key || e.Contact.Distance != -0.1 {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestEvents_ContactPersist(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	key := MakeLinkPair("box_link", "sphere_link")
	events.recordContacts(createTestResults(map[LinkPair]float64{key: -0.1}))
	events.flush()
	capture.reset()

	events.recordContacts(createTestResults(map[LinkPair]float64{key: -0.2}))
	events.flush()

	if capture.count() != 1 || !capture.hasEventType(CONTACT_PERSIST) {
		t.Errorf("Expected a single CONTACT_PERSIST, got %v", capture.events)
	}
}

func TestEvents_ContactEnd(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	key := MakeLinkPair("box_link", "sphere_link")
	events.recordContacts(createTestResults(map[LinkPair]float64{key: -0.1}))
	events.flush()
	capture.reset()

	events.flush()

	if capture.count() != 1 || !capture.hasEventType(CONTACT_END) {
		t.Errorf("Expected a single CONTACT_END, got %v", capture.events)
	}

	capture.reset()
	events.flush()
	if capture.count() != 0 {
		t.Errorf("Expected no event once the contact ended, got %v", capture.events)
	}
}

func TestEvents_RecordContacts_KeepsClosest(t *testing.T) {
	events := NewEvents()
	key := MakeLinkPair("a", "b")

	events.recordContacts(ContactResultMap{key: {{Distance: 0.3}, {Distance: -0.2}, {Distance: 0.1}}})

	if got := events.currentContacts[key].Distance; got != -0.2 {
		t.Errorf("Expected closest distance -0.2, got %v", got)
	}
}

func TestEvents_ForgetRemovedObject(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	kept := MakeLinkPair("a", "b")
	removed := MakeLinkPair("a", "c")
	events.recordContacts(createTestResults(map[LinkPair]float64{kept: 0, removed: 0}))
	events.flush()
	capture.reset()

	events.forget("c")
	events.flush()

	if capture.count() != 1 {
		t.Fatalf("Expected only the end of the kept pair, got %v", capture.events)
	}
	if e := capture.events[0].(ContactEndEvent); e.Links != kept {
		t.Errorf("unexpected end event for %+v", e.Links)
	}
}

func TestEvents_MultipleTests_BeginEndBegin(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)
	key := MakeLinkPair("a", "b")

	sequence := []struct {
		contact  bool
		expected EventType
	}{
		{true, CONTACT_BEGIN},
		{false, CONTACT_END},
		{true, CONTACT_BEGIN},
		{true, CONTACT_PERSIST},
	}

	for i, step := range sequence {
		capture.reset()
		if step.contact {
			events.recordContacts(createTestResults(map[LinkPair]float64{key: 0}))
		}
		events.flush()

		if capture.count() != 1 || capture.events[0].Type() != step.expected {
			t.Errorf("test %d: expected event %d, got %v", i, step.expected, capture.events)
		}
	}
}

func TestEvents_Flush_ClearsBuffer(t *testing.T) {
	events := NewEvents()
	events.emit(PairFoundEvent{PairID: 1})
	events.flush()

	if len(events.buffer) != 0 {
		t.Errorf("Expected empty buffer after flush, got %d", len(events.buffer))
	}
}

func TestEvents_NoListeners(t *testing.T) {
	events := NewEvents()
	events.emit(PairLostEvent{PairID: 1})
	events.recordContacts(createTestResults(map[LinkPair]float64{MakeLinkPair("a", "b"): 0}))

	// must not panic
	events.flush()
}

func TestEvents_DispatchKeepsContactTracking(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	key := MakeLinkPair("box_link", "sphere_link")
	events.recordContacts(createTestResults(map[LinkPair]float64{key: -0.1}))
	events.flush()
	capture.reset()

	events.emit(PairLostEvent{PairID: 7, Links: MakeLinkPair("far_link", "other_link"), ObjectRemoved: true})
	events.dispatch()

	if capture.count() != 1 || !capture.hasEventType(PAIR_LOST) {
		t.Fatalf("Expected only the buffered PAIR_LOST, got %d events", capture.count())
	}
	if !events.previousContacts[key] {
		t.Error("dispatch must not clear the contacts of the previous test")
	}

	capture.reset()
	events.recordContacts(createTestResults(map[LinkPair]float64{key: -0.1}))
	events.flush()
	if !capture.hasEventType(CONTACT_PERSIST) || capture.hasEventType(CONTACT_BEGIN) {
		t.Error("Expected the contact to persist across a dispatch")
	}
}
