package collision

import (
	"github.com/akmonengine/collision/filter"
)

const (
	PAIR_FOUND EventType = iota
	PAIR_LOST
	CONTACT_BEGIN
	CONTACT_PERSIST
	CONTACT_END
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Pair lifecycle events, emitted by the scene when the filter accepts or loses a pair.
type PairFoundEvent struct {
	PairID filter.PairID
	Links  LinkPair
}

func (e PairFoundEvent) Type() EventType { return PAIR_FOUND }

type PairLostEvent struct {
	PairID        filter.PairID
	Links         LinkPair
	ObjectRemoved bool
}

func (e PairLostEvent) Type() EventType { return PAIR_LOST }

// Contact events, emitted at the end of a contact test by comparing with the previous test.
type ContactBeginEvent struct {
	Links   LinkPair
	Contact ContactResult
}

func (e ContactBeginEvent) Type() EventType { return CONTACT_BEGIN }

type ContactPersistEvent struct {
	Links   LinkPair
	Contact ContactResult
}

func (e ContactPersistEvent) Type() EventType { return CONTACT_PERSIST }

type ContactEndEvent struct {
	Links LinkPair
}

func (e ContactEndEvent) Type() EventType { return CONTACT_END }

// EventListener - callback for events
type EventListener func(event Event)

// Events buffers events during a contact test and dispatches them on flush.
type Events struct {
	listeners map[EventType][]EventListener

	buffer []Event

	// contact tracking for Begin/Persist/End detection
	previousContacts map[LinkPair]bool
	currentContacts  map[LinkPair]ContactResult
}

func NewEvents() Events {
	return Events{
		listeners:        make(map[EventType][]EventListener),
		buffer:           make([]Event, 0, 256),
		previousContacts: make(map[LinkPair]bool),
		currentContacts:  make(map[LinkPair]ContactResult),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// recordContacts keeps the closest contact of every link pair of a test result.
func (e *Events) recordContacts(results ContactResultMap) {
	for key, contacts := range results {
		if len(contacts) == 0 {
			continue
		}
		closest := contacts[0]
		for _, c := range contacts[1:] {
			if c.Distance < closest.Distance {
				closest = c
			}
		}
		e.currentContacts[key] = closest
	}
}

// forget drops the contacts of a removed object without emitting an end event.
// The other contacts keep their state until the next contact test.
func (e *Events) forget(name string) {
	for key := range e.previousContacts {
		if key.Contains(name) {
			delete(e.previousContacts, key)
		}
	}
}

// processContactEvents compares current and previous contacts to detect Begin/Persist/End.
func (e *Events) processContactEvents() {
	for key, contact := range e.currentContacts {
		if e.previousContacts[key] {
			e.buffer = append(e.buffer, ContactPersistEvent{Links: key, Contact: contact})
		} else {
			e.buffer = append(e.buffer, ContactBeginEvent{Links: key, Contact: contact})
		}
	}

	for key := range e.previousContacts {
		if _, ok := e.currentContacts[key]; !ok {
			e.buffer = append(e.buffer, ContactEndEvent{Links: key})
		}
	}

	clear(e.previousContacts)
	for key := range e.currentContacts {
		e.previousContacts[key] = true
	}
	clear(e.currentContacts)
}

// flush closes a contact test: contact events are derived from the recorded contacts, then
// everything is dispatched.
func (e *Events) flush() {
	e.processContactEvents()
	e.dispatch()
}

// dispatch sends all buffered events and clears the buffer, leaving contact tracking untouched.
func (e *Events) dispatch() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
