package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// SensorEventKind identifies sensor overlap transitions.
type SensorEventKind string

const (
	SensorEnter SensorEventKind = "enter"
	SensorExit  SensorEventKind = "exit"
)

// EventTypeGroundSensor tags events carrying a SensorEvent.
const EventTypeGroundSensor = "ground_sensor"

// SensorEvent is emitted by the physics step when a sensor volume starts or
// stops overlapping ground.
type SensorEvent struct {
	Entity Entity
	Kind   SensorEventKind
}

// EventQueue is a simple FIFO queue. Events pushed during a tick stay queued
// until a system drains them.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len reports the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events of the given type in push order and keeps the rest.
func (q *EventQueue) Drain(eventType string) []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	var out []Event
	kept := q.items[:0]
	for _, evt := range q.items {
		if evt.Type == eventType {
			out = append(out, evt)
			continue
		}
		kept = append(kept, evt)
	}
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = Event{}
	}
	q.items = kept
	return out
}
