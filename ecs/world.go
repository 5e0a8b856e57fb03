package ecs

import "github.com/milk9111/arena/ecs/component"

// World owns entities, their component stores and the event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot. It reports
// false when e was already dead.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	var out []Entity
	w.entities.each(func(e Entity) { out = append(out, e) })
	return out
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	return IsAlive(w, e)
}

// DestroyEntity destroys e.
func (w *World) DestroyEntity(e Entity) {
	DestroyEntity(w, e)
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// entityFor rebuilds the full handle of a live slot.
func (w *World) entityFor(id entityID) (Entity, bool) {
	if id == 0 || int(id) > len(w.entities.gens) || !w.entities.alive[id-1] {
		return 0, false
	}
	return makeEntity(id, w.entities.gens[id-1]), true
}
