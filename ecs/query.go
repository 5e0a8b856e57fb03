package ecs

import "github.com/milk9111/arena/ecs/component"

// Query returns the live entities that carry every listed kind.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	stores := make([]store, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.stores[k.ID()]
		if !ok {
			return nil
		}
		stores = append(stores, s)
	}
	// iterate smallest set
	smallest := 0
	for i, s := range stores {
		if len(s.ids()) < len(stores[smallest].ids()) {
			smallest = i
		}
	}

	var out []Entity
	for _, id := range stores[smallest].ids() {
		match := true
		for i, s := range stores {
			if i != smallest && !s.has(id) {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if e, ok := w.entityFor(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first entity carrying every listed kind.
func (w *World) First(kinds ...component.Kind) (Entity, bool) {
	ents := w.Query(kinds...)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}
