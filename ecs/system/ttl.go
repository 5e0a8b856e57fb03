package system

import (
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// TTLSystem decrements frame-based TTL components and retires entities when
// the TTL reaches zero. Projectiles report completion before they go.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl.Frames > 0 {
			ttl.Frames--
			if ttl.Frames > 0 {
				return
			}
		}

		if p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind()); ok {
			p.Complete()
		}
		ecs.DestroyEntity(w, e)
	})
}
