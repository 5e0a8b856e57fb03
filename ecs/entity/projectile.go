package entity

import (
	"fmt"

	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/prefabs"
)

// NewProjectile builds a projectile entity for rec. onComplete is invoked
// once with rec.ID when the projectile finishes or its lifetime runs out.
func NewProjectile(w *ecs.World, rec component.ProjectileRecord, spec prefabs.ProjectileKindSpec, onComplete func(id uint64)) (ecs.Entity, error) {
	if spec.Script == "" {
		return 0, fmt.Errorf("projectile %d: kind %q has no script", rec.ID, rec.Kind)
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ProjectileTagComponent.Kind(), &component.ProjectileTag{}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("projectile %d: %w", rec.ID, err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: rec.Origin}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("projectile %d: %w", rec.ID, err)
	}
	if err := ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{
		Record:     rec,
		Position:   rec.Origin,
		Speed:      spec.Speed,
		Script:     spec.Script,
		OnComplete: onComplete,
	}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("projectile %d: %w", rec.ID, err)
	}
	if spec.MaxFrames > 0 {
		if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: spec.MaxFrames}); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("projectile %d: %w", rec.ID, err)
		}
	}
	return e, nil
}
