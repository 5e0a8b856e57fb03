package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/prefabs"
)

// NewPlayer builds the player entity from its prefab. The physics body handle
// is attached later by the physics system.
func NewPlayer(w *ecs.World, spec *prefabs.PlayerSpec) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("player: nil spec")
	}
	mode, err := component.ParseGroundSensorMode(spec.GroundSensor.Mode)
	if err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}

	e := ecs.CreateEntity(w)
	adds := []func() error{
		func() error { return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}) },
		func() error { return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}) },
		func() error {
			return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
				Position: mgl64.Vec3{spec.Transform.X, spec.Transform.Y, spec.Transform.Z},
			})
		},
		func() error {
			return ecs.Add(w, e, component.MovementComponent.Kind(), &component.Movement{
				MoveSpeed: spec.Movement.MoveSpeed,
				JumpSpeed: spec.Movement.JumpSpeed,
			})
		},
		func() error {
			return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
				Radius:   spec.PhysicsBody.Radius,
				Mass:     spec.PhysicsBody.Mass,
				Friction: spec.PhysicsBody.Friction,
			})
		},
		func() error {
			return ecs.Add(w, e, component.GroundSensorComponent.Kind(), &component.GroundSensor{
				Mode:       mode,
				HalfWidth:  spec.GroundSensor.HalfWidth,
				HalfHeight: spec.GroundSensor.HalfHeight,
				OffsetY:    spec.GroundSensor.OffsetY,
			})
		},
	}
	for _, add := range adds {
		if err := add(); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("player: %w", err)
		}
	}
	return e, nil
}

// ApplyPlayerSpec re-applies the tuning that can change at runtime: movement
// speeds and the ground sensor mode.
func ApplyPlayerSpec(w *ecs.World, e ecs.Entity, spec *prefabs.PlayerSpec) error {
	if spec == nil {
		return fmt.Errorf("player: nil spec")
	}
	mode, err := component.ParseGroundSensorMode(spec.GroundSensor.Mode)
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}
	move, ok := ecs.Get(w, e, component.MovementComponent.Kind())
	if !ok {
		return fmt.Errorf("player: %w", component.ErrEntityNotAlive)
	}
	move.MoveSpeed = spec.Movement.MoveSpeed
	move.JumpSpeed = spec.Movement.JumpSpeed
	if sensor, ok := ecs.Get(w, e, component.GroundSensorComponent.Kind()); ok {
		sensor.SetMode(mode)
	}
	return nil
}

// PlayerBody returns the body of the first player, or nil while it is not
// attached to the simulation.
func PlayerBody(w *ecs.World) component.Body {
	e, ok := w.First(component.PlayerTagComponent.Kind(), component.PhysicsBodyComponent.Kind())
	if !ok {
		return nil
	}
	b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return nil
	}
	return b.Body
}
