package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

const (
	DefaultMoveSpeed = 5.0
	DefaultJumpSpeed = 10.0
)

// diagonalFactor keeps two-axis movement at the same speed as one-axis
// movement.
var diagonalFactor = math.Sqrt2 / 2

// PlayerControllerSystem turns the input snapshot into a full velocity write
// on the player body every tick. Position is left to the simulation.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	entities := w.Query(
		component.PlayerTagComponent.Kind(),
		component.InputComponent.Kind(),
		component.PhysicsBodyComponent.Kind(),
	)
	for _, e := range entities {
		input, ok := ecs.Get(w, e, component.InputComponent.Kind())
		if !ok {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || bodyComp.Body == nil {
			// not attached to the simulation yet
			continue
		}

		move := component.Movement{MoveSpeed: DefaultMoveSpeed, JumpSpeed: DefaultJumpSpeed}
		if m, ok := ecs.Get(w, e, component.MovementComponent.Kind()); ok {
			move = *m
		}
		sensor, _ := ecs.Get(w, e, component.GroundSensorComponent.Kind())

		vel := PlayerVelocity(*input, bodyComp.Body.LinearVelocity(), sensor.Grounded(), move)
		bodyComp.Body.SetLinearVelocity(vel)
	}
}

// PlayerVelocity computes the velocity the controller writes for one tick.
// x and z come entirely from the intent; y passes through from current unless
// a jump is taken while grounded.
func PlayerVelocity(in component.Input, current mgl64.Vec3, grounded bool, move component.Movement) mgl64.Vec3 {
	var ax, az float64
	if in.Forward {
		ax--
		az--
	}
	if in.Backward {
		ax++
		az++
	}
	if in.Left {
		ax--
		az++
	}
	if in.Right {
		ax++
		az--
	}

	if ax != 0 && az != 0 {
		ax *= diagonalFactor
		az *= diagonalFactor
	}

	vel := mgl64.Vec3{ax * move.MoveSpeed, current.Y(), az * move.MoveSpeed}
	if in.Jump && grounded {
		vel[1] = move.JumpSpeed
	}
	return vel
}
