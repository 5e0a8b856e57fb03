package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

func TestPlayerVelocity(t *testing.T) {
	move := component.Movement{MoveSpeed: DefaultMoveSpeed, JumpSpeed: DefaultJumpSpeed}
	d := DefaultMoveSpeed * math.Sqrt2 / 2

	tests := []struct {
		name     string
		in       component.Input
		current  mgl64.Vec3
		grounded bool
		want     mgl64.Vec3
	}{
		{"idle", component.Input{}, mgl64.Vec3{3, -1, 4}, true, mgl64.Vec3{0, -1, 0}},
		{"forward", component.Input{Forward: true}, mgl64.Vec3{}, true, mgl64.Vec3{-d, 0, -d}},
		{"backward", component.Input{Backward: true}, mgl64.Vec3{}, true, mgl64.Vec3{d, 0, d}},
		{"left", component.Input{Left: true}, mgl64.Vec3{}, true, mgl64.Vec3{-d, 0, d}},
		{"right", component.Input{Right: true}, mgl64.Vec3{}, true, mgl64.Vec3{d, 0, -d}},
		{"forward_backward_cancel", component.Input{Forward: true, Backward: true}, mgl64.Vec3{}, true, mgl64.Vec3{}},
		{"left_right_cancel", component.Input{Left: true, Right: true}, mgl64.Vec3{}, true, mgl64.Vec3{}},
		{"all_cancel", component.Input{Forward: true, Backward: true, Left: true, Right: true}, mgl64.Vec3{}, true, mgl64.Vec3{}},
		// adjacent keys sum on one axis and are not normalized
		{"forward_left", component.Input{Forward: true, Left: true}, mgl64.Vec3{}, true, mgl64.Vec3{-2 * DefaultMoveSpeed, 0, 0}},
		{"forward_right", component.Input{Forward: true, Right: true}, mgl64.Vec3{}, true, mgl64.Vec3{0, 0, -2 * DefaultMoveSpeed}},
		{"vertical_passthrough", component.Input{Forward: true}, mgl64.Vec3{9, -3.25, 9}, false, mgl64.Vec3{-d, -3.25, -d}},
		{"jump_grounded", component.Input{Jump: true}, mgl64.Vec3{0, -0.5, 0}, true, mgl64.Vec3{0, DefaultJumpSpeed, 0}},
		{"jump_airborne", component.Input{Jump: true}, mgl64.Vec3{0, -0.5, 0}, false, mgl64.Vec3{0, -0.5, 0}},
		{"jump_while_moving", component.Input{Jump: true, Backward: true}, mgl64.Vec3{}, true, mgl64.Vec3{d, DefaultJumpSpeed, d}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PlayerVelocity(tc.in, tc.current, tc.grounded, move)
			if !approxVec(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestPlayerVelocitySingleKeyMagnitude(t *testing.T) {
	move := component.Movement{MoveSpeed: DefaultMoveSpeed, JumpSpeed: DefaultJumpSpeed}
	for _, in := range []component.Input{{Forward: true}, {Backward: true}, {Left: true}, {Right: true}} {
		v := PlayerVelocity(in, mgl64.Vec3{}, false, move)
		if got := math.Hypot(v.X(), v.Z()); !approx(got, DefaultMoveSpeed) {
			t.Fatalf("%+v: expected horizontal speed %v, got %v", in, DefaultMoveSpeed, got)
		}
	}
}

func newControllerWorld(t *testing.T, body component.Body, grounded bool) (*ecs.World, ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	sensor := &component.GroundSensor{Mode: component.GroundSensorCounted}
	if grounded {
		sensor.Enter()
	}
	for _, add := range []func() error{
		func() error { return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}) },
		func() error { return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}) },
		func() error {
			return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Body: body})
		},
		func() error { return ecs.Add(w, e, component.GroundSensorComponent.Kind(), sensor) },
	} {
		if err := add(); err != nil {
			t.Fatalf("add component: %v", err)
		}
	}
	return w, e
}

func TestPlayerControllerSystem(t *testing.T) {
	t.Run("nil_body_is_noop", func(t *testing.T) {
		w, e := newControllerWorld(t, nil, true)
		in, _ := ecs.Get(w, e, component.InputComponent.Kind())
		in.Forward, in.Jump = true, true
		NewPlayerControllerSystem().Update(w)
	})

	t.Run("writes_every_tick", func(t *testing.T) {
		body := &fakeBody{vel: mgl64.Vec3{1, -2, 1}}
		w, _ := newControllerWorld(t, body, false)
		sys := NewPlayerControllerSystem()
		sys.Update(w)
		sys.Update(w)
		if body.writes != 2 {
			t.Fatalf("expected 2 velocity writes, got %d", body.writes)
		}
		if !approxVec(body.vel, mgl64.Vec3{0, -2, 0}) {
			t.Fatalf("expected idle velocity to keep y only, got %v", body.vel)
		}
	})

	t.Run("jump_gated_by_sensor", func(t *testing.T) {
		tests := []struct {
			name     string
			grounded bool
			wantY    float64
		}{
			{"grounded", true, DefaultJumpSpeed},
			{"airborne", false, -1},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				body := &fakeBody{vel: mgl64.Vec3{0, -1, 0}}
				w, e := newControllerWorld(t, body, tc.grounded)
				in, _ := ecs.Get(w, e, component.InputComponent.Kind())
				in.Jump = true
				NewPlayerControllerSystem().Update(w)
				if !approx(body.vel.Y(), tc.wantY) {
					t.Fatalf("expected y=%v, got %v", tc.wantY, body.vel.Y())
				}
			})
		}
	})

	t.Run("movement_overrides_defaults", func(t *testing.T) {
		body := &fakeBody{}
		w, e := newControllerWorld(t, body, true)
		if err := ecs.Add(w, e, component.MovementComponent.Kind(), &component.Movement{MoveSpeed: 2, JumpSpeed: 3}); err != nil {
			t.Fatal(err)
		}
		in, _ := ecs.Get(w, e, component.InputComponent.Kind())
		in.Backward, in.Jump = true, true
		NewPlayerControllerSystem().Update(w)
		want := mgl64.Vec3{math.Sqrt2, 3, math.Sqrt2}
		if !approxVec(body.vel, want) {
			t.Fatalf("expected %v, got %v", want, body.vel)
		}
	})
}
