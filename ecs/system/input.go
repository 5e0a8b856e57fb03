package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

const stickDeadzone = 0.3

// InputSystem samples the keyboard (and the first gamepad) once per tick into
// every Input component.
type InputSystem struct {
	// Pressed reports whether a key is held; it defaults to ebiten's
	// keyboard state.
	Pressed func(ebiten.Key) bool
	// Gamepads lists connected gamepads; nil disables gamepad input.
	Gamepads func() []ebiten.GamepadID
}

func NewInputSystem() *InputSystem {
	return &InputSystem{
		Pressed: ebiten.IsKeyPressed,
		Gamepads: func() []ebiten.GamepadID {
			return ebiten.AppendGamepadIDs(nil)
		},
	}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	intent := i.sample()
	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		*input = intent
	})
}

func (i *InputSystem) sample() component.Input {
	var in component.Input
	pressed := i.Pressed
	if pressed == nil {
		return in
	}

	in.Forward = pressed(ebiten.KeyW) || pressed(ebiten.KeyArrowUp)
	in.Backward = pressed(ebiten.KeyS) || pressed(ebiten.KeyArrowDown)
	in.Left = pressed(ebiten.KeyA) || pressed(ebiten.KeyArrowLeft)
	in.Right = pressed(ebiten.KeyD) || pressed(ebiten.KeyArrowRight)
	in.Jump = pressed(ebiten.KeySpace)

	if i.Gamepads == nil {
		return in
	}
	if gamepads := i.Gamepads(); len(gamepads) > 0 {
		id := gamepads[0]
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			return in
		}
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		in.Left = in.Left || lx < -stickDeadzone
		in.Right = in.Right || lx > stickDeadzone
		in.Forward = in.Forward || ly < -stickDeadzone
		in.Backward = in.Backward || ly > stickDeadzone
		in.Jump = in.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
	}
	return in
}
