package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// DebugView places the simulated x/y plane on screen: world (0, 0) lands on
// (X, Y), one world unit spans Scale pixels and world y points up.
type DebugView struct {
	X, Y  float64
	Scale float64
}

// DrawPhysicsDebug draws the side view of every shape in space, sensors in
// their own color.
func DrawPhysicsDebug(space *cp.Space, screen *ebiten.Image, view DebugView) {
	if space == nil || screen == nil {
		return
	}
	if view.Scale <= 0 {
		view.Scale = 1
	}
	cp.DrawSpace(space, &physicsDebugDrawer{screen: screen, view: view})
}

// DrawPlayerDebug prints the player's body and ground sensor state.
func DrawPlayerDebug(w *ecs.World, screen *ebiten.Image, x, y int) {
	if w == nil || screen == nil {
		return
	}
	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}

	text := "Body: detached"
	if bodyComp, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind()); ok && bodyComp.Body != nil {
		pos, vel := bodyComp.Body.Position(), bodyComp.Body.LinearVelocity()
		text = fmt.Sprintf("Pos: %.2f %.2f %.2f\nVel: %.2f %.2f %.2f", pos.X(), pos.Y(), pos.Z(), vel.X(), vel.Y(), vel.Z())
	}
	if sensor, ok := ecs.Get(w, player, component.GroundSensorComponent.Kind()); ok {
		text += fmt.Sprintf("\nGrounded: %v (%s, %d contacts)", sensor.Grounded(), sensor.Mode, sensor.Contacts())
	}
	ebitenutil.DebugPrintAt(screen, text, x, y)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	view   DebugView
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, fill)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, fill)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
	if radius > 0 {
		d.drawCircle(a, radius, fill)
		d.drawCircle(b, radius, fill)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], fill)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	x, y := d.toScreen(pos)
	vector.DrawFilledRect(d.screen, float32(x-size/2), float32(y-size/2), float32(size), float32(size), toNRGBA(fill), false)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape.Sensor() {
		return cp.FColor{R: 1, G: 0.8, B: 0.2, A: 0.9}
	}
	if shape.Body().GetType() == cp.BODY_STATIC {
		return cp.FColor{R: 0.5, G: 0.5, B: 0.55, A: 0.9}
	}
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, toNRGBA(c), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float64, float64) {
	return d.view.X + v.X*d.view.Scale, d.view.Y - v.Y*d.view.Scale
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
