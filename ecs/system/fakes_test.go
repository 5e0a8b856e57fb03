package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type fakeBody struct {
	pos    mgl64.Vec3
	vel    mgl64.Vec3
	writes int
}

func (b *fakeBody) Position() mgl64.Vec3       { return b.pos }
func (b *fakeBody) LinearVelocity() mgl64.Vec3 { return b.vel }
func (b *fakeBody) SetLinearVelocity(v mgl64.Vec3) {
	b.vel = v
	b.writes++
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func approxVec(a, b mgl64.Vec3) bool {
	return approx(a.X(), b.X()) && approx(a.Y(), b.Y()) && approx(a.Z(), b.Z())
}
