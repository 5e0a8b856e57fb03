package component

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ProjectileKind selects the flight behaviour of a spawned projectile.
type ProjectileKind string

const (
	ProjectileBow       ProjectileKind = "bow"
	ProjectileBoomerang ProjectileKind = "boomerang"
)

// ProjectileRecord is what the spawner keeps for every live projectile.
type ProjectileRecord struct {
	ID     uint64
	Origin mgl64.Vec3
	Kind   ProjectileKind
	Target mgl64.Vec3
}

// Projectile is the in-flight state of a projectile entity.
type Projectile struct {
	Record   ProjectileRecord
	Position mgl64.Vec3
	Speed    float64
	Script   string

	// OnComplete is called exactly once, when the flight is over.
	OnComplete func(id uint64)
	completed  bool
}

var ProjectileComponent = NewComponent[Projectile]()

// Complete fires OnComplete the first time it is called and reports whether
// it did.
func (p *Projectile) Complete() bool {
	if p == nil || p.completed {
		return false
	}
	p.completed = true
	if p.OnComplete != nil {
		p.OnComplete(p.Record.ID)
	}
	return true
}

// Completed reports whether the completion callback has fired.
func (p *Projectile) Completed() bool {
	return p != nil && p.completed
}
