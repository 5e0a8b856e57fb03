package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/logging"
	"go.uber.org/zap"
)

const (
	collisionTypeBody cp.CollisionType = iota + 1
	collisionTypeGroundSensor
	collisionTypeGround
)

// PhysicsConfig is the arena the physics system simulates.
type PhysicsConfig struct {
	Gravity          float64
	Iterations       int
	TickRate         int
	GroundHalfExtent float64
	GroundThickness  float64
	GroundFriction   float64
}

// PhysicsSystem simulates the vertical x/y plane with Chipmunk. Depth (z) has
// no colliders: the ground is extruded along it and bodies integrate their z
// velocity directly.
type PhysicsSystem struct {
	cfg   PhysicsConfig
	log   *zap.Logger
	space *cp.Space
	dt    float64

	handlersReady bool
	groundReady   bool

	entities     map[ecs.Entity]*bodyInfo
	sensorShapes map[*cp.Shape]ecs.Entity

	world *ecs.World
}

type bodyInfo struct {
	body   *chipmunkBody
	sensor *cp.Shape
	shapes []*cp.Shape
}

// chipmunkBody adapts a cp.Body plus a free z axis to component.Body.
type chipmunkBody struct {
	body *cp.Body
	z    float64
	vz   float64
}

func (b *chipmunkBody) Position() mgl64.Vec3 {
	p := b.body.Position()
	return mgl64.Vec3{p.X, p.Y, b.z}
}

func (b *chipmunkBody) LinearVelocity() mgl64.Vec3 {
	v := b.body.Velocity()
	return mgl64.Vec3{v.X, v.Y, b.vz}
}

func (b *chipmunkBody) SetLinearVelocity(v mgl64.Vec3) {
	b.body.SetVelocity(v.X(), v.Y())
	b.vz = v.Z()
}

func NewPhysicsSystem(cfg PhysicsConfig, log *zap.Logger) *PhysicsSystem {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 10
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.GroundThickness <= 0 {
		cfg.GroundThickness = 1
	}

	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})

	return &PhysicsSystem{
		cfg:          cfg,
		log:          logging.OrNop(log),
		space:        space,
		dt:           1 / float64(cfg.TickRate),
		entities:     make(map[ecs.Entity]*bodyInfo),
		sensorShapes: make(map[*cp.Shape]ecs.Entity),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.world = w

	ps.ensureHandlers()
	ps.ensureGround()
	ps.syncEntities(w)

	ps.space.Step(ps.dt)
	for _, info := range ps.entities {
		info.body.z += info.body.vz * ps.dt
	}

	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	groundHandler := ps.space.NewCollisionHandler(collisionTypeGroundSensor, collisionTypeGround)
	groundHandler.UserData = ps
	groundHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if sys, ok := userData.(*PhysicsSystem); ok {
			sys.pushSensorEvent(arb, ecs.SensorEnter)
		}
		return true
	}
	groundHandler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		if sys, ok := userData.(*PhysicsSystem); ok {
			sys.pushSensorEvent(arb, ecs.SensorExit)
		}
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) pushSensorEvent(arb *cp.Arbiter, kind ecs.SensorEventKind) {
	if ps.world == nil {
		return
	}
	shapeA, shapeB := arb.Shapes()
	e, ok := ps.sensorShapes[shapeA]
	if !ok {
		if e, ok = ps.sensorShapes[shapeB]; !ok {
			return
		}
	}
	ps.world.Events().Push(ecs.Event{
		Type: ecs.EventTypeGroundSensor,
		Data: ecs.SensorEvent{Entity: e, Kind: kind},
	})
}

func (ps *PhysicsSystem) ensureGround() {
	if ps.groundReady {
		return
	}
	half := ps.cfg.GroundHalfExtent
	if half <= 0 {
		ps.groundReady = true
		return
	}

	bb := cp.BB{L: -half, B: -ps.cfg.GroundThickness, R: half, T: 0}
	shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
	shape.SetFriction(ps.cfg.GroundFriction)
	shape.SetCollisionType(collisionTypeGround)
	ps.space.AddShape(shape)

	ps.groundReady = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	entities := w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind())
	for _, e := range entities {
		if _, ok := ps.entities[e]; ok {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		sensor, _ := ecs.Get(w, e, component.GroundSensorComponent.Kind())

		info := ps.createBody(transform.Position, bodyComp, sensor)
		ps.entities[e] = info
		if info.sensor != nil {
			ps.sensorShapes[info.sensor] = e
		}
		bodyComp.Body = info.body

		ps.log.Debug("physics body attached",
			zap.Stringer("entity", e),
			zap.Float64s("position", transform.Position[:]),
		)
	}
}

func (ps *PhysicsSystem) createBody(pos mgl64.Vec3, bodyComp *component.PhysicsBody, sensor *component.GroundSensor) *bodyInfo {
	radius := bodyComp.Radius
	if radius <= 0 {
		radius = 0.5
	}
	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	// rotations locked
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: pos.X(), Y: pos.Y()})

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(bodyComp.Friction)
	shape.SetCollisionType(collisionTypeBody)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info := &bodyInfo{
		body:   &chipmunkBody{body: body, z: pos.Z()},
		shapes: []*cp.Shape{shape},
	}

	if sensor != nil {
		hw, hh := sensor.HalfWidth, sensor.HalfHeight
		if hw <= 0 {
			hw = radius
		}
		if hh <= 0 {
			hh = radius
		}
		bb := cp.BB{L: -hw, B: sensor.OffsetY - hh, R: hw, T: sensor.OffsetY + hh}
		groundShape := cp.NewBox2(body, bb, 0)
		groundShape.SetSensor(true)
		groundShape.SetCollisionType(collisionTypeGroundSensor)
		ps.space.AddShape(groundShape)
		info.sensor = groundShape
		info.shapes = append(info.shapes, groundShape)
	}

	return info
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Position = info.body.Position()
		}
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}

		for _, shape := range info.shapes {
			ps.space.RemoveShape(shape)
			delete(ps.sensorShapes, shape)
		}
		ps.space.RemoveBody(info.body.body)
		delete(ps.entities, e)
	}
}
