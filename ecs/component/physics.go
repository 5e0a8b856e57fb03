package component

import "github.com/go-gl/mathgl/mgl64"

// Body is the handle a simulation hands out for a rigid body.
type Body interface {
	Position() mgl64.Vec3
	LinearVelocity() mgl64.Vec3
	SetLinearVelocity(v mgl64.Vec3)
}

// PhysicsBody stores the body handle and collider configuration. Body stays
// nil until the physics system has attached the entity to the simulation.
type PhysicsBody struct {
	Body     Body
	Radius   float64
	Mass     float64
	Friction float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
