package component

import "fmt"

// GroundSensorMode selects how overlapping ground contacts are folded into
// the grounded flag.
type GroundSensorMode string

const (
	// GroundSensorLatest lets the last enter/exit event win. Two overlapping
	// contacts followed by one exit read as airborne.
	GroundSensorLatest GroundSensorMode = "latest"
	// GroundSensorCounted tracks active contacts; grounded while any remain.
	GroundSensorCounted GroundSensorMode = "counted"
)

// ParseGroundSensorMode maps a prefab value to a mode. Empty selects counted.
func ParseGroundSensorMode(s string) (GroundSensorMode, error) {
	switch GroundSensorMode(s) {
	case "", GroundSensorCounted:
		return GroundSensorCounted, nil
	case GroundSensorLatest:
		return GroundSensorLatest, nil
	default:
		return "", fmt.Errorf("ground sensor: unknown mode %q", s)
	}
}

// GroundSensor is fed by the enter/exit events of a non-solid box attached
// below the body. The zero value is airborne.
type GroundSensor struct {
	Mode GroundSensorMode

	// Sensor box, relative to the body center.
	HalfWidth  float64
	HalfHeight float64
	OffsetY    float64

	contacts int
	grounded bool
}

var GroundSensorComponent = NewComponent[GroundSensor]()

// Enter records the sensor starting to overlap ground.
func (g *GroundSensor) Enter() {
	if g == nil {
		return
	}
	g.contacts++
	g.grounded = true
}

// Exit records the sensor no longer overlapping one ground contact.
func (g *GroundSensor) Exit() {
	if g == nil {
		return
	}
	if g.contacts > 0 {
		g.contacts--
	}
	if g.Mode == GroundSensorLatest {
		g.grounded = false
		return
	}
	g.grounded = g.contacts > 0
}

// Grounded reports whether the character is standing on something.
func (g *GroundSensor) Grounded() bool {
	return g != nil && g.grounded
}

// Contacts reports the number of overlapping ground contacts seen so far.
func (g *GroundSensor) Contacts() int {
	if g == nil {
		return 0
	}
	return g.contacts
}

// SetMode switches the folding mode, re-deriving the flag for counted mode.
func (g *GroundSensor) SetMode(mode GroundSensorMode) {
	if g == nil || g.Mode == mode {
		return
	}
	g.Mode = mode
	if mode == GroundSensorCounted {
		g.grounded = g.contacts > 0
	}
}
