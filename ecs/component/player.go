package component

// Movement holds the tuning the player controller applies every tick.
type Movement struct {
	MoveSpeed float64
	JumpSpeed float64
}

var MovementComponent = NewComponent[Movement]()
