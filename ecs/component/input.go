package component

// Input is the per-tick movement intent of an entity. It is sampled once per
// tick and treated as a read-only snapshot by every other system.
type Input struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jump     bool
}

var InputComponent = NewComponent[Input]()
