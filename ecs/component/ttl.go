package component

// TTL is a frame-based time-to-live. When it runs out the entity is retired,
// firing its completion callback first if it is a projectile.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()
