package system

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/logging"
	"go.uber.org/zap"
)

const (
	DefaultTargetFootprint = 40.0
	DefaultTargetHeight    = 2.0
)

// Targeting maps normalized screen coordinates onto a square world footprint
// centered on the origin, at a fixed height. Camera projection is ignored.
type Targeting struct {
	Footprint float64
	Height    float64
}

func DefaultTargeting() Targeting {
	return Targeting{Footprint: DefaultTargetFootprint, Height: DefaultTargetHeight}
}

// Target returns the world point under (x, y). ok is false for an empty
// viewport.
func (t Targeting) Target(x, y, viewportWidth, viewportHeight float64) (mgl64.Vec3, bool) {
	if viewportWidth <= 0 || viewportHeight <= 0 {
		return mgl64.Vec3{}, false
	}
	half := t.Footprint / 2
	return mgl64.Vec3{
		x/viewportWidth*t.Footprint - half,
		t.Height,
		y/viewportHeight*t.Footprint - half,
	}, true
}

// Screen is the inverse of Target for points on the footprint.
func (t Targeting) Screen(p mgl64.Vec3, viewportWidth, viewportHeight float64) (x, y float64) {
	if t.Footprint == 0 {
		return 0, 0
	}
	half := t.Footprint / 2
	return (p.X() + half) / t.Footprint * viewportWidth, (p.Z() + half) / t.Footprint * viewportHeight
}

// KindForButton picks the projectile kind a pointer button fires.
func KindForButton(b PointerButton) component.ProjectileKind {
	if b == PointerPrimary {
		return component.ProjectileBow
	}
	return component.ProjectileBoomerang
}

// ProjectileSpawner turns pointer-down events into projectile records and
// keeps them live until each projectile reports completion.
type ProjectileSpawner struct {
	// Body returns the player body, or nil while it is not attached.
	Body func() component.Body
	// Spawn hands a new record to whatever flies it. The projectile must
	// call Complete with the record id exactly once when it is done.
	Spawn func(rec component.ProjectileRecord)

	log *zap.Logger

	mu        sync.Mutex
	targeting Targeting
	maxLive   int
	nextID    uint64
	live      []component.ProjectileRecord

	cancel  func()
	restore func()
}

func NewProjectileSpawner(body func() component.Body, spawn func(component.ProjectileRecord), log *zap.Logger) *ProjectileSpawner {
	return &ProjectileSpawner{
		Body:      body,
		Spawn:     spawn,
		log:       logging.OrNop(log),
		targeting: DefaultTargeting(),
	}
}

// Configure replaces the targeting and the live cap. maxLive <= 0 leaves the
// live collection unbounded. Records already live are kept.
func (s *ProjectileSpawner) Configure(t Targeting, maxLive int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targeting = t
	s.maxLive = maxLive
}

// Start subscribes to src and suppresses its context menu until Stop.
func (s *ProjectileSpawner) Start(src PointerSource) {
	if s == nil || src == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	s.cancel = src.Subscribe(s.Fire)
	s.restore = src.SuppressContextMenu()
}

// Stop drops the subscription taken by Start. It is safe to call repeatedly.
func (s *ProjectileSpawner) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel, restore := s.cancel, s.restore
	s.cancel, s.restore = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if restore != nil {
		restore()
	}
}

// Running reports whether the spawner holds a subscription.
func (s *ProjectileSpawner) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Fire handles one pointer-down event.
func (s *ProjectileSpawner) Fire(ev *PointerEvent) {
	if s == nil || ev == nil {
		return
	}
	ev.PreventDefault()

	var body component.Body
	if s.Body != nil {
		body = s.Body()
	}
	if body == nil {
		return
	}
	origin := body.Position()

	s.mu.Lock()
	target, ok := s.targeting.Target(ev.X, ev.Y, ev.ViewportWidth, ev.ViewportHeight)
	if !ok {
		s.mu.Unlock()
		return
	}
	if s.maxLive > 0 && len(s.live) >= s.maxLive {
		s.mu.Unlock()
		s.log.Debug("projectile dropped: live limit reached", zap.Int("max_live", s.maxLive))
		return
	}
	rec := component.ProjectileRecord{
		ID:     s.nextID,
		Origin: origin,
		Kind:   KindForButton(ev.Button),
		Target: target,
	}
	s.nextID++
	s.live = append(s.live, rec)
	s.mu.Unlock()

	s.log.Debug("projectile spawned",
		zap.Uint64("id", rec.ID),
		zap.String("kind", string(rec.Kind)),
		zap.Float64s("target", rec.Target[:]),
	)
	if s.Spawn != nil {
		s.Spawn(rec)
	}
}

// Complete removes the record with id. Unknown ids are ignored.
func (s *ProjectileSpawner) Complete(id uint64) {
	if s == nil {
		return
	}
	s.mu.Lock()
	removed := false
	for i, rec := range s.live {
		if rec.ID == id {
			s.live = append(s.live[:i], s.live[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if removed {
		s.log.Debug("projectile completed", zap.Uint64("id", id))
	}
}

// Records returns a copy of the live records in spawn order.
func (s *ProjectileSpawner) Records() []component.ProjectileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]component.ProjectileRecord(nil), s.live...)
}

// Live reports how many projectiles are in flight.
func (s *ProjectileSpawner) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}
