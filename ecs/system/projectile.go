package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/logging"
	"github.com/milk9111/arena/prefabs"
	"go.uber.org/zap"
)

// ProjectileSystem flies projectiles with their kind's tengo script and
// retires them when the script reports done.
//
// Each run sees origin, target, position (3-element arrays), speed, dt and a
// per-projectile state map, and may reassign position and set done.
type ProjectileSystem struct {
	log     *zap.Logger
	dt      float64
	scripts map[string]*tengo.Compiled
	states  map[ecs.Entity]*tengo.Map
}

func NewProjectileSystem(tickRate int, log *zap.Logger) *ProjectileSystem {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &ProjectileSystem{
		log:     logging.OrNop(log),
		dt:      1 / float64(tickRate),
		scripts: make(map[string]*tengo.Compiled),
		states:  make(map[ecs.Entity]*tengo.Map),
	}
}

// Invalidate drops a cached script so the next run reloads it.
func (s *ProjectileSystem) Invalidate(script string) {
	if s == nil {
		return
	}
	delete(s.scripts, script)
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for e := range s.states {
		if !w.IsAlive(e) {
			delete(s.states, e)
		}
	}

	ecs.ForEach(w, component.ProjectileComponent.Kind(), func(e ecs.Entity, p *component.Projectile) {
		if p.Completed() {
			s.retire(w, e, p)
			return
		}

		done, err := s.step(e, p)
		if err != nil {
			s.log.Warn("projectile script failed",
				zap.Uint64("id", p.Record.ID),
				zap.String("script", p.Script),
				zap.Error(err),
			)
			s.retire(w, e, p)
			return
		}
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Position = p.Position
		}
		if done {
			s.retire(w, e, p)
		}
	})
}

func (s *ProjectileSystem) retire(w *ecs.World, e ecs.Entity, p *component.Projectile) {
	p.Complete()
	delete(s.states, e)
	ecs.DestroyEntity(w, e)
}

func (s *ProjectileSystem) step(e ecs.Entity, p *component.Projectile) (bool, error) {
	compiled, err := s.compiled(p.Script)
	if err != nil {
		return false, err
	}

	state := s.states[e]
	if state == nil {
		state = &tengo.Map{Value: map[string]tengo.Object{}}
		s.states[e] = state
	}

	vars := map[string]any{
		"origin":   vecToArray(p.Record.Origin),
		"target":   vecToArray(p.Record.Target),
		"position": vecToArray(p.Position),
		"speed":    p.Speed,
		"dt":       s.dt,
		"state":    state,
		"done":     false,
	}
	for name, v := range vars {
		if err := compiled.Set(name, v); err != nil {
			return false, fmt.Errorf("set %s: %w", name, err)
		}
	}
	if err := compiled.Run(); err != nil {
		return false, err
	}

	pos, err := arrayToVec(compiled.Get("position").Array())
	if err != nil {
		return false, fmt.Errorf("position: %w", err)
	}
	p.Position = pos
	return compiled.Get("done").Bool(), nil
}

func (s *ProjectileSystem) compiled(name string) (*tengo.Compiled, error) {
	if c, ok := s.scripts[name]; ok {
		return c, nil
	}

	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	script := tengo.NewScript(src)
	globals := map[string]any{
		"origin":   []any{0.0, 0.0, 0.0},
		"target":   []any{0.0, 0.0, 0.0},
		"position": []any{0.0, 0.0, 0.0},
		"speed":    0.0,
		"dt":       0.0,
		"state":    map[string]any{},
		"done":     false,
	}
	for k, v := range globals {
		if err := script.Add(k, v); err != nil {
			return nil, fmt.Errorf("compile %s: add %s: %w", name, k, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	c, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	s.scripts[name] = c
	return c, nil
}

func vecToArray(v mgl64.Vec3) []any {
	return []any{v.X(), v.Y(), v.Z()}
}

func arrayToVec(a []any) (mgl64.Vec3, error) {
	if len(a) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("want 3 components, got %d", len(a))
	}
	var out mgl64.Vec3
	for i, v := range a {
		switch n := v.(type) {
		case float64:
			out[i] = n
		case int64:
			out[i] = float64(n)
		default:
			return mgl64.Vec3{}, fmt.Errorf("component %d is %T", i, v)
		}
	}
	return out, nil
}
