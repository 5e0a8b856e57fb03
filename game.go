package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/ecs/entity"
	"github.com/milk9111/arena/ecs/system"
	"github.com/milk9111/arena/logging"
	"github.com/milk9111/arena/prefabs"
	"go.uber.org/zap"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

var (
	groundColor    = color.RGBA{0x30, 0x34, 0x3c, 0xff}
	playerColor    = color.RGBA{0x4f, 0xc3, 0xf7, 0xff}
	airborneColor  = color.RGBA{0xff, 0xb7, 0x4d, 0xff}
	bowColor       = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	boomerangColor = color.RGBA{0xaa, 0xe6, 0x5c, 0xff}
	targetColor    = color.RGBA{0xef, 0x53, 0x50, 0xff}
)

type Game struct {
	frames int
	debug  bool
	log    *zap.Logger

	world     *ecs.World
	scheduler *ecs.Scheduler
	player    ecs.Entity

	physics     *system.PhysicsSystem
	pointer     *system.PointerSystem
	spawner     *system.ProjectileSpawner
	projectiles *system.ProjectileSystem
	kinds       map[string]prefabs.ProjectileKindSpec
	targeting   system.Targeting
	groundHalf  float64

	watcher *prefabs.Watcher
}

func NewGame(debug, watch bool, log *zap.Logger) (*Game, error) {
	log = logging.OrNop(log)

	arena, err := prefabs.LoadArenaSpec()
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	projSpec, err := prefabs.LoadProjectilesSpec()
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	g := &Game{
		debug:      debug,
		log:        log,
		world:      ecs.NewWorld(),
		scheduler:  ecs.NewScheduler(),
		groundHalf: arena.Ground.HalfExtent,
	}

	g.player, err = entity.NewPlayer(g.world, playerSpec)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	g.pointer = system.NewPointerSystem(func() (float64, float64) { return baseWidth, baseHeight })
	g.projectiles = system.NewProjectileSystem(arena.TickRate, log)
	g.spawner = system.NewProjectileSpawner(
		func() component.Body { return entity.PlayerBody(g.world) },
		g.spawnProjectile,
		log,
	)
	g.applyProjectilesSpec(projSpec)

	g.scheduler.Add(system.NewGroundSensorSystem(log))
	g.scheduler.Add(system.NewInputSystem())
	g.scheduler.Add(g.pointer)
	g.scheduler.Add(system.NewPlayerControllerSystem())
	g.physics = system.NewPhysicsSystem(system.PhysicsConfig{
		Gravity:          arena.Gravity,
		Iterations:       arena.Iterations,
		TickRate:         arena.TickRate,
		GroundHalfExtent: arena.Ground.HalfExtent,
		GroundThickness:  arena.Ground.Thickness,
		GroundFriction:   arena.Ground.Friction,
	}, log)
	g.scheduler.Add(g.physics)
	g.scheduler.Add(g.projectiles)
	g.scheduler.Add(system.NewTTLSystem())

	g.spawner.Start(g.pointer)

	if watch {
		g.watcher, err = newPrefabWatcher()
		if err != nil {
			log.Warn("prefab watch disabled", zap.String("dir", prefabs.Dir), zap.Error(err))
		}
	}

	ebiten.SetTPS(arena.TickRate)
	return g, nil
}

// newPrefabWatcher watches the on-disk prefab directory and its scripts
// subdirectory when present.
func newPrefabWatcher() (*prefabs.Watcher, error) {
	if _, err := os.Stat(prefabs.Dir); err != nil {
		return nil, err
	}
	dirs := []string{prefabs.Dir}
	if scripts := filepath.Join(prefabs.Dir, "scripts"); dirExists(scripts) {
		dirs = append(dirs, scripts)
	}
	return prefabs.NewWatcher(dirs...)
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// spawnProjectile is the spawner's factory hook. A record that cannot be
// flown is completed immediately so it does not stay live forever.
func (g *Game) spawnProjectile(rec component.ProjectileRecord) {
	spec, ok := g.kinds[string(rec.Kind)]
	if !ok {
		g.log.Warn("no projectile kind", zap.String("kind", string(rec.Kind)), zap.Uint64("id", rec.ID))
		g.spawner.Complete(rec.ID)
		return
	}
	if _, err := entity.NewProjectile(g.world, rec, spec, g.spawner.Complete); err != nil {
		g.log.Warn("spawn projectile", zap.Error(err))
		g.spawner.Complete(rec.ID)
	}
}

func (g *Game) applyProjectilesSpec(spec *prefabs.ProjectilesSpec) {
	t := system.DefaultTargeting()
	if spec.Targeting.Footprint > 0 {
		t.Footprint = spec.Targeting.Footprint
	}
	t.Height = spec.Targeting.Height
	g.targeting = t
	g.kinds = spec.Kinds
	g.spawner.Configure(t, spec.MaxLive)
}

func (g *Game) Update() error {
	g.frames++
	g.drainReloads()
	g.scheduler.Update(g.world)
	return nil
}

func (g *Game) drainReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.reload(name); err != nil {
				g.log.Warn("prefab reload failed", zap.String("file", name), zap.Error(err))
				continue
			}
			g.log.Info("prefab reloaded", zap.String("file", name))
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("prefab watch", zap.Error(err))
		default:
			return
		}
	}
}

var errRestartRequired = errors.New("arena changes apply on restart")

func (g *Game) reload(name string) error {
	switch name {
	case prefabs.PlayerFile:
		spec, err := prefabs.LoadPlayerSpec()
		if err != nil {
			return err
		}
		return entity.ApplyPlayerSpec(g.world, g.player, spec)
	case prefabs.ProjectilesFile:
		spec, err := prefabs.LoadProjectilesSpec()
		if err != nil {
			return err
		}
		g.applyProjectilesSpec(spec)
		return nil
	case prefabs.ArenaFile:
		return errRestartRequired
	}
	if path.Dir(name) == "scripts" {
		g.projectiles.Invalidate(path.Base(name))
	}
	return nil
}

// Close stops the spawner and the prefab watcher.
func (g *Game) Close() error {
	g.spawner.Stop()
	if g.watcher != nil {
		return g.watcher.Close()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawGround(screen)

	for _, rec := range g.spawner.Records() {
		x, y := g.targeting.Screen(rec.Target, baseWidth, baseHeight)
		vector.StrokeRect(screen, float32(x-4), float32(y-4), 8, 8, 1, targetColor, false)
	}

	ecs.ForEach2(g.world, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Projectile, t *component.Transform) {
		clr := bowColor
		if p.Record.Kind == component.ProjectileBoomerang {
			clr = boomerangColor
		}
		x, y := g.targeting.Screen(t.Position, baseWidth, baseHeight)
		vector.DrawFilledCircle(screen, float32(x), float32(y), 3, clr, true)
	})

	if t, ok := ecs.Get(g.world, g.player, component.TransformComponent.Kind()); ok {
		clr := airborneColor
		if sensor, ok := ecs.Get(g.world, g.player, component.GroundSensorComponent.Kind()); ok && sensor.Grounded() {
			clr = playerColor
		}
		radius := 0.5
		if b, ok := ecs.Get(g.world, g.player, component.PhysicsBodyComponent.Kind()); ok && b.Radius > 0 {
			radius = b.Radius
		}
		x, y := g.targeting.Screen(t.Position, baseWidth, baseHeight)
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(radius/g.targeting.Footprint*baseWidth), clr, true)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    Live: %d", g.frames, ebiten.ActualFPS(), g.spawner.Live()))
	if g.debug {
		g.drawDebug(screen)
	}
}

func (g *Game) drawGround(screen *ebiten.Image) {
	if g.groundHalf <= 0 {
		return
	}
	h := g.groundHalf
	x0, y0 := g.targeting.Screen(mgl64.Vec3{-h, 0, -h}, baseWidth, baseHeight)
	x1, y1 := g.targeting.Screen(mgl64.Vec3{h, 0, h}, baseWidth, baseHeight)
	vector.DrawFilledRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), groundColor, false)
}

func (g *Game) drawDebug(screen *ebiten.Image) {
	system.DrawPlayerDebug(g.world, screen, 0, 16)
	system.DrawPhysicsDebug(g.physics.Space(), screen, system.DebugView{
		X:     baseWidth - 220,
		Y:     baseHeight - 40,
		Scale: 10,
	})
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
