package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

const (
	PlayerFile      = "player.yaml"
	ProjectilesFile = "projectiles.yaml"
	ArenaFile       = "arena.yaml"
)

type TransformSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type MovementSpec struct {
	MoveSpeed float64 `yaml:"move_speed"`
	JumpSpeed float64 `yaml:"jump_speed"`
}

type PhysicsBodySpec struct {
	Radius   float64 `yaml:"radius"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
}

type GroundSensorSpec struct {
	Mode       string  `yaml:"mode"`
	HalfWidth  float64 `yaml:"half_width"`
	HalfHeight float64 `yaml:"half_height"`
	OffsetY    float64 `yaml:"offset_y"`
}

type PlayerSpec struct {
	Name         string           `yaml:"name"`
	Transform    TransformSpec    `yaml:"transform"`
	Movement     MovementSpec     `yaml:"movement"`
	PhysicsBody  PhysicsBodySpec  `yaml:"physics_body"`
	GroundSensor GroundSensorSpec `yaml:"ground_sensor"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec](PlayerFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type TargetingSpec struct {
	Footprint float64 `yaml:"footprint"`
	Height    float64 `yaml:"height"`
}

type ProjectileKindSpec struct {
	Script    string  `yaml:"script"`
	Speed     float64 `yaml:"speed"`
	MaxFrames int     `yaml:"max_frames"`
}

type ProjectilesSpec struct {
	Targeting TargetingSpec                 `yaml:"targeting"`
	MaxLive   int                           `yaml:"max_live"`
	Kinds     map[string]ProjectileKindSpec `yaml:"kinds"`
}

func LoadProjectilesSpec() (*ProjectilesSpec, error) {
	spec, err := LoadSpec[ProjectilesSpec](ProjectilesFile)
	if err != nil {
		return nil, err
	}
	if spec.MaxLive < 0 {
		return nil, fmt.Errorf("prefabs: %s: max_live must not be negative, got %d", ProjectilesFile, spec.MaxLive)
	}
	return &spec, nil
}

type GroundSpec struct {
	HalfExtent float64 `yaml:"half_extent"`
	Thickness  float64 `yaml:"thickness"`
	Friction   float64 `yaml:"friction"`
}

type ArenaSpec struct {
	Gravity    float64    `yaml:"gravity"`
	Iterations int        `yaml:"iterations"`
	TickRate   int        `yaml:"tick_rate"`
	Ground     GroundSpec `yaml:"ground"`
}

func LoadArenaSpec() (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec](ArenaFile)
	if err != nil {
		return nil, err
	}
	if spec.TickRate <= 0 {
		return nil, fmt.Errorf("prefabs: %s: tick_rate must be positive, got %d", ArenaFile, spec.TickRate)
	}
	return &spec, nil
}
