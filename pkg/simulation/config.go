package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lao-tseu-is-alive/go-boids/pkg/flock"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tochemey/goakt/v3/log"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth" yaml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" yaml:"worldHeight"`

	// Population spawned when the flock actor starts
	InitialAgents int `json:"initialAgents" yaml:"initialAgents"`

	// Agent defaults, fixed at spawn
	Speed            float64 `json:"speed" yaml:"speed"`
	RotationRate     float64 `json:"rotationRate" yaml:"rotationRate"`
	ViewRadius       float64 `json:"viewRadius" yaml:"viewRadius"`
	SeparationRadius float64 `json:"separationRadius" yaml:"separationRadius"`

	// Rule weights, each multiplied by rotationRate * dt
	CohesionWeight   float64 `json:"cohesionWeight" yaml:"cohesionWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight" yaml:"alignmentWeight"`
	SeparationWeight float64 `json:"separationWeight" yaml:"separationWeight"`
	ManualWeight     float64 `json:"manualWeight" yaml:"manualWeight"`

	// Runtime
	Workers   int     `json:"workers" yaml:"workers"`     // goroutines per rule, 1 = sequential
	Seed      uint64  `json:"seed" yaml:"seed"`           // 0 picks a random seed
	TimeScale float64 `json:"timeScale" yaml:"timeScale"` // initial simulation speed multiplier

	// Visualization
	DisplayDebugTargets bool `json:"displayDebugTargets" yaml:"displayDebugTargets"`
	DisplayRadii        bool `json:"displayRadii" yaml:"displayRadii"`
}

func DefaultConfig() *Config {
	p := flock.DefaultParams()
	w := flock.DefaultWeights()
	return &Config{
		WorldWidth:       1000,
		WorldHeight:      800,
		InitialAgents:    150,
		Speed:            p.Speed,
		RotationRate:     p.RotationRate,
		ViewRadius:       p.ViewRadius,
		SeparationRadius: p.SeparationRadius,
		CohesionWeight:   w.Cohesion,
		AlignmentWeight:  w.Alignment,
		SeparationWeight: w.Separation,
		ManualWeight:     w.Manual,
		Workers:          1,
		TimeScale:        1.0,
	}
}

// LoadConfig loads configuration from a JSON or YAML file and validates it against the schema.
// Fields missing from the file keep their DefaultConfig value.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File, normalized to JSON bytes
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	b, err := toJSON(configFile, raw)
	if err != nil {
		return nil, err
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal on top of the defaults
	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// toJSON converts YAML documents to JSON so both formats go through the same schema.
func toJSON(name string, raw []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		var v interface{}
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to convert config yaml: %w", err)
		}
		return b, nil
	default:
		return raw, nil
	}
}

// Validate checks the cross-field rules the schema cannot express.
func (c *Config) Validate() error {
	if err := c.FlockSettings().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.InitialAgents < 0 {
		return fmt.Errorf("%w: initialAgents %d is negative", ErrInvalidConfig, c.InitialAgents)
	}
	if !(c.TimeScale > 0) {
		return fmt.Errorf("%w: timeScale must be positive, got %v", ErrInvalidConfig, c.TimeScale)
	}
	if c.SeparationRadius > c.ViewRadius {
		return fmt.Errorf("%w: separationRadius %v exceeds viewRadius %v", ErrInvalidConfig, c.SeparationRadius, c.ViewRadius)
	}
	return nil
}

// FlockSettings maps the config onto the flock's fixed inputs.
func (c *Config) FlockSettings() flock.Settings {
	return flock.Settings{
		Bounds: flock.Bounds{Width: c.WorldWidth, Height: c.WorldHeight},
		Defaults: flock.Params{
			Speed:            c.Speed,
			RotationRate:     c.RotationRate,
			ViewRadius:       c.ViewRadius,
			SeparationRadius: c.SeparationRadius,
		},
		Weights: flock.Weights{
			Cohesion:   c.CohesionWeight,
			Alignment:  c.AlignmentWeight,
			Separation: c.SeparationWeight,
			Manual:     c.ManualWeight,
		},
	}
}

// FlockOptions maps the runtime part of the config onto flock options.
func (c *Config) FlockOptions(logger log.Logger) []flock.Option {
	opts := []flock.Option{
		flock.WithLogger(logger),
		flock.WithWorkers(c.Workers),
		// recorded unconditionally so the debug overlay can be toggled at runtime
		flock.WithDebugTargets(true),
	}
	if c.Seed != 0 {
		opts = append(opts, flock.WithSeed(c.Seed))
	}
	return opts
}
