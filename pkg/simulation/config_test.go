package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaPath = "../../config/config.schema.json"

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	s := cfg.FlockSettings()
	assert.Equal(t, flock.DefaultParams(), s.Defaults)
	assert.Equal(t, flock.DefaultWeights(), s.Weights)
	assert.Equal(t, flock.Bounds{Width: 1000, Height: 800}, s.Bounds)
}

func TestLoadConfig_ShippedFiles(t *testing.T) {
	cfg, err := LoadConfig("../../config/config.json", schemaPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig("../../config/headless.yaml", schemaPath)
	require.NoError(t, err)
	assert.Equal(t, 2000, cfg.InitialAgents)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, uint64(1987), cfg.Seed)
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "partial.json", `{"worldWidth": 640, "initialAgents": 12, "alignmentWeight": 0}`)

	cfg, err := LoadConfig(path, schemaPath)
	require.NoError(t, err)

	want := DefaultConfig()
	want.WorldWidth = 640
	want.InitialAgents = 12
	want.AlignmentWeight = 0
	assert.Equal(t, want, cfg)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, "flock.yml", "worldHeight: 480\nviewRadius: 80\nseparationRadius: 25\ndisplayRadii: true\n")

	cfg, err := LoadConfig(path, schemaPath)
	require.NoError(t, err)
	assert.Equal(t, 480.0, cfg.WorldHeight)
	assert.Equal(t, 80.0, cfg.ViewRadius)
	assert.Equal(t, 25.0, cfg.SeparationRadius)
	assert.True(t, cfg.DisplayRadii)
}

func TestLoadConfig_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown field", "c.json", `{"maxSpeed": 4}`},
		{"wrong type", "c.json", `{"worldWidth": "wide"}`},
		{"non positive world", "c.json", `{"worldHeight": 0}`},
		{"negative weight", "c.yaml", "cohesionWeight: -1\n"},
		{"fractional agents", "c.json", `{"initialAgents": 2.5}`},
		{"malformed json", "c.json", `{"worldWidth": `},
		{"malformed yaml", "c.yaml", "worldWidth: [1, 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.content), schemaPath)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFiles(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"), schemaPath)
	assert.Error(t, err)

	path := writeConfig(t, "ok.json", `{}`)
	_, err = LoadConfig(path, filepath.Join(t.TempDir(), "nope.schema.json"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.WorldWidth = 0 }},
		{"negative agents", func(c *Config) { c.InitialAgents = -1 }},
		{"zero time scale", func(c *Config) { c.TimeScale = 0 }},
		{"zero view radius", func(c *Config) { c.ViewRadius = 0 }},
		{"separation wider than view", func(c *Config) { c.SeparationRadius = c.ViewRadius + 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestConfig_FlockOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7

	f, err := flock.New(cfg.FlockSettings(), cfg.FlockOptions(nil)...)
	require.NoError(t, err)

	_, err = f.Spawn(geometry.Vector2D{X: cfg.WorldWidth / 2, Y: cfg.WorldHeight / 2})
	require.NoError(t, err)
	require.True(t, f.Step(0.1, flock.SteerNone))
	assert.NotNil(t, f.Targets(), "debug targets are always recorded")
}
