package titan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atlasx/titan/physics"
	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	VSync    bool   `yaml:"vsync"`
	Headless bool   `yaml:"headless"`
}

type PhysicsConfig struct {
	FixedTimeStep    float32 `yaml:"fixed_time_step"`
	MaxSubSteps      int     `yaml:"max_sub_steps"`
	SolverIterations int     `yaml:"solver_iterations"`
	CellSize         float32 `yaml:"cell_size"`
	ContactMargin    float32 `yaml:"contact_margin"`
}

// Config is the engine configuration file.
type Config struct {
	Window    WindowConfig  `yaml:"window"`
	Debug     bool          `yaml:"debug"`
	LogPrefix string        `yaml:"log_prefix"`
	AssetRoot string        `yaml:"asset_root"`
	Physics   PhysicsConfig `yaml:"physics"`
}

func DefaultConfig() Config {
	pc := physics.DefaultCollisionConfiguration()
	return Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Titan",
			VSync:  true,
		},
		LogPrefix: "titan",
		Physics: PhysicsConfig{
			FixedTimeStep:    pc.FixedTimeStep,
			MaxSubSteps:      pc.MaxSubSteps,
			SolverIterations: pc.SolverIterations,
			CellSize:         pc.CellSize,
			ContactMargin:    pc.ContactMargin,
		},
	}
}

// LoadConfig reads a YAML config file. Keys missing from the file keep their
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %v: %w", err, ErrFatalSetup)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %v: %w", err, ErrConfig)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d: %w", c.Window.Width, c.Window.Height, ErrConfig)
	}
	p := c.Physics
	if p.FixedTimeStep <= 0 {
		return fmt.Errorf("physics fixed_time_step %v: %w", p.FixedTimeStep, ErrConfig)
	}
	if p.MaxSubSteps < 0 || p.SolverIterations <= 0 {
		return fmt.Errorf("physics max_sub_steps %d, solver_iterations %d: %w", p.MaxSubSteps, p.SolverIterations, ErrConfig)
	}
	if p.CellSize <= 0 || p.ContactMargin < 0 {
		return fmt.Errorf("physics cell_size %v, contact_margin %v: %w", p.CellSize, p.ContactMargin, ErrConfig)
	}
	return nil
}

// CollisionConfiguration converts the physics section for the world.
func (p PhysicsConfig) CollisionConfiguration() physics.CollisionConfiguration {
	return physics.CollisionConfiguration{
		ContactMargin:    p.ContactMargin,
		CellSize:         p.CellSize,
		FixedTimeStep:    p.FixedTimeStep,
		MaxSubSteps:      p.MaxSubSteps,
		SolverIterations: p.SolverIterations,
	}
}
