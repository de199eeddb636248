// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/openfield/internal/render"
	"github.com/xkilldash9x/openfield/internal/walk"
)

// Interface defines read access to the application configuration so commands
// can be tested against a hand-built config.
type Interface interface {
	Logger() LoggerConfig
	Arena() ArenaConfig
	Motion() MotionConfig
	Simulation() SimulationConfig
	Render() RenderConfig
	Batch() BatchConfig
	WalkConfig() walk.Config
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	ArenaCfg      ArenaConfig      `mapstructure:"arena" yaml:"arena"`
	MotionCfg     MotionConfig     `mapstructure:"motion" yaml:"motion"`
	SimulationCfg SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	RenderCfg     RenderConfig     `mapstructure:"render" yaml:"render"`
	BatchCfg      BatchConfig      `mapstructure:"batch" yaml:"batch"`
}

func (c *Config) Logger() LoggerConfig         { return c.LoggerCfg }
func (c *Config) Arena() ArenaConfig           { return c.ArenaCfg }
func (c *Config) Motion() MotionConfig         { return c.MotionCfg }
func (c *Config) Simulation() SimulationConfig { return c.SimulationCfg }
func (c *Config) Render() RenderConfig         { return c.RenderCfg }
func (c *Config) Batch() BatchConfig           { return c.BatchCfg }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig maps log levels to terminal color names.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// ArenaConfig is the square enclosure, in centimeters.
type ArenaConfig struct {
	Size          float64 `mapstructure:"size" yaml:"size"`
	AgentSize     float64 `mapstructure:"agent_size" yaml:"agent_size"`
	OuterAreaSize float64 `mapstructure:"outer_area_size" yaml:"outer_area_size"`
}

// MotionConfig holds the Gaussian parameters of a step.
type MotionConfig struct {
	MeanStepLength   float64 `mapstructure:"mean_step_length" yaml:"mean_step_length"`
	StepLengthSpread float64 `mapstructure:"step_length_spread" yaml:"step_length_spread"`
	MeanSpeed        float64 `mapstructure:"mean_speed" yaml:"mean_speed"`
	SpeedSpread      float64 `mapstructure:"speed_spread" yaml:"speed_spread"`
	StillProbability float64 `mapstructure:"still_probability" yaml:"still_probability"`
	MinSpeed         float64 `mapstructure:"min_speed" yaml:"min_speed"`
}

// SimulationConfig controls a single run.
type SimulationConfig struct {
	Steps int `mapstructure:"steps" yaml:"steps"`
	// Seed 0 derives the seed from the clock.
	Seed             int64         `mapstructure:"seed" yaml:"seed"`
	Variant          string        `mapstructure:"variant" yaml:"variant"`
	ProgressInterval time.Duration `mapstructure:"progress_interval" yaml:"progress_interval"`
}

// RenderConfig holds plot and video output settings. Colors are "#rrggbb".
type RenderConfig struct {
	ScaleFactor     float64 `mapstructure:"scale_factor" yaml:"scale_factor"`
	FPS             int     `mapstructure:"fps" yaml:"fps"`
	JPEGQuality     int     `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
	OutputDir       string  `mapstructure:"output_dir" yaml:"output_dir"`
	VideoFile       string  `mapstructure:"video_file" yaml:"video_file"`
	PlotFile        string  `mapstructure:"plot_file" yaml:"plot_file"`
	PlotSize        int     `mapstructure:"plot_size" yaml:"plot_size"`
	LabelFrames     bool    `mapstructure:"label_frames" yaml:"label_frames"`
	AgentColor      string  `mapstructure:"agent_color" yaml:"agent_color"`
	BorderColor     string  `mapstructure:"border_color" yaml:"border_color"`
	BackgroundColor string  `mapstructure:"background_color" yaml:"background_color"`
	BorderWidth     int     `mapstructure:"border_width" yaml:"border_width"`
}

// BatchConfig controls parallel independent runs.
type BatchConfig struct {
	Runs        int `mapstructure:"runs" yaml:"runs"`
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "openfield")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Arena --
	arena := walk.DefaultArena()
	v.SetDefault("arena.size", arena.Size)
	v.SetDefault("arena.agent_size", arena.AgentSize)
	v.SetDefault("arena.outer_area_size", arena.OuterAreaSize)

	// -- Motion --
	motion := walk.DefaultMotion()
	v.SetDefault("motion.mean_step_length", motion.MeanStepLength)
	v.SetDefault("motion.step_length_spread", motion.StepLengthSpread)
	v.SetDefault("motion.mean_speed", motion.MeanSpeed)
	v.SetDefault("motion.speed_spread", motion.SpeedSpread)
	v.SetDefault("motion.still_probability", motion.StillProbability)
	v.SetDefault("motion.min_speed", motion.MinSpeed)

	// -- Simulation --
	v.SetDefault("simulation.steps", 1000)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.variant", string(walk.VariantGated))
	v.SetDefault("simulation.progress_interval", "1s")

	// -- Render --
	v.SetDefault("render.scale_factor", 10.0)
	v.SetDefault("render.fps", 20)
	v.SetDefault("render.jpeg_quality", 90)
	v.SetDefault("render.output_dir", ".")
	v.SetDefault("render.video_file", "random_walk_box.avi")
	v.SetDefault("render.plot_file", "random_walk.png")
	v.SetDefault("render.plot_size", 800)
	v.SetDefault("render.label_frames", true)
	v.SetDefault("render.agent_color", "#00ff00")
	v.SetDefault("render.border_color", "#ffffff")
	v.SetDefault("render.background_color", "#000000")
	v.SetDefault("render.border_width", 2)

	// -- Batch --
	v.SetDefault("batch.runs", 10)
	v.SetDefault("batch.concurrency", 4)
}

// EnvPrefix is prepended to every environment override, e.g. OPENFIELD_SIMULATION_STEPS.
const EnvPrefix = "OPENFIELD"

// BindEnvironment lets environment variables override any registered key.
func BindEnvironment(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values. Arena and motion errors
// wrap a *walk.ConfigError.
func (c *Config) Validate() error {
	if err := c.WalkArena().Validate(); err != nil {
		return err
	}
	if err := c.WalkMotion().Validate(); err != nil {
		return err
	}
	if c.SimulationCfg.Steps < 0 {
		return fmt.Errorf("simulation.steps must be non-negative")
	}
	if err := walk.ValidateSeed(c.SimulationCfg.Seed); err != nil {
		return err
	}
	if _, err := walk.PolicyFor(walk.Variant(c.SimulationCfg.Variant), c.WalkMotion()); err != nil {
		return err
	}
	if c.SimulationCfg.ProgressInterval < 0 {
		return fmt.Errorf("simulation.progress_interval must not be negative")
	}
	if err := c.RenderCfg.Validate(); err != nil {
		return fmt.Errorf("render configuration invalid: %w", err)
	}
	if _, err := render.FrameSize(c.WalkArena(), c.RenderCfg.ScaleFactor); err != nil {
		return fmt.Errorf("render configuration invalid: %w", err)
	}
	if c.BatchCfg.Runs <= 0 {
		return fmt.Errorf("batch.runs must be a positive integer")
	}
	if c.BatchCfg.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be a positive integer")
	}
	return nil
}

// Validate checks the render settings, including color syntax.
func (r RenderConfig) Validate() error {
	if !(r.ScaleFactor > 0) {
		return fmt.Errorf("scale_factor must be positive")
	}
	if r.FPS <= 0 {
		return fmt.Errorf("fps must be a positive integer")
	}
	if r.JPEGQuality < 1 || r.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100")
	}
	if r.PlotSize <= 0 || r.PlotSize > render.MaxFrameSize {
		return fmt.Errorf("plot_size must be between 1 and %d", render.MaxFrameSize)
	}
	if r.BorderWidth < 0 {
		return fmt.Errorf("border_width must not be negative")
	}
	if _, err := r.FrameOptions(); err != nil {
		return err
	}
	return nil
}

// FrameOptions converts the render settings into rasterizer options.
func (r RenderConfig) FrameOptions() (render.FrameOptions, error) {
	opts := render.FrameOptions{
		ScaleFactor: r.ScaleFactor,
		BorderWidth: r.BorderWidth,
		Label:       r.LabelFrames,
	}
	var err error
	if opts.Agent, err = render.ParseColor(r.AgentColor); err != nil {
		return opts, fmt.Errorf("agent_color: %w", err)
	}
	if opts.Border, err = render.ParseColor(r.BorderColor); err != nil {
		return opts, fmt.Errorf("border_color: %w", err)
	}
	if opts.Background, err = render.ParseColor(r.BackgroundColor); err != nil {
		return opts, fmt.Errorf("background_color: %w", err)
	}
	return opts, nil
}

// WalkArena converts the arena section to the simulation type.
func (c *Config) WalkArena() walk.ArenaConfig {
	a := c.ArenaCfg
	return walk.ArenaConfig{Size: a.Size, AgentSize: a.AgentSize, OuterAreaSize: a.OuterAreaSize}
}

// WalkMotion converts the motion section to the simulation type.
func (c *Config) WalkMotion() walk.MotionConfig {
	m := c.MotionCfg
	return walk.MotionConfig{
		MeanStepLength:   m.MeanStepLength,
		StepLengthSpread: m.StepLengthSpread,
		MeanSpeed:        m.MeanSpeed,
		SpeedSpread:      m.SpeedSpread,
		StillProbability: m.StillProbability,
		MinSpeed:         m.MinSpeed,
	}
}

// WalkConfig assembles the engine configuration for a single run.
func (c *Config) WalkConfig() walk.Config {
	return walk.Config{
		Arena:            c.WalkArena(),
		Motion:           c.WalkMotion(),
		Variant:          walk.Variant(c.SimulationCfg.Variant),
		Steps:            c.SimulationCfg.Steps,
		Seed:             c.SimulationCfg.Seed,
		ProgressInterval: c.SimulationCfg.ProgressInterval,
	}
}
