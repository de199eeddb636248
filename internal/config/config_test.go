// File: internal/config/config_test.go
package config

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/openfield/internal/walk"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "openfield", cfg.Logger().ServiceName)
	assert.Equal(t, 100.0, cfg.Arena().Size)
	assert.Equal(t, 5.0, cfg.Arena().AgentSize)
	assert.Equal(t, 20.0, cfg.Arena().OuterAreaSize)
	assert.Equal(t, 5.56, cfg.Motion().MeanStepLength)
	assert.Equal(t, 0.7, cfg.Motion().StillProbability)
	assert.Equal(t, 1000, cfg.Simulation().Steps)
	assert.Equal(t, "gated", cfg.Simulation().Variant)
	assert.Equal(t, time.Second, cfg.Simulation().ProgressInterval)
	assert.Equal(t, 20, cfg.Render().FPS)
	assert.Equal(t, "random_walk_box.avi", cfg.Render().VideoFile)
	assert.Equal(t, 10, cfg.Batch().Runs)

	require.NoError(t, cfg.Validate(), "defaults must be valid")
}

func TestWalkConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SimulationCfg.Seed = 99

	wc := cfg.WalkConfig()
	assert.Equal(t, walk.DefaultArena(), wc.Arena)
	assert.Equal(t, walk.DefaultMotion(), wc.Motion)
	assert.Equal(t, walk.VariantGated, wc.Variant)
	assert.Equal(t, int64(99), wc.Seed)
	assert.Equal(t, 1000, wc.Steps)
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Walk parameters surface a ConfigError", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*Config)
			field  string
		}{
			{"agent larger than arena", func(c *Config) { c.ArenaCfg.AgentSize = 200 }, "arena.agent_size"},
			{"outer zone too wide", func(c *Config) { c.ArenaCfg.OuterAreaSize = 60 }, "arena.outer_area_size"},
			{"negative speed spread", func(c *Config) { c.MotionCfg.SpeedSpread = -1 }, "motion.speed_spread"},
			{"probability above one", func(c *Config) { c.MotionCfg.StillProbability = 1.5 }, "motion.still_probability"},
			{"unknown variant", func(c *Config) { c.SimulationCfg.Variant = "levy" }, "simulation.variant"},
			{"negative seed", func(c *Config) { c.SimulationCfg.Seed = -1 }, "simulation.seed"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := NewDefaultConfig()
				tt.mutate(cfg)

				err := cfg.Validate()
				require.Error(t, err)
				var cfgErr *walk.ConfigError
				require.True(t, errors.As(err, &cfgErr), "expected a ConfigError, got %T", err)
				assert.Equal(t, tt.field, cfgErr.Field)
			})
		}
	})

	t.Run("Simulation and batch bounds", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.SimulationCfg.Steps = -1
		assert.ErrorContains(t, cfg.Validate(), "simulation.steps must be non-negative")

		cfg = NewDefaultConfig()
		cfg.SimulationCfg.Steps = 0
		assert.NoError(t, cfg.Validate(), "zero steps is a valid, empty run")

		cfg = NewDefaultConfig()
		cfg.BatchCfg.Concurrency = 0
		assert.ErrorContains(t, cfg.Validate(), "batch.concurrency must be a positive integer")

		cfg = NewDefaultConfig()
		cfg.BatchCfg.Runs = -3
		assert.ErrorContains(t, cfg.Validate(), "batch.runs must be a positive integer")
	})

	t.Run("Render Validation", func(t *testing.T) {
		valid := NewDefaultConfig().RenderCfg
		assert.NoError(t, valid.Validate())

		badQuality := valid
		badQuality.JPEGQuality = 101
		assert.ErrorContains(t, badQuality.Validate(), "jpeg_quality must be between 1 and 100")

		badFPS := valid
		badFPS.FPS = 0
		assert.ErrorContains(t, badFPS.Validate(), "fps must be a positive integer")

		badColor := valid
		badColor.AgentColor = "green"
		assert.ErrorContains(t, badColor.Validate(), "agent_color")

		badScale := valid
		badScale.ScaleFactor = 0
		assert.ErrorContains(t, badScale.Validate(), "scale_factor must be positive")

		badPlot := valid
		badPlot.PlotSize = 100000
		assert.ErrorContains(t, badPlot.Validate(), "plot_size must be between 1 and 4096")
	})

	t.Run("Frame size is bounded by arena and scale", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.RenderCfg.ScaleFactor = 1000
		assert.ErrorContains(t, cfg.Validate(), "exceeds the 4096 px limit")

		cfg = NewDefaultConfig()
		cfg.ArenaCfg.Size = 500
		cfg.RenderCfg.ScaleFactor = 9
		assert.ErrorContains(t, cfg.Validate(), "render configuration invalid")

		cfg = NewDefaultConfig()
		cfg.RenderCfg.ScaleFactor = 40.96
		assert.NoError(t, cfg.Validate(), "exactly the limit is allowed")
	})
}

func TestFrameOptions(t *testing.T) {
	rc := NewDefaultConfig().RenderCfg
	opts, err := rc.FrameOptions()
	require.NoError(t, err)
	assert.Equal(t, 10.0, opts.ScaleFactor)
	assert.Equal(t, 2, opts.BorderWidth)
	assert.True(t, opts.Label)

	r, g, b, _ := opts.Agent.RGBA()
	assert.Equal(t, [3]uint32{0, 0xffff, 0}, [3]uint32{r, g, b})
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
arena:
  size: 200
  outer_area_size: 40
simulation:
  steps: 250
  variant: continuous
  progress_interval: 250ms
batch:
  concurrency: 2
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, 200.0, cfg.Arena().Size)
		assert.Equal(t, 40.0, cfg.Arena().OuterAreaSize)
		assert.Equal(t, 250, cfg.Simulation().Steps)
		assert.Equal(t, "continuous", cfg.Simulation().Variant)
		assert.Equal(t, 250*time.Millisecond, cfg.Simulation().ProgressInterval)
		assert.Equal(t, 2, cfg.Batch().Concurrency)
		// Untouched keys keep their defaults.
		assert.Equal(t, 5.0, cfg.Arena().AgentSize)
		assert.Equal(t, "info", cfg.Logger().Level)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("motion.mean_speed", 0)

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "motion.mean_speed")
	})

	t.Run("Environment Variable Binding", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBufferString("simulation:\n  steps: 300\n")))

		t.Setenv("OPENFIELD_SIMULATION_STEPS", "42")
		t.Setenv("OPENFIELD_SIMULATION_SEED", "1234")
		BindEnvironment(v)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, 42, cfg.Simulation().Steps, "env overrides the config file")
		assert.Equal(t, int64(1234), cfg.Simulation().Seed)
	})
}
