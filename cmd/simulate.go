// File: cmd/simulate.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/xkilldash9x/openfield/internal/config"
	"github.com/xkilldash9x/openfield/internal/observability"
	"github.com/xkilldash9x/openfield/internal/render"
	"github.com/xkilldash9x/openfield/internal/report"
	"github.com/xkilldash9x/openfield/internal/walk"
)

type simulateOptions struct {
	plot       bool
	video      bool
	exportPath string
	format     string
}

// addWalkFlags registers the flags shared by simulate and batch.
func addWalkFlags(fs *pflag.FlagSet) {
	fs.String("variant", "", "walker variant: gated or continuous")
	fs.Int("steps", 0, "number of simulation steps")
	fs.Int64("seed", 0, "random seed (0 derives one from the clock)")
	annotate(fs, "variant", "simulation.variant")
	annotate(fs, "steps", "simulation.steps")
	annotate(fs, "seed", "simulation.seed")
}

func newSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one random walk, print its statistics, and render the plot and video.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return runSimulate(cmd.Context(), cfg, opts, cmd.OutOrStdout(), observability.GetLogger())
		},
	}

	fs := cmd.Flags()
	addWalkFlags(fs)
	fs.String("output-dir", "", "directory for the plot and video")
	annotate(fs, "output-dir", "render.output_dir")
	fs.BoolVar(&opts.plot, "plot", true, "write the trajectory plot")
	fs.BoolVar(&opts.video, "video", true, "write the MJPEG video")
	fs.StringVar(&opts.exportPath, "export", "", "write the trajectory to a .json or .csv file")
	fs.StringVar(&opts.format, "format", "text", "report format: text or json")
	return cmd
}

func runSimulate(ctx context.Context, cfg config.Interface, opts *simulateOptions, out io.Writer, logger *zap.Logger) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unsupported report format %q (want text or json)", opts.format)
	}

	engine, err := walk.New(cfg.WalkConfig(), logger.Named("walk"))
	if err != nil {
		return err
	}
	res, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	summary := report.NewSummary(res)
	if opts.format == "json" {
		err = report.WriteJSON(out, summary)
	} else {
		err = report.WriteText(out, summary)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if opts.exportPath != "" {
		if err := exportTrajectory(opts.exportPath, res); err != nil {
			return err
		}
		logger.Info("Trajectory exported", zap.String("path", opts.exportPath))
	}

	// Rendering reads the finished result; its failures never touch the report above.
	if err := renderOutputs(ctx, cfg.Render(), res, opts, logger.Named("render")); err != nil {
		logger.Error("Rendering failed", zap.Error(err))
		return err
	}
	return nil
}

func exportTrajectory(path string, res *walk.Result) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("failed to expand export path: %w", err)
	}
	format, err := report.FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := report.ExportTrajectory(f, format, res); err != nil {
		f.Close()
		return fmt.Errorf("failed to export trajectory: %w", err)
	}
	return f.Close()
}

// outputPath joins dir and file unless file is absolute, then expands "~".
func outputPath(dir, file string) (string, error) {
	p := file
	if !filepath.IsAbs(file) {
		p = filepath.Join(dir, file)
	}
	return homedir.Expand(p)
}

func renderOutputs(ctx context.Context, rc config.RenderConfig, res *walk.Result, opts *simulateOptions, logger *zap.Logger) error {
	if !opts.plot && !opts.video {
		return nil
	}
	if len(res.Records) == 0 {
		logger.Warn("Nothing to render for an empty run")
		return nil
	}
	dir, err := homedir.Expand(rc.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to expand output dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	var errs []error
	if opts.plot {
		if err := writePlot(dir, rc, res); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("Trajectory plot written", zap.String("file", rc.PlotFile))
		}
	}
	if opts.video {
		if err := writeVideo(ctx, dir, rc, res, logger); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("Video written", zap.String("file", rc.VideoFile))
		}
	}
	return errors.Join(errs...)
}

func writePlot(dir string, rc config.RenderConfig, res *walk.Result) error {
	path, err := outputPath(dir, rc.PlotFile)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	plotOpts := render.PlotOptions{Width: rc.PlotSize, Height: rc.PlotSize}
	if err := render.PlotTrajectory(f, res.Trajectory, res.Arena, plotOpts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeVideo(ctx context.Context, dir string, rc config.RenderConfig, res *walk.Result, logger *zap.Logger) error {
	frameOpts, err := rc.FrameOptions()
	if err != nil {
		return err
	}
	renderer, err := render.NewFrameRenderer(res.Arena, frameOpts)
	if err != nil {
		return err
	}
	path, err := outputPath(dir, rc.VideoFile)
	if err != nil {
		return err
	}
	sink, err := render.NewAVISink(path, renderer.Size(), rc.FPS)
	if err != nil {
		return err
	}

	_, encErr := render.NewVideoEncoder(renderer, rc.JPEGQuality, logger).Encode(ctx, sink, res)
	closeErr := sink.Close()
	if encErr != nil {
		return encErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to finalize video: %w", closeErr)
	}
	return nil
}
