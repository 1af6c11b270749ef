package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/meshwall/internal/framestore"
	"github.com/MeKo-Tech/meshwall/internal/pipeline"
	"github.com/MeKo-Tech/meshwall/internal/worker"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render an animation frame sequence",
	Long: `Render a sequence of animation frames of one generated mesh, either as
numbered PNG files in the output directory or into a SQLite frame archive.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().String("size", "1920x1080", "Frame size WIDTHxHEIGHT")
	renderCmd.Flags().IntP("frames", "n", 60, "Number of frames to render")
	renderCmd.Flags().Duration("interval", 0, "Animation time between frames (default: the configured frame rate)")
	renderCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	renderCmd.Flags().Int64("seed", 0, "Seed for point sampling (0 picks one from the clock)")
	renderCmd.Flags().String("archive", "", "Write frames into this SQLite archive instead of the output directory")
	renderCmd.Flags().Bool("force", false, "Overwrite existing frame files")
	renderCmd.Flags().Bool("progress", true, "Show progress bar")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"render.size", "size"},
		{"render.frames", "frames"},
		{"render.interval", "interval"},
		{"render.workers", "workers"},
		{"render.seed", "seed"},
		{"render.archive", "archive"},
		{"render.force", "force"},
		{"render.progress", "progress"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, renderCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	width, height, err := parseSize(viper.GetString("render.size"))
	if err != nil {
		return err
	}
	frames := viper.GetInt("render.frames")
	if frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", frames)
	}
	workers := viper.GetInt("render.workers")
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	seed := viper.GetInt64("render.seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	archivePath := viper.GetString("render.archive")
	outputDir := viper.GetString("output-dir")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	interval := viper.GetDuration("render.interval")
	if interval <= 0 {
		interval = cfg.FrameInterval()
	}

	m, err := pipeline.GenerateMesh(cfg, width, height, seed)
	if err != nil {
		return err
	}
	stats := m.Stats()

	logger.Info("Starting frame rendering",
		"size", fmt.Sprintf("%dx%d", width, height),
		"frames", frames,
		"interval", interval,
		"workers", workers,
		"seed", seed,
		"dots", stats.Dots,
		"lines", stats.Lines,
		"shapes", stats.Shapes,
	)

	opts := pipeline.Options{
		Config:     cfg,
		Mesh:       m,
		Width:      width,
		Height:     height,
		OutputDir:  outputDir,
		ClockStart: time.Now(),
		Seed:       seed,
		Force:      viper.GetBool("render.force"),
		Logger:     logger,
	}

	var archive *framestore.Writer
	if archivePath != "" {
		cfgJSON, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		archive, err = framestore.New(archivePath, framestore.Metadata{
			Name:        "meshwall",
			Format:      "png",
			Description: fmt.Sprintf("%d frames, seed %d", frames, seed),
			Version:     "1",
			Config:      string(cfgJSON),
			Width:       width,
			Height:      height,
			Interval:    interval,
		})
		if err != nil {
			return fmt.Errorf("failed to create archive: %w", err)
		}
		defer archive.Close() // nolint:errcheck
		opts.Sink = archive
		logger.Info("Frame archive created", "path", archivePath)
	}

	gen, err := pipeline.NewFrameGenerator(opts)
	if err != nil {
		return fmt.Errorf("failed to init generator: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tasks := pipeline.Tasks(frames, interval)
	progress := worker.NewProgress(len(tasks), viper.GetBool("render.progress"))
	pool := worker.New(worker.Config{
		Workers:    workers,
		Generator:  gen,
		OnProgress: progress.Callback(),
	})

	results := pool.Run(ctx, tasks)
	progress.Done()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("Frame rendering failed", "frame", r.Task.Index, "error", r.Err)
		}
	}
	logger.Info(progress.Summary())

	if archive != nil {
		logger.Info("Flushing frame archive...")
		if err := archive.Close(); err != nil {
			return fmt.Errorf("failed to close archive: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rendering interrupted: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d frames failed", failed, len(tasks))
	}
	return nil
}
