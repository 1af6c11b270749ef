package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/MeKo-Tech/meshwall/internal/framestore"
	"github.com/MeKo-Tech/meshwall/internal/scene"
	"github.com/MeKo-Tech/meshwall/internal/schedule"
	"github.com/MeKo-Tech/meshwall/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the live animation and serve it over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().String("size", "1920x1080", "Initial surface size WIDTHxHEIGHT")
	serveCmd.Flags().String("archive", "", "SQLite frame archive to serve under /archive/")
	serveCmd.Flags().Bool("watch", false, "Reload the mesh section when the config file changes")
	serveCmd.Flags().Duration("tick", schedule.DefaultInterval, "Scheduler tick interval")
	serveCmd.Flags().String("cache-control", "no-store", "Cache-Control header for served frames")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("serve.addr", "addr")
	mustBind("serve.size", "size")
	mustBind("serve.archive", "archive")
	mustBind("serve.watch", "watch")
	mustBind("serve.tick", "tick")
	mustBind("serve.cache_control", "cache-control")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	addr := viper.GetString("serve.addr")
	width, height, err := parseSize(viper.GetString("serve.size"))
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sc := scene.New(cfg, scene.WithLogger(logger))
	sc.Resize(width, height)

	sched := schedule.New(schedule.SystemClock{}, viper.GetDuration("serve.tick"), logger)
	sc.Attach(sched)

	srvCfg := server.Config{CacheControl: viper.GetString("serve.cache_control")}
	if path := viper.GetString("serve.archive"); path != "" {
		reader, err := framestore.OpenReader(path)
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer reader.Close() // nolint:errcheck
		srvCfg.Archive = reader
	}

	if viper.GetBool("serve.watch") {
		if viper.ConfigFileUsed() == "" {
			logger.Warn("No config file in use; --watch has nothing to watch")
		} else {
			viper.OnConfigChange(func(e fsnotify.Event) {
				next, err := loadConfig()
				if err != nil {
					logger.Error("Failed to reload config", "file", e.Name, "error", err)
					return
				}
				sc.ApplyConfig(next)
				logger.Info("Config reloaded", "file", e.Name, "op", e.Op.String())
			})
			viper.WatchConfig()
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(sc, srvCfg, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(ctx)
	})
	g.Go(func() error {
		logger.Info("Server listening",
			"addr", addr,
			"size", fmt.Sprintf("%dx%d", width, height),
			"render_mode", cfg.RenderMode,
			"archive", srvCfg.Archive != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
