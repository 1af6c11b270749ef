package cmd

import (
	"log/slog"

	"github.com/spf13/viper"

	applog "github.com/MeKo-Tech/meshwall/internal/logger"
)

var logger *slog.Logger

func initLogging() {
	cfg := applog.DefaultConfig()
	if viper.GetBool("verbose") {
		cfg.Level = slog.LevelDebug
	}
	if format := viper.GetString("log-format"); format != "" {
		cfg.Format = format
	}
	logger = applog.New(cfg)
	slog.SetDefault(logger)
}
