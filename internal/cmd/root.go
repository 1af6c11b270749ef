package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/meshwall/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "meshwall",
	Short: "An animated low-poly mesh wallpaper",
	Long: `Meshwall renders a procedural wallpaper: a field of points joined into a
sparse mesh of lines and translucent triangles, colored along a rainbow and
gently animated.

It can serve the live animation over HTTP, render frame sequences to a
folder or a SQLite archive, and export single frames as PNG or SVG.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("output-dir", "./frames", "Output directory for rendered frames")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	if err := viper.BindPFlag("output-dir", rootCmd.PersistentFlags().Lookup("output-dir")); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
	if err := viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format")); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("MESHWALL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := config.SetDefaults(viper.GetViper()); err != nil {
		panic(err)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// loadConfig reads the mesh section and logs every corrected value.
func loadConfig() (config.Config, error) {
	cfg, warnings, err := config.Load(viper.GetViper())
	if err != nil {
		return cfg, err
	}
	for _, w := range warnings {
		logger.Warn("Config value adjusted", "detail", w)
	}
	return cfg, nil
}
