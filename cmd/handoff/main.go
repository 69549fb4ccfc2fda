// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the handoff CLI: a web form that
// collects surgical handoff records and renders them as a two-column PDF.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/handoff/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// configName is the config file base name searched in the working directory
// and in ~/.config/handoff.
const configName = "handoff"

// envKeyReplacer maps nested keys such as server.addr to HANDOFF_SERVER_ADDR.
var envKeyReplacer = strings.NewReplacer(".", "_")

// logger is configured from --log-level before any subcommand runs.
var logger = zerolog.Nop()

// rootCmd is the base command for the handoff CLI.
var rootCmd = &cobra.Command{
	Use:   "handoff",
	Short: "Structured surgical handoff entry with two-column PDF output",
	Long: `handoff collects per-patient handoff records through a web form and
renders them into a two-column PDF: patients alternate between the left and
right column, and every completed pair advances one fixed-height row.

Use serve for the web form, or render to produce the PDF from a YAML or JSON
records file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		l, err := newLogger(viper.GetString("log.level"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", fmt.Sprintf("config file (default: ./%[1]s.yaml or ~/.config/handoff/%[1]s.yaml)", configName))
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("font-file", "", "UTF-8 TrueType font for the PDF (default: bundled DejaVu Sans Condensed)")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("layout.font_file", rootCmd.PersistentFlags().Lookup("font-file"))

	setDefaults()
}

func setDefaults() {
	l := types.DefaultLayoutConfig()
	viper.SetDefault("layout.left_margin", l.LeftMargin)
	viper.SetDefault("layout.top_margin", l.TopMargin)
	viper.SetDefault("layout.column_width", l.ColumnWidth)
	viper.SetDefault("layout.gutter", l.Gutter)
	viper.SetDefault("layout.row_height", l.RowHeight)
	viper.SetDefault("layout.line_height", l.LineHeight)
	viper.SetDefault("layout.font_size", l.FontSize)
	viper.SetDefault("output.dir", ".")
	viper.SetDefault("output.per_session", false)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.session_ttl", types.DefaultSessionTTL)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "handoff"))
		}
	}

	viper.SetEnvPrefix("HANDOFF")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flag, env, file and default settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Layout = cfg.Layout.WithDefaults()
	return cfg, nil
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })).
		Level(lvl).
		With().Timestamp().Logger(), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
