// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/handoff/internal/server"
	"github.com/pdiddy/handoff/internal/session"
	"github.com/pdiddy/handoff/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the handoff entry form",
	Long: `Serve starts the web form. Each browser session keeps its own ordered
list of patients in memory; the list is lost when the server stops or after
the session sits idle for --session-ttl. A session starts with its first
added patient.

Downloading the report writes the PDF to the output directory and streams it
back as handoff_dual_column.pdf. By default every session writes the same
file, so the file on disk holds the latest download; each download still
receives its own session's report. Use --per-session to keep one file per
session.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("output-dir", ".", "directory for generated reports")
	serveCmd.Flags().Bool("per-session", false, "write one report file per session")
	serveCmd.Flags().Duration("session-ttl", types.DefaultSessionTTL, "drop sessions idle for this long (0 keeps them until exit)")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("output.dir", serveCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("output.per_session", serveCmd.Flags().Lookup("per-session"))
	viper.BindPFlag("server.session_ttl", serveCmd.Flags().Lookup("session-ttl"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, session.NewStore(cfg.Server.SessionTTL), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("output_dir", cfg.Output.Dir).
		Bool("per_session", cfg.Output.PerSession).
		Dur("session_ttl", cfg.Server.SessionTTL).
		Msg("Starting handoff")
	return srv.ListenAndServe(ctx)
}
