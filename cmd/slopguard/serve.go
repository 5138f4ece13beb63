package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/slopguard/slopguard/internal/logger"
	"github.com/slopguard/slopguard/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Run the MCP server on stdio",
	Long: `Serve exposes check_slop and check_slop_file as MCP tools over the
stdio transport. Logs go to stderr; stdout carries JSON-RPC only. When
--rules is set, the file is watched and hot-reloaded on change.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("rules", "c", "", "fitted rules file (JSONL) to score with")
	serveCmd.Flags().String("log-level", "info", "log level (debug|info|warn|error)")
	serveCmd.Flags().String("log-format", "console", "log format (console|json)")
}

func runServe(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	rulesPath, _ := flags.GetString("rules")
	logLevel, _ := flags.GetString("log-level")
	logFormat, _ := flags.GetString("log-format")

	log, err := logger.New(logger.Config{Level: logLevel, Format: logFormat})
	if err != nil {
		return err
	}
	defer log.Sync()

	hp, err := loadHyperparameters(cmd)
	if err != nil {
		return err
	}
	srv, err := server.New(server.Options{
		RulesPath: rulesPath,
		Hyper:     hp,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
