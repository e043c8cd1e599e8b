package main

import (
	"context"
	"disruption-replay-service/internal/config"
	"disruption-replay-service/internal/platform/logging"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	backendURL string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "demo",
	Short: "Terminal client for the disruption replay backend",
	Long: `Plays the disruption demo in a terminal: the risk feed reveals events one
by one, and selecting one fetches its outcome from the backend and replays it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Configure(logLevel, logFormat, os.Stderr)
	},
}

func main() {
	config.LoadDotEnv()

	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", config.Get("BACKEND_URL", "http://localhost:3000"), "backend base URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.Get("LOG_LEVEL", "info"), "log level")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.Get("LOG_FORMAT", "text"), "log format (text|json)")

	registerPlayFlags()
	rootCmd.AddCommand(playCmd, triggerCmd, recommendCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.WithError(err).Error("demo failed")
		stop()
		os.Exit(1)
	}
}
