package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/denis-hade/hade-avatar-server/internal/config"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "hadectl",
	Short: "Operator tool for the avatar relay",
	Long: `hadectl talks to the relay's upstreams with the relay's own configuration,
for checking credentials and settings without starting the server.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $HADE_CONFIG or config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log upstream calls to stderr")
}

func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func newLogger() *slog.Logger {
	var w io.Writer = io.Discard
	if verbose {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, nil))
}
