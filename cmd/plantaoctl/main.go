package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plantao-ops/internal/client"
	"plantao-ops/internal/config"
	"plantao-ops/internal/logging"
)

var (
	// Global flags
	baseURL string
	token   string
	verbose bool
	timeout time.Duration

	cfg    = config.Load()
	logger *zap.Logger
	api    *client.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "plantaoctl",
	Short: "Operator CLI for the plantão API",
	Long: `plantaoctl talks to a running plantao-ops server.

The server address and token default to API_BASE_URL and API_TOKEN.
Run "plantaoctl login" to obtain a token.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg.SetLogger(logger)
		api = client.New(baseURL, token, client.WithLogger(logger))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "server", cfg.APIBaseURL, "API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", cfg.APIToken, "Bearer token")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", cfg.Debug, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(attemptCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
