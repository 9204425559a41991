package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/foxxcyber/bid-pricing/internal/config"
	"github.com/foxxcyber/bid-pricing/internal/logger"
)

var (
	// Global flags
	verbose bool

	cfg  *config.Config
	logg *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pricectl",
	Short: "Bid pricing operations from the command line",
	Long: `pricectl drafts and reconciles bid pricing without the HTTP server.

Configuration is read from BIDPRICING_* environment variables and an
optional .env file, the same as the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		level := logger.ParseLevel(cfg.App.LogLevel)
		if verbose {
			level = logger.ParseLevel("debug")
		}
		logg = logger.New(logger.Options{
			ServiceName: "pricectl",
			Level:       level,
			Format:      "console",
			Output:      cmd.ErrOrStderr(),
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(reconcileCmd, priceCmd, migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
