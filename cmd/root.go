// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/naka-gawa/top-repos/internal/config"
	"github.com/spf13/cobra"
)

// errAlerted marks failures that were already shown to the user.
var errAlerted = errors.New("alerted")

func alerted(err error) error {
	return fmt.Errorf("%w: %w", errAlerted, err)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "top-repos",
		Short: "A CLI client for a ranked repository list and its commit activity.",
		Long: `top-repos fetches the top 100 repository ranking from a ranking server
and, on demand, the per-day commit activity of a listed repository
within a date range.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Persistent flags, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringP("server", "s", config.DefaultServer, "Base URL of the ranking server (env "+config.EnvServer+")")
	rootCmd.PersistentFlags().StringP("format", "f", config.DefaultFormat, "Output format: text, json or html")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per-request timeout, 0 for none (env "+config.EnvTimeout+")")
	rootCmd.PersistentFlags().Int("concurrency", config.DefaultConcurrency, "Parallel activity requests when loading every repository")

	rootCmd.AddCommand(newTopCmd(), newActivityCmd(), newBrowseCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// A second interrupt gets the default behavior and kills the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		if !errors.Is(err, errAlerted) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
