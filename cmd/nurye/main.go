package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nurye/shop/internal/app"
)

var (
	// Global flags
	configPath  string
	prefsPath   string
	verbose     bool
	pollSeconds int
	timeout     time.Duration
)

// rootCmd runs the storefront TUI.
var rootCmd = &cobra.Command{
	Use:   "nurye",
	Short: "Nurye Shop in your terminal",
	Long: `Browse the Nurye Shop catalog, search products and manage your cart
from the terminal.

Run without arguments to open the storefront. The cart is stored locally
and shared with the cart subcommands.`,
	SilenceUsage: true,
	RunE:         runStorefront,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/nurye/config.toml)")
	rootCmd.PersistentFlags().StringVar(&prefsPath, "prefs", "", "preferences file (default ~/.config/nurye/prefs.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "Backend request timeout for subcommands")
	rootCmd.Flags().IntVar(&pollSeconds, "poll", 0, "home refresh interval in seconds (default from config)")

	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(logsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nurye: %v\n", err)
		os.Exit(1)
	}
}

func runStorefront(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return app.Run(ctx, appOptions())
}

func appOptions() app.Options {
	return app.Options{
		ConfigPath: configPath,
		PrefsPath:  prefsPath,
		PollEvery:  pollSeconds,
		Verbose:    verbose,
	}
}

// openEnv builds the shared services for a one-shot subcommand.
func openEnv() (*app.Env, error) {
	return app.Open(appOptions())
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
