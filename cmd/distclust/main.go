package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ludo-technologies/distclust/internal/version"
	"github.com/ludo-technologies/distclust/service"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. The root command clusters its input so
// that the original "distclust --input f --cutoff 0.03" form keeps working.
func newRootCmd() *cobra.Command {
	cluster := NewClusterCommand()
	rootCmd := cluster.CreateCobraCommand()
	rootCmd.Version = version.Short()
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&cluster.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}

// reportError prints err with its category and recovery suggestions
func reportError(w io.Writer, err error) {
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)
	fmt.Fprintf(w, "Error: %v\n", err)
	if categorized == nil {
		return
	}
	fmt.Fprintf(w, "\n%s: %s\n", categorized.Category, categorized.Message)
	for _, suggestion := range categorizer.GetRecoverySuggestions(categorized.Category) {
		fmt.Fprintf(w, "  • %s\n", suggestion)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
		stop()
		os.Exit(1)
	}
}
