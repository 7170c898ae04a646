// Command authorid evaluates stacked echo state networks
// on PAN author identification collections.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootDir string

var rootCmd = &cobra.Command{
	Use:   "authorid",
	Short: "Author identification with stacked echo state networks",
	Long: `authorid runs a grid search over the reservoir size and depth of
stacked echo state networks on a TIRA/PAN author identification collection
and reports the macro F1 score of every configuration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "Root directory of the collection")
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(docsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
