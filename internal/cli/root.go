// Package cli contains the RiftRewind commands, built using the Cobra library.
package cli

import (
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "riftrewind",
		Short: "League of Legends player lookup, stats and Q&A.",
		Long: `riftrewind looks up a League of Legends player by Riot ID, aggregates
their recent matches into per-match statistics and answers questions about them.

Run "riftrewind serve" to start the backend, then use the lookup, process and
ask commands against the endpoints configured by LOOKUP_ENDPOINT,
PROCESS_ENDPOINT and ASK_ENDPOINT.`,
		SilenceUsage: true,
	}

	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")

	rootCmd.AddCommand(
		newServeCmd(),
		newLookupCmd(),
		newProcessCmd(),
		newAskCmd(),
		newHealthCmd(),
	)
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger discards everything unless --verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.Ltime)
	if verbose {
		logger.SetOutput(cmd.ErrOrStderr())
	}
	return logger
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
