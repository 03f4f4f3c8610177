package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "packs-bot",
	Short: "Automated betting sessions for the Stake packs game",
	Long: `packs-bot places a bounded series of packs wagers against the Stake
casino API, retrying transient failures and stopping on balance or
credential errors.

Session statistics (RTP, win rate, streaks, top multipliers) are printed
to the console and served over HTTP and WebSocket for a browser UI.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a .env file loaded before reading configuration")
}
