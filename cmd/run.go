package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/mselser95/packs-bot/internal/app"
	"github.com/mselser95/packs-bot/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the betting service",
	Long: `Starts the packs betting service, which will:
1. Serve the session API, metrics and health probes over HTTP
2. Stream session events and snapshots on /ws/events
3. Run one session at a time, started over HTTP or with --auto-start

Credentials come from STAKE_ACCESS_TOKEN / STAKE_LOCKDOWN_TOKEN or
PUT /api/credentials.`,
	RunE: runBot,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int64("amount", 0, "Stake per wager in currency units (overrides PACKS_AMOUNT)")
	runCmd.Flags().Int("max-bets", 0, "Number of wagers per session (overrides PACKS_MAX_BETS)")
	runCmd.Flags().Bool("auto-start", false, "Start a session as soon as credentials are available")
	runCmd.Flags().Bool("exit-when-done", false, "Exit once the auto-started session ends")
}

func runBot(cmd *cobra.Command, args []string) error {
	loadEnvFile(cmd)

	// Load config
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Get flags
	amount, _ := cmd.Flags().GetInt64("amount")
	maxBets, _ := cmd.Flags().GetInt("max-bets")
	autoStart, _ := cmd.Flags().GetBool("auto-start")
	exitWhenDone, _ := cmd.Flags().GetBool("exit-when-done")

	if amount != 0 {
		cfg.Amount = amount
	}
	if maxBets != 0 {
		cfg.MaxBets = maxBets
	}
	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("validate flags: %w", err)
	}
	if exitWhenDone && !autoStart {
		return fmt.Errorf("--exit-when-done requires --auto-start")
	}

	// Create logger
	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Create app with options
	opts := &app.Options{
		AutoStart:    autoStart,
		ExitWhenDone: exitWhenDone,
	}

	application, err := app.New(cfg, logger, opts)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	// Run app
	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}

// loadEnvFile loads the --env-file if it exists. A missing file is not an error.
func loadEnvFile(cmd *cobra.Command) {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s not loaded: %v\n", path, err)
	}
}
