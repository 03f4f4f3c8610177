package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mselser95/packs-bot/internal/lookup"
	"github.com/mselser95/packs-bot/pkg/config"
	"github.com/mselser95/packs-bot/pkg/types"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var lookupCmd = &cobra.Command{
	Use:   "lookup <bet-id>",
	Short: "Look up a single bet by its public identifier",
	Long: `Queries the Stake GraphQL API for one bet and prints its game,
amount, payout and multiplier.

The access token is read from --token or STAKE_ACCESS_TOKEN.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().String("token", "", "Stake access token (defaults to STAKE_ACCESS_TOKEN)")
	lookupCmd.Flags().Duration("timeout", 15*time.Second, "Request timeout")
}

func runLookup(cmd *cobra.Command, args []string) error {
	loadEnvFile(cmd)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("STAKE_ACCESS_TOKEN")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	client, err := lookup.NewClient(&lookup.ClientConfig{
		URL:     cfg.GraphQLURL,
		Timeout: timeout,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("create lookup client: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	bet, err := client.Lookup(ctx, args[0], token)
	if errors.Is(err, types.ErrMissingCredentials) {
		return fmt.Errorf("no access token: pass --token or set STAKE_ACCESS_TOKEN")
	}
	if err != nil {
		return fmt.Errorf("lookup %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Bet         %s (%s)\n", bet.IID, bet.ID)
	fmt.Fprintf(out, "Game        %s\n", bet.Game.Name)
	fmt.Fprintf(out, "Player      %s\n", bet.Bet.User.Name)
	fmt.Fprintf(out, "Amount      %g %s\n", bet.Bet.Amount, bet.Bet.Currency)
	fmt.Fprintf(out, "Payout      %g %s\n", bet.Bet.Payout, bet.Bet.Currency)
	fmt.Fprintf(out, "Multiplier  %gx\n", bet.Bet.PayoutMultiplier)
	fmt.Fprintf(out, "Updated     %s\n", bet.Bet.UpdatedAt)

	return nil
}
