// cmd/bundler/commands.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launch-bundler/internal/report"
	"github.com/rovshanmuradov/launch-bundler/internal/transaction"
	"github.com/rovshanmuradov/launch-bundler/internal/wallet"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "bundler",
	Short:         "Launch a bonk.fun token and bundle-buy it from fresh wallets",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBundle,
}

var gatherCmd = &cobra.Command{
	Use:   "gather",
	Short: "Return SOL from persisted sub-wallets to the main wallet",
	RunE:  runGather,
}

var lutCmd = &cobra.Command{
	Use:   "lut",
	Short: "Show the persisted lookup table and whether it is ready",
	RunE:  runLookupTable,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "path to the .env file")
	rootCmd.AddCommand(gatherCmd, lutCmd)
}

func runBundle(cmd *cobra.Command, _ []string) error {
	a, err := newApp(envFile)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	params, err := a.params()
	if err != nil {
		return err
	}

	a.logger.Info("Starting launch",
		zap.String("token", a.cfg.TokenName),
		zap.String("symbol", a.cfg.TokenSymbol),
		zap.Int("wallets", a.cfg.DistributionWalletNum),
		zap.Float64("swap_sol", a.cfg.SwapAmount))

	res, err := a.bundler().Run(ctx, a.main, params)
	if err != nil {
		a.logger.Error("Launch failed", zap.Error(err))
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Summary(res))
	return nil
}

func runGather(cmd *cobra.Command, _ []string) error {
	a, err := newApp(envFile)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	keys, err := a.store.LoadWallets()
	if err != nil {
		return fmt.Errorf("failed to load persisted wallets: %w", err)
	}
	wallets := make([]*wallet.Wallet, len(keys))
	for i, key := range keys {
		wallets[i] = wallet.FromPrivateKey(key)
	}

	res, err := a.distributor().Gather(ctx, a.main.PublicKey, wallets)
	if res != nil {
		a.logger.Info("Gather finished",
			zap.Int("swept", res.Swept),
			zap.Int("skipped", res.Skipped),
			zap.Uint64("lamports", res.Lamports))
	}
	if err != nil {
		a.logger.Error("Some wallets were not swept", zap.Error(err))
		return err
	}
	return nil
}

func runLookupTable(cmd *cobra.Command, _ []string) error {
	a, err := newApp(envFile)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	table, state, err := a.tables().Status(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Lookup table: %s\n", table)
	if state == nil {
		fmt.Fprintln(out, "Status:       not visible yet")
		return nil
	}
	fmt.Fprintf(out, "Status:       ready\nEntries:      %d\nExplorer:     %s\n",
		len(state.Addresses), transaction.LookupTableEntriesURL(table))
	return nil
}
