// Command burn-tokens burns BURN_AMOUNT base units from the payer's
// associated token account.
package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"solana-token-admin/internal/amount"
	"solana-token-admin/internal/cli"
	"solana-token-admin/internal/config"
)

func main() {
	os.Exit(cli.Main(cli.Program{
		Name: "burn-tokens",
		Flags: func(flags *flag.FlagSet, cfg *config.Config) {
			flags.StringVar(&cfg.BurnAmount, "amount", cfg.BurnAmount, "Amount to burn in base units")
		},
		Validate: func(cfg *config.Config) error {
			return cfg.RequireMint()
		},
		Run: run,
	}, os.Args[1:]))
}

func run(ctx context.Context, env *cli.Env) error {
	mint, err := env.ResolveMint()
	if err != nil {
		return err
	}

	info, err := env.Tokens.FetchMint(ctx, mint.Address)
	if err != nil {
		return err
	}
	env.Logger.Info("current supply",
		zap.String("mint", info.Address),
		zap.String("supply", amount.FormatUnits(info.Supply, info.Decimals)),
		zap.Uint64("supply_base_units", info.Supply))

	burn, err := amount.ParseBaseUnits(env.Config.BurnAmount)
	if err != nil || burn == 0 {
		env.Logger.Warn("invalid burn amount", zap.String("amount", env.Config.BurnAmount))
		return nil
	}

	res, err := env.Tokens.Burn(ctx, mint.Address, burn)
	if err != nil {
		return err
	}

	env.Logger.Info("burned tokens",
		zap.String("mint", info.Address),
		zap.String("burned", amount.FormatUnits(res.Burned, info.Decimals)),
		zap.String("supply", amount.FormatUnits(res.SupplyAfter, info.Decimals)),
		zap.String("token_account", res.TokenAccount.ToBase58()),
		zap.String("signature", res.Signature),
		zap.String("explorer", env.Cluster.ExplorerTxURL(res.Signature)))
	return nil
}
