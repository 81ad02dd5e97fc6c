// Command mint-supply mints into the payer's associated token account until
// the total supply reaches MINT_AMOUNT.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"solana-token-admin/internal/amount"
	"solana-token-admin/internal/cli"
	"solana-token-admin/internal/config"
	"solana-token-admin/internal/token"
)

func main() {
	os.Exit(cli.Main(cli.Program{
		Name: "mint-supply",
		Flags: func(flags *flag.FlagSet, cfg *config.Config) {
			flags.StringVar(&cfg.MintAmount, "amount", cfg.MintAmount, "Target total supply in whole tokens, e.g. 1000000 or 12.5")
		},
		Validate: func(cfg *config.Config) error {
			if cfg.MintAmount == "" {
				return fmt.Errorf("%w: MINT_AMOUNT is required", config.ErrInvalidConfig)
			}
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

	params := token.MintSupplyParams{
		Mint:   mint.Address,
		Target: env.Config.MintAmount,
	}
	if env.Config.DecimalsSet {
		d := env.Config.Decimals
		params.ExpectedDecimals = &d
	}

	res, err := env.Tokens.MintToTarget(ctx, params)
	if err != nil {
		return err
	}

	decimals := res.Mint.Decimals
	if res.AlreadyAtTarget() {
		env.Logger.Info("supply already at or above target",
			zap.String("mint", mint.Address.ToBase58()),
			zap.String("supply", amount.FormatUnits(res.Mint.Supply, decimals)),
			zap.String("target", amount.FormatUnits(res.TargetSupply, decimals)))
		return nil
	}

	env.Logger.Info("minted tokens",
		zap.String("mint", mint.Address.ToBase58()),
		zap.String("minted", amount.FormatUnits(res.Minted, decimals)),
		zap.String("supply", amount.FormatUnits(res.SupplyAfter, decimals)),
		zap.String("token_account", res.TokenAccount.ToBase58()),
		zap.String("signature", res.Signature),
		zap.String("explorer", env.Cluster.ExplorerTxURL(res.Signature)))
	return nil
}
