// Command mint-token creates an SPL token mint at the address of a vanity
// keypair, with the payer as mint authority and no freeze authority.
package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"solana-token-admin/internal/amount"
	"solana-token-admin/internal/cli"
	"solana-token-admin/internal/config"
)

func main() {
	os.Exit(cli.Main(cli.Program{
		Name: "mint-token",
		Validate: func(cfg *config.Config) error {
			return cfg.RequireVanity()
		},
		Run: run,
	}, os.Args[1:]))
}

func run(ctx context.Context, env *cli.Env) error {
	mint, err := env.ResolveMint()
	if err != nil {
		return err
	}

	res, err := env.Tokens.CreateMint(ctx, *mint.Account, env.Config.Decimals)
	if err != nil {
		return err
	}

	addr := mint.Address.ToBase58()
	if !res.Created {
		env.Logger.Info("mint already exists",
			zap.String("mint", addr),
			zap.Uint8("decimals", res.Mint.Decimals),
			zap.String("supply", amount.FormatUnits(res.Mint.Supply, res.Mint.Decimals)),
			zap.String("explorer", env.Cluster.ExplorerAddressURL(addr)))
		return nil
	}

	env.Logger.Info("mint created",
		zap.String("mint", addr),
		zap.Uint8("decimals", res.Mint.Decimals),
		zap.String("signature", res.Signature),
		zap.String("explorer", env.Cluster.ExplorerAddressURL(addr)))
	return nil
}
