// Command disable-authorities permanently revokes the mint and freeze
// authorities of a mint held by the payer.
package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"solana-token-admin/internal/amount"
	"solana-token-admin/internal/cli"
	"solana-token-admin/internal/config"
	"solana-token-admin/internal/token"
)

func main() {
	os.Exit(cli.Main(cli.Program{
		Name: "disable-authorities",
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
	env.Logger.Info("mint info",
		zap.String("mint", info.Address),
		zap.Uint8("decimals", info.Decimals),
		zap.String("supply", amount.FormatUnits(info.Supply, info.Decimals)),
		zap.Stringp("mint_authority", info.MintAuthority),
		zap.Stringp("freeze_authority", info.FreezeAuthority))

	// The mint authority may already be revoked when the freeze step fails.
	res, err := env.Tokens.DisableAuthorities(ctx, mint.Address)
	if res != nil {
		explorerLinks(env, res)
	}
	return err
}

// explorerLinks logs where each revocation can be inspected. The service
// logs the outcomes themselves.
func explorerLinks(env *cli.Env, res *token.DisableResult) {
	for _, c := range []struct {
		authority string
		change    token.AuthorityChange
	}{
		{"mint", res.MintAuthority},
		{"freeze", res.FreezeAuthority},
	} {
		if c.change.Outcome != token.AuthorityRevoked {
			continue
		}
		env.Logger.Info(c.authority+" authority revocation",
			zap.String("explorer", env.Cluster.ExplorerTxURL(c.change.Signature)))
	}
}
