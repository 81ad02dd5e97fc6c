// Command add-metadata attaches Metaplex token metadata to a mint, or
// updates it when the metadata account already exists.
package main

import (
	"context"
	"flag"
	"os"
	"strconv"

	"go.uber.org/zap"

	"solana-token-admin/internal/cli"
	"solana-token-admin/internal/config"
	"solana-token-admin/internal/domain"
	"solana-token-admin/internal/metadata"
)

// overrides holds metadata flags. Empty strings and a nil fee keep the
// values from METADATA_FILE or the defaults.
type overrides struct {
	name   string
	symbol string
	uri    string
	fee    *uint16
}

func main() {
	var o overrides
	os.Exit(cli.Main(cli.Program{
		Name: "add-metadata",
		Flags: func(flags *flag.FlagSet, cfg *config.Config) {
			flags.StringVar(&cfg.MetadataFile, "metadata-file", cfg.MetadataFile, "YAML file with name, symbol, uri, seller_fee_basis_points")
			flags.StringVar(&o.name, "name", "", "Token name (max 32 bytes)")
			flags.StringVar(&o.symbol, "symbol", "", "Token symbol (max 10 bytes)")
			flags.StringVar(&o.uri, "uri", "", "Metadata JSON URI (max 200 bytes)")
			flags.Func("seller-fee-bps", "Seller fee in basis points (0-10000)", func(v string) error {
				n, err := strconv.ParseUint(v, 10, 16)
				if err != nil {
					return err
				}
				fee := uint16(n)
				o.fee = &fee
				return nil
			})
		},
		Validate: func(cfg *config.Config) error {
			return cfg.RequireMint()
		},
		Run: func(ctx context.Context, env *cli.Env) error {
			return run(ctx, env, o)
		},
	}, os.Args[1:]))
}

func (o overrides) apply(p domain.MetadataParams) domain.MetadataParams {
	if o.name != "" {
		p.Name = o.name
	}
	if o.symbol != "" {
		p.Symbol = o.symbol
	}
	if o.uri != "" {
		p.URI = o.uri
	}
	if o.fee != nil {
		p.SellerFeeBasisPoints = *o.fee
	}
	return p
}

func run(ctx context.Context, env *cli.Env, o overrides) error {
	params, err := config.LoadMetadata(env.Config.MetadataFile, domain.DefaultMetadataParams())
	if err != nil {
		return err
	}
	params = o.apply(params)

	mint, err := env.ResolveMint()
	if err != nil {
		return err
	}

	svc := metadata.NewService(env.RPC, env.Sender,
		metadata.WithRecorder(env.Journal),
		metadata.WithMetrics(env.Metrics),
		metadata.WithLogger(env.Logger),
	)

	res, err := svc.Upsert(ctx, mint.Address, params)
	if err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("mint", res.Mint.ToBase58()),
		zap.String("metadata", res.Metadata.ToBase58()),
		zap.String("name", params.Name),
		zap.String("symbol", params.Symbol),
		zap.String("uri", params.URI),
	}
	switch res.Action {
	case metadata.ActionUpdated:
		env.Logger.Info("metadata updated", append(fields,
			zap.String("signature", res.Signature),
			zap.String("explorer", env.Cluster.ExplorerTxURL(res.Signature)))...)
	default:
		env.Logger.Info("metadata created", append(fields,
			zap.String("explorer", env.Cluster.ExplorerAddressURL(res.Mint.ToBase58())))...)
	}

	// Read back what the metadata program stored
	stored, err := svc.Fetch(ctx, res.Mint)
	if err != nil {
		return err
	}
	if stored == nil {
		env.Logger.Warn("metadata account not visible yet", zap.String("metadata", res.Metadata.ToBase58()))
		return nil
	}
	env.Logger.Info("metadata on chain",
		zap.String("name", stored.Name),
		zap.String("symbol", stored.Symbol),
		zap.String("uri", stored.URI),
		zap.Uint16("seller_fee_bps", stored.SellerFeeBasisPoints),
		zap.String("update_authority", stored.UpdateAuthority),
		zap.Bool("mutable", stored.IsMutable))
	return nil
}
