// Command history renders the operation journal as markdown or CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"solana-token-admin/internal/cli"
	"solana-token-admin/internal/config"
	"solana-token-admin/internal/reporting"
)

type options struct {
	format string
	from   string
	to     string
	output string
}

func main() {
	var o options
	os.Exit(cli.Main(cli.Program{
		Name:    "history",
		Offline: true,
		Flags: func(flags *flag.FlagSet, _ *config.Config) {
			flags.StringVar(&o.format, "format", "md", "Output format: md or csv")
			flags.StringVar(&o.from, "from", "", "Only operations at or after this time (RFC3339)")
			flags.StringVar(&o.to, "to", "", "Only operations at or before this time (RFC3339)")
			flags.StringVar(&o.output, "output", "", "Write to this file instead of stdout")
		},
		Validate: func(cfg *config.Config) error {
			if cfg.JournalPostgresDSN == "" && cfg.JournalClickhouseDSN == "" {
				return fmt.Errorf("%w: JOURNAL_POSTGRES_DSN or JOURNAL_CLICKHOUSE_DSN is required", config.ErrInvalidConfig)
			}
			if o.format != "md" && o.format != "csv" {
				return fmt.Errorf("%w: --format must be md or csv", config.ErrInvalidConfig)
			}
			return nil
		},
		Run: func(ctx context.Context, env *cli.Env) error {
			return run(ctx, env, o)
		},
	}, os.Args[1:]))
}

func run(ctx context.Context, env *cli.Env, o options) error {
	filter := reporting.Filter{Mint: env.Config.MintAddress}

	var err error
	if filter.Start, err = parseTime("--from", o.from); err != nil {
		return err
	}
	if filter.End, err = parseTime("--to", o.to); err != nil {
		return err
	}

	report, err := reporting.NewGenerator(env.Journal.Store()).Generate(ctx, filter)
	if err != nil {
		return err
	}

	var out string
	switch o.format {
	case "csv":
		if out, err = reporting.RenderCSV(report); err != nil {
			return err
		}
	default:
		out = reporting.RenderMarkdown(report)
	}

	var w io.Writer = os.Stdout
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if o.output != "" {
		fmt.Printf("History report written to %s (%d operations)\n", o.output, len(report.Operations))
	}
	return nil
}

// parseTime converts an RFC3339 timestamp to Unix milliseconds. Empty input
// yields zero, which leaves that end of the range open.
func parseTime(flagName, v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", config.ErrInvalidConfig, flagName, v, err)
	}
	return t.UnixMilli(), nil
}
