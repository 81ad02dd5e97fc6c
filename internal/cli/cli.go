// Package cli wires configuration, logging, the Solana clients, metrics and
// the journal for the token administration programs.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	"solana-token-admin/internal/config"
	"solana-token-admin/internal/journal"
	"solana-token-admin/internal/keypair"
	"solana-token-admin/internal/logging"
	"solana-token-admin/internal/observability"
	"solana-token-admin/internal/solana"
	"solana-token-admin/internal/token"
)

// pushTimeout bounds the metrics push after a run.
const pushTimeout = 10 * time.Second

// Program describes one command-line program.
type Program struct {
	Name string

	// Flags registers program-specific flags after the shared ones.
	Flags func(flags *flag.FlagSet, cfg *config.Config)

	// Validate checks program-specific settings after parsing.
	Validate func(cfg *config.Config) error

	// Offline programs skip the payer and the Solana clients.
	Offline bool

	Run func(ctx context.Context, env *Env) error
}

// Env is what a program gets after setup.
type Env struct {
	Name    string
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Journal *journal.Recorder

	// Unset for Offline programs.
	Cluster solana.Cluster
	Payer   types.Account
	RPC     *solana.HTTPClient
	WS      solana.WSClient // nil when the PubSub endpoint is unreachable
	Sender  *solana.Sender
	Tokens  *token.Service
}

// Main runs p with args and returns the process exit code.
func Main(p Program, args []string) int {
	return run(p, args, os.Stdout)
}

func run(p Program, args []string, out io.Writer) int {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", p.Name, err)
		return 1
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", p.Name, err)
		return 1
	}

	flags := flag.NewFlagSet(p.Name, flag.ContinueOnError)
	flags.SetOutput(out)
	cfg.RegisterFlags(flags)
	if p.Flags != nil {
		p.Flags(flags, cfg)
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", p.Name, err)
		return 1
	}
	if p.Validate != nil {
		if err := p.Validate(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", p.Name, err)
			return 1
		}
	}

	logger, err := logging.New(p.Name, cfg.LogLevel, cfg.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", p.Name, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Warn("received signal, cancelling", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	started := time.Now()
	env := &Env{
		Name:    p.Name,
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewMetrics(observability.DefaultNamespace),
	}

	err = execute(ctx, p, env)

	env.Metrics.RecordRun(started, time.Now())
	pushMetrics(env)

	if err != nil {
		ReportError(logger, err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, p Program, env *Env) error {
	cfg := env.Config

	rec, err := journal.Open(ctx, journal.Config{
		Network:       cfg.Network,
		PostgresDSN:   cfg.JournalPostgresDSN,
		ClickhouseDSN: cfg.JournalClickhouseDSN,
	}, journal.WithMetrics(env.Metrics), journal.WithLogger(env.Logger))
	if err != nil {
		return err
	}
	defer rec.Close()
	env.Journal = rec
	if rec.Enabled() {
		env.Logger.Info("journal enabled", zap.String("run_id", rec.RunID()))
	}

	if !p.Offline {
		closeClients, err := connect(ctx, env)
		if err != nil {
			return err
		}
		defer closeClients()
	}

	return p.Run(ctx, env)
}

// connect loads the payer and builds the Solana clients.
func connect(ctx context.Context, env *Env) (func(), error) {
	cfg := env.Config
	logger := env.Logger

	cluster, err := solana.ResolveCluster(cfg.Network, cfg.RPCURL, cfg.WSURL)
	if err != nil {
		return nil, err
	}
	env.Cluster = cluster
	logger.Info("using cluster",
		zap.String("network", cluster.Network),
		zap.String("rpc", cluster.RPCURL))

	payer, err := keypair.LoadFile(cfg.PayerFile)
	if err != nil {
		return nil, fmt.Errorf("load payer keypair: %w", err)
	}
	env.Payer = payer
	logger.Info("payer loaded", zap.String("address", payer.PublicKey.ToBase58()))

	env.RPC = solana.NewHTTPClient(cluster.RPCURL,
		solana.WithMaxRetries(cfg.RPCMaxRetries),
		solana.WithCommitment(cfg.Commitment),
		solana.WithMetrics(env.Metrics),
	)

	closeFn := func() {}
	wsCfg := solana.DefaultWSConfig()
	wsCfg.Commitment = cfg.Commitment
	ws, err := solana.NewWSClient(ctx, cluster.WSURL, &wsCfg)
	if err != nil {
		logger.Warn("websocket unavailable, confirming by polling",
			zap.String("ws", cluster.WSURL),
			zap.Error(err))
	} else {
		env.WS = ws
		closeFn = func() { _ = ws.Close() }
	}

	confirmer := solana.NewConfirmer(env.RPC, env.WS,
		solana.WithConfirmTimeout(cfg.ConfirmTimeout),
		solana.WithConfirmCommitment(cfg.Commitment),
		solana.WithConfirmLogger(logger),
	)
	env.Sender = solana.NewSender(env.RPC, confirmer, payer,
		solana.WithSenderMetrics(env.Metrics),
		solana.WithSenderLogger(logger),
	)
	env.Tokens = token.NewService(env.RPC, env.Sender,
		token.WithRecorder(env.Journal),
		token.WithMetrics(env.Metrics),
		token.WithLogger(logger),
	)

	return closeFn, nil
}

func pushMetrics(env *Env) {
	if env.Config.PushgatewayURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	err := env.Metrics.Push(ctx, env.Config.PushgatewayURL, env.Name, map[string]string{
		"network": env.Config.Network,
	})
	if err != nil {
		env.Logger.Warn("failed to push metrics", zap.Error(err))
	}
}

// ReportError logs err and any program logs carried by a failed simulation.
func ReportError(logger *zap.Logger, err error) {
	logger.Error("operation failed", zap.Error(err))
	for _, line := range solana.ProgramLogs(err) {
		logger.Error("program log", zap.String("line", line))
	}
}

// Mint is the resolved token mint. Account is set only when the mint was
// loaded from a keypair file.
type Mint struct {
	Address common.PublicKey
	Account *types.Account
}

// ResolveMint loads the mint from VANITY_FILE, or parses MINT_ADDRESS when no
// keypair file is configured. When both are set they must agree.
func (e *Env) ResolveMint() (Mint, error) {
	cfg := e.Config
	if cfg.VanityFile == "" {
		if cfg.MintAddress == "" {
			return Mint{}, fmt.Errorf("%w: one of MINT_ADDRESS or VANITY_FILE is required", config.ErrInvalidConfig)
		}
		addr, err := keypair.ParsePublicKey(cfg.MintAddress)
		if err != nil {
			return Mint{}, fmt.Errorf("MINT_ADDRESS: %w", err)
		}
		e.Logger.Info("mint address loaded", zap.String("mint", addr.ToBase58()))
		return Mint{Address: addr}, nil
	}

	acct, err := keypair.LoadFile(cfg.VanityFile)
	if err != nil {
		return Mint{}, fmt.Errorf("load vanity mint keypair: %w", err)
	}
	if cfg.MintAddress != "" && cfg.MintAddress != acct.PublicKey.ToBase58() {
		return Mint{}, fmt.Errorf("%w: MINT_ADDRESS %s does not match VANITY_FILE key %s",
			config.ErrInvalidConfig, cfg.MintAddress, acct.PublicKey.ToBase58())
	}
	e.Logger.Info("mint public key loaded", zap.String("mint", acct.PublicKey.ToBase58()))
	return Mint{Address: acct.PublicKey, Account: &acct}, nil
}
