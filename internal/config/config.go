// Package config resolves program settings from .env files, the process
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultNetwork        = "devnet"
	DefaultCommitment     = "confirmed"
	DefaultPayerFile      = "src/wallet/payer.json"
	DefaultDecimals       = 9
	DefaultConfirmTimeout = 60 * time.Second
	DefaultRPCMaxRetries  = 3
	DefaultLogLevel       = "info"
)

// Networks accepted by SOLANA_NETWORK.
var Networks = []string{"devnet", "testnet", "mainnet-beta", "localnet"}

// Commitments accepted by COMMITMENT.
var Commitments = []string{"processed", "confirmed", "finalized"}

// ErrInvalidConfig is returned by Validate and by variable parsing.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds settings shared by all token administration programs.
type Config struct {
	Network    string
	RPCURL     string // overrides the cluster default when set
	WSURL      string // overrides the cluster default when set
	Commitment string

	PayerFile   string
	VanityFile  string
	MintAddress string

	Decimals    uint8
	DecimalsSet bool // DECIMALS or --decimals given explicitly

	MintAmount   string // human units, decimal string
	BurnAmount   string // base units, integer string
	MetadataFile string

	ConfirmTimeout time.Duration
	RPCMaxRetries  int

	JournalPostgresDSN   string
	JournalClickhouseDSN string
	PushgatewayURL       string

	LogLevel string
	Verbose  bool
}

// LoadDotEnv loads variables from the given files (".env" when none given).
// Variables already present in the process environment are kept. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv builds a Config from the process environment.
func FromEnv() (*Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config using lookup to read variables.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		Network:              get("SOLANA_NETWORK", DefaultNetwork),
		RPCURL:               get("RPC_URL", ""),
		WSURL:                get("WS_URL", ""),
		Commitment:           get("COMMITMENT", DefaultCommitment),
		PayerFile:            get("PAYER_FILE", DefaultPayerFile),
		VanityFile:           get("VANITY_FILE", ""),
		MintAddress:          get("MINT_ADDRESS", ""),
		Decimals:             DefaultDecimals,
		MintAmount:           get("MINT_AMOUNT", ""),
		BurnAmount:           get("BURN_AMOUNT", "0"),
		MetadataFile:         get("METADATA_FILE", ""),
		ConfirmTimeout:       DefaultConfirmTimeout,
		RPCMaxRetries:        DefaultRPCMaxRetries,
		JournalPostgresDSN:   get("JOURNAL_POSTGRES_DSN", ""),
		JournalClickhouseDSN: get("JOURNAL_CLICKHOUSE_DSN", ""),
		PushgatewayURL:       get("PUSHGATEWAY_URL", ""),
		LogLevel:             get("LOG_LEVEL", DefaultLogLevel),
	}

	if v := get("DECIMALS", ""); v != "" {
		if err := cfg.setDecimals(v); err != nil {
			return nil, err
		}
	}

	if v := get("CONFIRM_TIMEOUT", ""); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: CONFIRM_TIMEOUT=%q: %v", ErrInvalidConfig, v, err)
		}
		cfg.ConfirmTimeout = d
	}

	if v := get("RPC_MAX_RETRIES", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: RPC_MAX_RETRIES=%q: must be a non-negative integer", ErrInvalidConfig, v)
		}
		cfg.RPCMaxRetries = n
	}

	return cfg, nil
}

// parseDuration accepts Go durations ("90s") and bare seconds ("90").
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func (c *Config) setDecimals(v string) error {
	n, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		return fmt.Errorf("%w: DECIMALS=%q: must be an integer in [0, 255]", ErrInvalidConfig, v)
	}
	c.Decimals = uint8(n)
	c.DecimalsSet = true
	return nil
}

// RegisterFlags adds the shared flags to the flag set. Flag defaults are the values
// already resolved from the environment, so flags win when given.
func (c *Config) RegisterFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.Network, "network", c.Network, "Solana cluster: devnet, testnet, mainnet-beta, localnet")
	flags.StringVar(&c.RPCURL, "rpc-url", c.RPCURL, "Solana RPC HTTP endpoint (overrides cluster default)")
	flags.StringVar(&c.WSURL, "ws-url", c.WSURL, "Solana WebSocket endpoint (overrides cluster default)")
	flags.StringVar(&c.Commitment, "commitment", c.Commitment, "Commitment level: processed, confirmed, finalized")
	flags.StringVar(&c.PayerFile, "payer", c.PayerFile, "Path to payer keypair file")
	flags.StringVar(&c.VanityFile, "vanity", c.VanityFile, "Path to mint (vanity) keypair file")
	flags.StringVar(&c.MintAddress, "mint", c.MintAddress, "Mint address (alternative to --vanity for read-only use)")
	flags.Func("decimals", fmt.Sprintf("Token decimals (default %d)", c.Decimals), c.setDecimals)
	flags.DurationVar(&c.ConfirmTimeout, "confirm-timeout", c.ConfirmTimeout, "Maximum time to wait for confirmation")
	flags.IntVar(&c.RPCMaxRetries, "rpc-max-retries", c.RPCMaxRetries, "Maximum RPC retry attempts")
	flags.StringVar(&c.JournalPostgresDSN, "journal-postgres-dsn", c.JournalPostgresDSN, "PostgreSQL DSN for the operation journal")
	flags.StringVar(&c.JournalClickhouseDSN, "journal-clickhouse-dsn", c.JournalClickhouseDSN, "ClickHouse DSN for the operation journal")
	flags.StringVar(&c.PushgatewayURL, "pushgateway-url", c.PushgatewayURL, "Prometheus Pushgateway URL")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	flags.BoolVar(&c.Verbose, "verbose", false, "Enable debug logging")
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	if !contains(Networks, c.Network) {
		return fmt.Errorf("%w: SOLANA_NETWORK=%q: must be one of %s",
			ErrInvalidConfig, c.Network, strings.Join(Networks, ", "))
	}
	if !contains(Commitments, c.Commitment) {
		return fmt.Errorf("%w: COMMITMENT=%q: must be one of %s",
			ErrInvalidConfig, c.Commitment, strings.Join(Commitments, ", "))
	}
	if c.ConfirmTimeout <= 0 {
		return fmt.Errorf("%w: CONFIRM_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.RPCMaxRetries < 0 {
		return fmt.Errorf("%w: RPC_MAX_RETRIES must not be negative", ErrInvalidConfig)
	}
	return nil
}

// RequireVanity returns an error unless a mint keypair file is configured.
func (c *Config) RequireVanity() error {
	if c.VanityFile == "" {
		return fmt.Errorf("%w: VANITY_FILE is required", ErrInvalidConfig)
	}
	return nil
}

// RequireMint returns an error unless the mint can be resolved from either
// MINT_ADDRESS or VANITY_FILE.
func (c *Config) RequireMint() error {
	if c.MintAddress == "" && c.VanityFile == "" {
		return fmt.Errorf("%w: one of MINT_ADDRESS or VANITY_FILE is required", ErrInvalidConfig)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
