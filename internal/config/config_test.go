package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-admin/internal/domain"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultNetwork, cfg.Network)
	assert.Equal(t, DefaultCommitment, cfg.Commitment)
	assert.Equal(t, DefaultPayerFile, cfg.PayerFile)
	assert.Equal(t, uint8(DefaultDecimals), cfg.Decimals)
	assert.False(t, cfg.DecimalsSet)
	assert.Equal(t, "0", cfg.BurnAmount)
	assert.Equal(t, DefaultConfirmTimeout, cfg.ConfirmTimeout)
	assert.Equal(t, DefaultRPCMaxRetries, cfg.RPCMaxRetries)
	assert.NoError(t, cfg.Validate())
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"SOLANA_NETWORK":  "mainnet-beta",
		"RPC_URL":         "https://rpc.example.com",
		"DECIMALS":        "6",
		"MINT_AMOUNT":     "1000000.5",
		"CONFIRM_TIMEOUT": "90",
		"RPC_MAX_RETRIES": "5",
		"VANITY_FILE":     " vanity.json ",
	}))
	require.NoError(t, err)

	assert.Equal(t, "mainnet-beta", cfg.Network)
	assert.Equal(t, "https://rpc.example.com", cfg.RPCURL)
	assert.Equal(t, uint8(6), cfg.Decimals)
	assert.True(t, cfg.DecimalsSet)
	assert.Equal(t, "1000000.5", cfg.MintAmount)
	assert.Equal(t, 90*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, 5, cfg.RPCMaxRetries)
	assert.Equal(t, "vanity.json", cfg.VanityFile)
}

func TestFromLookup_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"DECIMALS":        "256",
		"CONFIRM_TIMEOUT": "soon",
		"RPC_MAX_RETRIES": "-1",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(map[string]string{key: val}))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	cfg.Network = "moonnet"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg.Network = "localnet"
	cfg.Commitment = "recent"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg.Commitment = "finalized"
	cfg.ConfirmTimeout = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestRequireMint(t *testing.T) {
	cfg := &Config{}
	assert.ErrorIs(t, cfg.RequireMint(), ErrInvalidConfig)
	assert.ErrorIs(t, cfg.RequireVanity(), ErrInvalidConfig)

	cfg.MintAddress = "So11111111111111111111111111111111111111112"
	assert.NoError(t, cfg.RequireMint())
	assert.ErrorIs(t, cfg.RequireVanity(), ErrInvalidConfig)
}

func TestRegisterFlags_OverrideEnv(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"SOLANA_NETWORK": "testnet"}))
	require.NoError(t, err)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--payer", "keys/payer.json", "--decimals", "2", "--verbose"}))

	assert.Equal(t, "testnet", cfg.Network)
	assert.Equal(t, "keys/payer.json", cfg.PayerFile)
	assert.Equal(t, uint8(2), cfg.Decimals)
	assert.True(t, cfg.DecimalsSet)
	assert.True(t, cfg.Verbose)
}

func TestRegisterFlags_BadDecimals(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.RegisterFlags(fs)
	assert.Error(t, fs.Parse([]string{"--decimals", "nine"}))
}

func TestLoadDotEnv_KeepsProcessEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TOKEN_ADMIN_TEST_A=from-file\nTOKEN_ADMIN_TEST_B=from-file\n"), 0o600))

	t.Setenv("TOKEN_ADMIN_TEST_A", "from-process")
	t.Setenv("TOKEN_ADMIN_TEST_B", "")
	require.NoError(t, os.Unsetenv("TOKEN_ADMIN_TEST_B"))

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "from-process", os.Getenv("TOKEN_ADMIN_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("TOKEN_ADMIN_TEST_B"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}

func TestLoadMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Test Token\nseller_fee_basis_points: 250\n"), 0o600))

	got, err := LoadMetadata(path, domain.DefaultMetadataParams())
	require.NoError(t, err)

	assert.Equal(t, "Test Token", got.Name)
	assert.Equal(t, domain.DefaultTokenSymbol, got.Symbol)
	assert.Equal(t, domain.DefaultTokenURI, got.URI)
	assert.Equal(t, uint16(250), got.SellerFeeBasisPoints)
}

func TestLoadMetadata_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nmae: typo\n"), 0o600))

	_, err := LoadMetadata(path, domain.DefaultMetadataParams())
	assert.Error(t, err)
}

func TestLoadMetadata_EmptyPathAndFile(t *testing.T) {
	base := domain.DefaultMetadataParams()

	got, err := LoadMetadata("", base)
	require.NoError(t, err)
	assert.Equal(t, base, got)

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	got, err = LoadMetadata(path, base)
	require.NoError(t, err)
	assert.Equal(t, base, got)
}
