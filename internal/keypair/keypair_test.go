package keypair

import (
	"crypto/ed25519"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeed() []byte {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return seed
}

func writeJSONKey(t *testing.T, secret []byte) string {
	t.Helper()

	ints := make([]int, len(secret))
	for i, b := range secret {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "payer.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadFile_JSONArray(t *testing.T) {
	priv := ed25519.NewKeyFromSeed(testSeed())
	path := writeJSONKey(t, priv)

	acct, err := LoadFile(path)
	require.NoError(t, err)

	wantPub := priv.Public().(ed25519.PublicKey)
	assert.Equal(t, base58.Encode(wantPub), acct.PublicKey.ToBase58())
}

func TestLoadFile_Seed(t *testing.T) {
	path := writeJSONKey(t, testSeed())

	acct, err := LoadFile(path)
	require.NoError(t, err)

	wantPub := ed25519.NewKeyFromSeed(testSeed()).Public().(ed25519.PublicKey)
	assert.Equal(t, base58.Encode(wantPub), acct.PublicKey.ToBase58())
}

func TestParse_Base58(t *testing.T) {
	priv := ed25519.NewKeyFromSeed(testSeed())

	acct, err := Parse([]byte(base58.Encode(priv) + "\n"))
	require.NoError(t, err)
	assert.Equal(t, base58.Encode(priv[32:]), acct.PublicKey.ToBase58())
}

func TestParse_PublicKeyMismatch(t *testing.T) {
	priv := ed25519.NewKeyFromSeed(testSeed())
	other := ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize))

	tampered := make([]byte, ed25519.PrivateKeySize)
	copy(tampered, priv[:32])
	copy(tampered[32:], other[32:])

	_, err := FromSecret(tampered)
	assert.ErrorIs(t, err, ErrPublicKeyMismatch)
}

func TestParse_InvalidLength(t *testing.T) {
	_, err := Parse([]byte("[1,2,3]"))
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestParse_ByteOutOfRange(t *testing.T) {
	_, err := Parse([]byte("[256]"))
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParsePublicKey(t *testing.T) {
	pk, err := ParsePublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	require.NoError(t, err)
	assert.Equal(t, "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", pk.ToBase58())

	_, err = ParsePublicKey("abc")
	assert.Error(t, err)

	_, err = ParsePublicKey("0OIl")
	assert.Error(t, err)
}
