// Package keypair loads Solana signing keys from local secret files.
package keypair

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"filippo.io/edwards25519"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

var (
	// ErrInvalidLength is returned when the secret is neither a 32-byte seed
	// nor a 64-byte seed||pubkey pair.
	ErrInvalidLength = errors.New("invalid secret key length")

	// ErrPublicKeyMismatch is returned when the stored public half does not
	// belong to the stored seed.
	ErrPublicKeyMismatch = errors.New("public key does not match secret seed")

	// ErrNotOnCurve is returned when the public half is not an ed25519 point.
	ErrNotOnCurve = errors.New("public key is not a valid ed25519 point")
)

// LoadFile reads a keypair file. Two formats are accepted:
//   - the solana-keygen JSON array of bytes ([12,34,...])
//   - a base58 string as exported by browser wallets
func LoadFile(path string) (types.Account, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Account{}, fmt.Errorf("read keypair file %s: %w", path, err)
	}

	acct, err := Parse(raw)
	if err != nil {
		return types.Account{}, fmt.Errorf("parse keypair file %s: %w", path, err)
	}
	return acct, nil
}

// Parse decodes secret key material in either supported format.
func Parse(raw []byte) (types.Account, error) {
	trimmed := bytes.TrimSpace(raw)

	var secret []byte
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var ints []int
		if err := json.Unmarshal(trimmed, &ints); err != nil {
			return types.Account{}, fmt.Errorf("decode json secret: %w", err)
		}
		secret = make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return types.Account{}, fmt.Errorf("secret byte %d out of range: %d", i, v)
			}
			secret[i] = byte(v)
		}
	} else {
		decoded, err := base58.Decode(strings.TrimSpace(string(trimmed)))
		if err != nil {
			return types.Account{}, fmt.Errorf("decode base58 secret: %w", err)
		}
		secret = decoded
	}

	return FromSecret(secret)
}

// FromSecret builds an account from a 32-byte seed or 64-byte secret key.
func FromSecret(secret []byte) (types.Account, error) {
	switch len(secret) {
	case ed25519.SeedSize:
		secret = ed25519.NewKeyFromSeed(secret)
	case ed25519.PrivateKeySize:
		if err := Validate(secret); err != nil {
			return types.Account{}, err
		}
	default:
		return types.Account{}, fmt.Errorf("%w: got %d, want %d or %d",
			ErrInvalidLength, len(secret), ed25519.SeedSize, ed25519.PrivateKeySize)
	}

	acct, err := types.AccountFromBytes(secret)
	if err != nil {
		return types.Account{}, fmt.Errorf("build account: %w", err)
	}
	return acct, nil
}

// Validate checks that a 64-byte secret key carries the public key derived
// from its own seed and that the public key decodes to a curve point.
func Validate(secret []byte) error {
	if len(secret) != ed25519.PrivateKeySize {
		return fmt.Errorf("%w: got %d", ErrInvalidLength, len(secret))
	}

	pub := secret[ed25519.SeedSize:]
	if _, err := new(edwards25519.Point).SetBytes(pub); err != nil {
		return ErrNotOnCurve
	}

	derived := ed25519.NewKeyFromSeed(secret[:ed25519.SeedSize]).Public().(ed25519.PublicKey)
	if !bytes.Equal(derived, pub) {
		return ErrPublicKeyMismatch
	}
	return nil
}

// ParsePublicKey decodes a base58 address and rejects anything that is not
// 32 bytes long.
func ParsePublicKey(addr string) (common.PublicKey, error) {
	decoded, err := base58.Decode(strings.TrimSpace(addr))
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("decode address %q: %w", addr, err)
	}
	if len(decoded) != common.PublicKeyLength {
		return common.PublicKey{}, fmt.Errorf("address %q: expected %d bytes, got %d",
			addr, common.PublicKeyLength, len(decoded))
	}
	return common.PublicKeyFromBytes(decoded), nil
}
