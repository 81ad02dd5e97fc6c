package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidMetadata is returned when metadata exceeds on-chain limits.
var ErrInvalidMetadata = errors.New("invalid metadata")

// Metaplex Token Metadata field limits enforced by the on-chain program.
const (
	MaxNameLength        = 32
	MaxSymbolLength      = 10
	MaxURILength         = 200
	MaxSellerFeeBasisPts = 10000
)

// MetadataParams describes the metadata to attach to a mint.
type MetadataParams struct {
	Name                 string `yaml:"name"`
	Symbol               string `yaml:"symbol"`
	URI                  string `yaml:"uri"`
	SellerFeeBasisPoints uint16 `yaml:"seller_fee_basis_points"`
	IsMutable            bool   `yaml:"is_mutable"`
}

// TokenMetadata represents a Metaplex metadata account as read from chain.
type TokenMetadata struct {
	Address              string // metadata PDA
	Mint                 string
	UpdateAuthority      string
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	IsMutable            bool
}

// Default metadata applied when neither a metadata file nor flags override it.
const (
	DefaultTokenName   = "SOL Royale"
	DefaultTokenSymbol = "SRYL"
	DefaultTokenURI    = "https://raw.githubusercontent.com/solroyl/sryl-token/refs/heads/main/metadata.json"
)

// DefaultMetadataParams returns the built-in metadata for the token.
func DefaultMetadataParams() MetadataParams {
	return MetadataParams{
		Name:      DefaultTokenName,
		Symbol:    DefaultTokenSymbol,
		URI:       DefaultTokenURI,
		IsMutable: true,
	}
}

// Validate checks field lengths against on-chain limits.
func (p MetadataParams) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMetadata)
	}
	if len(p.Name) > MaxNameLength {
		return fmt.Errorf("%w: name is %d bytes, max %d", ErrInvalidMetadata, len(p.Name), MaxNameLength)
	}
	if len(p.Symbol) > MaxSymbolLength {
		return fmt.Errorf("%w: symbol is %d bytes, max %d", ErrInvalidMetadata, len(p.Symbol), MaxSymbolLength)
	}
	if len(p.URI) > MaxURILength {
		return fmt.Errorf("%w: uri is %d bytes, max %d", ErrInvalidMetadata, len(p.URI), MaxURILength)
	}
	if p.SellerFeeBasisPoints > MaxSellerFeeBasisPts {
		return fmt.Errorf("%w: seller fee %d bps, max %d", ErrInvalidMetadata, p.SellerFeeBasisPoints, MaxSellerFeeBasisPts)
	}
	return nil
}
