package stub

import (
	"encoding/binary"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/near/borsh-go"

	"solana-token-admin/internal/solana"
)

const (
	mintAccountSize  = 82
	tokenAccountSize = 165
)

// MintAccount builds an initialized SPL mint account as returned by
// getAccountInfo. Nil authorities encode as none.
func MintAccount(mintAuthority *common.PublicKey, supply uint64, decimals uint8, freezeAuthority *common.PublicKey) *solana.AccountInfo {
	data := make([]byte, 0, mintAccountSize)
	data = appendOptionKey(data, mintAuthority)
	data = binary.LittleEndian.AppendUint64(data, supply)
	data = append(data, decimals, 1)
	data = appendOptionKey(data, freezeAuthority)

	return &solana.AccountInfo{
		Lamports: 1461600,
		Owner:    common.TokenProgramID.ToBase58(),
		Data:     data,
	}
}

// TokenAccount builds an initialized SPL token account holding amount.
func TokenAccount(mint, owner common.PublicKey, amount uint64) *solana.AccountInfo {
	data := make([]byte, 0, tokenAccountSize)
	data = append(data, mint.Bytes()...)
	data = append(data, owner.Bytes()...)
	data = binary.LittleEndian.AppendUint64(data, amount)
	data = appendOptionKey(data, nil) // delegate
	data = append(data, 1)            // initialized
	data = append(data, make([]byte, 12)...)
	data = binary.LittleEndian.AppendUint64(data, 0) // delegated amount
	data = appendOptionKey(data, nil)                // close authority

	return &solana.AccountInfo{
		Lamports: 2039280,
		Owner:    common.TokenProgramID.ToBase58(),
		Data:     data,
	}
}

// SystemAccount builds a plain wallet account.
func SystemAccount(lamports uint64) *solana.AccountInfo {
	return &solana.AccountInfo{
		Lamports: lamports,
		Owner:    common.SystemProgramID.ToBase58(),
	}
}

// MetadataAccount builds a mutable token metadata account for mint.
func MetadataAccount(updateAuthority, mint common.PublicKey, name, symbol, uri string, sellerFeeBasisPoints uint16) *solana.AccountInfo {
	data, err := borsh.Serialize(token_metadata.Metadata{
		UpdateAuthority: updateAuthority,
		Mint:            mint,
		Data: token_metadata.Data{
			Name:                 name,
			Symbol:               symbol,
			Uri:                  uri,
			SellerFeeBasisPoints: sellerFeeBasisPoints,
		},
		IsMutable: true,
	})
	if err != nil {
		panic(err)
	}

	return &solana.AccountInfo{
		Lamports: 5616720,
		Owner:    common.MetaplexTokenMetaProgramID.ToBase58(),
		Data:     data,
	}
}

func appendOptionKey(data []byte, key *common.PublicKey) []byte {
	if key == nil {
		return append(data, make([]byte, 36)...)
	}
	data = binary.LittleEndian.AppendUint32(data, 1)
	return append(data, key.Bytes()...)
}
