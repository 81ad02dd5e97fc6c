package solana

import (
	"context"

	"github.com/blocto/solana-go-sdk/types"
)

// RPCClient defines the Solana RPC HTTP calls used by token administration.
type RPCClient interface {
	// GetBalance returns the lamport balance of an account.
	GetBalance(ctx context.Context, address string) (uint64, error)

	// GetAccountInfo retrieves account info by public key.
	// Returns nil if account not found.
	GetAccountInfo(ctx context.Context, address string) (*AccountInfo, error)

	// GetLatestBlockhash returns a recent blockhash for signing.
	GetLatestBlockhash(ctx context.Context) (string, error)

	// GetMinimumBalanceForRentExemption returns the rent-exempt minimum for
	// an account of size bytes.
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)

	// SendTransaction submits a signed transaction and returns its signature.
	SendTransaction(ctx context.Context, tx types.Transaction) (string, error)

	// GetSignatureStatus returns the status of a signature.
	// Returns nil if the cluster has not seen it.
	GetSignatureStatus(ctx context.Context, signature string) (*SignatureStatus, error)
}

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Data       []byte // decoded account data
	Executable bool
	RentEpoch  uint64
}

// SignatureStatus is the processing state of a submitted transaction.
type SignatureStatus struct {
	Slot               uint64
	Confirmations      *uint64 // nil once rooted
	ConfirmationStatus string  // processed | confirmed | finalized
	Err                interface{}
}

// commitmentRank orders commitment levels.
var commitmentRank = map[string]int{
	"processed": 1,
	"confirmed": 2,
	"finalized": 3,
}

// Reached reports whether the status satisfies the given commitment.
func (s *SignatureStatus) Reached(commitment string) bool {
	if s == nil {
		return false
	}
	want, ok := commitmentRank[commitment]
	if !ok {
		want = commitmentRank["confirmed"]
	}
	return commitmentRank[s.ConfirmationStatus] >= want
}
