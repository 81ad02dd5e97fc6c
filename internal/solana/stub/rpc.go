package stub

import (
	"context"
	"errors"
	"sync"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"

	"solana-token-admin/internal/solana"
)

// ErrNoSignatures is returned when a submitted transaction is unsigned.
var ErrNoSignatures = errors.New("transaction has no signatures")

// RPCClient implements solana.RPCClient for testing. Sent transactions are
// recorded and confirmed immediately unless a status is preset.
type RPCClient struct {
	mu sync.Mutex

	Balances   map[string]uint64
	Accounts   map[string]*solana.AccountInfo
	Statuses   map[string]*solana.SignatureStatus
	Blockhash  string
	RentExempt uint64

	// SendErr, when set, is returned by SendTransaction.
	SendErr error
	// TxErr, when set, becomes the on-chain error of every sent transaction.
	TxErr interface{}
	// OnSend runs for every accepted transaction, letting tests apply its
	// effects to Accounts.
	OnSend func(tx types.Transaction)

	Sent []types.Transaction
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Balances:   make(map[string]uint64),
		Accounts:   make(map[string]*solana.AccountInfo),
		Statuses:   make(map[string]*solana.SignatureStatus),
		Blockhash:  "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N",
		RentExempt: 1461600,
	}
}

// SetAccount stores account state under address.
func (c *RPCClient) SetAccount(address string, info *solana.AccountInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Accounts[address] = info
}

// SentTransactions returns a copy of the transactions submitted so far.
func (c *RPCClient) SentTransactions() []types.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.Transaction, len(c.Sent))
	copy(out, c.Sent)
	return out
}

// GetBalance returns the stored balance, zero when unknown.
func (c *RPCClient) GetBalance(_ context.Context, address string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Balances[address], nil
}

// GetAccountInfo returns a copy of the stored account or nil.
func (c *RPCClient) GetAccountInfo(_ context.Context, address string) (*solana.AccountInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.Accounts[address]
	if !ok || info == nil {
		return nil, nil
	}
	cp := *info
	cp.Data = append([]byte(nil), info.Data...)
	return &cp, nil
}

// GetLatestBlockhash returns the configured blockhash.
func (c *RPCClient) GetLatestBlockhash(_ context.Context) (string, error) {
	return c.Blockhash, nil
}

// GetMinimumBalanceForRentExemption returns RentExempt regardless of size.
func (c *RPCClient) GetMinimumBalanceForRentExemption(_ context.Context, _ uint64) (uint64, error) {
	return c.RentExempt, nil
}

// SendTransaction records tx and returns its first signature in base58.
func (c *RPCClient) SendTransaction(_ context.Context, tx types.Transaction) (string, error) {
	if c.SendErr != nil {
		return "", c.SendErr
	}
	if len(tx.Signatures) == 0 {
		return "", ErrNoSignatures
	}
	sig := base58.Encode(tx.Signatures[0])

	c.mu.Lock()
	c.Sent = append(c.Sent, tx)
	if _, preset := c.Statuses[sig]; !preset {
		c.Statuses[sig] = &solana.SignatureStatus{
			Slot:               uint64(len(c.Sent)),
			ConfirmationStatus: "finalized",
			Err:                c.TxErr,
		}
	}
	onSend := c.OnSend
	c.mu.Unlock()

	if onSend != nil && c.TxErr == nil {
		onSend(tx)
	}
	return sig, nil
}

// GetSignatureStatus returns the stored status or nil.
func (c *RPCClient) GetSignatureStatus(_ context.Context, signature string) (*solana.SignatureStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.Statuses[signature]
	if !ok {
		return nil, nil
	}
	cp := *status
	return &cp, nil
}
