package solana

import (
	"context"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	"solana-token-admin/internal/observability"
)

// Sender builds, signs, submits and confirms transactions paid for by a
// single fee payer.
type Sender struct {
	rpc       RPCClient
	confirmer *Confirmer
	payer     types.Account
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// SenderOption configures Sender.
type SenderOption func(*Sender)

// WithSenderMetrics records transaction counters and confirmation latency.
func WithSenderMetrics(m *observability.Metrics) SenderOption {
	return func(s *Sender) {
		s.metrics = m
	}
}

// WithSenderLogger sets the logger.
func WithSenderLogger(logger *zap.Logger) SenderOption {
	return func(s *Sender) {
		s.logger = logger
	}
}

// NewSender creates a Sender that signs with payer first.
func NewSender(rpc RPCClient, confirmer *Confirmer, payer types.Account, opts ...SenderOption) *Sender {
	s := &Sender{
		rpc:       rpc,
		confirmer: confirmer,
		payer:     payer,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FeePayer returns the public key that pays for transactions.
func (s *Sender) FeePayer() common.PublicKey {
	return s.payer.PublicKey
}

// Send submits instructions in one transaction signed by the fee payer and
// any extra signers, then waits for confirmation. The signature is returned
// even when confirmation fails so callers can report it.
func (s *Sender) Send(ctx context.Context, instructions []types.Instruction, extraSigners ...types.Account) (string, error) {
	blockhash, err := s.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		s.metrics.RecordTxFailed("build")
		return "", fmt.Errorf("get latest blockhash: %w", err)
	}

	signers := append([]types.Account{s.payer}, extraSigners...)
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        s.payer.PublicKey,
			RecentBlockhash: blockhash,
			Instructions:    instructions,
		}),
		Signers: signers,
	})
	if err != nil {
		s.metrics.RecordTxFailed("build")
		return "", fmt.Errorf("build transaction: %w", err)
	}

	sig, err := s.rpc.SendTransaction(ctx, tx)
	if err != nil {
		s.metrics.RecordTxFailed("send")
		return "", fmt.Errorf("send transaction: %w", err)
	}
	s.metrics.RecordTxSent()
	s.logger.Debug("transaction submitted",
		zap.String("signature", sig),
		zap.Int("instructions", len(instructions)))

	start := time.Now()
	if err := s.confirmer.Confirm(ctx, sig); err != nil {
		s.metrics.RecordTxFailed("confirm")
		return sig, fmt.Errorf("confirm transaction: %w", err)
	}
	s.metrics.RecordTxConfirmed(time.Since(start))

	return sig, nil
}
