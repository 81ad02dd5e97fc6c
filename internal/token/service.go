// Package token performs SPL token administration: creating the mint,
// minting supply, burning and revoking authorities.
package token

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	tokenprog "github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	"solana-token-admin/internal/domain"
	"solana-token-admin/internal/observability"
	"solana-token-admin/internal/solana"
)

// TxSender submits instructions as one confirmed transaction paid for by
// FeePayer.
type TxSender interface {
	Send(ctx context.Context, instructions []types.Instruction, extraSigners ...types.Account) (string, error)
	FeePayer() common.PublicKey
}

// Recorder appends confirmed operations to the journal.
type Recorder interface {
	Record(ctx context.Context, op domain.Operation) error
}

// Operation outcomes reported to metrics.
const (
	statusSuccess = "success"
	statusSkipped = "skipped"
	statusFailed  = "failed"
)

// Service runs token administration operations for one fee payer.
type Service struct {
	rpc      solana.RPCClient
	sender   TxSender
	recorder Recorder
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// Option configures Service.
type Option func(*Service)

// WithRecorder journals every confirmed operation.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithMetrics counts operations by kind and outcome.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a token Service.
func NewService(rpc solana.RPCClient, sender TxSender, opts ...Option) *Service {
	s := &Service{
		rpc:    rpc,
		sender: sender,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Payer returns the fee payer address.
func (s *Service) Payer() common.PublicKey {
	return s.sender.FeePayer()
}

// FetchMint loads and decodes a mint account.
func (s *Service) FetchMint(ctx context.Context, mint common.PublicKey) (*domain.MintInfo, error) {
	info, err := s.rpc.GetAccountInfo(ctx, mint.ToBase58())
	if err != nil {
		return nil, fmt.Errorf("get mint account %s: %w", mint.ToBase58(), err)
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrMintNotFound, mint.ToBase58())
	}
	return DecodeMint(mint, info)
}

// DecodeMint converts a fetched account into mint state. Accounts not owned
// by the token program or of the wrong size are rejected with ErrNotAMint.
func DecodeMint(mint common.PublicKey, info *solana.AccountInfo) (*domain.MintInfo, error) {
	if info.Owner != common.TokenProgramID.ToBase58() {
		return nil, fmt.Errorf("%w: %s is owned by %s", ErrNotAMint, mint.ToBase58(), info.Owner)
	}
	if len(info.Data) != tokenprog.MintAccountSize {
		return nil, fmt.Errorf("%w: %s has %d bytes of data", ErrNotAMint, mint.ToBase58(), len(info.Data))
	}

	acct, err := tokenprog.MintAccountFromData(info.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotAMint, mint.ToBase58(), err)
	}
	if !acct.IsInitialized {
		return nil, fmt.Errorf("%w: %s is not initialized", ErrNotAMint, mint.ToBase58())
	}

	out := &domain.MintInfo{
		Address:       mint.ToBase58(),
		Decimals:      acct.Decimals,
		Supply:        acct.Supply,
		IsInitialized: acct.IsInitialized,
	}
	if acct.MintAuthority != nil {
		a := acct.MintAuthority.ToBase58()
		out.MintAuthority = &a
	}
	if acct.FreezeAuthority != nil {
		f := acct.FreezeAuthority.ToBase58()
		out.FreezeAuthority = &f
	}
	return out, nil
}

// ATAResult describes the payer's associated token account.
type ATAResult struct {
	Address   common.PublicKey
	Created   bool
	Signature string // set when Created
}

// GetOrCreateATA derives the associated token account of owner for mint and
// creates it, paid by the fee payer, when it does not exist yet.
func (s *Service) GetOrCreateATA(ctx context.Context, owner, mint common.PublicKey) (*ATAResult, error) {
	ata, _, err := common.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, fmt.Errorf("derive associated token account: %w", err)
	}

	info, err := s.rpc.GetAccountInfo(ctx, ata.ToBase58())
	if err != nil {
		return nil, fmt.Errorf("get associated token account %s: %w", ata.ToBase58(), err)
	}
	if info != nil {
		return &ATAResult{Address: ata}, nil
	}

	s.logger.Info("creating associated token account",
		zap.String("ata", ata.ToBase58()),
		zap.String("owner", owner.ToBase58()))

	sig, err := s.sender.Send(ctx, []types.Instruction{
		associated_token_account.CreateAssociatedTokenAccount(associated_token_account.CreateAssociatedTokenAccountParam{
			Funder:                 s.sender.FeePayer(),
			Owner:                  owner,
			Mint:                   mint,
			AssociatedTokenAccount: ata,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("create associated token account %s: %w", ata.ToBase58(), err)
	}
	return &ATAResult{Address: ata, Created: true, Signature: sig}, nil
}

// tokenBalance reads the amount held by a token account. A missing account
// holds nothing.
func (s *Service) tokenBalance(ctx context.Context, account common.PublicKey) (uint64, error) {
	info, err := s.rpc.GetAccountInfo(ctx, account.ToBase58())
	if err != nil {
		return 0, fmt.Errorf("get token account %s: %w", account.ToBase58(), err)
	}
	if info == nil {
		return 0, nil
	}
	acct, err := tokenprog.TokenAccountFromData(info.Data)
	if err != nil {
		return 0, fmt.Errorf("decode token account %s: %w", account.ToBase58(), err)
	}
	return acct.Amount, nil
}

// record journals op. Failures are logged, never returned: the on-chain
// action has already happened.
func (s *Service) record(ctx context.Context, op domain.Operation) {
	s.metrics.RecordOperation(op.Kind.String(), statusSuccess)
	if s.recorder == nil {
		return
	}
	if op.Authority == "" {
		op.Authority = s.sender.FeePayer().ToBase58()
	}
	if err := s.recorder.Record(ctx, op); err != nil {
		s.logger.Warn("failed to journal operation",
			zap.String("kind", op.Kind.String()),
			zap.String("signature", op.Signature),
			zap.Error(err))
	}
}

func (s *Service) skipped(kind domain.OperationKind) {
	s.metrics.RecordOperation(kind.String(), statusSkipped)
}

func (s *Service) failed(kind domain.OperationKind) {
	s.metrics.RecordOperation(kind.String(), statusFailed)
}

func ptr[T any](v T) *T {
	return &v
}
