// Package metadata attaches Metaplex token metadata to an existing mint.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	"solana-token-admin/internal/amount"
	"solana-token-admin/internal/domain"
	"solana-token-admin/internal/observability"
	"solana-token-admin/internal/solana"
	"solana-token-admin/internal/token"
)

// MinPayerBalance is the balance the payer needs before metadata is written
// (0.01 SOL).
const MinPayerBalance uint64 = 10_000_000

var (
	// ErrInsufficientFunds is returned when the payer holds less than
	// MinPayerBalance.
	ErrInsufficientFunds = errors.New("payer has insufficient funds")

	// ErrNotUpdateAuthority is returned when existing metadata is controlled
	// by another key.
	ErrNotUpdateAuthority = errors.New("payer is not the metadata update authority")

	// ErrNotMetadataAccount is returned when the metadata address holds an
	// account the metadata program does not own.
	ErrNotMetadataAccount = errors.New("account is not a token metadata account")
)

// Action says whether Upsert created or updated metadata.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Result reports the outcome of Upsert.
type Result struct {
	Action    Action
	Mint      common.PublicKey
	Metadata  common.PublicKey
	Signature string
	Previous  *domain.TokenMetadata // set when updated
}

// Service writes metadata for mints paid for by one fee payer.
type Service struct {
	rpc      solana.RPCClient
	sender   token.TxSender
	recorder token.Recorder
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// Option configures Service.
type Option func(*Service)

// WithRecorder journals successful writes.
func WithRecorder(r token.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithMetrics records operation outcomes.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a metadata service.
func NewService(rpc solana.RPCClient, sender token.TxSender, opts ...Option) *Service {
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

// Address derives the metadata account of mint.
func Address(mint common.PublicKey) (common.PublicKey, error) {
	addr, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("derive metadata address: %w", err)
	}
	return addr, nil
}

// Fetch returns the metadata of mint, or nil when none exists.
func (s *Service) Fetch(ctx context.Context, mint common.PublicKey) (*domain.TokenMetadata, error) {
	addr, err := Address(mint)
	if err != nil {
		return nil, err
	}
	info, err := s.rpc.GetAccountInfo(ctx, addr.ToBase58())
	if err != nil {
		return nil, fmt.Errorf("get metadata account %s: %w", addr.ToBase58(), err)
	}
	if info == nil {
		return nil, nil
	}
	md, err := Decode(addr, info)
	if err != nil {
		return nil, err
	}
	return md, nil
}

// Decode converts a fetched metadata account.
func Decode(addr common.PublicKey, info *solana.AccountInfo) (*domain.TokenMetadata, error) {
	md, err := decodeRaw(addr, info)
	if err != nil {
		return nil, err
	}
	return toDomain(addr, md), nil
}

func decodeRaw(addr common.PublicKey, info *solana.AccountInfo) (token_metadata.Metadata, error) {
	if info.Owner != common.MetaplexTokenMetaProgramID.ToBase58() {
		return token_metadata.Metadata{}, fmt.Errorf("%w: %s is owned by %s", ErrNotMetadataAccount, addr.ToBase58(), info.Owner)
	}
	md, err := token_metadata.MetadataDeserialize(info.Data)
	if err != nil {
		return token_metadata.Metadata{}, fmt.Errorf("%w: %s: %v", ErrNotMetadataAccount, addr.ToBase58(), err)
	}
	return md, nil
}

func toDomain(addr common.PublicKey, md token_metadata.Metadata) *domain.TokenMetadata {
	return &domain.TokenMetadata{
		Address:              addr.ToBase58(),
		Mint:                 md.Mint.ToBase58(),
		UpdateAuthority:      md.UpdateAuthority.ToBase58(),
		Name:                 trimPadding(md.Data.Name),
		Symbol:               trimPadding(md.Data.Symbol),
		URI:                  trimPadding(md.Data.Uri),
		SellerFeeBasisPoints: md.Data.SellerFeeBasisPoints,
		IsMutable:            md.IsMutable,
	}
}

// On-chain strings are padded to their maximum length with NUL bytes.
func trimPadding(s string) string {
	return strings.TrimRight(s, "\x00")
}

// Upsert creates metadata for mint, or updates it when it already exists.
// Creation requires the payer to be the mint authority; an update requires
// it to be the update authority. Creators, collection and uses of existing
// metadata are kept.
func (s *Service) Upsert(ctx context.Context, mint common.PublicKey, params domain.MetadataParams) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	payer := s.sender.FeePayer()

	balance, err := s.rpc.GetBalance(ctx, payer.ToBase58())
	if err != nil {
		return nil, fmt.Errorf("get payer balance: %w", err)
	}
	s.logger.Info("payer balance", zap.String("balance", amount.FormatSOL(balance)+" SOL"))
	if balance < MinPayerBalance {
		return nil, fmt.Errorf("%w: %s SOL, need at least %s SOL", ErrInsufficientFunds,
			amount.FormatSOL(balance), amount.FormatSOL(MinPayerBalance))
	}

	mintInfo, err := s.rpc.GetAccountInfo(ctx, mint.ToBase58())
	if err != nil {
		return nil, fmt.Errorf("get mint account %s: %w", mint.ToBase58(), err)
	}
	if mintInfo == nil {
		return nil, fmt.Errorf("%w: %s", token.ErrMintNotFound, mint.ToBase58())
	}

	addr, err := Address(mint)
	if err != nil {
		return nil, err
	}
	existing, err := s.rpc.GetAccountInfo(ctx, addr.ToBase58())
	if err != nil {
		return nil, fmt.Errorf("get metadata account %s: %w", addr.ToBase58(), err)
	}

	if existing != nil {
		return s.update(ctx, mint, addr, existing, params)
	}
	return s.create(ctx, mint, addr, mintInfo, params)
}

func (s *Service) create(ctx context.Context, mint, addr common.PublicKey, mintInfo *solana.AccountInfo, params domain.MetadataParams) (*Result, error) {
	payer := s.sender.FeePayer()

	decoded, err := token.DecodeMint(mint, mintInfo)
	if err != nil {
		s.failed(domain.OpCreateMetadata)
		return nil, err
	}
	if !decoded.HasMintAuthority(payer.ToBase58()) {
		s.failed(domain.OpCreateMetadata)
		return nil, fmt.Errorf("%w: creating metadata for %s", token.ErrNotMintAuthority, mint.ToBase58())
	}

	s.logger.Info("metadata does not exist, creating",
		zap.String("mint", mint.ToBase58()),
		zap.String("metadata", addr.ToBase58()))

	sig, err := s.sender.Send(ctx, []types.Instruction{
		token_metadata.CreateMetadataAccountV3(token_metadata.CreateMetadataAccountV3Param{
			Metadata:                addr,
			Mint:                    mint,
			MintAuthority:           payer,
			Payer:                   payer,
			UpdateAuthority:         payer,
			UpdateAuthorityIsSigner: true,
			IsMutable:               params.IsMutable,
			Data:                    dataV2(params, nil),
		}),
	})
	if err != nil {
		s.failed(domain.OpCreateMetadata)
		return nil, fmt.Errorf("create metadata for %s: %w", mint.ToBase58(), err)
	}

	s.record(ctx, domain.Operation{
		Kind:      domain.OpCreateMetadata,
		Mint:      mint.ToBase58(),
		Signature: sig,
		Detail:    describe(params),
	})

	return &Result{Action: ActionCreated, Mint: mint, Metadata: addr, Signature: sig}, nil
}

func (s *Service) update(ctx context.Context, mint, addr common.PublicKey, existing *solana.AccountInfo, params domain.MetadataParams) (*Result, error) {
	payer := s.sender.FeePayer()

	md, err := decodeRaw(addr, existing)
	if err != nil {
		s.failed(domain.OpUpdateMetadata)
		return nil, err
	}
	if md.UpdateAuthority != payer {
		s.failed(domain.OpUpdateMetadata)
		return nil, fmt.Errorf("%w: update authority of %s is %s, payer is %s", ErrNotUpdateAuthority,
			addr.ToBase58(), md.UpdateAuthority.ToBase58(), payer.ToBase58())
	}

	s.logger.Info("metadata already exists, updating",
		zap.String("mint", mint.ToBase58()),
		zap.String("metadata", addr.ToBase58()))

	sig, err := s.sender.Send(ctx, []types.Instruction{
		token_metadata.UpdateMetadataAccountV2(token_metadata.UpdateMetadataAccountV2Param{
			MetadataAccount: addr,
			UpdateAuthority: payer,
			Data:            ptr(dataV2(params, &md)),
		}),
	})
	if err != nil {
		s.failed(domain.OpUpdateMetadata)
		return nil, fmt.Errorf("update metadata for %s: %w", mint.ToBase58(), err)
	}

	s.record(ctx, domain.Operation{
		Kind:      domain.OpUpdateMetadata,
		Mint:      mint.ToBase58(),
		Signature: sig,
		Detail:    describe(params),
	})

	return &Result{
		Action:    ActionUpdated,
		Mint:      mint,
		Metadata:  addr,
		Signature: sig,
		Previous:  toDomain(addr, md),
	}, nil
}

// dataV2 builds instruction data from params, carrying creators, collection
// and uses over from prev when set.
func dataV2(params domain.MetadataParams, prev *token_metadata.Metadata) token_metadata.DataV2 {
	d := token_metadata.DataV2{
		Name:                 params.Name,
		Symbol:               params.Symbol,
		Uri:                  params.URI,
		SellerFeeBasisPoints: params.SellerFeeBasisPoints,
	}
	if prev != nil {
		d.Creators = prev.Data.Creators
		d.Collection = prev.Collection
		d.Uses = prev.Uses
	}
	return d
}

func describe(p domain.MetadataParams) string {
	return fmt.Sprintf("name=%s symbol=%s uri=%s fee_bps=%d", p.Name, p.Symbol, p.URI, p.SellerFeeBasisPoints)
}

func (s *Service) record(ctx context.Context, op domain.Operation) {
	s.metrics.RecordOperation(op.Kind.String(), "success")
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

func (s *Service) failed(kind domain.OperationKind) {
	s.metrics.RecordOperation(kind.String(), "failed")
}

func ptr[T any](v T) *T {
	return &v
}
