package token

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	tokenprog "github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	"solana-token-admin/internal/amount"
	"solana-token-admin/internal/domain"
)

// CreateMintResult reports the outcome of CreateMint.
type CreateMintResult struct {
	Mint      *domain.MintInfo
	Created   bool   // false when the mint already existed
	Signature string // set when Created
}

// CreateMint creates and initializes a mint at the address of mintAccount
// with the fee payer as mint authority and no freeze authority. An existing
// mint at that address is returned unchanged.
func (s *Service) CreateMint(ctx context.Context, mintAccount types.Account, decimals uint8) (*CreateMintResult, error) {
	mint := mintAccount.PublicKey

	info, err := s.rpc.GetAccountInfo(ctx, mint.ToBase58())
	if err != nil {
		return nil, fmt.Errorf("get mint account %s: %w", mint.ToBase58(), err)
	}
	if info != nil {
		existing, err := DecodeMint(mint, info)
		if err != nil {
			s.failed(domain.OpCreateMint)
			return nil, err
		}
		s.skipped(domain.OpCreateMint)
		return &CreateMintResult{Mint: existing}, nil
	}

	rent, err := s.rpc.GetMinimumBalanceForRentExemption(ctx, tokenprog.MintAccountSize)
	if err != nil {
		return nil, fmt.Errorf("get rent exemption: %w", err)
	}

	payer := s.sender.FeePayer()
	s.logger.Info("creating mint",
		zap.String("mint", mint.ToBase58()),
		zap.Uint8("decimals", decimals),
		zap.String("rent", amount.FormatSOL(rent)+" SOL"))

	sig, err := s.sender.Send(ctx, []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     payer,
			New:      mint,
			Owner:    common.TokenProgramID,
			Lamports: rent,
			Space:    tokenprog.MintAccountSize,
		}),
		tokenprog.InitializeMint(tokenprog.InitializeMintParam{
			Decimals:   decimals,
			Mint:       mint,
			MintAuth:   payer,
			FreezeAuth: nil,
		}),
	}, mintAccount)
	if err != nil {
		s.failed(domain.OpCreateMint)
		return nil, fmt.Errorf("create mint %s: %w", mint.ToBase58(), err)
	}

	s.record(ctx, domain.Operation{
		Kind:        domain.OpCreateMint,
		Mint:        mint.ToBase58(),
		Signature:   sig,
		SupplyAfter: ptr(uint64(0)),
		Detail:      fmt.Sprintf("decimals=%d", decimals),
	})

	return &CreateMintResult{
		Mint: &domain.MintInfo{
			Address:       mint.ToBase58(),
			Decimals:      decimals,
			MintAuthority: ptr(payer.ToBase58()),
			IsInitialized: true,
		},
		Created:   true,
		Signature: sig,
	}, nil
}

// MintSupplyParams configures MintToTarget.
type MintSupplyParams struct {
	Mint common.PublicKey
	// Target is the desired total supply in human units, e.g. "1000000.5".
	Target string
	// ExpectedDecimals, when set, is compared with the on-chain decimals.
	ExpectedDecimals *uint8
}

// MintSupplyResult reports the outcome of MintToTarget.
type MintSupplyResult struct {
	Mint         *domain.MintInfo
	TargetSupply uint64 // base units
	Minted       uint64 // base units, zero when already at target
	SupplyAfter  uint64
	TokenAccount common.PublicKey
	Signature    string
}

// AlreadyAtTarget reports whether nothing needed to be minted.
func (r *MintSupplyResult) AlreadyAtTarget() bool {
	return r.Minted == 0
}

// MintToTarget mints the difference between the target supply and the
// current supply into the fee payer's associated token account.
func (s *Service) MintToTarget(ctx context.Context, p MintSupplyParams) (*MintSupplyResult, error) {
	info, err := s.FetchMint(ctx, p.Mint)
	if err != nil {
		return nil, err
	}

	if p.ExpectedDecimals != nil && *p.ExpectedDecimals != info.Decimals {
		s.logger.Warn("configured decimals differ from mint, using on-chain value",
			zap.Uint8("configured", *p.ExpectedDecimals),
			zap.Uint8("on_chain", info.Decimals))
	}

	target, err := amount.ToBaseUnits(p.Target, info.Decimals)
	if err != nil {
		return nil, fmt.Errorf("target supply %q: %w", p.Target, err)
	}

	result := &MintSupplyResult{
		Mint:         info,
		TargetSupply: target,
		SupplyAfter:  info.Supply,
	}

	if info.Supply >= target {
		s.skipped(domain.OpMintSupply)
		return result, nil
	}

	payer := s.sender.FeePayer()
	if !info.HasMintAuthority(payer.ToBase58()) {
		s.failed(domain.OpMintSupply)
		return nil, mintAuthorityError(info, payer)
	}

	delta := target - info.Supply

	ata, err := s.GetOrCreateATA(ctx, payer, p.Mint)
	if err != nil {
		s.failed(domain.OpMintSupply)
		return nil, err
	}
	result.TokenAccount = ata.Address

	sig, err := s.sender.Send(ctx, []types.Instruction{
		tokenprog.MintToChecked(tokenprog.MintToCheckedParam{
			Mint:     p.Mint,
			Auth:     payer,
			Signers:  []common.PublicKey{},
			To:       ata.Address,
			Amount:   delta,
			Decimals: info.Decimals,
		}),
	})
	if err != nil {
		s.failed(domain.OpMintSupply)
		return nil, fmt.Errorf("mint %s to %s: %w", amount.FormatUnits(delta, info.Decimals), ata.Address.ToBase58(), err)
	}

	result.Minted = delta
	result.SupplyAfter = target
	result.Signature = sig

	s.record(ctx, domain.Operation{
		Kind:         domain.OpMintSupply,
		Mint:         p.Mint.ToBase58(),
		Signature:    sig,
		Amount:       delta,
		SupplyBefore: ptr(info.Supply),
		SupplyAfter:  ptr(target),
		Detail:       "to=" + ata.Address.ToBase58(),
	})

	return result, nil
}

func mintAuthorityError(info *domain.MintInfo, payer common.PublicKey) error {
	if info.MintAuthority == nil {
		return fmt.Errorf("%w: mint authority of %s is disabled", ErrNotMintAuthority, info.Address)
	}
	return fmt.Errorf("%w: mint authority of %s is %s, payer is %s",
		ErrNotMintAuthority, info.Address, *info.MintAuthority, payer.ToBase58())
}
