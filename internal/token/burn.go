package token

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	tokenprog "github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"

	"solana-token-admin/internal/amount"
	"solana-token-admin/internal/domain"
)

// BurnResult reports the outcome of Burn.
type BurnResult struct {
	Mint         *domain.MintInfo // state before the burn
	Burned       uint64
	SupplyAfter  uint64
	TokenAccount common.PublicKey
	Signature    string
}

// Burn destroys amountBase base units held in the fee payer's associated
// token account.
func (s *Service) Burn(ctx context.Context, mint common.PublicKey, amountBase uint64) (*BurnResult, error) {
	if amountBase == 0 {
		return nil, ErrInvalidAmount
	}

	info, err := s.FetchMint(ctx, mint)
	if err != nil {
		return nil, err
	}

	payer := s.sender.FeePayer()
	ata, err := s.GetOrCreateATA(ctx, payer, mint)
	if err != nil {
		s.failed(domain.OpBurn)
		return nil, err
	}

	balance, err := s.tokenBalance(ctx, ata.Address)
	if err != nil {
		s.failed(domain.OpBurn)
		return nil, err
	}
	if balance < amountBase {
		s.failed(domain.OpBurn)
		return nil, fmt.Errorf("%w: %s holds %s, burn requested %s", ErrInsufficientTokenBalance,
			ata.Address.ToBase58(),
			amount.FormatUnits(balance, info.Decimals),
			amount.FormatUnits(amountBase, info.Decimals))
	}

	sig, err := s.sender.Send(ctx, []types.Instruction{
		tokenprog.BurnChecked(tokenprog.BurnCheckedParam{
			Account:  ata.Address,
			Mint:     mint,
			Auth:     payer,
			Signers:  []common.PublicKey{},
			Amount:   amountBase,
			Decimals: info.Decimals,
		}),
	})
	if err != nil {
		s.failed(domain.OpBurn)
		return nil, fmt.Errorf("burn %s from %s: %w", amount.FormatUnits(amountBase, info.Decimals), ata.Address.ToBase58(), err)
	}

	result := &BurnResult{
		Mint:         info,
		Burned:       amountBase,
		SupplyAfter:  info.Supply - amountBase,
		TokenAccount: ata.Address,
		Signature:    sig,
	}

	// Prefer the observed supply; other holders may have burned or minted too.
	if after, err := s.FetchMint(ctx, mint); err == nil {
		result.SupplyAfter = after.Supply
	}

	s.record(ctx, domain.Operation{
		Kind:         domain.OpBurn,
		Mint:         mint.ToBase58(),
		Signature:    sig,
		Amount:       amountBase,
		SupplyBefore: ptr(info.Supply),
		SupplyAfter:  ptr(result.SupplyAfter),
		Detail:       "from=" + ata.Address.ToBase58(),
	})

	return result, nil
}
