package token

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	tokenprog "github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	"solana-token-admin/internal/domain"
)

// AuthorityOutcome describes what happened to one authority.
type AuthorityOutcome string

const (
	// AuthorityRevoked means a transaction set the authority to none.
	AuthorityRevoked AuthorityOutcome = "revoked"
	// AuthorityAlreadyDisabled means the authority was already none.
	AuthorityAlreadyDisabled AuthorityOutcome = "already_disabled"
)

// AuthorityChange reports the outcome for one authority.
type AuthorityChange struct {
	Outcome   AuthorityOutcome
	Signature string // set when Revoked
}

// DisableResult reports the outcome of DisableAuthorities.
type DisableResult struct {
	Mint            *domain.MintInfo // state before any change
	MintAuthority   AuthorityChange
	FreezeAuthority AuthorityChange
}

// DisableAuthorities permanently revokes the mint authority and then the
// freeze authority. Authorities that are already none are skipped. Either
// authority held by someone other than the fee payer is an error; the mint
// authority is handled first. When the freeze step fails after the mint
// authority was revoked, the partial result is returned with the error.
func (s *Service) DisableAuthorities(ctx context.Context, mint common.PublicKey) (*DisableResult, error) {
	info, err := s.FetchMint(ctx, mint)
	if err != nil {
		return nil, err
	}

	payer := s.sender.FeePayer()
	result := &DisableResult{Mint: info}

	switch {
	case info.MintAuthority == nil:
		s.logger.Info("mint authority already disabled", zap.String("mint", info.Address))
		s.skipped(domain.OpDisableMintAuthority)
		result.MintAuthority = AuthorityChange{Outcome: AuthorityAlreadyDisabled}
	case !info.HasMintAuthority(payer.ToBase58()):
		s.failed(domain.OpDisableMintAuthority)
		return result, mintAuthorityError(info, payer)
	default:
		sig, err := s.revoke(ctx, mint, tokenprog.AuthorityTypeMintTokens)
		if err != nil {
			s.failed(domain.OpDisableMintAuthority)
			return result, fmt.Errorf("disable mint authority: %w", err)
		}
		s.record(ctx, domain.Operation{
			Kind:      domain.OpDisableMintAuthority,
			Mint:      info.Address,
			Signature: sig,
			Detail:    "previous=" + *info.MintAuthority,
		})
		s.logger.Info("mint authority disabled",
			zap.String("mint", info.Address),
			zap.String("signature", sig))
		result.MintAuthority = AuthorityChange{Outcome: AuthorityRevoked, Signature: sig}
	}

	switch {
	case info.FreezeAuthority == nil:
		s.logger.Info("No freeze authority set.", zap.String("mint", info.Address))
		s.skipped(domain.OpDisableFreezeAuthority)
		result.FreezeAuthority = AuthorityChange{Outcome: AuthorityAlreadyDisabled}
	case !info.HasFreezeAuthority(payer.ToBase58()):
		s.failed(domain.OpDisableFreezeAuthority)
		return result, fmt.Errorf("%w: freeze authority of %s is %s, payer is %s",
			ErrNotFreezeAuthority, info.Address, *info.FreezeAuthority, payer.ToBase58())
	default:
		sig, err := s.revoke(ctx, mint, tokenprog.AuthorityTypeFreezeAccount)
		if err != nil {
			s.failed(domain.OpDisableFreezeAuthority)
			return result, fmt.Errorf("disable freeze authority: %w", err)
		}
		s.record(ctx, domain.Operation{
			Kind:      domain.OpDisableFreezeAuthority,
			Mint:      info.Address,
			Signature: sig,
			Detail:    "previous=" + *info.FreezeAuthority,
		})
		s.logger.Info("freeze authority disabled",
			zap.String("mint", info.Address),
			zap.String("signature", sig))
		result.FreezeAuthority = AuthorityChange{Outcome: AuthorityRevoked, Signature: sig}
	}

	return result, nil
}

func (s *Service) revoke(ctx context.Context, mint common.PublicKey, authType tokenprog.AuthorityType) (string, error) {
	return s.sender.Send(ctx, []types.Instruction{
		tokenprog.SetAuthority(tokenprog.SetAuthorityParam{
			Account:  mint,
			NewAuth:  nil,
			AuthType: authType,
			Auth:     s.sender.FeePayer(),
			Signers:  []common.PublicKey{},
		}),
	})
}
