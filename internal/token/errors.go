package token

import "errors"

var (
	// ErrNotAMint is returned when an account exists but is not an SPL mint.
	ErrNotAMint = errors.New("account is not an SPL token mint")

	// ErrMintNotFound is returned when the mint account does not exist.
	ErrMintNotFound = errors.New("mint account not found")

	// ErrNotMintAuthority is returned when the payer cannot mint.
	ErrNotMintAuthority = errors.New("payer is not the mint authority")

	// ErrNotFreezeAuthority is returned when the payer cannot change the
	// freeze authority.
	ErrNotFreezeAuthority = errors.New("payer is not the freeze authority")

	// ErrInsufficientTokenBalance is returned when the payer's token account
	// holds less than the requested burn.
	ErrInsufficientTokenBalance = errors.New("insufficient token balance")

	// ErrInvalidAmount is returned for zero amounts.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
)
