package storage

import (
	"errors"
	"fmt"

	"solana-token-admin/internal/domain"
)

// Storage errors for the append-only journal.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when an operation with the same ID was
	// already journaled. The journal never updates rows.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidateOperation checks the fields every backend requires.
func ValidateOperation(op *domain.Operation) error {
	switch {
	case op == nil:
		return ErrInvalidInput
	case op.OperationID == "":
		return fmt.Errorf("%w: operation_id is required", ErrInvalidInput)
	case !op.Kind.IsValid():
		return fmt.Errorf("%w: unknown operation kind %q", ErrInvalidInput, op.Kind)
	case op.Mint == "":
		return fmt.Errorf("%w: mint is required", ErrInvalidInput)
	case op.Signature == "":
		return fmt.Errorf("%w: signature is required", ErrInvalidInput)
	}
	return nil
}
