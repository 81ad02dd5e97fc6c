// Package storage defines the append-only operation journal.
package storage

import (
	"context"

	"solana-token-admin/internal/domain"
)

// OperationStore provides access to token_operations storage.
type OperationStore interface {
	// Insert adds a new operation. Returns ErrDuplicateKey if operation_id exists.
	Insert(ctx context.Context, op *domain.Operation) error

	// GetByID retrieves an operation by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, operationID string) (*domain.Operation, error)

	// GetByMint retrieves all operations on a mint, ordered by executed_at ASC.
	GetByMint(ctx context.Context, mint string) ([]*domain.Operation, error)

	// GetByTimeRange retrieves operations executed within [start, end] (inclusive),
	// ordered by executed_at ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.Operation, error)
}
