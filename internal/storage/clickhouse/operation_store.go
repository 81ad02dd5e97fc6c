package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-token-admin/internal/domain"
	"solana-token-admin/internal/storage"
)

// OperationStore implements storage.OperationStore using ClickHouse.
type OperationStore struct {
	conn *Conn
}

// NewOperationStore creates a new OperationStore.
func NewOperationStore(conn *Conn) *OperationStore {
	return &OperationStore{conn: conn}
}

// Compile-time interface check.
var _ storage.OperationStore = (*OperationStore)(nil)

const selectOperation = `
	SELECT operation_id, run_id, kind, network, mint, signature, authority,
		amount, supply_before, supply_after, detail, executed_at, created_at
	FROM token_operations
`

// Insert adds a new operation. Returns ErrDuplicateKey if operation_id exists.
func (s *OperationStore) Insert(ctx context.Context, op *domain.Operation) error {
	if err := storage.ValidateOperation(op); err != nil {
		return err
	}

	// MergeTree accepts duplicates; keep append-only semantics explicitly.
	exists, err := s.exists(ctx, op.OperationID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	createdAt := op.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().UnixMilli()
	}

	query := `
		INSERT INTO token_operations (
			operation_id, run_id, kind, network, mint, signature, authority,
			amount, supply_before, supply_after, detail, executed_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err = s.conn.Exec(ctx, query,
		op.OperationID, op.RunID, string(op.Kind), op.Network, op.Mint, op.Signature, op.Authority,
		op.Amount, op.SupplyBefore, op.SupplyAfter, op.Detail, op.ExecutedAt, createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// GetByID retrieves an operation by its ID. Returns ErrNotFound if not exists.
func (s *OperationStore) GetByID(ctx context.Context, operationID string) (*domain.Operation, error) {
	rows, err := s.conn.Query(ctx, selectOperation+` WHERE operation_id = ? LIMIT 1`, operationID)
	if err != nil {
		return nil, fmt.Errorf("query by id: %w", err)
	}
	defer rows.Close()

	ops, err := scanOperations(rows)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, storage.ErrNotFound
	}
	return ops[0], nil
}

// GetByMint retrieves all operations on a mint, ordered by executed_at ASC.
func (s *OperationStore) GetByMint(ctx context.Context, mint string) ([]*domain.Operation, error) {
	query := selectOperation + `
		WHERE mint = ?
		ORDER BY executed_at ASC, operation_id ASC
	`

	rows, err := s.conn.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("query by mint: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// GetByTimeRange retrieves operations executed within [start, end] (inclusive).
func (s *OperationStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.Operation, error) {
	query := selectOperation + `
		WHERE executed_at >= ? AND executed_at <= ?
		ORDER BY executed_at ASC, operation_id ASC
	`

	rows, err := s.conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// exists checks if an operation with the given ID exists.
func (s *OperationStore) exists(ctx context.Context, operationID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count(*) FROM token_operations WHERE operation_id = ?`, operationID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanOperations scans multiple rows into a slice.
func scanOperations(rows chRows) ([]*domain.Operation, error) {
	var ops []*domain.Operation

	for rows.Next() {
		var (
			op   domain.Operation
			kind string
		)
		err := rows.Scan(
			&op.OperationID, &op.RunID, &kind, &op.Network, &op.Mint, &op.Signature, &op.Authority,
			&op.Amount, &op.SupplyBefore, &op.SupplyAfter, &op.Detail, &op.ExecutedAt, &op.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan operation row: %w", err)
		}
		op.Kind = domain.OperationKind(kind)
		ops = append(ops, &op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operation rows: %w", err)
	}

	return ops, nil
}
