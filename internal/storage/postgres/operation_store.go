package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"solana-token-admin/internal/domain"
	"solana-token-admin/internal/storage"
)

// OperationStore implements storage.OperationStore using PostgreSQL.
type OperationStore struct {
	pool *Pool
}

// NewOperationStore creates a new OperationStore.
func NewOperationStore(pool *Pool) *OperationStore {
	return &OperationStore{pool: pool}
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

	query := `
		INSERT INTO token_operations (
			operation_id, run_id, kind, network, mint, signature, authority,
			amount, supply_before, supply_after, detail, executed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	amount := op.Amount
	_, err := s.pool.Exec(ctx, query,
		op.OperationID,
		op.RunID,
		string(op.Kind),
		op.Network,
		op.Mint,
		op.Signature,
		op.Authority,
		numericFromUint64(&amount),
		numericFromUint64(op.SupplyBefore),
		numericFromUint64(op.SupplyAfter),
		op.Detail,
		op.ExecutedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// GetByID retrieves an operation by its ID. Returns ErrNotFound if not exists.
func (s *OperationStore) GetByID(ctx context.Context, operationID string) (*domain.Operation, error) {
	row := s.pool.QueryRow(ctx, selectOperation+` WHERE operation_id = $1`, operationID)
	op, err := scanOperation(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get operation by id: %w", err)
	}
	return op, nil
}

// GetByMint retrieves all operations on a mint, ordered by executed_at ASC.
func (s *OperationStore) GetByMint(ctx context.Context, mint string) ([]*domain.Operation, error) {
	query := selectOperation + `
		WHERE mint = $1
		ORDER BY executed_at ASC, operation_id ASC
	`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get operations by mint: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// GetByTimeRange retrieves operations executed within [start, end] (inclusive).
func (s *OperationStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.Operation, error) {
	query := selectOperation + `
		WHERE executed_at >= $1 AND executed_at <= $2
		ORDER BY executed_at ASC, operation_id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get operations by time range: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// scanOperation scans a single row into an Operation.
func scanOperation(row pgx.Row) (*domain.Operation, error) {
	var (
		op                    domain.Operation
		kind                  string
		amount, before, after pgtype.Numeric
	)

	err := row.Scan(
		&op.OperationID,
		&op.RunID,
		&kind,
		&op.Network,
		&op.Mint,
		&op.Signature,
		&op.Authority,
		&amount,
		&before,
		&after,
		&op.Detail,
		&op.ExecutedAt,
		&op.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	op.Kind = domain.OperationKind(kind)

	a, err := uint64FromNumeric(amount)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	if a != nil {
		op.Amount = *a
	}
	if op.SupplyBefore, err = uint64FromNumeric(before); err != nil {
		return nil, fmt.Errorf("supply_before: %w", err)
	}
	if op.SupplyAfter, err = uint64FromNumeric(after); err != nil {
		return nil, fmt.Errorf("supply_after: %w", err)
	}
	return &op, nil
}

// scanOperations scans multiple rows into a slice of Operation.
func scanOperations(rows pgx.Rows) ([]*domain.Operation, error) {
	var ops []*domain.Operation

	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation row: %w", err)
		}
		ops = append(ops, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operation rows: %w", err)
	}

	return ops, nil
}
