package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-admin/internal/domain"
	"solana-token-admin/internal/storage"
)

func testOperation(id string, executedAt int64) *domain.Operation {
	return &domain.Operation{
		OperationID:  id,
		RunID:        "run-001",
		Kind:         domain.OpBurn,
		Network:      "devnet",
		Mint:         "MintAddress123",
		Signature:    "Sig-" + id,
		Authority:    "PayerAddress123",
		Amount:       1_000,
		SupplyBefore: ptr(uint64(10_000)),
		SupplyAfter:  ptr(uint64(9_000)),
		Detail:       "from=AtaAddress123",
		ExecutedAt:   executedAt,
	}
}

func TestOperationStore_InsertAndGetByID(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewOperationStore(conn)
	ctx := context.Background()

	op := testOperation("op-001", 1700000000000)
	op.SupplyAfter = nil
	require.NoError(t, store.Insert(ctx, op))

	got, err := store.GetByID(ctx, "op-001")
	require.NoError(t, err)

	assert.Equal(t, op.Kind, got.Kind)
	assert.Equal(t, op.Signature, got.Signature)
	assert.Equal(t, op.Amount, got.Amount)
	require.NotNil(t, got.SupplyBefore)
	assert.Equal(t, uint64(10_000), *got.SupplyBefore)
	assert.Nil(t, got.SupplyAfter)
	assert.Equal(t, op.ExecutedAt, got.ExecutedAt)
	assert.NotZero(t, got.CreatedAt)
}

func TestOperationStore_InsertDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewOperationStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testOperation("op-dup", 1)))
	err := store.Insert(ctx, testOperation("op-dup", 2))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestOperationStore_GetByIDNotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewOperationStore(conn).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestOperationStore_Queries(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewOperationStore(conn)
	ctx := context.Background()

	other := testOperation("op-other", 2500)
	other.Mint = "OtherMint"
	require.NoError(t, store.Insert(ctx, other))
	require.NoError(t, store.Insert(ctx, testOperation("op-2", 2000)))
	require.NoError(t, store.Insert(ctx, testOperation("op-1", 1000)))

	byMint, err := store.GetByMint(ctx, "MintAddress123")
	require.NoError(t, err)
	require.Len(t, byMint, 2)
	assert.Equal(t, "op-1", byMint[0].OperationID)
	assert.Equal(t, "op-2", byMint[1].OperationID)

	byTime, err := store.GetByTimeRange(ctx, 2000, 3000)
	require.NoError(t, err)
	require.Len(t, byTime, 2)
	assert.Equal(t, "op-2", byTime[0].OperationID)
	assert.Equal(t, "op-other", byTime[1].OperationID)
}
