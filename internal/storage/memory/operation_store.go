package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solana-token-admin/internal/domain"
	"solana-token-admin/internal/storage"
)

// OperationStore is an in-memory implementation of storage.OperationStore.
type OperationStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Operation // keyed by operation_id
}

// NewOperationStore creates a new in-memory operation store.
func NewOperationStore() *OperationStore {
	return &OperationStore{
		data: make(map[string]*domain.Operation),
	}
}

// Compile-time interface check.
var _ storage.OperationStore = (*OperationStore)(nil)

// Insert adds a new operation. Returns ErrDuplicateKey if operation_id exists.
func (s *OperationStore) Insert(_ context.Context, op *domain.Operation) error {
	if err := storage.ValidateOperation(op); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[op.OperationID]; exists {
		return storage.ErrDuplicateKey
	}

	opCopy := copyOperation(op)
	if opCopy.CreatedAt == 0 {
		opCopy.CreatedAt = time.Now().UnixMilli()
	}
	s.data[op.OperationID] = opCopy
	return nil
}

// GetByID retrieves an operation by its ID. Returns ErrNotFound if not exists.
func (s *OperationStore) GetByID(_ context.Context, operationID string) (*domain.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, exists := s.data[operationID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyOperation(op), nil
}

// GetByMint retrieves all operations on a mint, ordered by executed_at ASC.
func (s *OperationStore) GetByMint(_ context.Context, mint string) ([]*domain.Operation, error) {
	return s.filter(func(op *domain.Operation) bool {
		return op.Mint == mint
	}), nil
}

// GetByTimeRange retrieves operations executed within [start, end] (inclusive).
func (s *OperationStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.Operation, error) {
	return s.filter(func(op *domain.Operation) bool {
		return op.ExecutedAt >= start && op.ExecutedAt <= end
	}), nil
}

func (s *OperationStore) filter(keep func(*domain.Operation) bool) []*domain.Operation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Operation
	for _, op := range s.data {
		if keep(op) {
			result = append(result, copyOperation(op))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ExecutedAt != result[j].ExecutedAt {
			return result[i].ExecutedAt < result[j].ExecutedAt
		}
		return result[i].OperationID < result[j].OperationID
	})

	return result
}

// copyOperation deep-copies op so callers cannot mutate stored pointers.
func copyOperation(op *domain.Operation) *domain.Operation {
	c := *op
	if op.SupplyBefore != nil {
		v := *op.SupplyBefore
		c.SupplyBefore = &v
	}
	if op.SupplyAfter != nil {
		v := *op.SupplyAfter
		c.SupplyAfter = &v
	}
	return &c
}
