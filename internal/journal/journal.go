// Package journal records confirmed token operations in every configured
// operation store.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"solana-token-admin/internal/domain"
	"solana-token-admin/internal/idhash"
	"solana-token-admin/internal/observability"
	"solana-token-admin/internal/storage"
)

// Backend is one named operation store, e.g. "postgres".
type Backend struct {
	Name  string
	Store storage.OperationStore
}

// Recorder stamps operations with run metadata and inserts them into each
// backend. It satisfies the recorder interfaces of the token and metadata
// services.
type Recorder struct {
	backends []Backend
	runID    string
	network  string
	now      func() time.Time
	metrics  *observability.Metrics
	logger   *zap.Logger
	closers  []func()
}

// Option configures Recorder.
type Option func(*Recorder)

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(r *Recorder) { r.runID = id }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// WithMetrics records store latency.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Recorder) { r.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}

// NewRecorder creates a recorder for network writing to backends. With no
// backends, Record only stamps and logs.
func NewRecorder(network string, backends []Backend, opts ...Option) *Recorder {
	r := &Recorder{
		backends: backends,
		runID:    uuid.NewString(),
		network:  network,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunID identifies this program invocation in the journal.
func (r *Recorder) RunID() string {
	return r.runID
}

// Enabled reports whether any backend is configured.
func (r *Recorder) Enabled() bool {
	return len(r.backends) > 0
}

// Store returns the first backend's store for reading, or nil.
func (r *Recorder) Store() storage.OperationStore {
	if len(r.backends) == 0 {
		return nil
	}
	return r.backends[0].Store
}

// Record fills in the operation ID, run ID, network and timestamps, then
// inserts op into every backend. An operation that is already journaled
// counts as recorded. Errors from individual backends are joined.
func (r *Recorder) Record(ctx context.Context, op domain.Operation) error {
	now := r.now().UnixMilli()
	if op.ExecutedAt == 0 {
		op.ExecutedAt = now
	}
	op.CreatedAt = now
	op.RunID = r.runID
	op.Network = r.network
	op.OperationID = idhash.ComputeOperationID(op.Kind, op.Network, op.Mint, op.Signature)

	var errs []error
	for _, b := range r.backends {
		start := time.Now()
		err := b.Store.Insert(ctx, &op)
		if errors.Is(err, storage.ErrDuplicateKey) {
			err = nil
		}
		r.metrics.RecordDBQuery(b.Name, "insert_operation", time.Since(start), err)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
		}
	}

	r.logger.Debug("journaled operation",
		zap.String("operation_id", op.OperationID),
		zap.String("kind", op.Kind.String()),
		zap.String("signature", op.Signature),
		zap.Int("backends", len(r.backends)))

	return errors.Join(errs...)
}

// Close releases backend connections opened by Open.
func (r *Recorder) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}
