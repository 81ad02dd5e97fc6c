// Package reporting renders the operation journal as Markdown or CSV.
package reporting

import (
	"time"

	"solana-token-admin/internal/domain"
)

// Report is the operation history for one filter.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	Filter      Filter

	// Summary per operation kind, sorted by kind
	Summary []KindSummary

	// Totals in base units across all mints in the report
	TotalMinted uint64
	TotalBurned uint64
	MintCount   int

	// Operations ordered by executed_at, operation_id
	Operations []*domain.Operation
}

// Filter selects journal rows. Zero Start and End leave the range open.
type Filter struct {
	Mint  string
	Start int64 // Unix ms, inclusive
	End   int64 // Unix ms, inclusive
}

// KindSummary counts operations of one kind.
type KindSummary struct {
	Kind   domain.OperationKind
	Count  int
	Amount uint64 // base units moved, mint and burn only
}
