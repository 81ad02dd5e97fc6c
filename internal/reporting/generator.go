package reporting

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"solana-token-admin/internal/domain"
	"solana-token-admin/internal/storage"
)

// Generator produces reports from the operation journal.
type Generator struct {
	store storage.OperationStore
	now   func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(store storage.OperationStore) *Generator {
	return &Generator{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads the operations matching f and summarizes them.
func (g *Generator) Generate(ctx context.Context, f Filter) (*Report, error) {
	end := f.End
	if end == 0 {
		end = math.MaxInt64
	}
	if f.Start > end {
		return nil, fmt.Errorf("%w: start %d is after end %d", storage.ErrInvalidInput, f.Start, end)
	}

	var (
		ops []*domain.Operation
		err error
	)
	if f.Mint != "" {
		ops, err = g.store.GetByMint(ctx, f.Mint)
	} else {
		ops, err = g.store.GetByTimeRange(ctx, f.Start, end)
	}
	if err != nil {
		return nil, fmt.Errorf("load operations: %w", err)
	}

	r := &Report{
		GeneratedAt: g.now(),
		Filter:      f,
	}

	byKind := make(map[domain.OperationKind]*KindSummary)
	mints := make(map[string]struct{})

	for _, op := range ops {
		if op.ExecutedAt < f.Start || op.ExecutedAt > end {
			continue
		}
		r.Operations = append(r.Operations, op)
		mints[op.Mint] = struct{}{}

		s, ok := byKind[op.Kind]
		if !ok {
			s = &KindSummary{Kind: op.Kind}
			byKind[op.Kind] = s
		}
		s.Count++

		switch op.Kind {
		case domain.OpMintSupply:
			s.Amount += op.Amount
			r.TotalMinted += op.Amount
		case domain.OpBurn:
			s.Amount += op.Amount
			r.TotalBurned += op.Amount
		}
	}

	for _, s := range byKind {
		r.Summary = append(r.Summary, *s)
	}
	sort.Slice(r.Summary, func(i, j int) bool {
		return r.Summary[i].Kind < r.Summary[j].Kind
	})
	r.MintCount = len(mints)

	return r, nil
}
