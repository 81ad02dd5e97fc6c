package reporting

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"solana-token-admin/internal/domain"
	"solana-token-admin/internal/storage/memory"
)

func u64(v uint64) *uint64 {
	return &v
}

func setupTestData(t *testing.T) *memory.OperationStore {
	ctx := context.Background()
	store := memory.NewOperationStore()

	ops := []*domain.Operation{
		{OperationID: "op1", RunID: "r1", Kind: domain.OpCreateMint, Network: "devnet", Mint: "mintA", Signature: "s1", ExecutedAt: 1000, SupplyAfter: u64(0), Detail: "decimals=9"},
		{OperationID: "op2", RunID: "r2", Kind: domain.OpMintSupply, Network: "devnet", Mint: "mintA", Signature: "s2", ExecutedAt: 2000, Amount: 1000, SupplyBefore: u64(0), SupplyAfter: u64(1000)},
		{OperationID: "op3", RunID: "r3", Kind: domain.OpBurn, Network: "devnet", Mint: "mintA", Signature: "s3", ExecutedAt: 3000, Amount: 250, SupplyBefore: u64(1000), SupplyAfter: u64(750), Detail: "from=ata, \"quoted\""},
		{OperationID: "op4", RunID: "r4", Kind: domain.OpMintSupply, Network: "devnet", Mint: "mintB", Signature: "s4", ExecutedAt: 4000, Amount: 5},
	}
	for _, op := range ops {
		if err := store.Insert(ctx, op); err != nil {
			t.Fatalf("Insert operation failed: %v", err)
		}
	}
	return store
}

func TestGenerate_All(t *testing.T) {
	fixedTime := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(setupTestData(t)).WithClock(func() time.Time { return fixedTime })

	report, err := g.Generate(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !report.GeneratedAt.Equal(fixedTime) {
		t.Errorf("GeneratedAt = %v, want %v", report.GeneratedAt, fixedTime)
	}
	if len(report.Operations) != 4 {
		t.Fatalf("expected 4 operations, got %d", len(report.Operations))
	}
	if report.MintCount != 2 {
		t.Errorf("MintCount = %d, want 2", report.MintCount)
	}
	if report.TotalMinted != 1005 {
		t.Errorf("TotalMinted = %d, want 1005", report.TotalMinted)
	}
	if report.TotalBurned != 250 {
		t.Errorf("TotalBurned = %d, want 250", report.TotalBurned)
	}

	// Summary sorted by kind
	wantKinds := []domain.OperationKind{domain.OpBurn, domain.OpCreateMint, domain.OpMintSupply}
	if len(report.Summary) != len(wantKinds) {
		t.Fatalf("expected %d summary rows, got %d", len(wantKinds), len(report.Summary))
	}
	for i, k := range wantKinds {
		if report.Summary[i].Kind != k {
			t.Errorf("Summary[%d].Kind = %s, want %s", i, report.Summary[i].Kind, k)
		}
	}
	if report.Summary[2].Count != 2 || report.Summary[2].Amount != 1005 {
		t.Errorf("mint summary = %+v", report.Summary[2])
	}
}

func TestGenerate_ByMintAndRange(t *testing.T) {
	g := NewGenerator(setupTestData(t))

	report, err := g.Generate(context.Background(), Filter{Mint: "mintA", Start: 1500, End: 3000})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(report.Operations) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(report.Operations))
	}
	if report.Operations[0].OperationID != "op2" || report.Operations[1].OperationID != "op3" {
		t.Errorf("unexpected order: %s, %s", report.Operations[0].OperationID, report.Operations[1].OperationID)
	}
}

func TestGenerate_InvalidRange(t *testing.T) {
	g := NewGenerator(setupTestData(t))
	if _, err := g.Generate(context.Background(), Filter{Start: 5000, End: 1000}); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestRenderMarkdown(t *testing.T) {
	fixedTime := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(setupTestData(t)).WithClock(func() time.Time { return fixedTime })

	report, err := g.Generate(context.Background(), Filter{Mint: "mintA"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderMarkdown(report)

	for _, want := range []string{
		"# Token Operation History",
		"Generated: 2024-01-15T12:00:00Z",
		"Mint: `mintA`",
		"Operations: 3 | Mints: 1",
		"| BURN | 1 | 250 |",
		"Total minted: 1000 | Total burned: 250",
		"| MINT_SUPPLY | devnet | `mintA` | 1000 | 0 | 1000 | `s2` |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	md := RenderMarkdown(&Report{})
	if !strings.Contains(md, "No operations recorded.") {
		t.Error("expected empty summary message")
	}
	if !strings.Contains(md, "No operations available.") {
		t.Error("expected empty operations message")
	}
}

func TestRenderCSV(t *testing.T) {
	report, err := NewGenerator(setupTestData(t)).Generate(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	out, err := RenderCSV(report)
	if err != nil {
		t.Fatalf("RenderCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected header + 4 rows, got %d", len(records))
	}
	if records[0][0] != "operation_id" {
		t.Errorf("unexpected header: %v", records[0])
	}

	burn := records[3]
	if burn[3] != "burn" || burn[8] != "250" || burn[9] != "1000" || burn[10] != "750" {
		t.Errorf("unexpected burn row: %v", burn)
	}
	if burn[11] != `from=ata, "quoted"` {
		t.Errorf("detail not round-tripped: %q", burn[11])
	}

	noSupply := records[4]
	if noSupply[9] != "" || noSupply[10] != "" {
		t.Errorf("expected empty supplies, got %v", noSupply)
	}
}
