package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Token Operation History\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.Filter.Mint != "" {
		sb.WriteString(fmt.Sprintf("Mint: `%s`\n\n", r.Filter.Mint))
	}
	if r.Filter.Start != 0 || r.Filter.End != 0 {
		sb.WriteString(fmt.Sprintf("Range: %s to %s\n\n", formatMillis(r.Filter.Start), formatMillis(r.Filter.End)))
	}
	sb.WriteString(fmt.Sprintf("Operations: %d | Mints: %d\n\n", len(r.Operations), r.MintCount))

	// Summary
	sb.WriteString("## Summary\n\n")
	if len(r.Summary) > 0 {
		sb.WriteString("| Kind | Count | Amount (base units) |\n")
		sb.WriteString("|------|-------|---------------------|\n")
		for _, s := range r.Summary {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d |\n", s.Kind, s.Count, s.Amount))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Total minted: %d | Total burned: %d\n", r.TotalMinted, r.TotalBurned))
	} else {
		sb.WriteString("No operations recorded.\n")
	}
	sb.WriteString("\n")

	// Operations
	sb.WriteString("## Operations\n\n")
	if len(r.Operations) > 0 {
		sb.WriteString("| Executed | Kind | Network | Mint | Amount | Supply Before | Supply After | Signature |\n")
		sb.WriteString("|----------|------|---------|------|--------|---------------|--------------|-----------|\n")
		for _, op := range r.Operations {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | `%s` | %d | %s | %s | `%s` |\n",
				formatMillis(op.ExecutedAt), op.Kind, op.Network, op.Mint, op.Amount,
				formatSupply(op.SupplyBefore), formatSupply(op.SupplyAfter), op.Signature))
		}
	} else {
		sb.WriteString("No operations available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func formatSupply(v *uint64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
