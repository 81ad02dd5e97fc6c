package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"

	"solana-token-admin/internal/domain"
)

var csvHeader = []string{
	"operation_id", "run_id", "executed_at", "kind", "network", "mint", "signature",
	"authority", "amount", "supply_before", "supply_after", "detail",
}

// RenderCSV renders the report's operations as CSV string.
func RenderCSV(r *Report) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for _, op := range r.Operations {
		record := []string{
			op.OperationID,
			op.RunID,
			strconv.FormatInt(op.ExecutedAt, 10),
			kindLabel(op.Kind),
			op.Network,
			op.Mint,
			op.Signature,
			op.Authority,
			strconv.FormatUint(op.Amount, 10),
			optionalUint(op.SupplyBefore),
			optionalUint(op.SupplyAfter),
			op.Detail,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func optionalUint(v *uint64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(*v, 10)
}

func kindLabel(k domain.OperationKind) string {
	return strings.ToLower(k.String())
}
