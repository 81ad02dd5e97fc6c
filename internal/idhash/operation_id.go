package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"solana-token-admin/internal/domain"
)

// ComputeOperationID computes a deterministic operation_id using SHA256.
// Formula: SHA256(kind|network|mint|tx_signature)
// Returns hex-encoded hash (64 characters).
//
// One transaction may carry a single journaled action per kind, so the
// signature together with the kind identifies an operation.
func ComputeOperationID(
	kind domain.OperationKind,
	network string,
	mint string,
	txSignature string,
) string {
	data := fmt.Sprintf("%s|%s|%s|%s",
		string(kind),
		network,
		mint,
		txSignature,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
