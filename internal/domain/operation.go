package domain

// OperationKind identifies a state-changing token administration action.
type OperationKind string

const (
	OpCreateMint             OperationKind = "CREATE_MINT"
	OpCreateMetadata         OperationKind = "CREATE_METADATA"
	OpUpdateMetadata         OperationKind = "UPDATE_METADATA"
	OpMintSupply             OperationKind = "MINT_SUPPLY"
	OpBurn                   OperationKind = "BURN"
	OpDisableMintAuthority   OperationKind = "DISABLE_MINT_AUTHORITY"
	OpDisableFreezeAuthority OperationKind = "DISABLE_FREEZE_AUTHORITY"
)

// String returns the string representation of OperationKind.
func (k OperationKind) String() string {
	return string(k)
}

// IsValid checks if the kind is a known value.
func (k OperationKind) IsValid() bool {
	switch k {
	case OpCreateMint, OpCreateMetadata, OpUpdateMetadata, OpMintSupply,
		OpBurn, OpDisableMintAuthority, OpDisableFreezeAuthority:
		return true
	}
	return false
}

// Operation is one confirmed on-chain action recorded in the journal.
// Corresponds to token_operations table in PostgreSQL and ClickHouse.
type Operation struct {
	OperationID  string        // PRIMARY KEY, deterministic hash
	RunID        string        // groups operations of one program invocation
	Kind         OperationKind // what was done
	Network      string        // devnet | testnet | mainnet-beta | localnet
	Mint         string        // token mint address
	Signature    string        // confirmed transaction signature
	Authority    string        // signer that authorized the action
	Amount       uint64        // base units moved (mint/burn), 0 otherwise
	SupplyBefore *uint64       // supply before the action (nullable)
	SupplyAfter  *uint64       // supply after the action (nullable)
	Detail       string        // free-form context, e.g. metadata uri
	ExecutedAt   int64         // Unix timestamp in milliseconds
	CreatedAt    int64         // record creation timestamp (ms)
}
