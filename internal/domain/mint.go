package domain

// MintInfo is the decoded state of an SPL token mint account.
type MintInfo struct {
	Address         string
	Decimals        uint8
	Supply          uint64  // base units
	MintAuthority   *string // nil once disabled
	FreezeAuthority *string // nil when never set or disabled
	IsInitialized   bool
}

// HasMintAuthority reports whether addr may still mint new supply.
func (m *MintInfo) HasMintAuthority(addr string) bool {
	return m.MintAuthority != nil && *m.MintAuthority == addr
}

// HasFreezeAuthority reports whether addr is the freeze authority.
func (m *MintInfo) HasFreezeAuthority(addr string) bool {
	return m.FreezeAuthority != nil && *m.FreezeAuthority == addr
}
