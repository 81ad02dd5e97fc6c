package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"solana-token-admin/internal/cli"
	"solana-token-admin/internal/solana"
	"solana-token-admin/internal/token"
)

func TestExplorerLinks_PartialResult(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	env := &cli.Env{
		Logger:  zap.New(core),
		Cluster: solana.Cluster{Network: "devnet"},
	}

	// Freeze step failed after the mint authority was revoked
	explorerLinks(env, &token.DisableResult{
		MintAuthority: token.AuthorityChange{Outcome: token.AuthorityRevoked, Signature: "5sig"},
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "mint authority revocation", entries[0].Message)
	assert.Equal(t, "https://explorer.solana.com/tx/5sig?cluster=devnet", entries[0].ContextMap()["explorer"])
}

func TestExplorerLinks_SkipsUnchanged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	env := &cli.Env{Logger: zap.New(core), Cluster: solana.Cluster{Network: "mainnet-beta"}}

	explorerLinks(env, &token.DisableResult{
		MintAuthority:   token.AuthorityChange{Outcome: token.AuthorityAlreadyDisabled},
		FreezeAuthority: token.AuthorityChange{Outcome: token.AuthorityRevoked, Signature: "7sig"},
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "freeze authority revocation", entries[0].Message)
	assert.Equal(t, "https://explorer.solana.com/tx/7sig", entries[0].ContextMap()["explorer"])
}
