package solana

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/blocto/solana-go-sdk/rpc"
)

// Network names.
const (
	Devnet      = "devnet"
	Testnet     = "testnet"
	MainnetBeta = "mainnet-beta"
	Localnet    = "localnet"
)

const explorerBase = "https://explorer.solana.com"

var defaultRPCEndpoints = map[string]string{
	Devnet:      rpc.DevnetRPCEndpoint,
	Testnet:     rpc.TestnetRPCEndpoint,
	MainnetBeta: rpc.MainnetRPCEndpoint,
	Localnet:    rpc.LocalnetRPCEndpoint,
}

// Cluster identifies the network and the endpoints used to reach it.
type Cluster struct {
	Network string
	RPCURL  string
	WSURL   string
}

// ResolveCluster picks endpoints for network. Non-empty overrides win over
// the public defaults; the WebSocket URL is derived from the RPC URL when
// not given.
func ResolveCluster(network, rpcURL, wsURL string) (Cluster, error) {
	def, ok := defaultRPCEndpoints[network]
	if !ok {
		return Cluster{}, fmt.Errorf("unknown network %q", network)
	}
	if rpcURL == "" {
		rpcURL = def
	}
	if wsURL == "" {
		var err error
		wsURL, err = WSURLFromRPC(rpcURL)
		if err != nil {
			return Cluster{}, err
		}
	}
	return Cluster{Network: network, RPCURL: rpcURL, WSURL: wsURL}, nil
}

// WSURLFromRPC derives the PubSub endpoint for an RPC endpoint: http→ws,
// https→wss, and the conventional local port 8899→8900.
func WSURLFromRPC(rpcURL string) (string, error) {
	u, err := url.Parse(rpcURL)
	if err != nil {
		return "", fmt.Errorf("parse rpc url %q: %w", rpcURL, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("rpc url %q: unsupported scheme %q", rpcURL, u.Scheme)
	}
	if u.Port() == "8899" {
		u.Host = u.Hostname() + ":8900"
	}
	return u.String(), nil
}

// ExplorerAddressURL links to an account on the Solana explorer.
func (c Cluster) ExplorerAddressURL(address string) string {
	return explorerBase + "/address/" + address + c.explorerQuery()
}

// ExplorerTxURL links to a transaction on the Solana explorer.
func (c Cluster) ExplorerTxURL(signature string) string {
	return explorerBase + "/tx/" + signature + c.explorerQuery()
}

func (c Cluster) explorerQuery() string {
	switch c.Network {
	case MainnetBeta, "":
		return ""
	case Localnet:
		rpcURL := c.RPCURL
		if rpcURL == "" {
			rpcURL = rpc.LocalnetRPCEndpoint
		}
		return "?cluster=custom&customUrl=" + url.QueryEscape(rpcURL)
	default:
		return "?cluster=" + strings.ToLower(c.Network)
	}
}
