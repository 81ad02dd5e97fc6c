package solana

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrConfirmTimeout is returned when a transaction is not confirmed in time.
	ErrConfirmTimeout = errors.New("transaction confirmation timed out")

	// ErrClientClosed is returned by operations on a closed WebSocket client.
	ErrClientClosed = errors.New("client closed")
)

// RPCError is a JSON-RPC 2.0 error returned by the node.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// Logs returns program logs carried by a preflight simulation failure.
func (e *RPCError) Logs() []string {
	if len(e.Data) == 0 {
		return nil
	}
	var data struct {
		Logs []string `json:"logs"`
	}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil
	}
	return data.Logs
}

// TxError reports a transaction that landed but failed on chain.
type TxError struct {
	Signature string
	Err       interface{}
}

func (e *TxError) Error() string {
	b, err := json.Marshal(e.Err)
	if err != nil {
		return fmt.Sprintf("transaction %s failed: %v", e.Signature, e.Err)
	}
	return fmt.Sprintf("transaction %s failed: %s", e.Signature, b)
}

// ProgramLogs extracts program logs from err, if any.
func ProgramLogs(err error) []string {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Logs()
	}
	return nil
}
