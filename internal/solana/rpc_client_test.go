package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"
)

// rpcHandler returns the JSON-RPC result (or an *RPCError) for a request.
type rpcHandler func(t *testing.T, req rpcRequest) interface{}

// newRPCServer serves JSON-RPC requests by dispatching on method name.
func newRPCServer(t *testing.T, handlers map[string]rpcHandler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
		}

		h, ok := handlers[req.Method]
		if !ok {
			t.Errorf("unexpected method %s", req.Method)
			resp["error"] = map[string]interface{}{"code": -32601, "message": "Method not found"}
		} else {
			result := h(t, req)
			if rpcErr, isErr := result.(*RPCError); isErr {
				resp["error"] = rpcErr
			} else {
				resp["result"] = result
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHTTPClient_GetBalance(t *testing.T) {
	server := newRPCServer(t, map[string]rpcHandler{
		"getBalance": func(t *testing.T, req rpcRequest) interface{} {
			if len(req.Params) != 2 || req.Params[0] != "payer" {
				t.Errorf("unexpected params: %v", req.Params)
			}
			cfg, _ := req.Params[1].(map[string]interface{})
			if cfg["commitment"] != "finalized" {
				t.Errorf("expected finalized commitment, got %v", cfg["commitment"])
			}
			return map[string]interface{}{
				"context": map[string]interface{}{"slot": 1},
				"value":   uint64(25_000_000),
			}
		},
	})

	client := NewHTTPClient(server.URL, WithCommitment("finalized"))

	balance, err := client.GetBalance(context.Background(), "payer")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance != 25_000_000 {
		t.Errorf("expected 25000000, got %d", balance)
	}
}

func TestHTTPClient_GetAccountInfo(t *testing.T) {
	server := newRPCServer(t, map[string]rpcHandler{
		"getAccountInfo": func(t *testing.T, req rpcRequest) interface{} {
			return map[string]interface{}{
				"value": map[string]interface{}{
					"lamports":   uint64(1461600),
					"owner":      "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
					"data":       []string{"SGVsbG8gV29ybGQ=", "base64"},
					"executable": false,
					"rentEpoch":  uint64(18446744073709551615),
				},
			}
		},
	})

	client := NewHTTPClient(server.URL)

	info, err := client.GetAccountInfo(context.Background(), "mint")
	if err != nil {
		t.Fatalf("GetAccountInfo: %v", err)
	}
	if info == nil {
		t.Fatal("expected account info, got nil")
	}
	if info.Lamports != 1461600 {
		t.Errorf("expected lamports 1461600, got %d", info.Lamports)
	}
	if info.Owner != "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA" {
		t.Errorf("unexpected owner: %s", info.Owner)
	}
	if string(info.Data) != "Hello World" {
		t.Errorf("unexpected data: %q", info.Data)
	}
}

func TestHTTPClient_GetAccountInfo_NotFound(t *testing.T) {
	server := newRPCServer(t, map[string]rpcHandler{
		"getAccountInfo": func(t *testing.T, req rpcRequest) interface{} {
			return map[string]interface{}{"value": nil}
		},
	})

	client := NewHTTPClient(server.URL)

	info, err := client.GetAccountInfo(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("GetAccountInfo: %v", err)
	}
	if info != nil {
		t.Errorf("expected nil for not found, got %+v", info)
	}
}

func TestHTTPClient_GetLatestBlockhash(t *testing.T) {
	server := newRPCServer(t, map[string]rpcHandler{
		"getLatestBlockhash": func(t *testing.T, req rpcRequest) interface{} {
			return map[string]interface{}{
				"value": map[string]interface{}{
					"blockhash":            "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N",
					"lastValidBlockHeight": 3090,
				},
			}
		},
	})

	client := NewHTTPClient(server.URL)

	hash, err := client.GetLatestBlockhash(context.Background())
	if err != nil {
		t.Fatalf("GetLatestBlockhash: %v", err)
	}
	if hash != "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N" {
		t.Errorf("unexpected blockhash: %s", hash)
	}
}

func TestHTTPClient_GetMinimumBalanceForRentExemption(t *testing.T) {
	server := newRPCServer(t, map[string]rpcHandler{
		"getMinimumBalanceForRentExemption": func(t *testing.T, req rpcRequest) interface{} {
			if len(req.Params) != 1 || req.Params[0] != float64(82) {
				t.Errorf("unexpected params: %v", req.Params)
			}
			return uint64(1461600)
		},
	})

	client := NewHTTPClient(server.URL)

	lamports, err := client.GetMinimumBalanceForRentExemption(context.Background(), 82)
	if err != nil {
		t.Fatalf("GetMinimumBalanceForRentExemption: %v", err)
	}
	if lamports != 1461600 {
		t.Errorf("expected 1461600, got %d", lamports)
	}
}

func testTransaction(t *testing.T) types.Transaction {
	t.Helper()
	payer := types.NewAccount()
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        payer.PublicKey,
			RecentBlockhash: "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N",
			Instructions: []types.Instruction{
				system.Transfer(system.TransferParam{
					From:   payer.PublicKey,
					To:     common.SystemProgramID,
					Amount: 1,
				}),
			},
		}),
		Signers: []types.Account{payer},
	})
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	return tx
}

func TestHTTPClient_SendTransaction(t *testing.T) {
	tx := testTransaction(t)
	want, err := tx.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	server := newRPCServer(t, map[string]rpcHandler{
		"sendTransaction": func(t *testing.T, req rpcRequest) interface{} {
			encoded, _ := req.Params[0].(string)
			raw, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				t.Errorf("decode tx: %v", err)
			}
			if string(raw) != string(want) {
				t.Error("transaction bytes differ from serialized transaction")
			}
			cfg, _ := req.Params[1].(map[string]interface{})
			if cfg["encoding"] != "base64" {
				t.Errorf("expected base64 encoding, got %v", cfg["encoding"])
			}
			return "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"
		},
	})

	client := NewHTTPClient(server.URL)

	sig, err := client.SendTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("SendTransaction: %v", err)
	}
	if sig != "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW" {
		t.Errorf("unexpected signature: %s", sig)
	}
}

func TestHTTPClient_SendTransaction_PreflightLogs(t *testing.T) {
	server := newRPCServer(t, map[string]rpcHandler{
		"sendTransaction": func(t *testing.T, req rpcRequest) interface{} {
			return &RPCError{
				Code:    -32002,
				Message: "Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1",
				Data:    json.RawMessage(`{"err":{"InstructionError":[0,{"Custom":1}]},"logs":["Program log: Error: insufficient funds"]}`),
			}
		},
	})

	client := NewHTTPClient(server.URL)

	_, err := client.SendTransaction(context.Background(), testTransaction(t))
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	logs := ProgramLogs(err)
	if len(logs) != 1 || logs[0] != "Program log: Error: insufficient funds" {
		t.Errorf("unexpected logs: %v", logs)
	}
}

func TestHTTPClient_GetSignatureStatus(t *testing.T) {
	server := newRPCServer(t, map[string]rpcHandler{
		"getSignatureStatuses": func(t *testing.T, req rpcRequest) interface{} {
			sigs, _ := req.Params[0].([]interface{})
			if len(sigs) != 1 {
				t.Errorf("expected one signature, got %v", req.Params[0])
			}
			if sigs[0] == "unknown" {
				return map[string]interface{}{"value": []interface{}{nil}}
			}
			return map[string]interface{}{
				"value": []interface{}{
					map[string]interface{}{
						"slot":               72,
						"confirmations":      10,
						"err":                nil,
						"confirmationStatus": "confirmed",
					},
				},
			}
		},
	})

	client := NewHTTPClient(server.URL)
	ctx := context.Background()

	status, err := client.GetSignatureStatus(ctx, "sig")
	if err != nil {
		t.Fatalf("GetSignatureStatus: %v", err)
	}
	if status == nil {
		t.Fatal("expected status, got nil")
	}
	if status.Slot != 72 || status.ConfirmationStatus != "confirmed" {
		t.Errorf("unexpected status: %+v", status)
	}
	if status.Confirmations == nil || *status.Confirmations != 10 {
		t.Errorf("unexpected confirmations: %v", status.Confirmations)
	}
	if !status.Reached("confirmed") || status.Reached("finalized") {
		t.Errorf("unexpected commitment comparison for %+v", status)
	}

	status, err = client.GetSignatureStatus(ctx, "unknown")
	if err != nil {
		t.Fatalf("GetSignatureStatus: %v", err)
	}
	if status != nil {
		t.Errorf("expected nil for unknown signature, got %+v", status)
	}
}

func TestHTTPClient_Retry(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := attempts.Add(1)
		switch count {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
			return
		case 2:
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  uint64(999),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL,
		WithMaxRetries(3),
		WithRetryDelay(10*time.Millisecond),
	)

	lamports, err := client.GetMinimumBalanceForRentExemption(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetMinimumBalanceForRentExemption: %v", err)
	}
	if lamports != 999 {
		t.Errorf("expected 999, got %d", lamports)
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestHTTPClient_MaxRetriesExceeded(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL,
		WithMaxRetries(2),
		WithRetryDelay(time.Millisecond),
	)

	_, err := client.GetBalance(context.Background(), "payer")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestHTTPClient_RPCError(t *testing.T) {
	var attempts atomic.Int32
	server := newRPCServer(t, map[string]rpcHandler{
		"getBalance": func(t *testing.T, req rpcRequest) interface{} {
			attempts.Add(1)
			return &RPCError{Code: -32602, Message: "Invalid param: WrongSize"}
		},
	})

	client := NewHTTPClient(server.URL, WithRetryDelay(time.Millisecond))

	_, err := client.GetBalance(context.Background(), "bad")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RPCError, got %T", err)
	}
	if rpcErr.Code != -32602 {
		t.Errorf("expected code -32602, got %d", rpcErr.Code)
	}
	if attempts.Load() != 1 {
		t.Errorf("RPC errors must not be retried, got %d attempts", attempts.Load())
	}
}

func TestHTTPClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := client.GetBalance(ctx, "payer")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
