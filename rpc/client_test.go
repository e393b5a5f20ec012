package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func rpcServer(t *testing.T, handle func(req map[string]interface{}) (string, int)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		var req map[string]interface{}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		resp, status := handle(req)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
}

func TestClientCall(t *testing.T) {
	server := rpcServer(t, func(req map[string]interface{}) (string, int) {
		if req["jsonrpc"] != "2.0" {
			t.Errorf("jsonrpc = %v", req["jsonrpc"])
		}
		if req["method"] != "eth_chainId" {
			t.Errorf("method = %v", req["method"])
		}
		if _, ok := req["params"].([]interface{}); !ok {
			t.Errorf("params must be an array, got %T", req["params"])
		}
		return `{"jsonrpc":"2.0","id":1,"result":"0x2105"}`, http.StatusOK
	})
	defer server.Close()

	client := NewClient(server.URL)
	raw, err := client.Call(context.Background(), "eth_chainId")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if string(raw) != `"0x2105"` {
		t.Errorf("result = %s", raw)
	}
}

func TestClientCallSurfacesRPCError(t *testing.T) {
	server := rpcServer(t, func(req map[string]interface{}) (string, int) {
		return `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`, http.StatusOK
	})
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Call(context.Background(), "eth_unknown")

	var rpcErr *Error
	if !errors.As(err, &rpcErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if rpcErr.Code != -32601 || rpcErr.Message != "method not found" {
		t.Errorf("error = %+v", rpcErr)
	}
}

func TestClientCallRejectsBadStatus(t *testing.T) {
	server := rpcServer(t, func(req map[string]interface{}) (string, int) {
		return `{}`, http.StatusBadGateway
	})
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Call(context.Background(), "eth_chainId"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestClientCallIncrementsRequestID(t *testing.T) {
	var ids []float64
	server := rpcServer(t, func(req map[string]interface{}) (string, int) {
		ids = append(ids, req["id"].(float64))
		return `{"jsonrpc":"2.0","id":1,"result":null}`, http.StatusOK
	})
	defer server.Close()

	client := NewClient(server.URL)
	for i := 0; i < 3; i++ {
		if _, err := client.Call(context.Background(), "eth_chainId"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if len(ids) != 3 || ids[0] == ids[1] || ids[1] == ids[2] {
		t.Errorf("ids = %v, want strictly increasing", ids)
	}
}

func TestCallIntoDistinguishesNull(t *testing.T) {
	responses := []string{
		`{"jsonrpc":"2.0","id":1,"result":null}`,
		`{"jsonrpc":"2.0","id":2,"result":{"sender":"0xabc"}}`,
	}
	var call int
	server := rpcServer(t, func(req map[string]interface{}) (string, int) {
		resp := responses[call]
		call++
		return resp, http.StatusOK
	})
	defer server.Close()

	client := NewClient(server.URL)
	var out struct {
		Sender string `json:"sender"`
	}

	found, err := client.CallInto(context.Background(), &out, "eth_getUserOperationReceipt", "0x1")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if found {
		t.Error("null result must report not found")
	}

	found, err = client.CallInto(context.Background(), &out, "eth_getUserOperationReceipt", "0x1")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !found || out.Sender != "0xabc" {
		t.Errorf("found = %v, out = %+v", found, out)
	}
}

func TestBundlerURL(t *testing.T) {
	tests := []struct {
		name    string
		testnet bool
		want    string
	}{
		{"mainnet", false, "https://api.developer.coinbase.com/rpc/v1/base/test-key"},
		{"testnet", true, "https://api.developer.coinbase.com/rpc/v1/base-sepolia/test-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BundlerURL(tt.testnet, "test-key"); got != tt.want {
				t.Errorf("BundlerURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
