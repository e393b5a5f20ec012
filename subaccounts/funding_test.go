package subaccounts

import (
	"context"
	"errors"
	"strings"
	"testing"

	walletsdk "github.com/coinbase/wallet-sdk/go"
)

func fundingRoute(transport *recordingRequest) RouteOptions {
	return RouteOptions{
		Request: walletsdk.RequestArguments{
			Method: "wallet_sendCalls",
			Params: []interface{}{walletsdk.SendCallsParams{
				Calls: []walletsdk.Call{{To: targetAddress}},
			}},
		},
		GlobalAccountAddress: globalAccount,
		SubAccountAddress:    subAccount,
		GlobalAccountRequest: transport.do,
	}
}

func TestHandleInsufficientBalanceRetriesAfterApproval(t *testing.T) {
	transport := &recordingRequest{responses: []interface{}{
		map[string]interface{}{"id": "0x" + strings.Repeat("cd", 32)},
	}}

	result, err := HandleInsufficientBalance(context.Background(), FundingOptions{
		Route:     fundingRoute(transport),
		Client:    &mockChainClient{chainID: 8453},
		Presenter: &mockPresenter{pick: 0},
	})
	if err != nil {
		t.Fatalf("HandleInsufficientBalance: %v", err)
	}
	if _, ok := result.(*walletsdk.SendCallsResult); !ok {
		t.Fatalf("result = %#v", result)
	}

	if len(transport.requests) != 1 {
		t.Fatalf("expected 1 retried request, got %d", len(transport.requests))
	}
	params := transport.requests[0].Params[0].(walletsdk.SendCallsParams)
	// The retry uses the client's chain, not whatever the original carried.
	if params.ChainID != "0x2105" {
		t.Errorf("chainId = %q, want 0x2105", params.ChainID)
	}
}

func TestHandleInsufficientBalanceCancellation(t *testing.T) {
	transport := &recordingRequest{}

	_, err := HandleInsufficientBalance(context.Background(), FundingOptions{
		Route:     fundingRoute(transport),
		Client:    &mockChainClient{chainID: 8453},
		Presenter: &mockPresenter{pick: 1},
	})
	if !walletsdk.IsUserRejected(err) {
		t.Fatalf("err = %v, want user rejected", err)
	}
	var rpcErr *walletsdk.RPCError
	if errors.As(err, &rpcErr) && rpcErr.Message != "User cancelled funding" {
		t.Errorf("message = %q", rpcErr.Message)
	}
	if len(transport.requests) != 0 {
		t.Error("wallet must not be contacted after cancellation")
	}
}

func TestHandleInsufficientBalanceRequiresChainClient(t *testing.T) {
	tests := []struct {
		name   string
		client walletsdk.ChainClient
	}{
		{"nil client", nil},
		{"zero chain id", &mockChainClient{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HandleInsufficientBalance(context.Background(), FundingOptions{
				Route:     fundingRoute(&recordingRequest{}),
				Client:    tt.client,
				Presenter: &mockPresenter{pick: 0},
			})
			var rpcErr *walletsdk.RPCError
			if !errors.As(err, &rpcErr) || rpcErr.Code != walletsdk.ErrCodeInternal {
				t.Fatalf("err = %v, want internal error", err)
			}
			if rpcErr.Message != "no client available for chain id" {
				t.Errorf("message = %q", rpcErr.Message)
			}
		})
	}
}
