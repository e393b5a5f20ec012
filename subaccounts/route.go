package subaccounts

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	walletsdk "github.com/coinbase/wallet-sdk/go"
)

// RequestFunc sends a request over an already-authenticated transport,
// typically the global account's signer.
type RequestFunc func(ctx context.Context, args walletsdk.RequestArguments) (interface{}, error)

// RouteOptions parameterizes RouteThroughGlobalAccount.
type RouteOptions struct {
	Request              walletsdk.RequestArguments
	GlobalAccountAddress string
	SubAccountAddress    string
	ChainID              uint64
	GlobalAccountRequest RequestFunc
	State                *walletsdk.SessionState

	// PrependCalls are executed before the delegated batch (e.g. a funding
	// transfer added by the insufficient-balance recovery path).
	PrependCalls []walletsdk.Call

	// PollInterval overrides the calls-status poll cadence used when the
	// original request was eth_sendTransaction. Zero means the default.
	PollInterval time.Duration
}

// batchCall matches the executeBatch tuple layout.
type batchCall struct {
	Target common.Address
	Value  *big.Int
	Data   []byte
}

// RouteThroughGlobalAccount replays a sub-account request through the
// ungated global account: the original calls are wrapped into a single
// executeBatch targeting the sub-account contract and sent as a new
// wallet_sendCalls from the global account, requesting delegated spend
// permissions for the sub-account as spender.
//
// When the original request was eth_sendTransaction the function blocks
// until the batch resolves to a concrete transaction hash, since those
// callers expect a hash rather than a call id.
func RouteThroughGlobalAccount(ctx context.Context, opts RouteOptions) (interface{}, error) {
	calls, err := extractCalls(opts.Request)
	if err != nil {
		return nil, err
	}

	batchData, err := EncodeExecuteBatch(calls)
	if err != nil {
		return nil, fmt.Errorf("failed to encode executeBatch: %w", err)
	}

	routed := append([]walletsdk.Call{}, opts.PrependCalls...)
	routed = append(routed, walletsdk.Call{
		To:    opts.SubAccountAddress,
		Data:  batchData,
		Value: "0x0",
	})

	params := walletsdk.SendCallsParams{
		Version: "1.0",
		ChainID: hexutil.EncodeUint64(opts.ChainID),
		From:    opts.GlobalAccountAddress,
		Calls:   routed,
		Capabilities: map[string]interface{}{
			capabilitySpendPermissions: map[string]interface{}{
				"request": true,
				"spender": opts.SubAccountAddress,
			},
		},
	}

	raw, err := opts.GlobalAccountRequest(ctx, walletsdk.RequestArguments{
		Method: "wallet_sendCalls",
		Params: []interface{}{params},
	})
	if err != nil {
		return nil, err
	}

	result, err := walletsdk.DecodeSendCallsResult(raw)
	if err != nil {
		return nil, err
	}

	cacheReturnedPermissions(opts.State, result)

	if opts.Request.Method == "eth_sendTransaction" {
		return waitForTransactionHash(ctx, opts, result.ID)
	}
	return result, nil
}

// extractCalls normalizes a wallet_sendCalls or eth_sendTransaction request
// into a flat call list. Any other shape fails immediately.
func extractCalls(req walletsdk.RequestArguments) ([]walletsdk.Call, error) {
	if len(req.Params) == 0 {
		return nil, fmt.Errorf("could not get original call")
	}

	switch req.Method {
	case "wallet_sendCalls":
		params, err := decodeParam[walletsdk.SendCallsParams](req.Params[0])
		if err != nil || len(params.Calls) == 0 {
			return nil, fmt.Errorf("could not get original call")
		}
		return params.Calls, nil

	case "eth_sendTransaction":
		tx, err := decodeParam[walletsdk.Call](req.Params[0])
		if err != nil || tx.To == "" {
			return nil, fmt.Errorf("could not get original call")
		}
		return []walletsdk.Call{*tx}, nil

	default:
		return nil, fmt.Errorf("could not get original call")
	}
}

// decodeParam accepts either the typed struct or the map shape JSON-RPC
// params arrive in.
func decodeParam[T any](v interface{}) (*T, error) {
	if typed, ok := v.(T); ok {
		return &typed, nil
	}
	if typed, ok := v.(*T); ok {
		return typed, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EncodeExecuteBatch ABI-encodes a single executeBatch(calls[]) invocation.
func EncodeExecuteBatch(calls []walletsdk.Call) (string, error) {
	parsed, err := abi.JSON(strings.NewReader(string(ExecuteBatchABI)))
	if err != nil {
		return "", fmt.Errorf("invalid executeBatch ABI: %w", err)
	}

	batch := make([]batchCall, len(calls))
	for i, call := range calls {
		if !common.IsHexAddress(call.To) {
			return "", fmt.Errorf("invalid call target: %s", call.To)
		}
		value := big.NewInt(0)
		if call.Value != "" {
			value, err = hexutil.DecodeBig(call.Value)
			if err != nil {
				return "", fmt.Errorf("invalid call value %q: %w", call.Value, err)
			}
		}
		data := []byte{}
		if call.Data != "" && call.Data != "0x" {
			data, err = hexutil.Decode(call.Data)
			if err != nil {
				return "", fmt.Errorf("invalid call data: %w", err)
			}
		}
		batch[i] = batchCall{
			Target: common.HexToAddress(call.To),
			Value:  value,
			Data:   data,
		}
	}

	encoded, err := parsed.Pack("executeBatch", batch)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(encoded), nil
}

// cacheReturnedPermissions persists spend permissions embedded in a
// wallet_sendCalls response so future spend calls can reuse them.
func cacheReturnedPermissions(state *walletsdk.SessionState, result *walletsdk.SendCallsResult) {
	if state == nil || result == nil || result.Capabilities == nil {
		return
	}
	capability, ok := result.Capabilities[capabilitySpendPermissions].(map[string]interface{})
	if !ok {
		return
	}
	rawPerms, ok := capability["permissions"]
	if !ok {
		return
	}
	encoded, err := json.Marshal(rawPerms)
	if err != nil {
		return
	}
	var perms []walletsdk.SpendPermission
	if err := json.Unmarshal(encoded, &perms); err != nil {
		return
	}
	state.AddSpendPermissions(perms)
}

// waitForTransactionHash polls wallet_getCallsStatus until the routed batch
// reaches a terminal state and yields a transaction hash.
func waitForTransactionHash(ctx context.Context, opts RouteOptions, callsID string) (interface{}, error) {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		raw, err := opts.GlobalAccountRequest(ctx, walletsdk.RequestArguments{
			Method: "wallet_getCallsStatus",
			Params: []interface{}{callsID},
		})
		if err != nil {
			return nil, err
		}
		status, err := decodeParam[walletsdk.CallsStatus](raw)
		if err != nil {
			return nil, fmt.Errorf("malformed calls status: %w", err)
		}

		switch status.Status {
		case walletsdk.CallsStatusConfirmed:
			if len(status.Receipts) == 0 || status.Receipts[0].TransactionHash == "" {
				return nil, walletsdk.NewInternalError("confirmed batch has no transaction hash")
			}
			return status.Receipts[0].TransactionHash, nil
		case walletsdk.CallsStatusFailed:
			return nil, walletsdk.NewInternalError("routed call batch failed")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
