package walletsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ContractReader implements ChainClient over a JSON-RPC caller: view calls
// are ABI-packed, sent as eth_call against the latest block, and the first
// output value is returned.
type ContractReader struct {
	caller  RPCCaller
	chainID uint64
}

// NewContractReader creates a reader bound to one chain. The caller is
// typically an rpc.Client for that chain's endpoint.
func NewContractReader(caller RPCCaller, chainID uint64) *ContractReader {
	return &ContractReader{caller: caller, chainID: chainID}
}

// ChainID returns the chain this reader queries.
func (r *ContractReader) ChainID() uint64 {
	return r.chainID
}

// ReadContract performs a single eth_call and decodes its first output.
func (r *ContractReader) ReadContract(ctx context.Context, call ReadContractCall) (interface{}, error) {
	parsed, err := abi.JSON(strings.NewReader(string(call.ABI)))
	if err != nil {
		return nil, fmt.Errorf("invalid ABI for %s: %w", call.FunctionName, err)
	}

	data, err := parsed.Pack(call.FunctionName, call.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", call.FunctionName, err)
	}

	raw, err := r.caller.Call(ctx, "eth_call", map[string]string{
		"to":   call.Address,
		"data": hexutil.Encode(data),
	}, "latest")
	if err != nil {
		return nil, err
	}

	var resultHex string
	if err := json.Unmarshal(raw, &resultHex); err != nil {
		return nil, fmt.Errorf("malformed eth_call result: %w", err)
	}
	resultBytes, err := hexutil.Decode(resultHex)
	if err != nil {
		return nil, fmt.Errorf("malformed eth_call result: %w", err)
	}

	outputs, err := parsed.Unpack(call.FunctionName, resultBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", call.FunctionName, err)
	}
	if len(outputs) == 0 {
		return nil, nil
	}
	return outputs[0], nil
}
