package walletsdk

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"
)

var ownerCountABI = []byte(`[
	{
		"inputs": [],
		"name": "ownerCount",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`)

type contractRPC struct {
	method string
	params []interface{}
	result json.RawMessage
	err    error
}

func (c *contractRPC) Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	c.method = method
	c.params = params
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func TestContractReader(t *testing.T) {
	caller := &contractRPC{
		result: json.RawMessage(`"0x0000000000000000000000000000000000000000000000000000000000000003"`),
	}
	reader := NewContractReader(caller, 8453)
	if reader.ChainID() != 8453 {
		t.Errorf("chainID = %d", reader.ChainID())
	}

	out, err := reader.ReadContract(context.Background(), ReadContractCall{
		Address:      "0xf85210B21cC50302F477BA56686d2019dC9b67Ad",
		ABI:          ownerCountABI,
		FunctionName: "ownerCount",
	})
	if err != nil {
		t.Fatalf("ReadContract: %v", err)
	}
	count, ok := out.(*big.Int)
	if !ok || count.Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("result = %#v, want 3", out)
	}

	if caller.method != "eth_call" {
		t.Errorf("method = %q", caller.method)
	}
	if len(caller.params) != 2 || caller.params[1] != "latest" {
		t.Fatalf("params = %#v", caller.params)
	}
	call := caller.params[0].(map[string]string)
	if call["to"] != "0xf85210B21cC50302F477BA56686d2019dC9b67Ad" {
		t.Errorf("to = %q", call["to"])
	}
	if !strings.HasPrefix(call["data"], "0x") {
		t.Errorf("data = %q", call["data"])
	}
}

func TestContractReaderRejectsUnknownFunction(t *testing.T) {
	reader := NewContractReader(&contractRPC{}, 8453)
	_, err := reader.ReadContract(context.Background(), ReadContractCall{
		Address:      "0xf85210B21cC50302F477BA56686d2019dC9b67Ad",
		ABI:          ownerCountABI,
		FunctionName: "noSuchFunction",
	})
	if err == nil {
		t.Fatal("expected error for unknown function")
	}
}

func TestContractReaderPropagatesTransportError(t *testing.T) {
	caller := &contractRPC{err: errors.New("connection refused")}
	reader := NewContractReader(caller, 8453)
	_, err := reader.ReadContract(context.Background(), ReadContractCall{
		Address:      "0xf85210B21cC50302F477BA56686d2019dC9b67Ad",
		ABI:          ownerCountABI,
		FunctionName: "ownerCount",
	})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("err = %v, want transport error", err)
	}
}
