package walletsdk

import (
	"encoding/json"
	"fmt"
)

// RequestArguments is the EIP-1193 request envelope. Immutable per call;
// the provider assigns an ephemeral correlation id at entry that is used
// solely for telemetry pairing, never for business logic.
type RequestArguments struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params,omitempty"`
}

// Call is a single onchain call in a wallet_sendCalls batch.
type Call struct {
	To    string `json:"to"`
	Data  string `json:"data,omitempty"`
	Value string `json:"value,omitempty"`
}

// SendCallsParams is the first element of wallet_sendCalls params.
type SendCallsParams struct {
	Version      string                 `json:"version"`
	ChainID      string                 `json:"chainId"`
	From         string                 `json:"from"`
	Calls        []Call                 `json:"calls"`
	Capabilities map[string]interface{} `json:"capabilities,omitempty"`
}

// SendCallsResult is the object-shaped wallet_sendCalls response. Older
// wallets return a bare call-id string instead; DecodeSendCallsResult
// handles both.
type SendCallsResult struct {
	ID           string                 `json:"id"`
	Capabilities map[string]interface{} `json:"capabilities,omitempty"`
}

// DecodeSendCallsResult decodes a wallet_sendCalls response that is either
// a legacy bare call-id string or an {id, capabilities} object. Anything
// else fails with a descriptive error rather than being silently coerced.
func DecodeSendCallsResult(v interface{}) (*SendCallsResult, error) {
	switch res := v.(type) {
	case string:
		return &SendCallsResult{ID: res}, nil
	case map[string]interface{}:
		raw, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("failed to re-encode sendCalls result: %w", err)
		}
		var out SendCallsResult
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("failed to decode sendCalls result: %w", err)
		}
		if out.ID == "" {
			return nil, fmt.Errorf("unexpected sendCalls result shape: missing id")
		}
		return &out, nil
	case *SendCallsResult:
		return res, nil
	default:
		return nil, fmt.Errorf("unexpected sendCalls result shape: %T", v)
	}
}

// CallsStatus is the wallet_getCallsStatus result.
type CallsStatus struct {
	ID       string        `json:"id"`
	ChainID  string        `json:"chainId"`
	Status   int           `json:"status"`
	Receipts []CallReceipt `json:"receipts,omitempty"`
}

// wallet_getCallsStatus status codes (EIP-5792)
const (
	CallsStatusPending   = 100
	CallsStatusConfirmed = 200
	CallsStatusFailed    = 500
)

// CallReceipt is a single receipt inside a CallsStatus.
type CallReceipt struct {
	TransactionHash string `json:"transactionHash"`
	BlockHash       string `json:"blockHash,omitempty"`
	Status          string `json:"status,omitempty"`
}

// SubAccount is a restricted-capability account delegated by the global
// account. Undeployed sub-accounts carry factory data for onchain
// deployment; deployed ones have neither.
type SubAccount struct {
	Address     string `json:"address"`
	Factory     string `json:"factory,omitempty"`
	FactoryData string `json:"factoryData,omitempty"`
}

// Deployed reports whether the sub-account contract already exists onchain.
func (s SubAccount) Deployed() bool {
	return s.Factory == "" && s.FactoryData == ""
}

// DecodeSubAccount decodes a wallet_addSubAccount response, either the typed
// struct or the map shape JSON-RPC results arrive in.
func DecodeSubAccount(v interface{}) (*SubAccount, error) {
	switch res := v.(type) {
	case SubAccount:
		return &res, nil
	case *SubAccount:
		return res, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode addSubAccount result: %w", err)
	}
	var out SubAccount
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode addSubAccount result: %w", err)
	}
	if out.Address == "" {
		return nil, fmt.Errorf("unexpected addSubAccount result shape: missing address")
	}
	return &out, nil
}

// OwnerAccountType discriminates the key kinds that can control a sub-account.
type OwnerAccountType string

const (
	OwnerTypeWebAuthn OwnerAccountType = "webAuthn"
	OwnerTypeLocal    OwnerAccountType = "local"
)

// OwnerAccount represents the key authorized to control a sub-account.
// WebAuthn owners carry only a public key; local owners carry an address
// alongside the public key.
type OwnerAccount struct {
	Type      OwnerAccountType `json:"type"`
	Address   string           `json:"address,omitempty"`
	PublicKey string           `json:"publicKey"`
}

// SubAccountsConfig captures the integrator's sub-account preferences,
// forwarded as wallet_connect capabilities during eth_requestAccounts.
type SubAccountsConfig struct {
	EnableAutoSubAccounts bool                   `json:"enableAutoSubAccounts,omitempty"`
	Capabilities          map[string]interface{} `json:"capabilities,omitempty"`
}

// SpendPermissionDetail is the EIP-712 signed permission struct. Allowance
// and salt are decimal-string-encoded big integers.
type SpendPermissionDetail struct {
	Account   string `json:"account"`
	Spender   string `json:"spender"`
	Token     string `json:"token"`
	Allowance string `json:"allowance"`
	Period    uint64 `json:"period"`
	Start     uint64 `json:"start"`
	End       uint64 `json:"end"`
	Salt      string `json:"salt"`
	ExtraData string `json:"extraData"`
}

// SpendPermission is a signed, onchain-verifiable grant allowing a spender
// to move a bounded allowance of a token over a recurring period. The
// permission hash is deterministically derived from the permission struct
// via the manager contract's getHash.
type SpendPermission struct {
	CreatedAt      int64                 `json:"createdAt"`
	PermissionHash string                `json:"permissionHash"`
	Signature      string                `json:"signature"`
	ChainID        uint64                `json:"chainId"`
	Permission     SpendPermissionDetail `json:"permission"`
}

// AccountInfo is the persisted global-account slice.
type AccountInfo struct {
	Accounts []string `json:"accounts"`
	ChainID  uint64   `json:"chainId"`
}
