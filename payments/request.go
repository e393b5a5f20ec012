package payments

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	walletsdk "github.com/coinbase/wallet-sdk/go"
)

// InfoRequest asks the payer for one identity/contact field during payment.
type InfoRequest struct {
	Type     string `json:"type"`
	Optional bool   `json:"optional"`
}

// PayerInfo configures the optional data-callback capability: the fields to
// request from the payer and the URL the wallet posts them to.
type PayerInfo struct {
	Requests    []InfoRequest `json:"requests"`
	CallbackURL string        `json:"callbackURL"`
}

// PaymentOptions is the Pay input.
type PaymentOptions struct {
	Amount    string
	To        string
	Testnet   bool
	PayerInfo *PayerInfo
}

// PaymentResult is the Pay output. Success discriminates the union; Error
// is populated only on failure.
type PaymentResult struct {
	Success            bool                   `json:"success"`
	ID                 string                 `json:"id,omitempty"`
	Amount             string                 `json:"amount"`
	To                 string                 `json:"to"`
	PayerInfoResponses map[string]interface{} `json:"payerInfoResponses,omitempty"`
	Error              string                 `json:"error,omitempty"`
}

// EncodeTransfer ABI-encodes an ERC-20 transfer(to, amount) call.
func EncodeTransfer(to string, amount string) (string, error) {
	units, err := ParseAmountToSmallestUnits(amount, USDCDecimals)
	if err != nil {
		return "", err
	}
	parsed, err := abi.JSON(strings.NewReader(string(ERC20TransferABI)))
	if err != nil {
		return "", fmt.Errorf("invalid transfer ABI: %w", err)
	}
	encoded, err := parsed.Pack("transfer", common.HexToAddress(to), units)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(encoded), nil
}

// BuildSendCallsRequest translates validated payment options into the
// wallet_sendCalls envelope: one USDC transfer plus, when payer info with
// at least one requested field is supplied, a dataCallback capability. An
// empty request list suppresses the capability entirely even when a
// callback URL is present.
func BuildSendCallsRequest(options PaymentOptions) (walletsdk.SendCallsParams, error) {
	network := Network(options.Testnet)

	data, err := EncodeTransfer(options.To, options.Amount)
	if err != nil {
		return walletsdk.SendCallsParams{}, err
	}

	capabilities := map[string]interface{}{}
	if options.PayerInfo != nil && len(options.PayerInfo.Requests) > 0 {
		requests := make([]map[string]interface{}, len(options.PayerInfo.Requests))
		for i, req := range options.PayerInfo.Requests {
			requests[i] = map[string]interface{}{
				"type":     req.Type,
				"optional": req.Optional,
			}
		}
		capabilities["dataCallback"] = map[string]interface{}{
			"requests":    requests,
			"callbackURL": options.PayerInfo.CallbackURL,
		}
	}

	return walletsdk.SendCallsParams{
		Version: "1.0",
		ChainID: hexutil.EncodeUint64(network.ChainID),
		Calls: []walletsdk.Call{
			{To: network.USDCAddress, Data: data, Value: "0x0"},
		},
		Capabilities: capabilities,
	}, nil
}
