package payments

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/coinbase/wallet-sdk/go/telemetry"
)

// BundlerCaller issues typed JSON-RPC lookups against a bundler endpoint,
// reporting whether a non-null result was found. Satisfied by rpc.Client.
type BundlerCaller interface {
	CallInto(ctx context.Context, out interface{}, method string, params ...interface{}) (bool, error)
}

// PaymentStatusType enumerates the payment lifecycle. Exactly one holds for
// a given transaction id at any time.
type PaymentStatusType string

const (
	StatusCompleted PaymentStatusType = "completed"
	StatusFailed    PaymentStatusType = "failed"
	StatusPending   PaymentStatusType = "pending"
	StatusNotFound  PaymentStatusType = "not_found"
)

// PaymentStatus is the GetPaymentStatus result.
type PaymentStatus struct {
	Status    PaymentStatusType `json:"status"`
	ID        string            `json:"id"`
	Message   string            `json:"message"`
	Sender    string            `json:"sender,omitempty"`
	Amount    string            `json:"amount,omitempty"`
	Recipient string            `json:"recipient,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// StatusOptions is the GetPaymentStatus input.
type StatusOptions struct {
	ID      string
	Testnet bool
}

type receiptLog struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

type userOperationReceipt struct {
	Success bool   `json:"success"`
	Sender  string `json:"sender"`
	Reason  string `json:"reason"`
	Receipt struct {
		Logs []receiptLog `json:"logs"`
	} `json:"receipt"`
}

type userOperationLookup struct {
	Sender        string `json:"sender"`
	UserOperation struct {
		Sender string `json:"sender"`
	} `json:"userOperation"`
}

// GetPaymentStatus maps bundler responses onto the payment lifecycle. It
// performs exactly one or two sequential fetches, never a poll loop;
// retrying is the caller's responsibility. Like Pay it never returns a Go
// error: transport failures come back as a failed status value.
func (c *Client) GetPaymentStatus(ctx context.Context, options StatusOptions) PaymentStatus {
	c.sink.LogEvent(telemetry.EventStatusStarted, map[string]string{
		"testnet": boolString(options.Testnet),
	}, telemetry.ImportanceLow)

	status := c.checkStatus(ctx, options)

	event := telemetry.EventStatusCompleted
	if status.Status == StatusFailed && status.Error != "" {
		event = telemetry.EventStatusError
	}
	c.sink.LogEvent(event, map[string]string{
		"testnet": boolString(options.Testnet),
		"status":  string(status.Status),
	}, telemetry.ImportanceLow)

	return status
}

func (c *Client) checkStatus(ctx context.Context, options StatusOptions) PaymentStatus {
	if c.newBundler == nil {
		return PaymentStatus{
			Status:  StatusFailed,
			ID:      options.ID,
			Message: "Unable to check payment status",
			Error:   "no bundler endpoint configured",
		}
	}
	bundler := c.newBundler(options.Testnet)

	var receipt userOperationReceipt
	found, err := bundler.CallInto(ctx, &receipt, "eth_getUserOperationReceipt", options.ID)
	if err != nil {
		return PaymentStatus{
			Status:  StatusFailed,
			ID:      options.ID,
			Message: "Unable to check payment status",
			Error:   err.Error(),
		}
	}
	if found {
		if receipt.Success {
			return completedStatus(options, receipt)
		}
		return PaymentStatus{
			Status:  StatusFailed,
			ID:      options.ID,
			Message: "Payment failed",
			Sender:  receipt.Sender,
			Error:   mapFailureReason(receipt.Reason),
		}
	}

	var lookup userOperationLookup
	found, err = bundler.CallInto(ctx, &lookup, "eth_getUserOperationByHash", options.ID)
	if err != nil {
		return PaymentStatus{
			Status:  StatusFailed,
			ID:      options.ID,
			Message: "Unable to check payment status",
			Error:   err.Error(),
		}
	}
	if found {
		sender := lookup.Sender
		if sender == "" {
			sender = lookup.UserOperation.Sender
		}
		return PaymentStatus{
			Status:  StatusPending,
			ID:      options.ID,
			Message: "Payment is processing. Please check again in a few seconds.",
			Sender:  sender,
		}
	}

	return PaymentStatus{
		Status:  StatusNotFound,
		ID:      options.ID,
		Message: "Payment not found. Please check your transaction ID.",
	}
}

// completedStatus scans the receipt logs for the USDC Transfer event and
// extracts the transferred amount and recipient when present. A missing log
// still reports completed, just without amount details.
func completedStatus(options StatusOptions, receipt userOperationReceipt) PaymentStatus {
	status := PaymentStatus{
		Status:  StatusCompleted,
		ID:      options.ID,
		Message: "Payment completed successfully",
		Sender:  receipt.Sender,
	}

	usdc := Network(options.Testnet).USDCAddress
	for _, log := range receipt.Receipt.Logs {
		if !strings.EqualFold(log.Address, usdc) {
			continue
		}
		if len(log.Topics) < 3 || !strings.EqualFold(log.Topics[0], TransferEventTopic) {
			continue
		}
		raw, ok := new(big.Int).SetString(strings.TrimPrefix(log.Data, "0x"), 16)
		if !ok {
			continue
		}
		status.Amount = FormatUnits(raw, USDCDecimals)
		status.Recipient = common.HexToAddress(log.Topics[2]).Hex()
		break
	}
	return status
}

// mapFailureReason turns bundler revert reasons into user-facing strings.
// Unrecognized reasons pass through untouched.
func mapFailureReason(reason string) string {
	lower := strings.ToLower(reason)
	switch {
	case strings.Contains(lower, "insufficient"):
		return "Insufficient USDC balance"
	case strings.Contains(lower, "revert"):
		return "Payment was rejected"
	default:
		return reason
	}
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
