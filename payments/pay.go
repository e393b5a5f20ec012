package payments

import (
	"context"
	"fmt"

	walletsdk "github.com/coinbase/wallet-sdk/go"
	"github.com/coinbase/wallet-sdk/go/rpc"
	"github.com/coinbase/wallet-sdk/go/telemetry"
)

// Sender executes a wallet_sendCalls envelope over an ephemeral wallet
// session. One Sender is created per Pay call and unconditionally
// disconnected afterwards so no session leaks across unrelated payments.
type Sender interface {
	SendCalls(ctx context.Context, params walletsdk.SendCallsParams) (interface{}, error)
	Disconnect(ctx context.Context) error
}

// SenderFactory creates a Sender scoped to the target chain.
type SenderFactory func(testnet bool) (Sender, error)

// Client is the payment entry point.
type Client struct {
	newSender  SenderFactory
	newBundler func(testnet bool) BundlerCaller
	sink       telemetry.Sink
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTelemetry sets the telemetry sink; events are suppressed entirely
// when unset.
func WithTelemetry(sink telemetry.Sink) ClientOption {
	return func(c *Client) { c.sink = telemetry.OrNoop(sink) }
}

// WithBundler pins a single bundler transport for both networks. Used by
// tests; production clients use WithAPIKey.
func WithBundler(bundler BundlerCaller) ClientOption {
	return func(c *Client) {
		c.newBundler = func(bool) BundlerCaller { return bundler }
	}
}

// WithAPIKey selects the bundler endpoint by network using the integrator's
// API key path.
func WithAPIKey(apiKeyPath string) ClientOption {
	return func(c *Client) {
		c.newBundler = func(testnet bool) BundlerCaller {
			return rpc.NewBundlerClient(testnet, apiKeyPath)
		}
	}
}

// NewClient creates a payment client. The factory builds the ephemeral
// wallet session each Pay call runs on.
func NewClient(factory SenderFactory, opts ...ClientOption) *Client {
	c := &Client{
		newSender: factory,
		sink:      telemetry.Noop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pay transfers USDC to the recipient. It never returns a Go error:
// every failure mode is encoded in the returned PaymentResult.
func (c *Client) Pay(ctx context.Context, options PaymentOptions) PaymentResult {
	failure := func(err interface{}) PaymentResult {
		result := PaymentResult{
			Success: false,
			Amount:  options.Amount,
			To:      options.To,
			Error:   walletsdk.ExtractErrorMessage(err),
		}
		c.sink.LogEvent(telemetry.EventPayError, map[string]string{
			"amount":       options.Amount,
			"testnet":      fmt.Sprintf("%t", options.Testnet),
			"errorMessage": result.Error,
		}, telemetry.ImportanceHigh)
		return result
	}

	c.sink.LogEvent(telemetry.EventPayStarted, map[string]string{
		"amount":  options.Amount,
		"testnet": fmt.Sprintf("%t", options.Testnet),
	}, telemetry.ImportanceHigh)

	if err := ValidateStringAmount(options.Amount, PayMaxDecimals); err != nil {
		return failure(err)
	}
	checksummed, err := ValidateAddress(options.To)
	if err != nil {
		return failure(err)
	}
	options.To = checksummed

	params, err := BuildSendCallsRequest(options)
	if err != nil {
		return failure(err)
	}

	sender, err := c.newSender(options.Testnet)
	if err != nil {
		return failure(err)
	}
	// The ephemeral session is torn down on both success and failure paths.
	defer func() { _ = sender.Disconnect(ctx) }()

	raw, err := sender.SendCalls(ctx, params)
	if err != nil {
		return failure(err)
	}

	id, payerResponses, err := decodePayResult(raw)
	if err != nil {
		return failure(err)
	}

	c.sink.LogEvent(telemetry.EventPayCompleted, map[string]string{
		"amount":  options.Amount,
		"testnet": fmt.Sprintf("%t", options.Testnet),
	}, telemetry.ImportanceHigh)

	return PaymentResult{
		Success:            true,
		ID:                 id,
		Amount:             options.Amount,
		To:                 options.To,
		PayerInfoResponses: payerResponses,
	}
}

// minIDLength is the length of a 0x-prefixed 32-byte hash; anything shorter
// is not a transaction hash or call id.
const minIDLength = 66

// decodePayResult decodes the execution result as a tagged union: a bare
// hash string first, else an object carrying callsId plus optional
// dataCallback responses, else a descriptive failure. Shapes are never
// silently coerced.
func decodePayResult(raw interface{}) (string, map[string]interface{}, error) {
	switch res := raw.(type) {
	case string:
		if len(res) >= minIDLength {
			return res, nil, nil
		}
	case map[string]interface{}:
		id, ok := res["callsId"].(string)
		if ok && len(id) >= minIDLength {
			var payerResponses map[string]interface{}
			if capabilities, ok := res["capabilities"].(map[string]interface{}); ok {
				if responses, ok := capabilities["dataCallback"].(map[string]interface{}); ok {
					payerResponses = responses
				}
			}
			return id, payerResponses, nil
		}
	}
	return "", nil, fmt.Errorf("unexpected response format from wallet")
}
