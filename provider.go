package walletsdk

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"github.com/coinbase/wallet-sdk/go/rpc"
	"github.com/coinbase/wallet-sdk/go/telemetry"
)

// DefaultChainID is the chain answered locally for net_version / eth_chainId
// while disconnected.
const DefaultChainID = 1

// WalletRPCURL is the fixed wallet RPC endpoint used for unauthenticated
// calls that bypass the signer (wallet_getCallsStatus).
const WalletRPCURL = "https://rpc.wallet.coinbase.com"

// RPCCaller issues plain JSON-RPC calls against a fixed endpoint. Satisfied
// by rpc.Client.
type RPCCaller interface {
	Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error)
}

// unsupportedMethods are deprecated or never-implemented RPCs, rejected
// regardless of connection state.
var unsupportedMethods = map[string]bool{
	"eth_sign":             true,
	"eth_signTypedData_v2": true,
	"eth_subscribe":        true,
	"eth_unsubscribe":      true,
}

// Provider is the EIP-1193-compatible entry point. It answers a fixed set
// of default methods locally while disconnected, and orchestrates
// handshake -> (optional sub-account bootstrap) -> signed request ->
// (optional cleanup) for wallet-mediated methods.
//
// The listener registry is composed into the type rather than inherited;
// On/Off/Emit are plain methods.
type Provider struct {
	signer    *Signer
	state     *SessionState
	walletRPC RPCCaller
	sink      telemetry.Sink

	listenerMu sync.Mutex
	listeners  map[string][]*listener
}

type listener struct {
	fn func(payload interface{})
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithTelemetry sets the telemetry sink. Pass telemetry.Noop{} (or leave
// unset) to suppress emission entirely.
func WithTelemetry(sink telemetry.Sink) ProviderOption {
	return func(p *Provider) { p.sink = telemetry.OrNoop(sink) }
}

// WithWalletRPC overrides the unauthenticated wallet RPC transport.
func WithWalletRPC(caller RPCCaller) ProviderOption {
	return func(p *Provider) { p.walletRPC = caller }
}

// NewProvider creates a Provider over the given transport and session state.
func NewProvider(communicator Communicator, state *SessionState, opts ...ProviderOption) *Provider {
	p := &Provider{
		state:     state,
		walletRPC: rpc.NewClient(WalletRPCURL),
		sink:      telemetry.Noop{},
		listeners: make(map[string][]*listener),
	}
	p.signer = NewSigner(communicator, state, p.handleSignerEvent)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) handleSignerEvent(event EventName, payload interface{}) {
	p.Emit(string(event), payload)
}

// On registers an event listener and returns its unsubscribe function.
func (p *Provider) On(event string, fn func(payload interface{})) func() {
	l := &listener{fn: fn}
	p.listenerMu.Lock()
	p.listeners[event] = append(p.listeners[event], l)
	p.listenerMu.Unlock()
	return func() { p.off(event, l) }
}

func (p *Provider) off(event string, target *listener) {
	p.listenerMu.Lock()
	defer p.listenerMu.Unlock()
	kept := p.listeners[event][:0]
	for _, l := range p.listeners[event] {
		if l != target {
			kept = append(kept, l)
		}
	}
	p.listeners[event] = kept
}

// Emit dispatches payload to every listener registered for event.
func (p *Provider) Emit(event string, payload interface{}) {
	p.listenerMu.Lock()
	registered := make([]*listener, len(p.listeners[event]))
	copy(registered, p.listeners[event])
	p.listenerMu.Unlock()
	for _, l := range registered {
		l.fn(payload)
	}
}

// IsConnected reports the signer's connection state.
func (p *Provider) IsConnected() bool {
	return p.signer.IsConnected()
}

// Request dispatches an EIP-1193 request. Errors are always serialized into
// RPCError before being returned; an unauthorized error additionally tears
// the session down and emits disconnect.
func (p *Provider) Request(ctx context.Context, args RequestArguments) (interface{}, error) {
	correlationID := uuid.NewString()
	p.state.AddCorrelationID(correlationID, args.Method)
	defer p.state.RemoveCorrelationID(correlationID)

	props := map[string]string{"method": args.Method, "correlationId": correlationID}
	p.sink.LogEvent(telemetry.EventRequestStarted, props, telemetry.ImportanceHigh)

	result, err := p.dispatch(ctx, args)
	if err != nil {
		errProps := map[string]string{
			"method":        args.Method,
			"correlationId": correlationID,
			"errorMessage":  ExtractErrorMessage(err),
		}
		p.sink.LogEvent(telemetry.EventRequestError, errProps, telemetry.ImportanceHigh)
		if IsUnauthorized(err) {
			_ = p.Disconnect(ctx)
		}
		return nil, SerializeError(err)
	}

	p.cacheDispatchResult(args, result)

	p.sink.LogEvent(telemetry.EventRequestResponded, props, telemetry.ImportanceHigh)
	return result, nil
}

// cacheDispatchResult persists session data carried in successful responses:
// the connected account list, and the sub-account returned by
// wallet_addSubAccount keyed under its owning global account.
func (p *Provider) cacheDispatchResult(args RequestArguments, result interface{}) {
	switch args.Method {
	case "eth_requestAccounts":
		accounts := accountList(result)
		if len(accounts) == 0 {
			return
		}
		chainID := uint64(DefaultChainID)
		if info := p.state.Account(); info != nil && info.ChainID != 0 {
			chainID = info.ChainID
		}
		p.state.SetAccount(&AccountInfo{Accounts: accounts, ChainID: chainID})

	case "wallet_addSubAccount":
		account := p.state.Account()
		if account == nil || len(account.Accounts) == 0 {
			return
		}
		sub, err := DecodeSubAccount(result)
		if err != nil {
			return
		}
		p.state.SetSubAccount(account.Accounts[0], *sub)
	}
}

// accountList normalizes an accounts result into a string slice.
func accountList(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (p *Provider) dispatch(ctx context.Context, args RequestArguments) (interface{}, error) {
	if args.Method == "" {
		return nil, NewInvalidParamsError("method is required")
	}
	if unsupportedMethods[args.Method] {
		return nil, NewUnsupportedMethodError(args.Method)
	}

	// Status polling always goes over the fixed wallet RPC endpoint, never
	// the popup signer, regardless of connection state.
	if args.Method == "wallet_getCallsStatus" {
		return p.getCallsStatus(ctx, args.Params)
	}

	if !p.signer.IsConnected() {
		switch args.Method {
		case "eth_requestAccounts":
			if err := p.connectWithSubAccountConfig(ctx); err != nil {
				return nil, err
			}
			// fall through: fetch accounts over the now-connected signer

		case "wallet_connect":
			if err := p.signer.Handshake(ctx, RequestArguments{Method: "handshake"}); err != nil {
				return nil, err
			}
			return p.signer.Request(ctx, args)

		case "wallet_sendCalls", "wallet_sign":
			if err := p.signer.Handshake(ctx, RequestArguments{Method: "handshake"}); err != nil {
				return nil, err
			}
			result, err := p.signer.Request(ctx, args)
			// Session keys rotate on every exit path, success or failure.
			cleanupErr := p.signer.Cleanup(ctx)
			if err != nil {
				return nil, err
			}
			if cleanupErr != nil {
				return nil, cleanupErr
			}
			return result, nil

		case "eth_accounts":
			return []string{}, nil

		case "net_version":
			return DefaultChainID, nil

		case "eth_chainId":
			return hexChainID(DefaultChainID), nil

		default:
			return nil, NewUnauthorizedError("must call eth_requestAccounts first")
		}
	}

	return p.signer.Request(ctx, args)
}

// connectWithSubAccountConfig performs the automatic protocol translation
// behind eth_requestAccounts: handshake, then an internal wallet_connect
// whose capabilities come from the stored sub-account config. The caller
// re-issues eth_requestAccounts afterwards; the two-step sequence is kept
// as-is because downstream ordering assumptions may depend on it.
func (p *Provider) connectWithSubAccountConfig(ctx context.Context) error {
	if err := p.signer.Handshake(ctx, RequestArguments{Method: "handshake"}); err != nil {
		return err
	}

	capabilities := map[string]interface{}{}
	if cfg := p.state.SubAccountsConfig(); cfg != nil && cfg.Capabilities != nil {
		capabilities = cfg.Capabilities
	}

	_, err := p.signer.Request(ctx, RequestArguments{
		Method: "wallet_connect",
		Params: []interface{}{map[string]interface{}{"capabilities": capabilities}},
	})
	return err
}

// getCallsStatus answers wallet_getCallsStatus via a plain unauthenticated
// JSON-RPC call to the fixed wallet RPC URL, bypassing the signer.
func (p *Provider) getCallsStatus(ctx context.Context, params []interface{}) (interface{}, error) {
	if p.walletRPC == nil {
		return nil, NewInternalError("wallet RPC transport is not configured")
	}
	raw, err := p.walletRPC.Call(ctx, "wallet_getCallsStatus", params...)
	if err != nil {
		return nil, err
	}
	var status CallsStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, NewInternalError("malformed wallet_getCallsStatus response")
	}
	return &status, nil
}

// Disconnect tears down the signer session, invalidates the cached account,
// sub-accounts, spend permissions and correlation tracking, and emits
// disconnect.
func (p *Provider) Disconnect(ctx context.Context) error {
	err := p.signer.Disconnect(ctx)
	p.state.Clear()
	p.Emit(string(EventDisconnect), map[string]interface{}{
		"code":    ErrCodeDisconnected,
		"message": "User disconnected",
	})
	return err
}

func hexChainID(id uint64) string {
	return hexutil.EncodeUint64(id)
}
