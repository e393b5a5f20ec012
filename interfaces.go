package walletsdk

import "context"

// EventName identifies out-of-band events surfaced by the session transport.
type EventName string

const (
	EventChainChanged    EventName = "chainChanged"
	EventAccountsChanged EventName = "accountsChanged"
	EventDisconnect      EventName = "disconnect"
)

// Communicator is the opaque encrypted channel to the wallet popup. The
// cryptographic handshake and message framing live entirely behind this
// boundary; the SDK core only sequences the calls. A blocked or user-closed
// popup surfaces as an error from Handshake/Request, not a timeout here.
type Communicator interface {
	// Handshake performs the key exchange establishing the encrypted session.
	Handshake(ctx context.Context, args RequestArguments) error

	// Request forwards an RPC request over the established session.
	Request(ctx context.Context, args RequestArguments) (interface{}, error)

	// Cleanup rotates the ephemeral session key material.
	Cleanup(ctx context.Context) error

	// OnEvent registers the callback for out-of-band wallet events.
	OnEvent(func(event EventName, payload interface{}))
}

// Storage is the persisted key-value store under SessionState. Last-write-wins,
// no transactional guarantees.
type Storage interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

// ChainClient performs idempotent onchain view calls. Implementations wrap
// a JSON-RPC endpoint for a single chain.
type ChainClient interface {
	ChainID() uint64
	ReadContract(ctx context.Context, call ReadContractCall) (interface{}, error)
}

// ReadContractCall describes a single view call.
type ReadContractCall struct {
	Address      string
	ABI          []byte
	FunctionName string
	Args         []interface{}
}

// DialogAction is one actionable choice presented to the user.
type DialogAction struct {
	Text      string
	Variant   string
	OnClick   func()
	Secondary bool
}

// DialogPresenter gates user-approval flows (re-authorization, funding).
// PresentItem blocks rendering concerns behind the boundary; the SDK only
// resolves on which action the user picked or on close.
type DialogPresenter interface {
	PresentItem(title, message string, actions []DialogAction, onClose func())
}

// ProviderInterface is the EIP-1193 surface exposed to applications.
type ProviderInterface interface {
	Request(ctx context.Context, args RequestArguments) (interface{}, error)
	On(event string, listener func(payload interface{})) func()
	Disconnect(ctx context.Context) error
}
