package walletsdk

import (
	"context"
	"sync"
)

// Signer wraps the session transport. It owns the connection flag, performs
// the handshake, forwards signed requests, and relays out-of-band wallet
// events (chain changed, accounts changed, disconnect) to the provider.
//
// The connection flips to connected only after a successful handshake and
// at least one signed request, and resets on explicit disconnect or on an
// unauthorized error surfaced by any request.
type Signer struct {
	mu           sync.Mutex
	communicator Communicator
	state        *SessionState
	connected    bool
	handshaken   bool
	onEvent      func(event EventName, payload interface{})
}

// NewSigner creates a Signer over the given transport and session state.
// The event callback may be nil.
func NewSigner(communicator Communicator, state *SessionState, onEvent func(event EventName, payload interface{})) *Signer {
	s := &Signer{
		communicator: communicator,
		state:        state,
		onEvent:      onEvent,
	}
	communicator.OnEvent(s.handleEvent)
	return s
}

func (s *Signer) handleEvent(event EventName, payload interface{}) {
	if event == EventDisconnect {
		s.mu.Lock()
		s.connected = false
		s.handshaken = false
		s.mu.Unlock()
	}
	if s.onEvent != nil {
		s.onEvent(event, payload)
	}
}

// IsConnected reports whether a handshake plus at least one signed request
// have completed.
func (s *Signer) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Handshake performs the key exchange with the wallet popup. It suspends
// until the transport resolves or rejects; a blocked or user-closed popup
// surfaces as a transport error, not a timeout here.
func (s *Signer) Handshake(ctx context.Context, args RequestArguments) error {
	if err := s.communicator.Handshake(ctx, args); err != nil {
		return err
	}
	s.mu.Lock()
	s.handshaken = true
	s.mu.Unlock()
	return nil
}

// Request forwards an RPC request over the established session. The first
// successful request after a handshake marks the signer connected.
func (s *Signer) Request(ctx context.Context, args RequestArguments) (interface{}, error) {
	result, err := s.communicator.Request(ctx, args)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.handshaken {
		s.connected = true
	}
	s.mu.Unlock()
	return result, nil
}

// Cleanup rotates the ephemeral session key material. Invoked after
// wallet_sendCalls and wallet_sign on every exit path.
func (s *Signer) Cleanup(ctx context.Context) error {
	return s.communicator.Cleanup(ctx)
}

// Disconnect tears down signer state and the session transport.
func (s *Signer) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	s.connected = false
	s.handshaken = false
	s.mu.Unlock()
	return s.communicator.Cleanup(ctx)
}
