package walletsdk

import (
	"errors"
	"fmt"
	"strings"
)

// Standard provider error codes (EIP-1193 / EIP-1474)
const (
	ErrCodeInvalidParams     = -32602
	ErrCodeInternal          = -32603
	ErrCodeUserRejected      = 4001
	ErrCodeUnauthorized      = 4100
	ErrCodeUnsupportedMethod = 4200
	ErrCodeDisconnected      = 4900
)

// ErrorDocsURL is attached to serialized errors so integrators can look up
// the failure without digging through SDK internals.
const ErrorDocsURL = "https://docs.base.org/identity/smart-wallet/sdk/errors"

// RPCError is the error shape surfaced by Provider.Request and the signer
// layer. It matches the JSON-RPC error object plus a docs pointer.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	DocURL  string      `json:"docUrl,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s (code: %d)", e.Message, e.Code)
}

// NewRPCError creates an RPCError with the given code and message.
func NewRPCError(code int, message string) *RPCError {
	return &RPCError{Code: code, Message: message}
}

// NewInvalidParamsError indicates a malformed request shape.
func NewInvalidParamsError(message string) *RPCError {
	return NewRPCError(ErrCodeInvalidParams, message)
}

// NewUnsupportedMethodError indicates a deprecated or never-implemented method.
func NewUnsupportedMethodError(method string) *RPCError {
	return NewRPCError(ErrCodeUnsupportedMethod, fmt.Sprintf("method %q is not supported", method))
}

// NewUnauthorizedError indicates the action requires a prior connection or
// that permission was revoked mid-flow.
func NewUnauthorizedError(message string) *RPCError {
	return NewRPCError(ErrCodeUnauthorized, message)
}

// NewInternalError indicates an invariant violation inside the SDK.
func NewInternalError(message string) *RPCError {
	return NewRPCError(ErrCodeInternal, message)
}

// NewUserRejectedError indicates the user dismissed a dialog or declined
// a signature.
func NewUserRejectedError(message string) *RPCError {
	return NewRPCError(ErrCodeUserRejected, message)
}

// SerializeError normalizes any error into an RPCError with the docs URL
// attached. RPCErrors pass through with their code intact; everything else
// becomes an internal error carrying the extracted message.
func SerializeError(err error) *RPCError {
	if err == nil {
		return nil
	}
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		out := *rpcErr
		out.DocURL = ErrorDocsURL
		return &out
	}
	out := NewInternalError(ExtractErrorMessage(err))
	out.DocURL = ErrorDocsURL
	return out
}

// IsUnauthorized reports whether err carries the standard unauthorized code.
func IsUnauthorized(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == ErrCodeUnauthorized
}

// IsUserRejected reports whether err carries the user-rejected code.
func IsUserRejected(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == ErrCodeUserRejected
}

// IsInsufficientFunds matches the error shape wallets surface when a
// sub-account cannot cover a call. Wallets are inconsistent here, so both
// the dedicated data field and the message text are checked.
func IsInsufficientFunds(err error) bool {
	if err == nil {
		return false
	}
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		if data, ok := rpcErr.Data.(map[string]interface{}); ok {
			if code, ok := data["code"].(string); ok && code == "INSUFFICIENT_FUNDS" {
				return true
			}
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "insufficient funds") || strings.Contains(msg, "insufficient balance")
}

// ExtractErrorMessage normalizes arbitrary thrown shapes into a message
// string with a fixed precedence: error.Error() -> string -> nested
// message / error.message / reason fields -> fallback. Implemented once and
// reused at every boundary instead of ad hoc per-callsite checks.
func ExtractErrorMessage(v interface{}) string {
	switch e := v.(type) {
	case nil:
		return "Unknown error occurred"
	case error:
		return e.Error()
	case string:
		return e
	case map[string]interface{}:
		if msg, ok := e["message"].(string); ok && msg != "" {
			return msg
		}
		if inner, ok := e["error"].(map[string]interface{}); ok {
			if msg, ok := inner["message"].(string); ok && msg != "" {
				return msg
			}
		}
		if reason, ok := e["reason"].(string); ok && reason != "" {
			return reason
		}
	}
	return "Unknown error occurred"
}
