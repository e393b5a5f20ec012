package walletsdk

import (
	"errors"
	"fmt"
	"testing"
)

func TestSerializeError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{
			name:        "rpc error passes through with code intact",
			err:         NewUserRejectedError("User denied the request"),
			wantCode:    ErrCodeUserRejected,
			wantMessage: "User denied the request",
		},
		{
			name:        "wrapped rpc error is unwrapped",
			err:         fmt.Errorf("request failed: %w", NewUnauthorizedError("session revoked")),
			wantCode:    ErrCodeUnauthorized,
			wantMessage: "session revoked",
		},
		{
			name:        "plain error becomes internal",
			err:         errors.New("popup blocked"),
			wantCode:    ErrCodeInternal,
			wantMessage: "popup blocked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SerializeError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", got.Message, tt.wantMessage)
			}
			if got.DocURL != ErrorDocsURL {
				t.Errorf("docUrl = %q, want %q", got.DocURL, ErrorDocsURL)
			}
		})
	}

	if SerializeError(nil) != nil {
		t.Error("nil error must serialize to nil")
	}
}

func TestSerializeErrorDoesNotMutateOriginal(t *testing.T) {
	original := NewInternalError("boom")
	_ = SerializeError(original)
	if original.DocURL != "" {
		t.Error("SerializeError must copy, not mutate, the original error")
	}
}

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"error value", errors.New("transport closed"), "transport closed"},
		{"string", "user cancelled", "user cancelled"},
		{"map with message", map[string]interface{}{"message": "bad request"}, "bad request"},
		{
			"map with nested error message",
			map[string]interface{}{"error": map[string]interface{}{"message": "execution reverted"}},
			"execution reverted",
		},
		{"map with reason", map[string]interface{}{"reason": "denied"}, "denied"},
		{
			"message takes precedence over reason",
			map[string]interface{}{"message": "first", "reason": "second"},
			"first",
		},
		{"nil", nil, "Unknown error occurred"},
		{"unrecognized shape", 42, "Unknown error occurred"},
		{"map with no known fields", map[string]interface{}{"detail": "x"}, "Unknown error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractErrorMessage(tt.input); got != tt.want {
				t.Errorf("ExtractErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsInsufficientFunds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "data code field",
			err:  &RPCError{Code: ErrCodeInternal, Message: "call failed", Data: map[string]interface{}{"code": "INSUFFICIENT_FUNDS"}},
			want: true,
		},
		{"message text funds", errors.New("insufficient funds for gas"), true},
		{"message text balance", errors.New("transfer amount exceeds insufficient balance"), true},
		{"unrelated error", errors.New("nonce too low"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInsufficientFunds(tt.err); got != tt.want {
				t.Errorf("IsInsufficientFunds() = %v, want %v", got, tt.want)
			}
		})
	}
}
