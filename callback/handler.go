package callback

import (
	"encoding/json"
	"io"
	"net/http"
)

// HandlerOptions configures the HTTP receivers.
type HandlerOptions struct {
	// MaxBodyBytes bounds the accepted request body. Zero means the default.
	MaxBodyBytes int64
}

// Option mutates HandlerOptions.
type Option func(*HandlerOptions)

// WithMaxBodyBytes sets the request body size limit.
func WithMaxBodyBytes(n int64) Option {
	return func(o *HandlerOptions) { o.MaxBodyBytes = n }
}

const defaultMaxBodyBytes = 1 << 20

// ApplyOptions resolves opts over the defaults. Used by the framework
// adapters in the gin and echo subpackages.
func ApplyOptions(opts ...Option) HandlerOptions {
	options := HandlerOptions{MaxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// Decode reads, schema-validates and unmarshals one callback request body.
func Decode(r io.Reader, limit int64) (*Request, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, err
	}
	if err := ValidateRequestBody(body); err != nil {
		return nil, err
	}
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// HTTPHandler wraps an application Handler into a net/http endpoint for the
// payment callback URL. Malformed bodies get 400; handler errors get 500;
// everything else returns the handler's Response as JSON.
func HTTPHandler(handler Handler, opts ...Option) http.HandlerFunc {
	options := ApplyOptions(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req, err := Decode(r.Body, options.MaxBodyBytes)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp, err := handler(r.Context(), req)
		if err != nil {
			http.Error(w, "callback handler failed", http.StatusInternalServerError)
			return
		}
		if resp == nil {
			resp = &Response{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
