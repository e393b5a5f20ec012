// Package gin adapts the payment data callback to gin-based servers.
package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coinbase/wallet-sdk/go/callback"
)

// Handler wraps an application callback handler into a gin route handler
// for the payment callback URL.
func Handler(handler callback.Handler, opts ...callback.Option) gin.HandlerFunc {
	httpHandler := callback.HTTPHandler(handler, opts...)
	return func(c *gin.Context) {
		httpHandler(c.Writer, c.Request)
	}
}

// DecodeHandler is a lower-level variant for routes that want gin's own
// response helpers: it decodes and validates the body, then hands the typed
// request to fn.
func DecodeHandler(fn func(c *gin.Context, req *callback.Request), opts ...callback.Option) gin.HandlerFunc {
	options := callback.ApplyOptions(opts...)
	return func(c *gin.Context) {
		req, err := callback.Decode(c.Request.Body, options.MaxBodyBytes)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fn(c, req)
	}
}
