// Package echo adapts the payment data callback to echo-based servers.
package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coinbase/wallet-sdk/go/callback"
)

// Handler wraps an application callback handler into an echo route handler
// for the payment callback URL.
func Handler(handler callback.Handler, opts ...callback.Option) echo.HandlerFunc {
	options := callback.ApplyOptions(opts...)
	return func(c echo.Context) error {
		req, err := callback.Decode(c.Request().Body, options.MaxBodyBytes)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		resp, err := handler(c.Request().Context(), req)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "callback handler failed"})
		}
		if resp == nil {
			resp = &callback.Response{}
		}
		return c.JSON(http.StatusOK, resp)
	}
}
