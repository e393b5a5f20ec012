package echo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/coinbase/wallet-sdk/go/callback"
)

func TestHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(`{"requestedInfo":{"email":"payer@example.com"}}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	err := Handler(func(ctx context.Context, r *callback.Request) (*callback.Response, error) {
		seen = r.RequestedInfo.Email
		return nil, nil
	})(c)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if seen != "payer@example.com" {
		t.Errorf("email = %q", seen)
	}
}

func TestHandlerRejectsInvalidBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Handler(func(ctx context.Context, r *callback.Request) (*callback.Response, error) {
		t.Fatal("handler must not run for invalid bodies")
		return nil, nil
	})(c)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
