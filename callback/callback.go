// Package callback implements the merchant side of the payment data
// callback: receiving payer-info POSTs from the wallet, validating their
// shape, and letting the application accept, reject or amend the payment.
package callback

import (
	"context"

	walletsdk "github.com/coinbase/wallet-sdk/go"
)

// PhysicalAddress is a payer-supplied mailing address.
type PhysicalAddress struct {
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	CountryCode string `json:"countryCode"`
	Name        struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"name"`
}

// RequestedInfo carries whichever payer fields the wallet collected.
type RequestedInfo struct {
	Email           string           `json:"email,omitempty"`
	PhoneNumber     string           `json:"phoneNumber,omitempty"`
	Name            string           `json:"name,omitempty"`
	OnchainAddress  string           `json:"onchainAddress,omitempty"`
	PhysicalAddress *PhysicalAddress `json:"physicalAddress,omitempty"`
}

// Request is the wallet's data-callback POST body.
type Request struct {
	Version       string           `json:"version"`
	ChainID       string           `json:"chainId"`
	Calls         []walletsdk.Call `json:"calls"`
	RequestedInfo RequestedInfo    `json:"requestedInfo"`
}

// Response is returned to the wallet. Populating Errors rejects the listed
// fields and prompts the payer to correct them; populating Calls swaps the
// payment's call batch; an empty response accepts as-is.
type Response struct {
	Errors map[string]string `json:"errors,omitempty"`
	Calls  []walletsdk.Call  `json:"calls,omitempty"`
}

// Handler is the application hook invoked for each validated callback.
type Handler func(ctx context.Context, req *Request) (*Response, error)
