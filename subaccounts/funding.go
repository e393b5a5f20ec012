package subaccounts

import (
	"context"

	walletsdk "github.com/coinbase/wallet-sdk/go"
)

// FundingOptions parameterizes HandleInsufficientBalance.
type FundingOptions struct {
	Route     RouteOptions
	Client    walletsdk.ChainClient
	Presenter walletsdk.DialogPresenter
}

// HandleInsufficientBalance recovers from an INSUFFICIENT_FUNDS failure on
// a sub-account request: the user confirms funding through the global
// account, then the same intent is replayed via RouteThroughGlobalAccount.
// Cancellation is fatal; every other dialog outcome retries.
func HandleInsufficientBalance(ctx context.Context, opts FundingOptions) (interface{}, error) {
	if opts.Client == nil || opts.Client.ChainID() == 0 {
		return nil, walletsdk.NewInternalError("no client available for chain id")
	}

	approved := presentChoice(opts.Presenter,
		"Insufficient balance",
		"Your sub-account cannot cover this transaction. Continue to fund it from your main account.",
		"Continue", "Cancel")
	if !approved {
		return nil, walletsdk.NewUserRejectedError("User cancelled funding")
	}

	route := opts.Route
	route.ChainID = opts.Client.ChainID()
	return RouteThroughGlobalAccount(ctx, route)
}
