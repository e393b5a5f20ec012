package payments

import (
	"context"

	walletsdk "github.com/coinbase/wallet-sdk/go"
)

// providerSender adapts a wallet provider to the Sender interface.
type providerSender struct {
	provider walletsdk.ProviderInterface
}

func (s *providerSender) SendCalls(ctx context.Context, params walletsdk.SendCallsParams) (interface{}, error) {
	return s.provider.Request(ctx, walletsdk.RequestArguments{
		Method: "wallet_sendCalls",
		Params: []interface{}{params},
	})
}

func (s *providerSender) Disconnect(ctx context.Context) error {
	return s.provider.Disconnect(ctx)
}

// ProviderSenderFactory builds the production SenderFactory: a fresh
// provider per Pay call, torn down when the payment settles.
func ProviderSenderFactory(newProvider func(testnet bool) (walletsdk.ProviderInterface, error)) SenderFactory {
	return func(testnet bool) (Sender, error) {
		provider, err := newProvider(testnet)
		if err != nil {
			return nil, err
		}
		return &providerSender{provider: provider}, nil
	}
}
