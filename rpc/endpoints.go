package rpc

import "fmt"

// Bundler endpoint convention: the network segment is selected by the
// testnet flag, the trailing path carries the integrator's API key.
const (
	bundlerBaseURL = "https://api.developer.coinbase.com/rpc/v1"

	networkSegmentMainnet = "base"
	networkSegmentTestnet = "base-sepolia"
)

// BundlerURL builds the bundler RPC endpoint for the selected network.
func BundlerURL(testnet bool, apiKeyPath string) string {
	segment := networkSegmentMainnet
	if testnet {
		segment = networkSegmentTestnet
	}
	return fmt.Sprintf("%s/%s/%s", bundlerBaseURL, segment, apiKeyPath)
}

// NewBundlerClient creates a JSON-RPC client pointed at the bundler for the
// selected network.
func NewBundlerClient(testnet bool, apiKeyPath string, opts ...ClientOption) *Client {
	return NewClient(BundlerURL(testnet, apiKeyPath), opts...)
}
