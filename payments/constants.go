// Package payments translates high-level "pay this address this amount"
// requests into wallet_sendCalls envelopes and maps bundler RPC responses
// onto a four-state payment lifecycle. Both entry points return failures as
// values, never as errors: payment UX must not crash on a declined
// signature or a flaky bundler.
package payments

import "github.com/ethereum/go-ethereum/crypto"

// USDCDecimals is the onchain token precision. Distinct from the 2-decimal
// user-facing amount validation in Pay; the mismatch is intentional.
const USDCDecimals = 6

// PayMaxDecimals bounds the user-supplied decimal amount in Pay.
const PayMaxDecimals = 2

// NetworkConfig describes one supported payment network.
type NetworkConfig struct {
	ChainID     uint64
	USDCAddress string
}

// Payment networks, selected by the testnet flag.
var (
	NetworkMainnet = NetworkConfig{
		ChainID:     8453, // Base
		USDCAddress: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
	}
	NetworkTestnet = NetworkConfig{
		ChainID:     84532, // Base Sepolia
		USDCAddress: "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
	}
)

// Network returns the configuration for the selected network.
func Network(testnet bool) NetworkConfig {
	if testnet {
		return NetworkTestnet
	}
	return NetworkMainnet
}

// TransferEventTopic is the keccak hash of the ERC-20 Transfer event
// signature, used to locate the USDC transfer in a receipt's logs.
var TransferEventTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")).Hex()

// ERC20TransferABI encodes transfer(to, amount).
var ERC20TransferABI = []byte(`[
	{
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "transfer",
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`)
