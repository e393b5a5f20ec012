// Package subaccounts implements delegation from a restricted sub-account to
// its owning global account: rewriting requests into executeBatch calls
// routed through the global account, recovering stale owner keys, and
// retrying after insufficient-balance failures.
package subaccounts

const (
	// Calls-status poll cadence while waiting for a transaction hash on
	// behalf of eth_sendTransaction callers.
	defaultPollInterval = 1000 // milliseconds

	// Spend-permission capability key injected into routed wallet_sendCalls.
	capabilitySpendPermissions = "spendPermissions"
)

var (
	// ExecuteBatchABI targets the smart-wallet executeBatch entry point.
	ExecuteBatchABI = []byte(`[
		{
			"inputs": [
				{
					"name": "calls",
					"type": "tuple[]",
					"components": [
						{"name": "target", "type": "address"},
						{"name": "value", "type": "uint256"},
						{"name": "data", "type": "bytes"}
					]
				}
			],
			"name": "executeBatch",
			"outputs": [],
			"stateMutability": "payable",
			"type": "function"
		}
	]`)

	// AddOwnerAddressABI registers an address-based owner on the sub-account.
	AddOwnerAddressABI = []byte(`[
		{
			"inputs": [{"name": "owner", "type": "address"}],
			"name": "addOwnerAddress",
			"outputs": [],
			"stateMutability": "nonpayable",
			"type": "function"
		}
	]`)

	// AddOwnerPublicKeyABI registers a WebAuthn P-256 owner on the sub-account.
	AddOwnerPublicKeyABI = []byte(`[
		{
			"inputs": [
				{"name": "x", "type": "bytes32"},
				{"name": "y", "type": "bytes32"}
			],
			"name": "addOwnerPublicKey",
			"outputs": [],
			"stateMutability": "nonpayable",
			"type": "function"
		}
	]`)

	// OwnerCountABI reads how many owners the sub-account has registered.
	OwnerCountABI = []byte(`[
		{
			"inputs": [],
			"name": "ownerCount",
			"outputs": [{"name": "", "type": "uint256"}],
			"stateMutability": "view",
			"type": "function"
		}
	]`)

	// OwnerAtIndexABI reads the raw owner bytes at a given slot.
	OwnerAtIndexABI = []byte(`[
		{
			"inputs": [{"name": "index", "type": "uint256"}],
			"name": "ownerAtIndex",
			"outputs": [{"name": "", "type": "bytes"}],
			"stateMutability": "view",
			"type": "function"
		}
	]`)
)
