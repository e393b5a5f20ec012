// Package spendpermissions builds, signs and manages EIP-712 spend
// permissions: recurring, bounded token allowances a global account grants
// to a sub-account spender, verifiable onchain by the permission manager.
package spendpermissions

// ManagerAddress is the canonical Spend Permission Manager contract. Same
// address on all supported chains via deterministic deployment.
const ManagerAddress = "0xf85210B21cC50302F477BA56686d2019dC9b67Ad"

// EIP-712 domain values for the permission manager.
const (
	domainName    = "Spend Permission Manager"
	domainVersion = "1"
)

var (
	// GetHashABI derives the deterministic permission hash onchain.
	GetHashABI = []byte(`[
		{
			"inputs": [
				{
					"name": "spendPermission",
					"type": "tuple",
					"components": [
						{"name": "account", "type": "address"},
						{"name": "spender", "type": "address"},
						{"name": "token", "type": "address"},
						{"name": "allowance", "type": "uint160"},
						{"name": "period", "type": "uint48"},
						{"name": "start", "type": "uint48"},
						{"name": "end", "type": "uint48"},
						{"name": "salt", "type": "uint256"},
						{"name": "extraData", "type": "bytes"}
					]
				}
			],
			"name": "getHash",
			"outputs": [{"name": "", "type": "bytes32"}],
			"stateMutability": "view",
			"type": "function"
		}
	]`)

	// IsRevokedABI checks whether the permission was revoked.
	IsRevokedABI = []byte(`[
		{
			"inputs": [{"name": "hash", "type": "bytes32"}],
			"name": "isRevoked",
			"outputs": [{"name": "", "type": "bool"}],
			"stateMutability": "view",
			"type": "function"
		}
	]`)

	// IsValidABI checks whether the permission was approved and not revoked.
	IsValidABI = []byte(`[
		{
			"inputs": [{"name": "hash", "type": "bytes32"}],
			"name": "isValid",
			"outputs": [{"name": "", "type": "bool"}],
			"stateMutability": "view",
			"type": "function"
		}
	]`)

	// GetCurrentPeriodABI reads the active period window and its usage.
	GetCurrentPeriodABI = []byte(`[
		{
			"inputs": [
				{
					"name": "spendPermission",
					"type": "tuple",
					"components": [
						{"name": "account", "type": "address"},
						{"name": "spender", "type": "address"},
						{"name": "token", "type": "address"},
						{"name": "allowance", "type": "uint160"},
						{"name": "period", "type": "uint48"},
						{"name": "start", "type": "uint48"},
						{"name": "end", "type": "uint48"},
						{"name": "salt", "type": "uint256"},
						{"name": "extraData", "type": "bytes"}
					]
				}
			],
			"name": "getCurrentPeriod",
			"outputs": [
				{
					"name": "",
					"type": "tuple",
					"components": [
						{"name": "start", "type": "uint48"},
						{"name": "end", "type": "uint48"},
						{"name": "spend", "type": "uint160"}
					]
				}
			],
			"stateMutability": "view",
			"type": "function"
		}
	]`)

	// SpendWithSignatureABI approves (if needed) and spends in one call.
	SpendWithSignatureABI = []byte(`[
		{
			"inputs": [
				{
					"name": "spendPermission",
					"type": "tuple",
					"components": [
						{"name": "account", "type": "address"},
						{"name": "spender", "type": "address"},
						{"name": "token", "type": "address"},
						{"name": "allowance", "type": "uint160"},
						{"name": "period", "type": "uint48"},
						{"name": "start", "type": "uint48"},
						{"name": "end", "type": "uint48"},
						{"name": "salt", "type": "uint256"},
						{"name": "extraData", "type": "bytes"}
					]
				},
				{"name": "signature", "type": "bytes"},
				{"name": "value", "type": "uint160"}
			],
			"name": "spendWithSignature",
			"outputs": [],
			"stateMutability": "nonpayable",
			"type": "function"
		}
	]`)

	// RevokeABI revokes a permission as the granting account.
	RevokeABI = []byte(`[
		{
			"inputs": [
				{
					"name": "spendPermission",
					"type": "tuple",
					"components": [
						{"name": "account", "type": "address"},
						{"name": "spender", "type": "address"},
						{"name": "token", "type": "address"},
						{"name": "allowance", "type": "uint160"},
						{"name": "period", "type": "uint48"},
						{"name": "start", "type": "uint48"},
						{"name": "end", "type": "uint48"},
						{"name": "salt", "type": "uint256"},
						{"name": "extraData", "type": "bytes"}
					]
				}
			],
			"name": "revoke",
			"outputs": [],
			"stateMutability": "nonpayable",
			"type": "function"
		}
	]`)

	// RevokeAsSpenderABI revokes a permission as the spender itself.
	RevokeAsSpenderABI = []byte(`[
		{
			"inputs": [
				{
					"name": "spendPermission",
					"type": "tuple",
					"components": [
						{"name": "account", "type": "address"},
						{"name": "spender", "type": "address"},
						{"name": "token", "type": "address"},
						{"name": "allowance", "type": "uint160"},
						{"name": "period", "type": "uint48"},
						{"name": "start", "type": "uint48"},
						{"name": "end", "type": "uint48"},
						{"name": "salt", "type": "uint256"},
						{"name": "extraData", "type": "bytes"}
					]
				}
			],
			"name": "revokeAsSpender",
			"outputs": [],
			"stateMutability": "nonpayable",
			"type": "function"
		}
	]`)
)
