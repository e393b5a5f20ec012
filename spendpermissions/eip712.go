package spendpermissions

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	walletsdk "github.com/coinbase/wallet-sdk/go"
)

// spendPermissionTypes defines the EIP-712 struct for a spend permission.
// Field order MUST match the onchain permission manager.
var spendPermissionTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"SpendPermission": {
		{Name: "account", Type: "address"},
		{Name: "spender", Type: "address"},
		{Name: "token", Type: "address"},
		{Name: "allowance", Type: "uint160"},
		{Name: "period", Type: "uint48"},
		{Name: "start", Type: "uint48"},
		{Name: "end", Type: "uint48"},
		{Name: "salt", Type: "uint256"},
		{Name: "extraData", Type: "bytes"},
	},
}

// BuildTypedData constructs the EIP-712 typed data a user signs to grant a
// spend permission, against the permission manager on the given chain.
func BuildTypedData(permission walletsdk.SpendPermissionDetail, chainID uint64) (apitypes.TypedData, error) {
	message, err := permissionMessage(permission)
	if err != nil {
		return apitypes.TypedData{}, err
	}

	return apitypes.TypedData{
		Types:       spendPermissionTypes,
		PrimaryType: "SpendPermission",
		Domain: apitypes.TypedDataDomain{
			Name:              domainName,
			Version:           domainVersion,
			ChainId:           math.NewHexOrDecimal256(int64(chainID)),
			VerifyingContract: ManagerAddress,
		},
		Message: message,
	}, nil
}

// HashTypedData computes the EIP-712 digest for a spend permission:
// keccak256("\x19\x01" || domainSeparator || structHash).
func HashTypedData(permission walletsdk.SpendPermissionDetail, chainID uint64) ([]byte, error) {
	typedData, err := BuildTypedData(permission, chainID)
	if err != nil {
		return nil, err
	}
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, fmt.Errorf("failed to hash spend permission: %w", err)
	}
	return digest, nil
}

// permissionMessage converts the permission struct into the typed-data
// message map, parsing the decimal-string big integers.
func permissionMessage(permission walletsdk.SpendPermissionDetail) (apitypes.TypedDataMessage, error) {
	allowance, ok := new(big.Int).SetString(permission.Allowance, 10)
	if !ok {
		return nil, fmt.Errorf("invalid allowance: %s", permission.Allowance)
	}
	salt, ok := new(big.Int).SetString(permission.Salt, 10)
	if !ok {
		return nil, fmt.Errorf("invalid salt: %s", permission.Salt)
	}
	extraData := permission.ExtraData
	if extraData == "" {
		extraData = "0x"
	}
	raw, err := hexutil.Decode(extraData)
	if err != nil {
		return nil, fmt.Errorf("invalid extraData: %w", err)
	}

	// Integer fields are passed as decimal strings, the shape the typed-data
	// encoder parses for uintN types.
	return apitypes.TypedDataMessage{
		"account":   common.HexToAddress(permission.Account).Hex(),
		"spender":   common.HexToAddress(permission.Spender).Hex(),
		"token":     common.HexToAddress(permission.Token).Hex(),
		"allowance": allowance.String(),
		"period":    new(big.Int).SetUint64(permission.Period).String(),
		"start":     new(big.Int).SetUint64(permission.Start).String(),
		"end":       new(big.Int).SetUint64(permission.End).String(),
		"salt":      salt.String(),
		"extraData": raw,
	}, nil
}
