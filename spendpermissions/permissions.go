package spendpermissions

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	walletsdk "github.com/coinbase/wallet-sdk/go"
)

// RequestFunc sends a request over the authenticated wallet transport.
type RequestFunc func(ctx context.Context, args walletsdk.RequestArguments) (interface{}, error)

// permissionTuple mirrors the onchain SpendPermission struct for ABI packing.
type permissionTuple struct {
	Account   common.Address
	Spender   common.Address
	Token     common.Address
	Allowance *big.Int
	Period    *big.Int
	Start     *big.Int
	End       *big.Int
	Salt      *big.Int
	ExtraData []byte
}

func toTuple(p walletsdk.SpendPermissionDetail) (permissionTuple, error) {
	allowance, ok := new(big.Int).SetString(p.Allowance, 10)
	if !ok {
		return permissionTuple{}, fmt.Errorf("invalid allowance: %s", p.Allowance)
	}
	salt, ok := new(big.Int).SetString(p.Salt, 10)
	if !ok {
		return permissionTuple{}, fmt.Errorf("invalid salt: %s", p.Salt)
	}
	extraData := p.ExtraData
	if extraData == "" {
		extraData = "0x"
	}
	raw, err := hexutil.Decode(extraData)
	if err != nil {
		return permissionTuple{}, fmt.Errorf("invalid extraData: %w", err)
	}
	return permissionTuple{
		Account:   common.HexToAddress(p.Account),
		Spender:   common.HexToAddress(p.Spender),
		Token:     common.HexToAddress(p.Token),
		Allowance: allowance,
		Period:    new(big.Int).SetUint64(p.Period),
		Start:     new(big.Int).SetUint64(p.Start),
		End:       new(big.Int).SetUint64(p.End),
		Salt:      salt,
		ExtraData: raw,
	}, nil
}

// RequestOptions parameterizes RequestSpendPermission.
type RequestOptions struct {
	Permission walletsdk.SpendPermissionDetail
	ChainID    uint64
	Request    RequestFunc
	Client     walletsdk.ChainClient
	State      *walletsdk.SessionState
}

// RequestSpendPermission asks the user to sign a spend permission via
// eth_signTypedData_v4, derives the permission hash from the manager
// contract and caches the result.
func RequestSpendPermission(ctx context.Context, opts RequestOptions) (*walletsdk.SpendPermission, error) {
	typedData, err := BuildTypedData(opts.Permission, opts.ChainID)
	if err != nil {
		return nil, err
	}
	typedJSON, err := json.Marshal(typedData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode typed data: %w", err)
	}

	raw, err := opts.Request(ctx, walletsdk.RequestArguments{
		Method: "eth_signTypedData_v4",
		Params: []interface{}{opts.Permission.Account, string(typedJSON)},
	})
	if err != nil {
		return nil, err
	}
	signature, ok := raw.(string)
	if !ok || signature == "" {
		return nil, fmt.Errorf("unexpected signature result shape: %T", raw)
	}

	hash, err := GetHash(ctx, opts.Client, opts.Permission)
	if err != nil {
		return nil, err
	}

	permission := &walletsdk.SpendPermission{
		CreatedAt:      time.Now().Unix(),
		PermissionHash: hash,
		Signature:      signature,
		ChainID:        opts.ChainID,
		Permission:     opts.Permission,
	}
	if opts.State != nil {
		opts.State.AddSpendPermissions([]walletsdk.SpendPermission{*permission})
	}
	return permission, nil
}

// GetHash derives the deterministic permission hash via the manager's
// onchain getHash.
func GetHash(ctx context.Context, client walletsdk.ChainClient, permission walletsdk.SpendPermissionDetail) (string, error) {
	tuple, err := toTuple(permission)
	if err != nil {
		return "", err
	}
	raw, err := client.ReadContract(ctx, walletsdk.ReadContractCall{
		Address:      ManagerAddress,
		ABI:          GetHashABI,
		FunctionName: "getHash",
		Args:         []interface{}{tuple},
	})
	if err != nil {
		return "", fmt.Errorf("failed to read permission hash: %w", err)
	}
	switch h := raw.(type) {
	case [32]byte:
		return hexutil.Encode(h[:]), nil
	case []byte:
		return hexutil.Encode(h), nil
	case string:
		return h, nil
	default:
		return "", fmt.Errorf("unexpected getHash result: %T", raw)
	}
}

// PeriodUsage is the active allowance window read from getCurrentPeriod.
type PeriodUsage struct {
	Start uint64   `json:"start"`
	End   uint64   `json:"end"`
	Spend *big.Int `json:"spend"`
}

// PermissionStatus is the aggregate onchain view of a permission.
type PermissionStatus struct {
	Revoked        bool        `json:"revoked"`
	Valid          bool        `json:"valid"`
	Period         PeriodUsage `json:"period"`
	RemainingSpend *big.Int    `json:"remainingSpend"`
}

// GetPermissionStatus issues three independent view calls (isRevoked,
// isValid, getCurrentPeriod). All three are pure reads, so concurrent
// lookups for the same permission are safe without mutual exclusion.
func GetPermissionStatus(ctx context.Context, client walletsdk.ChainClient, permission walletsdk.SpendPermission) (*PermissionStatus, error) {
	hashBytes, err := hexutil.Decode(permission.PermissionHash)
	if err != nil || len(hashBytes) != 32 {
		return nil, fmt.Errorf("invalid permission hash: %s", permission.PermissionHash)
	}
	var hash [32]byte
	copy(hash[:], hashBytes)

	revokedRaw, err := client.ReadContract(ctx, walletsdk.ReadContractCall{
		Address:      ManagerAddress,
		ABI:          IsRevokedABI,
		FunctionName: "isRevoked",
		Args:         []interface{}{hash},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read isRevoked: %w", err)
	}
	validRaw, err := client.ReadContract(ctx, walletsdk.ReadContractCall{
		Address:      ManagerAddress,
		ABI:          IsValidABI,
		FunctionName: "isValid",
		Args:         []interface{}{hash},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read isValid: %w", err)
	}

	tuple, err := toTuple(permission.Permission)
	if err != nil {
		return nil, err
	}
	periodRaw, err := client.ReadContract(ctx, walletsdk.ReadContractCall{
		Address:      ManagerAddress,
		ABI:          GetCurrentPeriodABI,
		FunctionName: "getCurrentPeriod",
		Args:         []interface{}{tuple},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read current period: %w", err)
	}

	status := &PermissionStatus{
		Revoked: revokedRaw == true,
		Valid:   validRaw == true,
	}
	if period, err := decodePeriod(periodRaw); err == nil {
		status.Period = *period
		allowance, ok := new(big.Int).SetString(permission.Permission.Allowance, 10)
		if ok && period.Spend != nil {
			status.RemainingSpend = new(big.Int).Sub(allowance, period.Spend)
		}
	}
	return status, nil
}

func decodePeriod(v interface{}) (*PeriodUsage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out PeriodUsage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BuildSpendCall encodes a spendWithSignature call moving value tokens
// under the permission. The spender sends this from its own account.
func BuildSpendCall(permission walletsdk.SpendPermission, value *big.Int) (walletsdk.Call, error) {
	tuple, err := toTuple(permission.Permission)
	if err != nil {
		return walletsdk.Call{}, err
	}
	signature, err := hexutil.Decode(permission.Signature)
	if err != nil {
		return walletsdk.Call{}, fmt.Errorf("invalid permission signature: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(string(SpendWithSignatureABI)))
	if err != nil {
		return walletsdk.Call{}, err
	}
	encoded, err := parsed.Pack("spendWithSignature", tuple, signature, value)
	if err != nil {
		return walletsdk.Call{}, err
	}
	return walletsdk.Call{To: ManagerAddress, Data: hexutil.Encode(encoded), Value: "0x0"}, nil
}

// BuildRevokeCall encodes a revoke call issued by the granting account.
func BuildRevokeCall(permission walletsdk.SpendPermission) (walletsdk.Call, error) {
	return buildTupleCall(permission, RevokeABI, "revoke")
}

// BuildRevokeAsSpenderCall encodes a revokeAsSpender call issued by the
// spender itself.
func BuildRevokeAsSpenderCall(permission walletsdk.SpendPermission) (walletsdk.Call, error) {
	return buildTupleCall(permission, RevokeAsSpenderABI, "revokeAsSpender")
}

func buildTupleCall(permission walletsdk.SpendPermission, rawABI []byte, method string) (walletsdk.Call, error) {
	tuple, err := toTuple(permission.Permission)
	if err != nil {
		return walletsdk.Call{}, err
	}
	parsed, err := abi.JSON(strings.NewReader(string(rawABI)))
	if err != nil {
		return walletsdk.Call{}, err
	}
	encoded, err := parsed.Pack(method, tuple)
	if err != nil {
		return walletsdk.Call{}, err
	}
	return walletsdk.Call{To: ManagerAddress, Data: hexutil.Encode(encoded), Value: "0x0"}, nil
}
