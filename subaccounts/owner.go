package subaccounts

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	walletsdk "github.com/coinbase/wallet-sdk/go"
)

// AddOwnerOptions parameterizes HandleAddSubAccountOwner.
type AddOwnerOptions struct {
	Owner                walletsdk.OwnerAccount
	State                *walletsdk.SessionState
	Client               walletsdk.ChainClient
	GlobalAccountRequest RequestFunc
	Presenter            walletsdk.DialogPresenter
	PollInterval         time.Duration
}

// HandleAddSubAccountOwner recovers a sub-account whose cached signer key is
// stale: after the user approves re-authentication, the owner key is
// re-registered onchain through the global account and its new owner index
// is resolved.
func HandleAddSubAccountOwner(ctx context.Context, opts AddOwnerOptions) (int, error) {
	account := opts.State.Account()
	if account == nil || len(account.Accounts) == 0 || account.ChainID == 0 {
		return -1, walletsdk.NewUnauthorizedError("no global account or chain id available")
	}
	globalAccount := account.Accounts[0]

	sub, ok := opts.State.SubAccount(globalAccount)
	if !ok {
		return -1, walletsdk.NewUnauthorizedError("no sub-account available")
	}

	approved := presentChoice(opts.Presenter,
		"Re-authenticate your account",
		"Your signer is out of date. Approve to restore access to your sub-account.",
		"Continue", "Not now")
	if !approved {
		return -1, walletsdk.NewUnauthorizedError("user cancelled re-authentication")
	}

	calls, err := buildAddOwnerCalls(sub.Address, opts.Owner)
	if err != nil {
		return -1, err
	}

	result, err := RouteThroughGlobalAccount(ctx, RouteOptions{
		Request: walletsdk.RequestArguments{
			Method: "wallet_sendCalls",
			Params: []interface{}{walletsdk.SendCallsParams{
				Version: "1.0",
				ChainID: hexutil.EncodeUint64(account.ChainID),
				From:    globalAccount,
				Calls:   calls,
			}},
		},
		GlobalAccountAddress: globalAccount,
		SubAccountAddress:    sub.Address,
		ChainID:              account.ChainID,
		GlobalAccountRequest: opts.GlobalAccountRequest,
		State:                opts.State,
		PollInterval:         opts.PollInterval,
	})
	if err != nil {
		return -1, err
	}

	sendResult, err := walletsdk.DecodeSendCallsResult(result)
	if err != nil {
		return -1, err
	}
	if err := waitForTerminalStatus(ctx, opts, sendResult.ID); err != nil {
		return -1, err
	}

	index, err := FindOwnerIndex(ctx, opts.Client, sub.Address, opts.Owner)
	if err != nil {
		return -1, err
	}
	if index < 0 {
		return -1, walletsdk.NewInternalError("failed to find owner index")
	}
	return index, nil
}

// buildAddOwnerCalls encodes the onchain registration for the recovered
// owner key. WebAuthn keys need one addOwnerPublicKey call; local keys are
// registered under both their address and their public key.
func buildAddOwnerCalls(subAccount string, owner walletsdk.OwnerAccount) ([]walletsdk.Call, error) {
	var calls []walletsdk.Call

	switch owner.Type {
	case walletsdk.OwnerTypeWebAuthn:
		data, err := encodeAddOwnerPublicKey(owner.PublicKey)
		if err != nil {
			return nil, err
		}
		calls = append(calls, walletsdk.Call{To: subAccount, Data: data, Value: "0x0"})

	case walletsdk.OwnerTypeLocal:
		if !common.IsHexAddress(owner.Address) {
			return nil, walletsdk.NewInternalError("local owner has no valid address")
		}
		addrData, err := encodeAddOwnerAddress(owner.Address)
		if err != nil {
			return nil, err
		}
		keyData, err := encodeAddOwnerPublicKey(owner.PublicKey)
		if err != nil {
			return nil, err
		}
		calls = append(calls,
			walletsdk.Call{To: subAccount, Data: addrData, Value: "0x0"},
			walletsdk.Call{To: subAccount, Data: keyData, Value: "0x0"},
		)

	default:
		return nil, walletsdk.NewInternalError(fmt.Sprintf("unknown owner type %q", owner.Type))
	}
	return calls, nil
}

func encodeAddOwnerAddress(address string) (string, error) {
	parsed, err := abi.JSON(strings.NewReader(string(AddOwnerAddressABI)))
	if err != nil {
		return "", err
	}
	encoded, err := parsed.Pack("addOwnerAddress", common.HexToAddress(address))
	if err != nil {
		return "", err
	}
	return hexutil.Encode(encoded), nil
}

func encodeAddOwnerPublicKey(publicKey string) (string, error) {
	x, y, err := splitPublicKey(publicKey)
	if err != nil {
		return "", err
	}
	parsed, err := abi.JSON(strings.NewReader(string(AddOwnerPublicKeyABI)))
	if err != nil {
		return "", err
	}
	encoded, err := parsed.Pack("addOwnerPublicKey", x, y)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(encoded), nil
}

// splitPublicKey splits a 64-byte uncompressed P-256 public key into its
// x and y words.
func splitPublicKey(publicKey string) ([32]byte, [32]byte, error) {
	var x, y [32]byte
	raw, err := hexutil.Decode(publicKey)
	if err != nil {
		return x, y, fmt.Errorf("invalid owner public key: %w", err)
	}
	if len(raw) != 64 {
		return x, y, fmt.Errorf("owner public key must be 64 bytes, got %d", len(raw))
	}
	copy(x[:], raw[:32])
	copy(y[:], raw[32:])
	return x, y, nil
}

// waitForTerminalStatus polls calls-status until the add-owner batch lands.
// A non-success terminal status is fatal.
func waitForTerminalStatus(ctx context.Context, opts AddOwnerOptions, callsID string) error {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		raw, err := opts.GlobalAccountRequest(ctx, walletsdk.RequestArguments{
			Method: "wallet_getCallsStatus",
			Params: []interface{}{callsID},
		})
		if err != nil {
			return err
		}
		status, err := decodeParam[walletsdk.CallsStatus](raw)
		if err != nil {
			return fmt.Errorf("malformed calls status: %w", err)
		}

		switch status.Status {
		case walletsdk.CallsStatusConfirmed:
			return nil
		case walletsdk.CallsStatusFailed:
			return walletsdk.NewInternalError("add owner call failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// FindOwnerIndex scans the sub-account's onchain owner slots for the given
// owner key and returns its index, or -1 when absent.
func FindOwnerIndex(ctx context.Context, client walletsdk.ChainClient, subAccount string, owner walletsdk.OwnerAccount) (int, error) {
	countRaw, err := client.ReadContract(ctx, walletsdk.ReadContractCall{
		Address:      subAccount,
		ABI:          OwnerCountABI,
		FunctionName: "ownerCount",
	})
	if err != nil {
		return -1, fmt.Errorf("failed to read owner count: %w", err)
	}
	count, err := toBigInt(countRaw)
	if err != nil {
		return -1, fmt.Errorf("unexpected ownerCount result: %w", err)
	}

	want, err := encodedOwnerBytes(owner)
	if err != nil {
		return -1, err
	}

	total := int(count.Int64())
	for i := total - 1; i >= 0; i-- {
		slotRaw, err := client.ReadContract(ctx, walletsdk.ReadContractCall{
			Address:      subAccount,
			ABI:          OwnerAtIndexABI,
			FunctionName: "ownerAtIndex",
			Args:         []interface{}{big.NewInt(int64(i))},
		})
		if err != nil {
			return -1, fmt.Errorf("failed to read owner at index %d: %w", i, err)
		}
		slot, err := toBytes(slotRaw)
		if err != nil {
			return -1, fmt.Errorf("unexpected ownerAtIndex result: %w", err)
		}
		if strings.EqualFold(hex.EncodeToString(slot), want) {
			return i, nil
		}
	}
	return -1, nil
}

// encodedOwnerBytes matches how the smart wallet stores owners: addresses
// are left-padded to 32 bytes, WebAuthn keys are the raw 64-byte key.
func encodedOwnerBytes(owner walletsdk.OwnerAccount) (string, error) {
	switch owner.Type {
	case walletsdk.OwnerTypeLocal:
		padded := common.LeftPadBytes(common.HexToAddress(owner.Address).Bytes(), 32)
		return hex.EncodeToString(padded), nil
	case walletsdk.OwnerTypeWebAuthn:
		raw, err := hexutil.Decode(owner.PublicKey)
		if err != nil {
			return "", fmt.Errorf("invalid owner public key: %w", err)
		}
		return hex.EncodeToString(raw), nil
	default:
		return "", fmt.Errorf("unknown owner type %q", owner.Type)
	}
}

func toBigInt(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case int:
		return big.NewInt(int64(n)), nil
	case string:
		out, ok := new(big.Int).SetString(strings.TrimPrefix(n, "0x"), 16)
		if !ok {
			return nil, fmt.Errorf("not a hex integer: %s", n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("not an integer: %T", v)
	}
}

func toBytes(v interface{}) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		return hexutil.Decode(b)
	default:
		return nil, fmt.Errorf("not a byte slice: %T", v)
	}
}

// presentChoice shows a two-action dialog and blocks until the user picks
// an action or closes the dialog. Close counts as cancel.
func presentChoice(presenter walletsdk.DialogPresenter, title, message, continueText, cancelText string) bool {
	if presenter == nil {
		return false
	}
	choice := make(chan bool, 1)
	pick := func(v bool) func() {
		return func() {
			select {
			case choice <- v:
			default:
			}
		}
	}
	presenter.PresentItem(title, message, []walletsdk.DialogAction{
		{Text: continueText, Variant: "primary", OnClick: pick(true)},
		{Text: cancelText, Variant: "secondary", OnClick: pick(false), Secondary: true},
	}, pick(false))
	return <-choice
}
