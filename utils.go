package walletsdk

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsValidAddress reports whether s is a well-formed 20-byte hex address.
func IsValidAddress(s string) bool {
	return common.IsHexAddress(s)
}

// ChecksumAddress normalizes an address to its EIP-55 checksummed form.
func ChecksumAddress(s string) string {
	return common.HexToAddress(s).Hex()
}

// HexToBytes decodes a 0x-prefixed hex string.
func HexToBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		s = "0" + s
	}
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}
	return out, nil
}

// normalizeAddressKey lowercases an address for use as a storage map key, so
// checksummed and lowercase spellings of the same account collide.
func normalizeAddressKey(addr string) string {
	return strings.ToLower(addr)
}
