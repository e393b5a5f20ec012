package walletsdk

import (
	"bytes"
	"testing"
)

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"checksummed", "0xFe21034794A5a574B94fE4fDfD16e005F1C96e51", true},
		{"lowercase", "0xfe21034794a5a574b94fe4fdfd16e005f1c96e51", true},
		{"truncated", "0x1234", false},
		{"ens name", "vitalik.eth", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAddress(tt.address); got != tt.want {
				t.Errorf("IsValidAddress(%q) = %v, want %v", tt.address, got, tt.want)
			}
		})
	}
}

func TestChecksumAddress(t *testing.T) {
	got := ChecksumAddress("0xfe21034794a5a574b94fe4fdfd16e005f1c96e51")
	if got != "0xFe21034794A5a574B94fE4fDfD16e005F1C96e51" {
		t.Errorf("ChecksumAddress() = %q", got)
	}
}

func TestHexToBytes(t *testing.T) {
	got, err := HexToBytes("0xdeadbeef")
	if err != nil {
		t.Fatalf("HexToBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Errorf("HexToBytes() = %x", got)
	}

	odd, err := HexToBytes("0xf")
	if err != nil {
		t.Fatalf("HexToBytes odd length: %v", err)
	}
	if !bytes.Equal(odd, []byte{0x0f}) {
		t.Errorf("HexToBytes odd = %x", odd)
	}

	if _, err := HexToBytes("0xzz"); err == nil {
		t.Error("expected error for non-hex input")
	}
}
