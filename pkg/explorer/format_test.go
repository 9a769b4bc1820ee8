package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWei(t *testing.T) {
	cases := []struct {
		name string
		wei  string
		want string
	}{
		{"one ether", "1000000000000000000", "1"},
		{"fractional", "1000000000000000", "0.001"},
		{"zero", "0", "0"},
		{"non-numeric", "abc", "0"},
		{"empty", "", "0"},
		{"hex not accepted", "0x1", "0"},
		{"one and a half", "1500000000000000000", "1.5"},
		{"six decimals kept", "1234560000000000", "0.001235"},
		{"below display precision", "1", "0"},
		{"large balance", "123456000000000000000000", "123456"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatWei(tc.wei))
		})
	}
}

func TestFormatUnits(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		decimals int
		want     string
	}{
		{"usdc six decimals", "1000000", 6, "1"},
		{"usdc fraction", "1500000", 6, "1.5"},
		{"eighteen decimals", "2000000000000000000", 18, "2"},
		{"zero decimals", "42", 0, "42"},
		{"non-numeric", "??", 18, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatUnits(tc.raw, tc.decimals))
		})
	}
}
