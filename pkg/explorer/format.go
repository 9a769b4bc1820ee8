package explorer

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// FormatWei converts a wei-denominated integer string to an ETH display
// string: fixed six decimals, trailing zeros and a trailing dot trimmed.
// Anything non-numeric formats as "0".
func FormatWei(wei string) string {
	n, ok := new(big.Int).SetString(wei, 10)
	if !ok {
		return "0"
	}
	return trimFixed(new(big.Float).SetPrec(128).SetInt(n), new(big.Float).SetInt64(params.Ether))
}

// FormatUnits converts a base-unit token balance to a display string using
// the token's declared decimals.
func FormatUnits(raw string, decimals int) string {
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return "0"
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return trimFixed(new(big.Float).SetPrec(128).SetInt(n), new(big.Float).SetInt(scale))
}

func trimFixed(v, scale *big.Float) string {
	s := new(big.Float).Quo(v, scale).Text('f', 6)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
