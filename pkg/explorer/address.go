package explorer

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress trims, lower-cases and validates an Ethereum address.
// The canonical form is always lower-case with the 0x prefix.
func NormalizeAddress(raw string) (string, error) {
	addr := strings.ToLower(strings.TrimSpace(raw))
	// common.IsHexAddress tolerates a missing 0x prefix; we require it.
	if !strings.HasPrefix(addr, "0x") || !common.IsHexAddress(addr) {
		return "", &InvalidAddressError{Input: raw}
	}
	return addr, nil
}
