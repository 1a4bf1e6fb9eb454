package model

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress returns the lower-cased 0x form of an account address.
// Values that are not hex addresses are only trimmed and lower-cased so that
// malformed rows still group consistently.
func NormalizeAddress(address string) string {
	address = strings.TrimSpace(address)
	if common.IsHexAddress(address) {
		return strings.ToLower(common.HexToAddress(address).Hex())
	}
	return strings.ToLower(address)
}

// NormalizeHash lower-cases a transaction hash for case-insensitive lookups.
func NormalizeHash(hash string) string {
	return strings.ToLower(strings.TrimSpace(hash))
}
