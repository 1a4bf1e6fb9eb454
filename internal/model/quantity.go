package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Quantity is a non-negative integer field that may arrive as a JSON number,
// a decimal string or a 0x-prefixed hex string.
type Quantity uint64

// Uint64 returns the quantity as uint64.
func (q Quantity) Uint64() uint64 {
	return uint64(q)
}

// MarshalJSON always encodes a plain JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(q), 10)), nil
}

// UnmarshalJSON accepts numbers, decimal strings and hex strings.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		val, err := ParseQuantity(text)
		if err != nil {
			return err
		}
		*q = val
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("invalid quantity %s: %w", data, err)
	}
	val, err := parseNumber(num.String())
	if err != nil {
		return fmt.Errorf("invalid quantity %s: %w", data, err)
	}
	*q = val
	return nil
}

// parseNumber accepts JSON integers and integer-valued floats such as 1000.0
// or 1e3.
func parseNumber(text string) (Quantity, error) {
	if val, err := strconv.ParseUint(text, 10, 64); err == nil {
		return Quantity(val), nil
	}
	f, _, err := big.ParseFloat(text, 10, 256, big.ToNearestEven)
	if err != nil {
		return 0, err
	}
	if !f.IsInt() || f.Sign() < 0 {
		return 0, fmt.Errorf("not a non-negative integer")
	}
	i, _ := f.Int(nil)
	if !i.IsUint64() {
		return 0, fmt.Errorf("out of range")
	}
	return Quantity(i.Uint64()), nil
}

// ParseQuantity parses a decimal or 0x-prefixed hex string.
func ParseQuantity(input string) (Quantity, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}
	if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
		digits := strings.TrimLeft(input[2:], "0")
		if digits == "" {
			return 0, nil
		}
		// hexutil rejects leading zeros, which raw RPC dumps sometimes carry.
		val, err := hexutil.DecodeUint64("0x" + digits)
		if err != nil {
			return 0, fmt.Errorf("invalid hex quantity %q: %w", input, err)
		}
		return Quantity(val), nil
	}
	val, err := strconv.ParseUint(input, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", input, err)
	}
	return Quantity(val), nil
}
