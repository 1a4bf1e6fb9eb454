package selector

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	MatchOrders     = "0x2287e350"
	IncrementNonce  = "0x627cdcb9"
	RedeemPositions = "0x6a761202"

	unknownName = "unknown"
)

// Registry maps 4-byte function selectors to method names.
type Registry struct {
	names map[string]string
}

// NewRegistry builds a registry from the known exchange selectors plus extra
// selector=name pairs, which override the defaults.
func NewRegistry(extra map[string]string) (*Registry, error) {
	names := map[string]string{
		MatchOrders:     "matchOrders",
		IncrementNonce:  "incrementNonce",
		RedeemPositions: "redeemPositions?",
	}

	for sel, name := range extra {
		normalized, err := Normalize(sel)
		if err != nil {
			return nil, err
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("empty name for selector %s", sel)
		}
		names[normalized] = name
	}

	return &Registry{names: names}, nil
}

// Name returns the method name for a selector or calldata prefix.
func (r *Registry) Name(sel string) string {
	if r == nil {
		return unknownName
	}
	normalized, err := Normalize(sel)
	if err != nil {
		return unknownName
	}
	if name, ok := r.names[normalized]; ok {
		return name
	}
	return unknownName
}

// Normalize lower-cases a selector and validates it is 4 bytes of hex.
// Longer calldata is truncated to its selector.
func Normalize(sel string) (string, error) {
	sel = strings.ToLower(strings.TrimSpace(sel))
	if !strings.HasPrefix(sel, "0x") {
		sel = "0x" + sel
	}
	if len(sel) > 10 {
		sel = sel[:10]
	}
	data, err := hexutil.Decode(sel)
	if err != nil {
		return "", fmt.Errorf("invalid selector %q: %w", sel, err)
	}
	if len(data) != 4 {
		return "", fmt.Errorf("invalid selector length %q", sel)
	}
	return sel, nil
}
