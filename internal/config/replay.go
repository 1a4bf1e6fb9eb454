package config

import (
	"github.com/spf13/pflag"
)

// ReplayConfig holds the nonce values for a standalone state-machine replay.
type ReplayConfig struct {
	OrderNonce       uint64
	ChainNonceBefore uint64
	ChainNonceAfter  uint64
	JSON             bool
	LogLevel         string
}

// LoadReplay merges config file, environment variables, and flags into ReplayConfig.
func LoadReplay(cfgFile string, flags *pflag.FlagSet) (ReplayConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"log-level": "info",
	})
	if err != nil {
		return ReplayConfig{}, err
	}

	return ReplayConfig{
		OrderNonce:       v.GetUint64("order-nonce"),
		ChainNonceBefore: v.GetUint64("chain-nonce-before"),
		ChainNonceAfter:  v.GetUint64("chain-nonce-after"),
		JSON:             v.GetBool("json"),
		LogLevel:         v.GetString("log-level"),
	}, nil
}
