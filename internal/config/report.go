package config

import (
	"github.com/spf13/pflag"
)

// ReportConfig holds configuration for the report and offenders commands.
type ReportConfig struct {
	FailedFile    string
	IncrementFile string
	AnchorTx      string
	JSON          bool
	Top           int
	Out           string
	Archive       string
	PGDSN         string
	FromPG        bool
	SelectorMap   map[string]string
	LogLevel      string
}

// LoadReport merges config file, environment variables, and flags into ReportConfig.
func LoadReport(cfgFile string, flags *pflag.FlagSet) (ReportConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"failed-file":    DefaultFailedFile,
		"increment-file": DefaultIncrementFile,
		"anchor-tx":      DefaultAnchorTx,
		"top":            5,
		"log-level":      "info",
	})
	if err != nil {
		return ReportConfig{}, err
	}

	return ReportConfig{
		FailedFile:    v.GetString("failed-file"),
		IncrementFile: v.GetString("increment-file"),
		AnchorTx:      v.GetString("anchor-tx"),
		JSON:          v.GetBool("json"),
		Top:           v.GetInt("top"),
		Out:           v.GetString("out"),
		Archive:       v.GetString("archive"),
		PGDSN:         v.GetString("pg-dsn"),
		FromPG:        v.GetBool("from-pg"),
		SelectorMap:   getStringMap(v, "selector-map"),
		LogLevel:      v.GetString("log-level"),
	}, nil
}
