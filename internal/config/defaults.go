package config

import (
	_ "embed"
	"fmt"
)

//go:embed defaults.toml
var defaultsPayload []byte

// DefaultsPayload returns the embedded default configuration as TOML.
func DefaultsPayload() []byte {
	return append([]byte(nil), defaultsPayload...)
}

// Default returns the built-in four-quadrant configuration.
func Default() Config {
	cfg, err := Decode(defaultsPayload, FormatTOML)
	if err != nil {
		panic(fmt.Sprintf("embedded defaults: %v", err))
	}
	return cfg
}

// applyDefaults fills fields a partial file left unset.
func applyDefaults(cfg *Config, defaults Config) {
	if cfg.Screen == "" {
		cfg.Screen = defaults.Screen
	}
	if cfg.Lookup == "" {
		cfg.Lookup = defaults.Lookup
	}
	if cfg.Terminal.Program == "" {
		cfg.Terminal.Program = defaults.Terminal.Program
	}
	if cfg.Terminal.Shell == "" {
		cfg.Terminal.Shell = defaults.Terminal.Shell
	}
	if cfg.Timing.PollInitial == 0 {
		cfg.Timing.PollInitial = defaults.Timing.PollInitial
	}
	if cfg.Timing.PollMax == 0 {
		cfg.Timing.PollMax = defaults.Timing.PollMax
	}
	if cfg.Timing.LookupTimeout == 0 {
		cfg.Timing.LookupTimeout = defaults.Timing.LookupTimeout
	}
}
