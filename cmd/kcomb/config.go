package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/birdayz/kcombinator"
)

type config struct {
	EntryPoint string `toml:"entry_point"`
	Policy     string `toml:"policy"`
	LogLevel   string `toml:"log_level"`
}

func defaultConfig() config {
	return config{
		EntryPoint: kcombinator.DefaultEntryPoint,
		Policy:     kcombinator.PreferShape.String(),
		LogLevel:   "info",
	}
}

// loadConfig reads a TOML config file. Keys it does not set keep their
// defaults; unknown keys are rejected.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.EntryPoint == "" {
		return config{}, fmt.Errorf("%s: entry_point must not be empty", path)
	}
	return cfg, nil
}

func (c config) engineOptions() ([]kcombinator.Option, error) {
	policy, err := kcombinator.ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	return []kcombinator.Option{
		kcombinator.WithEntryPoint(c.EntryPoint),
		kcombinator.WithPolicy(policy),
	}, nil
}
