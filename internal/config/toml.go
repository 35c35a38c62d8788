// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test        TestConfig        `toml:"test"`
	Leaderboard LeaderboardConfig `toml:"leaderboard"`
	Serve       ServeConfig       `toml:"serve"`
	API         APIConfig         `toml:"api"`
}

// TestConfig maps typing test settings.
type TestConfig struct {
	Duration *int    `toml:"duration"`
	Identity *string `toml:"identity"`
	WordList *string `toml:"wordlist"`
	Lang     *string `toml:"lang"`
	Sound    *bool   `toml:"sound"`
	Gate     *string `toml:"gate"`
}

// LeaderboardConfig maps leaderboard backend settings.
type LeaderboardConfig struct {
	DB  *string `toml:"db"`
	URL *string `toml:"url"`
	Top *int    `toml:"top"`
}

// ServeConfig maps SSH server settings.
type ServeConfig struct {
	SSH         *string `toml:"ssh"`
	HostKey     *string `toml:"host-key"`
	IdleTimeout *int    `toml:"idle-timeout"`
}

// APIConfig maps HTTP leaderboard API settings.
type APIConfig struct {
	Listen *string `toml:"listen"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
