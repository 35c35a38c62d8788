// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "typotester"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDBPath returns the default path for the SQLite leaderboard.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, "leaderboard.db")
}

// DefaultLogPath returns the log file used by local TUI runs.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), appName, "typotester.log")
}

// DefaultHostKeyPath returns the SSH host key location for the serve command.
func DefaultHostKeyPath() string {
	return filepath.Join(XDGDataHome(), appName, "host_key")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}
