package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typotester/internal/config"
	"github.com/verte-zerg/typotester/internal/leaderboard"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typotester configuration
# Uncomment a value to enable it. CLI flags override config values.

[test]
# duration = %d            # Test length in seconds: 15, 30, 60 or 120
# identity = "me"          # Leaderboard identity (default: $USER)
# wordlist = "words.txt"   # Vocabulary file (.txt or .yaml)
# lang = "en"              # Vocabulary filter: en keeps lowercase ASCII words
# sound = false            # Ring the terminal bell on keystrokes
# gate = %q             # Entry gate: free or confirm

[leaderboard]
# db = %q
# url = "http://localhost%s"   # Remote leaderboard API (overrides db)
# top = %d

[serve]
# ssh = %q
# host-key = %q
# idle-timeout = %d        # Minutes

[api]
# listen = %q
`,
		defaultDuration,
		defaultGate,
		config.DefaultDBPath(),
		defaultAPIListen,
		leaderboard.DefaultTop,
		defaultSSHAddr,
		config.DefaultHostKeyPath(),
		defaultIdleTimeout,
		defaultAPIListen,
	)
}
