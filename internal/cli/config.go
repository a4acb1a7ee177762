package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/apa7/internal/model"
)

const rule = "═══════════════════════════════════════════════════════════"

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage apa7 configuration",
		Long: `Manage apa7 configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (APA7_*)
3. Config file (./apa7.yaml, then ~/.apa7/config.yaml)
4. Defaults`,
	}
	configCmd.AddCommand(newConfigShowCmd(a), newConfigInitCmd())
	return configCmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  `Display the effective configuration after defaults, config file, environment variables and flags are merged.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if used := a.v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", used)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using defaults)\n\n")
			}

			yamlData, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("error marshaling config: %w", err)
			}

			fmt.Fprintln(out, rule)
			fmt.Fprintln(out, "  Current Configuration")
			fmt.Fprintln(out, rule)
			fmt.Fprintln(out)
			fmt.Fprintln(out, string(yamlData))
			fmt.Fprintln(out, rule)
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration file",
		Long: `Create a default configuration file at ~/.apa7/config.yaml, or at
./apa7.yaml with --local, listing every option with its default value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := "apa7.yaml"
			if !local {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("error finding home directory: %w", err)
				}
				configPath = filepath.Join(home, ".apa7", "config.yaml")
			}

			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("config file already exists: %s\nUse 'apa7 config show' to view it, or delete it first to recreate", configPath)
			}

			if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
				return fmt.Errorf("error creating config directory: %w", err)
			}

			yamlData, err := yaml.Marshal(model.DefaultConfig())
			if err != nil {
				return fmt.Errorf("error marshaling config: %w", err)
			}

			header := "# apa7 configuration file\n" +
				"#\n" +
				"# Configuration hierarchy (highest to lowest priority):\n" +
				"#   1. CLI flags\n" +
				"#   2. Environment variables (APA7_*, e.g. APA7_CONVERTER_BINARY)\n" +
				"#   3. This config file\n" +
				"#   4. Built-in defaults\n\n"

			data := append([]byte(header), yamlData...)
			if err := os.WriteFile(configPath, data, 0o644); err != nil {
				return fmt.Errorf("error writing config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", configPath)
			fmt.Fprintf(out, "\nTo view the configuration:\n")
			fmt.Fprintf(out, "  apa7 config show\n")
			fmt.Fprintf(out, "\nTo customize, edit the file with your preferred editor:\n")
			fmt.Fprintf(out, "  $EDITOR %s\n", configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "write ./apa7.yaml instead of the home directory file")
	return cmd
}
