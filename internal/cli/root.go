package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/apa7/internal/convert"
	"github.com/ppiankov/apa7/internal/logging"
	"github.com/ppiankov/apa7/internal/model"
	"github.com/ppiankov/apa7/internal/pipeline"
)

// Version is set at build time with -ldflags.
var Version = "0.1.0"

// app holds the state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool

	cfg    *model.Config
	logger *slog.Logger
}

// NewRootCmd builds the apa7 command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "apa7",
		Short: "APA 7th edition paper pipeline: markdown to PDF and DOCX",
		Long: `apa7 turns paper.md into an APA 7th edition paper.

The DOCX pipeline has three steps, run in order:
  1. template   generate the style template (reference.docx)
  2. convert    pandoc converts paper.md using the template
  3. format     post-process what the template cannot express
                (table borders, indentation, hanging indents)

Configuration hierarchy (highest to lowest priority):
  1. CLI flags
  2. Environment variables (APA7_*)
  3. Config file (./apa7.yaml, then ~/.apa7/config.yaml)
  4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./apa7.yaml or $HOME/.apa7/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newVersionCmd(a),
		newConfigCmd(a),
		newTemplateCmd(a),
		newPDFCmd(a),
		newDOCXCmd(a),
		newFormatCmd(a),
		newBuildCmd(a),
		newBatchCmd(a),
	)
	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// load reads configuration and prepares the logger and run context.
func (a *app) load(cmd *cobra.Command) error {
	v := a.v
	if err := setDefaults(v, model.DefaultConfig()); err != nil {
		return err
	}

	// Read in environment variables that match APA7_*
	v.SetEnvPrefix("APA7")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := a.configPath()
	if err != nil {
		return err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Logging, cmd.ErrOrStderr())

	ctx := logging.WithRunID(cmd.Context())
	cmd.SetContext(ctx)
	if path != "" {
		a.logger.DebugContext(ctx, "using config file", "path", path)
	}
	return nil
}

// configPath returns the config file to read, or "" when there is none.
func (a *app) configPath() (string, error) {
	if a.cfgFile != "" {
		return a.cfgFile, nil
	}
	candidates := []string{"apa7.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".apa7", "config.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", c, err)
		}
	}
	return "", nil
}

// setDefaults registers every configuration key with its default value, so
// environment variables can override any of them.
func setDefaults(v *viper.Viper, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decode defaults: %w", err)
	}
	flatten(v, "", tree)
	return nil
}

func flatten(v *viper.Viper, prefix string, tree map[string]any) {
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok && len(sub) > 0 {
			flatten(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

func (a *app) pipeline() (*pipeline.Pipeline, error) {
	return pipeline.New(a.cfg, convert.NewPandoc(a.cfg.Converter, a.logger), a.logger)
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Display the apa7 version and the version of the pandoc it will run.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "apa7 v%s\n", Version)
			v, err := convert.NewPandoc(a.cfg.Converter, a.logger).Version(cmd.Context())
			if err != nil {
				fmt.Fprintf(out, "converter: %v\n", err)
				return
			}
			fmt.Fprintf(out, "converter: %s\n", v)
		},
	}
}
