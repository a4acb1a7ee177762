package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete apa7 configuration.
type Config struct {
	Paths     PathsConfig     `yaml:"paths" mapstructure:"paths"`
	Converter ConverterConfig `yaml:"converter" mapstructure:"converter"`
	Format    FormatConfig    `yaml:"format" mapstructure:"format"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	Watch     WatchConfig     `yaml:"watch" mapstructure:"watch"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
}

// PathsConfig names the fixed input and output files, relative to the
// working directory.
type PathsConfig struct {
	Markdown string `yaml:"markdown" mapstructure:"markdown"`
	PDF      string `yaml:"pdf" mapstructure:"pdf"`
	DOCX     string `yaml:"docx" mapstructure:"docx"`
	RawDOCX  string `yaml:"raw_docx" mapstructure:"raw_docx"`
	Template string `yaml:"template" mapstructure:"template"`
}

// ConverterConfig configures the external document converter.
type ConverterConfig struct {
	Binary       string            `yaml:"binary" mapstructure:"binary"`
	PDFEngine    string            `yaml:"pdf_engine" mapstructure:"pdf_engine"`
	PDFVariables map[string]string `yaml:"pdf_variables" mapstructure:"pdf_variables"`
	ExtraArgs    []string          `yaml:"extra_args" mapstructure:"extra_args"`
	Timeout      time.Duration     `yaml:"timeout" mapstructure:"timeout"`
}

// FormatConfig configures post-processing.
type FormatConfig struct {
	FontName          string  `yaml:"font_name" mapstructure:"font_name"`
	FontSize          float64 `yaml:"font_size" mapstructure:"font_size"`
	FirstLineIndentIn float64 `yaml:"first_line_indent_in" mapstructure:"first_line_indent_in"`
	HangingIndentIn   float64 `yaml:"hanging_indent_in" mapstructure:"hanging_indent_in"`
	MarginIn          float64 `yaml:"margin_in" mapstructure:"margin_in"`
	PageNumbers       bool    `yaml:"page_numbers" mapstructure:"page_numbers"`
	LabelEmphasis     bool    `yaml:"label_emphasis" mapstructure:"label_emphasis"`
	TableCellPadding  bool    `yaml:"table_cell_padding" mapstructure:"table_cell_padding"`
	StrictStyles      bool    `yaml:"strict_styles" mapstructure:"strict_styles"`
	KeepRaw           bool    `yaml:"keep_raw" mapstructure:"keep_raw"`
}

// CacheConfig configures the template cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// WatchConfig configures rebuild-on-change.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval"` // minimum time between rebuilds
}

// BatchConfig configures formatting of many documents at once.
type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			Markdown: "paper.md",
			PDF:      "paper.pdf",
			DOCX:     "paper.docx",
			RawDOCX:  "paper_raw.docx",
			Template: "reference.docx",
		},
		Converter: ConverterConfig{
			Binary:    "pandoc",
			PDFEngine: "xelatex",
			PDFVariables: map[string]string{
				"geometry":    "margin=1in",
				"fontsize":    "12pt",
				"linestretch": "2",
				"mainfont":    BodyFont,
			},
			Timeout: 5 * time.Minute,
		},
		Format: FormatConfig{
			FontName:          BodyFont,
			FontSize:          BodySize,
			FirstLineIndentIn: 0.5,
			HangingIndentIn:   0.5,
			MarginIn:          1.0,
			PageNumbers:       true,
			LabelEmphasis:     true,
			TableCellPadding:  true,
			StrictStyles:      true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCacheDir(),
			TTL:     30 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Watch: WatchConfig{
			Interval: time.Second,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
	}
}

// RuleSet builds the formatting rules described by the format section.
func (c FormatConfig) RuleSet() *RuleSet {
	return NewRuleSet(
		c.FontName,
		c.FontSize,
		Inches(c.FirstLineIndentIn),
		Inches(c.HangingIndentIn),
		Inches(c.MarginIn),
	)
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "apa7")
	}
	return filepath.Join(dir, "apa7")
}
