// Package pipeline runs template generation, conversion and post-processing
// in order, one step after the other.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/apa7/internal/cache"
	"github.com/ppiankov/apa7/internal/convert"
	"github.com/ppiankov/apa7/internal/format"
	"github.com/ppiankov/apa7/internal/logging"
	"github.com/ppiankov/apa7/internal/model"
	"github.com/ppiankov/apa7/internal/template"
	"github.com/ppiankov/apa7/internal/worker"
)

// Converter turns the markup document into a target document.
type Converter interface {
	Locate() (string, error)
	Convert(ctx context.Context, req convert.Request) error
}

// Pipeline orchestrates the build of one paper.
type Pipeline struct {
	config    *model.Config
	converter Converter
	templates *template.Generator
	formatter *format.Formatter
	logger    *slog.Logger
}

// New creates a pipeline. A nil logger discards log output.
func New(cfg *model.Config, conv Converter, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rules := cfg.Format.RuleSet()
	formatter, err := format.NewFormatter(rules, format.OptionsFromConfig(cfg.Format), logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		config:    cfg,
		converter: conv,
		templates: template.NewGenerator(rules, cache.New(cfg.Cache), logger),
		formatter: formatter,
		logger:    logger,
	}, nil
}

// Result describes one completed build.
type Result struct {
	Target            convert.Target `json:"target"`
	Output            string         `json:"output"`
	Template          string         `json:"template,omitempty"`
	TemplateGenerated bool           `json:"template_generated,omitempty"`
	Report            *model.Report  `json:"report,omitempty"` // DOCX only
	Duration          time.Duration  `json:"duration"`
}

// WriteTemplate generates the style template and writes it to path,
// replacing any existing file.
func (p *Pipeline) WriteTemplate(ctx context.Context, path string) error {
	return p.templates.WithLogger(p.log(ctx)).WriteFile(path)
}

// log returns the pipeline logger bound to the run carried by ctx.
func (p *Pipeline) log(ctx context.Context) *slog.Logger {
	return logging.ForRun(ctx, p.logger)
}

// EnsureTemplate makes sure the configured template file exists and reports
// whether it had to be generated.
func (p *Pipeline) EnsureTemplate(ctx context.Context) (bool, error) {
	path := p.config.Paths.Template
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat template: %w", err)
	}

	log := p.log(ctx)
	log.Info("template missing, generating", "path", path)
	if err := p.templates.WithLogger(log).WriteFile(path); err != nil {
		return false, err
	}
	return true, nil
}

// Build produces the output for target.
func (p *Pipeline) Build(ctx context.Context, target convert.Target) (*Result, error) {
	switch target {
	case convert.TargetPDF:
		return p.BuildPDF(ctx)
	case convert.TargetDOCX:
		return p.BuildDOCX(ctx)
	default:
		return nil, fmt.Errorf("unsupported target %q", target)
	}
}

// preflight checks the converter and the input, in that order.
func (p *Pipeline) preflight() error {
	if _, err := p.converter.Locate(); err != nil {
		return err
	}
	return convert.CheckInput(p.config.Paths.Markdown)
}

// BuildPDF converts the markup document to PDF.
func (p *Pipeline) BuildPDF(ctx context.Context) (*Result, error) {
	started := time.Now()
	if err := p.preflight(); err != nil {
		return nil, err
	}

	paths := p.config.Paths
	req := convert.Request{Input: paths.Markdown, Output: paths.PDF, Target: convert.TargetPDF}
	if err := p.converter.Convert(ctx, req); err != nil {
		return nil, err
	}

	return &Result{Target: convert.TargetPDF, Output: paths.PDF, Duration: time.Since(started)}, nil
}

// BuildDOCX converts the markup document to DOCX through the style template
// and post-processes the converted document into the final output.
func (p *Pipeline) BuildDOCX(ctx context.Context) (*Result, error) {
	started := time.Now()
	if err := p.preflight(); err != nil {
		return nil, err
	}

	generated, err := p.EnsureTemplate(ctx)
	if err != nil {
		return nil, err
	}

	paths := p.config.Paths
	req := convert.Request{
		Input:        paths.Markdown,
		Output:       paths.RawDOCX,
		Target:       convert.TargetDOCX,
		ReferenceDoc: paths.Template,
	}
	if err := p.converter.Convert(ctx, req); err != nil {
		return nil, err
	}
	if !p.config.Format.KeepRaw {
		defer func() {
			if rmErr := os.Remove(paths.RawDOCX); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				p.logger.WarnContext(ctx, "could not remove intermediate document", "path", paths.RawDOCX, "error", rmErr)
			}
		}()
	}

	report, err := p.formatter.WithLogger(p.log(ctx)).FormatFile(paths.RawDOCX, paths.DOCX)
	if err != nil {
		return nil, err
	}
	report.RunID = logging.RunID(ctx)

	return &Result{
		Target:            convert.TargetDOCX,
		Output:            paths.DOCX,
		Template:          paths.Template,
		TemplateGenerated: generated,
		Report:            report,
		Duration:          time.Since(started),
	}, nil
}

// Format post-processes one converted document.
func (p *Pipeline) Format(ctx context.Context, in, out string) (*model.Report, error) {
	if err := convert.CheckInput(in); err != nil {
		return nil, err
	}
	report, err := p.formatter.WithLogger(p.log(ctx)).FormatFile(in, out)
	if err != nil {
		return nil, err
	}
	report.RunID = logging.RunID(ctx)
	return report, nil
}

// BatchItem is the outcome of formatting one document of a batch.
type BatchItem struct {
	Input  string        `json:"input"`
	Output string        `json:"output"`
	Report *model.Report `json:"report,omitempty"`
	Error  string        `json:"error,omitempty"`
	Err    error         `json:"-"`
}

// FormatBatch post-processes every .docx directly inside inDir into outDir,
// keeping file names. Documents are independent; one failure does not stop
// the others.
func (p *Pipeline) FormatBatch(ctx context.Context, inDir, outDir string) ([]BatchItem, error) {
	docs, err := worker.ListDocuments(inDir)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no .docx files in %s", model.ErrInputNotFound, inDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	items := make([]BatchItem, len(docs))
	jobs := make([]worker.Job, len(docs))
	for i, doc := range docs {
		items[i] = BatchItem{Input: doc, Output: filepath.Join(outDir, filepath.Base(doc))}
		item := &items[i]
		jobs[i] = worker.Func{ID: doc, Fn: func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := p.Format(ctx, item.Input, item.Output)
			item.Report = report
			return err
		}}
	}

	p.logger.DebugContext(ctx, "formatting batch", "documents", len(docs), "workers", p.config.Batch.Workers)
	for _, r := range worker.Run(ctx, jobs, p.config.Batch.Workers) {
		items[r.Index].Err = r.Err
		if r.Err != nil {
			p.logger.WarnContext(ctx, "formatting failed", "input", r.Name, "error", r.Err)
		}
	}
	for i := range items {
		if items[i].Report == nil && items[i].Err == nil {
			items[i].Err = fmt.Errorf("not formatted: %w", context.Cause(ctx))
		}
		if items[i].Err != nil {
			items[i].Error = items[i].Err.Error()
		}
	}
	return items, nil
}
