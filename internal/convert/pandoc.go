// Package convert runs the external document converter that turns the
// markdown paper into PDF or DOCX.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/apa7/internal/model"
)

// Target is the output format of a conversion.
type Target string

const (
	TargetPDF  Target = "pdf"
	TargetDOCX Target = "docx"
)

// Request describes one conversion.
type Request struct {
	Input        string
	Output       string
	Target       Target
	ReferenceDoc string // style template, DOCX only
}

// installHint is appended to the not-found diagnostic.
const installHint = "Install it with: brew install pandoc (or see https://pandoc.org/installing.html)"

// stderrTail bounds how much converter output is kept for error messages.
const stderrTail = 2048

// Pandoc converts documents with the pandoc binary.
type Pandoc struct {
	binary    string
	pdfEngine string
	pdfVars   map[string]string
	extraArgs []string
	timeout   time.Duration
	logger    *slog.Logger

	lookPath func(string) (string, error)
}

// NewPandoc creates a converter from configuration. A nil logger discards
// log output.
func NewPandoc(cfg model.ConverterConfig, logger *slog.Logger) *Pandoc {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	binary := cfg.Binary
	if binary == "" {
		binary = "pandoc"
	}
	return &Pandoc{
		binary:    binary,
		pdfEngine: cfg.PDFEngine,
		pdfVars:   cfg.PDFVariables,
		extraArgs: cfg.ExtraArgs,
		timeout:   cfg.Timeout,
		logger:    logger,
		lookPath:  exec.LookPath,
	}
}

// Locate returns the path of the converter binary.
func (p *Pandoc) Locate() (string, error) {
	path, err := p.lookPath(p.binary)
	if err != nil {
		name := filepath.Base(p.binary)
		return "", model.NewDiagnostic(model.ErrToolNotFound, name+" not found. "+installHint)
	}
	return path, nil
}

// CheckInput fails with the not-found diagnostic when the input file does
// not exist.
func CheckInput(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return model.NewDiagnostic(model.ErrInputNotFound,
			filepath.Base(path)+" not found in current directory.")
	}
	return nil
}

// Convert runs one conversion. The converter must be installed and the
// input must exist; neither failure leaves an output file behind, and
// neither is retried.
func (p *Pandoc) Convert(ctx context.Context, req Request) error {
	bin, err := p.Locate()
	if err != nil {
		return err
	}
	if err := CheckInput(req.Input); err != nil {
		return err
	}

	// the converter writes next to the output; only a complete file is
	// renamed into place
	dir, base := filepath.Split(req.Output)
	if dir == "" {
		dir = "."
	}
	ext := filepath.Ext(base)
	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(base, ext)+"-*"+ext)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	tmpName := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpName)

	args, err := p.args(req, tmpName)
	if err != nil {
		return err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &stderr

	started := time.Now()
	p.logger.DebugContext(ctx, "running converter", "binary", bin, "args", strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		return p.failure(ctx, err, stderr.Bytes())
	}

	if info, err := os.Stat(tmpName); err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: %s produced no output for %s", model.ErrToolFailed, filepath.Base(bin), req.Output)
	}
	if err := os.Rename(tmpName, req.Output); err != nil {
		return fmt.Errorf("move output into place: %w", err)
	}

	p.logger.InfoContext(ctx, "converted document",
		"input", req.Input,
		"output", req.Output,
		"target", req.Target,
		"duration", time.Since(started).Round(time.Millisecond),
	)
	return nil
}

func (p *Pandoc) args(req Request, output string) ([]string, error) {
	args := []string{req.Input, "-o", output}

	switch req.Target {
	case TargetDOCX:
		if req.ReferenceDoc != "" {
			args = append(args, "--reference-doc="+req.ReferenceDoc)
		}
	case TargetPDF:
		if p.pdfEngine != "" {
			args = append(args, "--pdf-engine="+p.pdfEngine)
		}
		keys := make([]string, 0, len(p.pdfVars))
		for k := range p.pdfVars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			args = append(args, "-V", k+"="+p.pdfVars[k])
		}
	default:
		return nil, fmt.Errorf("unsupported target %q", req.Target)
	}

	return append(args, p.extraArgs...), nil
}

func (p *Pandoc) failure(ctx context.Context, err error, stderr []byte) error {
	name := filepath.Base(p.binary)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s timed out after %s", model.ErrToolFailed, name, p.timeout)
	}

	detail := strings.TrimSpace(tail(stderr, stderrTail))
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if detail == "" {
			return fmt.Errorf("%w: %s exited with status %d", model.ErrToolFailed, name, exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %s exited with status %d: %s", model.ErrToolFailed, name, exitErr.ExitCode(), detail)
	}
	return fmt.Errorf("%w: %s: %v", model.ErrToolFailed, name, err)
}

func tail(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return "..." + string(b[len(b)-n:])
}

// Version returns the first line of the converter's version output.
func (p *Pandoc) Version(ctx context.Context) (string, error) {
	bin, err := p.Locate()
	if err != nil {
		return "", err
	}
	out, err := exec.CommandContext(ctx, bin, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%w: %s --version: %v", model.ErrToolFailed, filepath.Base(bin), err)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}
