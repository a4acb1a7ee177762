package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/apa7/internal/model"
)

const fakePandoc = `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "pandoc 3.1.9"
  echo "Features: +server +lua"
  exit 0
fi
if [ -n "$FAKE_PANDOC_ARGS" ]; then
  printf '%s\n' "$@" > "$FAKE_PANDOC_ARGS"
fi
if [ -n "$FAKE_PANDOC_FAIL" ]; then
  echo "pandoc: Could not find reference doc" >&2
  exit 3
fi
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
done
printf 'converted' > "$out"
`

// installFake writes the fake converter and returns its path.
func installFake(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake converter is a shell script")
	}
	bin := filepath.Join(t.TempDir(), "pandoc")
	require.NoError(t, os.WriteFile(bin, []byte(fakePandoc), 0o755))
	return bin
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	in := filepath.Join(dir, "paper.md")
	require.NoError(t, os.WriteFile(in, []byte("# Introduction\n\nText.\n"), 0o644))
	return in
}

func newFake(t *testing.T) *Pandoc {
	cfg := model.DefaultConfig().Converter
	cfg.Binary = installFake(t)
	return NewPandoc(cfg, nil)
}

func TestLocate_Missing(t *testing.T) {
	p := NewPandoc(model.ConverterConfig{Binary: "pandoc"}, nil)
	p.lookPath = func(string) (string, error) { return "", errors.New("not in PATH") }

	_, err := p.Locate()
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrToolNotFound)
	assert.Equal(t, "pandoc not found. Install it with: brew install pandoc (or see https://pandoc.org/installing.html)", err.Error())
}

func TestConvert_MissingConverter(t *testing.T) {
	dir := t.TempDir()
	p := NewPandoc(model.ConverterConfig{Binary: filepath.Join(dir, "no-such-pandoc")}, nil)

	out := filepath.Join(dir, "paper.pdf")
	err := p.Convert(context.Background(), Request{Input: writeInput(t, dir), Output: out, Target: TargetPDF})
	assert.ErrorIs(t, err, model.ErrToolNotFound)
	assert.NoFileExists(t, out)
}

func TestConvert_MissingInput(t *testing.T) {
	p := newFake(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "paper.pdf")

	err := p.Convert(context.Background(), Request{Input: filepath.Join(dir, "paper.md"), Output: out, Target: TargetPDF})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInputNotFound)
	assert.Equal(t, "paper.md not found in current directory.", err.Error())
	assert.NoFileExists(t, out)
}

func TestConvert_WritesOutput(t *testing.T) {
	p := newFake(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "paper.docx")

	err := p.Convert(context.Background(), Request{
		Input:        writeInput(t, dir),
		Output:       out,
		Target:       TargetDOCX,
		ReferenceDoc: "reference.docx",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "converted", string(data))

	// no temporary files remain
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestConvert_FailureKeepsNoOutput(t *testing.T) {
	p := newFake(t)
	t.Setenv("FAKE_PANDOC_FAIL", "1")
	dir := t.TempDir()
	out := filepath.Join(dir, "paper.pdf")

	err := p.Convert(context.Background(), Request{Input: writeInput(t, dir), Output: out, Target: TargetPDF})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrToolFailed)
	assert.Contains(t, err.Error(), "exited with status 3")
	assert.Contains(t, err.Error(), "Could not find reference doc")
	assert.NoFileExists(t, out)
}

func TestConvert_FailureLeavesPreviousOutput(t *testing.T) {
	p := newFake(t)
	t.Setenv("FAKE_PANDOC_FAIL", "1")
	dir := t.TempDir()
	out := filepath.Join(dir, "paper.pdf")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o644))

	err := p.Convert(context.Background(), Request{Input: writeInput(t, dir), Output: out, Target: TargetPDF})
	require.Error(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestConvert_PassesArguments(t *testing.T) {
	p := newFake(t)
	dir := t.TempDir()
	record := filepath.Join(dir, "args.txt")
	t.Setenv("FAKE_PANDOC_ARGS", record)

	in := writeInput(t, dir)
	err := p.Convert(context.Background(), Request{Input: in, Output: filepath.Join(dir, "paper.pdf"), Target: TargetPDF})
	require.NoError(t, err)

	data, err := os.ReadFile(record)
	require.NoError(t, err)
	args := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.GreaterOrEqual(t, len(args), 3)
	assert.Equal(t, in, args[0])
	assert.Equal(t, "-o", args[1])
	assert.Equal(t, ".pdf", filepath.Ext(args[2]))
	assert.Contains(t, args, "--pdf-engine=xelatex")
}

func TestArgs(t *testing.T) {
	p := NewPandoc(model.ConverterConfig{
		PDFEngine:    "xelatex",
		PDFVariables: map[string]string{"mainfont": "Times New Roman", "fontsize": "12pt", "geometry": "margin=1in"},
		ExtraArgs:    []string{"--citeproc"},
	}, nil)

	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{
			name: "docx with reference document",
			req:  Request{Input: "paper.md", Target: TargetDOCX, ReferenceDoc: "reference.docx"},
			want: []string{"paper.md", "-o", "out", "--reference-doc=reference.docx", "--citeproc"},
		},
		{
			name: "docx without reference document",
			req:  Request{Input: "paper.md", Target: TargetDOCX},
			want: []string{"paper.md", "-o", "out", "--citeproc"},
		},
		{
			name: "pdf variables sorted by name",
			req:  Request{Input: "paper.md", Target: TargetPDF},
			want: []string{
				"paper.md", "-o", "out", "--pdf-engine=xelatex",
				"-V", "fontsize=12pt",
				"-V", "geometry=margin=1in",
				"-V", "mainfont=Times New Roman",
				"--citeproc",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.args(tt.req, "out")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := p.args(Request{Input: "paper.md", Target: "html"}, "out")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	p := newFake(t)
	v, err := p.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pandoc 3.1.9", v)
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail([]byte("short"), 10))
	assert.Equal(t, "...6789", tail([]byte("0123456789"), 4))
}
