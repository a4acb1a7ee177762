package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Func adapts a function to the Job interface.
type Func struct {
	ID string
	Fn func(ctx context.Context) error
}

func (f Func) Name() string { return f.ID }

func (f Func) Execute(ctx context.Context) error { return f.Fn(ctx) }

// Run executes jobs on a pool of the given size and returns one result per
// job, in submission order.
func Run(ctx context.Context, jobs []Job, workers int) []Result {
	if len(jobs) == 0 {
		return []Result{}
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	pool := NewPool(ctx, workers)
	pool.Start()
	for _, job := range jobs {
		pool.Submit(job)
	}
	return pool.Wait()
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// ListDocuments returns the .docx files directly inside dir, sorted by
// name. Hidden files and Word lock files (~$name.docx) are skipped.
func ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var docs []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() {
			continue
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".docx") {
			continue
		}
		docs = append(docs, filepath.Join(dir, name))
	}
	return docs, nil
}
