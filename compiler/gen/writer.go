package gen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Writer renders generated files into a directory with parallel execution.
type Writer struct {
	outDir  string
	workers int

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks generation performance
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	RenderTime     time.Duration
	FormatTime     time.Duration
	WriteTime      time.Duration
}

// NewWriter creates a new writer of the given output directory.
func NewWriter(outDir string, workers int) *Writer {
	if workers <= 0 {
		workers = 1
	}
	return &Writer{
		outDir:  outDir,
		workers: workers,
		metrics: &WriterMetrics{},
	}
}

// Metrics returns a copy of the generation metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.metrics
}

// fileTask represents a single file generation task.
type fileTask struct {
	name string // output file path (relative to outDir)
	file *jen.File
}

// WriteAll writes all files in parallel. It stops scheduling new files
// after the first failure and returns it.
func (w *Writer) WriteAll(ctx context.Context, files []fileTask) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return NewGenerationError(w.outDir, "write", err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(f)
			}
		})
	}
	return eg.Wait()
}

// writeFile renders, formats and writes a single file.
func (w *Writer) writeFile(f fileTask) error {
	fullPath := filepath.Join(w.outDir, f.name)

	start := time.Now()
	var buf bytes.Buffer
	if err := f.file.Render(&buf); err != nil {
		return NewGenerationError(f.name, "render", err)
	}
	rendered := time.Now()

	formatted, err := imports.Process(fullPath, buf.Bytes(), nil)
	if err != nil {
		// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
		_ = os.WriteFile(fullPath+".error", buf.Bytes(), 0o644)
		return NewGenerationError(f.name, "format", err)
	}
	formattedAt := time.Now()

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return NewGenerationError(f.name, "write", err)
	}
	if err := os.WriteFile(fullPath, formatted, 0o644); err != nil {
		return NewGenerationError(f.name, "write", err)
	}

	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(formatted))
	w.metrics.RenderTime += rendered.Sub(start)
	w.metrics.FormatTime += formattedAt.Sub(rendered)
	w.metrics.WriteTime += time.Since(formattedAt)
	w.mu.Unlock()
	return nil
}
