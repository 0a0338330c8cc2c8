// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package split

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paperclean/internal/naming"
	"github.com/pdiddy/paperclean/pkg/types"
)

// BatchResult holds the outcome of a batch split.
type BatchResult struct {
	Split   int
	Skipped int
	Failed  int

	// Files counts the question PDFs written across all papers.
	Files int
}

// Total returns the number of papers considered.
func (r BatchResult) Total() int {
	return r.Split + r.Skipped + r.Failed
}

// HasFailures reports whether any paper failed or was skipped.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0 || r.Skipped > 0
}

// SplitBatch splits every <base>_cleaned.pdf in cfg.InputDir into
// cfg.OutputDir/<subject>/<year>/<session>/<paper>/. When cfg.Duplicates is
// set each paper is split by the copy list instead of question detection.
func SplitBatch(ctx context.Context, open OpenFunc, cfg types.SplitConfig, sessions naming.SessionTable, log *zap.Logger, w io.Writer) (BatchResult, error) {
	var result BatchResult

	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return result, fmt.Errorf("reading input directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), "_cleaned.pdf") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		base := e.Name()
		name, err := naming.Parse(base, sessions)
		if err != nil {
			log.Warn("skipping file", zap.String("file", base), zap.String("reason", "malformed name"), zap.Error(err))
			fmt.Fprintf(w, "skipped: %s (malformed name)\n", base)
			result.Skipped++
			continue
		}

		dir := naming.OutputDir(cfg.OutputDir, name, sessions)
		n, err := splitFile(open, filepath.Join(cfg.InputDir, base), dir, cfg.Duplicates, w)
		result.Files += n
		if err != nil {
			log.Error("splitting failed", zap.String("file", base), zap.Error(err))
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "split:   %s -> %s (%d files)\n", base, dir, n)
		result.Split++
	}

	fmt.Fprintf(w, "\nBatch summary: %d split, %d skipped, %d failed (total: %d, files: %d)\n",
		result.Split, result.Skipped, result.Failed, result.Total(), result.Files)
	return result, nil
}

func splitFile(open OpenFunc, path, dir string, duplicates []int, w io.Writer) (int, error) {
	src, err := open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer src.Close()

	if len(duplicates) > 0 {
		return SplitDuplicates(src, duplicates, dir, w)
	}
	return SplitQuestions(src, dir, w)
}
