// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

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

// BatchStatus summarizes a batch run.
type BatchStatus string

const (
	// StatusComplete means every input was cleaned (or there were none).
	StatusComplete BatchStatus = "complete"
	// StatusPartial means some inputs were cleaned and some were not.
	StatusPartial BatchStatus = "partial"
	// StatusFailed means inputs existed but none was cleaned.
	StatusFailed BatchStatus = "failed"
)

// BatchResult holds the outcome of a batch cleaning run.
type BatchResult struct {
	Cleaned int
	Skipped int
	Failed  int

	Reports []Report
}

// Total returns the number of input files considered.
func (r BatchResult) Total() int {
	return r.Cleaned + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed or was skipped.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0 || r.Skipped > 0
}

// Status classifies the run as complete, partial or failed.
func (r BatchResult) Status() BatchStatus {
	switch {
	case !r.HasFailures():
		return StatusComplete
	case r.Cleaned == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

// CleanBatch cleans every file in cfg.InputDir whose name ends in
// cfg.Suffix (".pdf" by default) into cfg.OutputDir as <base>_cleaned.pdf.
// The literals derived from each file name are added to cfg.Rules for that
// file. Malformed names are skipped with a warning and per-file errors are
// logged; neither stops the batch. Status lines go to w.
//
// An error is returned only when the input directory cannot be read or ctx
// is cancelled.
func CleanBatch(ctx context.Context, open OpenFunc, cfg types.CleanConfig, sessions naming.SessionTable, log *zap.Logger, w io.Writer) (BatchResult, error) {
	var result BatchResult

	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return result, fmt.Errorf("reading input directory: %w", err)
	}
	suffix := strings.ToLower(cfg.Suffix)
	if suffix == "" {
		suffix = ".pdf"
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		base := e.Name()
		input := filepath.Join(cfg.InputDir, base)

		name, err := naming.Parse(input, sessions)
		if err != nil {
			log.Warn("skipping file", zap.String("file", base), zap.String("reason", "malformed name"), zap.Error(err))
			fmt.Fprintf(w, "skipped: %s (malformed name)\n", base)
			result.Skipped++
			continue
		}

		rules := cfg.Rules
		rules.Literals = append(append([]string(nil), cfg.Rules.Literals...), naming.Literals(name, sessions)...)
		output := filepath.Join(cfg.OutputDir, naming.CleanedName(base))

		rep, err := CleanFile(open, input, output, rules)
		if err != nil {
			log.Error("cleaning failed", zap.String("file", base), zap.Stringer("state", rep.State), zap.Error(err))
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			result.Failed++
			continue
		}

		log.Debug("cleaned", zap.String("file", base), zap.Int("dropped", rep.Dropped),
			zap.Int("deleted", len(rep.Deleted)), zap.Int("redactions", rep.Redactions))
		fmt.Fprintf(w, "cleaned: %s -> %s (%d of %d pages kept)\n", base, filepath.Base(output), rep.PagesOut, rep.PagesIn)
		result.Cleaned++
		result.Reports = append(result.Reports, rep)
	}

	fmt.Fprintf(w, "\nBatch summary: %d cleaned, %d skipped, %d failed (total: %d)\n",
		result.Cleaned, result.Skipped, result.Failed, result.Total())
	return result, nil
}
