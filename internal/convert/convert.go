// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert converts question PDFs to DOCX and back with pluggable
// backends, mirroring the directory tree of the input.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paperclean/pkg/types"
)

// Converter turns the file at src into the target format, writing the
// result to dst.
type Converter interface {
	Convert(ctx context.Context, src string, dst io.Writer) error
}

// Status is the outcome of one file conversion.
type Status int

const (
	StatusConverted Status = iota
	StatusSkipped
	StatusFailed
)

// BatchResult holds the outcome of a tree conversion.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the number of files considered.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Extensions returns the source and target extensions of d.
func Extensions(d types.ConversionDirection) (from, to string, err error) {
	switch d {
	case types.PDFToDOCX:
		return ".pdf", ".docx", nil
	case types.DOCXToPDF:
		return ".docx", ".pdf", nil
	}
	return "", "", fmt.Errorf("unknown conversion direction %q", d)
}

// Output signatures: DOCX is a zip archive.
var magic = map[string][]byte{
	".pdf":  []byte("%PDF-"),
	".docx": []byte("PK\x03\x04"),
}

// ConvertFile converts src into dst. An existing dst is left alone and
// reported as skipped. Output is written to a temporary file and renamed
// only when it carries the target format's signature.
func ConvertFile(ctx context.Context, c Converter, src, dst string, w io.Writer) Status {
	rel := filepath.Base(src)
	if _, err := os.Stat(dst); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", rel)
		return StatusSkipped
	}

	if err := convertFile(ctx, c, src, dst); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", rel, err)
		return StatusFailed
	}
	fmt.Fprintf(w, "converted: %s\n", rel)
	return StatusConverted
}

func convertFile(ctx context.Context, c Converter, src, dst string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".convert-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := c.Convert(ctx, src, tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := checkSignature(tmp.Name(), filepath.Ext(dst)); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func checkSignature(path, ext string) error {
	want, ok := magic[strings.ToLower(ext)]
	if !ok {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, len(want))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, want) {
		return fmt.Errorf("converter output is not a %s file", strings.TrimPrefix(ext, "."))
	}
	return nil
}

// ConvertTree converts every file with the direction's source extension
// under cfg.InputDir into the same relative location under cfg.OutputDir.
// Office lock files (~$name) are ignored. When cfg.Timeout is set each
// conversion is bounded by it.
func ConvertTree(ctx context.Context, c Converter, cfg types.ConversionConfig, w io.Writer) (BatchResult, error) {
	var result BatchResult
	from, to, err := Extensions(cfg.Direction)
	if err != nil {
		return result, err
	}

	err = filepath.WalkDir(cfg.InputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), "~$") || !strings.EqualFold(filepath.Ext(d.Name()), from) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(cfg.InputDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(cfg.OutputDir, strings.TrimSuffix(rel, filepath.Ext(rel))+to)

		fileCtx, cancel := ctx, context.CancelFunc(func() {})
		if cfg.Timeout > 0 {
			fileCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		}
		status := ConvertFile(fileCtx, c, path, dst, w)
		cancel()

		switch status {
		case StatusConverted:
			result.Converted++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("walking %s: %w", cfg.InputDir, err)
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, nil
}
