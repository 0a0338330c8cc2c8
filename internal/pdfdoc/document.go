// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfdoc is the PDF engine behind the cleaning pipeline. It reads a
// document with pdfcpu, interprets each page's content stream to recover
// text and line-art geometry, applies redactions by rewriting the content
// stream, deletes pages, and saves deterministic output.
//
// Coordinates are points with the origin at the top-left of the page's
// visible box and y growing downward.
package pdfdoc

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoPages is returned when saving a document with every page deleted.
var ErrNoPages = errors.New("document has no pages")

// Document is an open PDF. Deletions and redactions are held in memory
// until Save; the source file is never written.
type Document struct {
	path  string
	ctx   *model.Context
	fill  float64
	pages []*pageRef
}

type pageRef struct {
	nr   int
	page *Page
}

// Option configures Open.
type Option func(*Document)

// WithFill sets the colour painted over applied redactions: "black" or
// "white" (the default).
func WithFill(color string) Option {
	return func(d *Document) {
		if color == "black" {
			d.fill = 0
		} else {
			d.fill = 1
		}
	}
}

// Open reads the PDF at path.
func Open(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	ctx, err := readContext(data, newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	d := &Document{path: path, ctx: ctx, fill: 1}
	for _, opt := range opts {
		opt(d)
	}
	for nr := 1; nr <= ctx.PageCount; nr++ {
		d.pages = append(d.pages, &pageRef{nr: nr})
	}
	return d, nil
}

// Path returns the file the document was opened from.
func (d *Document) Path() string { return d.path }

// PageCount returns the number of pages not yet deleted.
func (d *Document) PageCount() int { return len(d.pages) }

// Page returns page i (0-based, counting only pages not deleted).
func (d *Document) Page(i int) (*Page, error) {
	if i < 0 || i >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0,%d)", i, len(d.pages))
	}
	ref := d.pages[i]
	if ref.page == nil {
		p, err := loadPage(d.ctx, ref.nr, d.fill)
		if err != nil {
			return nil, err
		}
		ref.page = p
	}
	return ref.page, nil
}

// DeletePage removes page i. Later pages shift down by one.
func (d *Document) DeletePage(i int) error {
	if i < 0 || i >= len(d.pages) {
		return fmt.Errorf("page index %d out of range [0,%d)", i, len(d.pages))
	}
	d.pages = append(d.pages[:i], d.pages[i+1:]...)
	return nil
}

// Save writes the remaining pages to path through a temporary file in the
// same directory. Saving the same edits twice yields identical bytes.
func (d *Document) Save(path string) error {
	if len(d.pages) == 0 {
		return ErrNoPages
	}
	keep := make([]int, len(d.pages))
	for i, ref := range d.pages {
		keep[i] = ref.nr
	}
	data, err := d.render(keep)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// ExtractPages writes the given pages (0-based, ascending) to path as a
// new document. The open document is unchanged.
func (d *Document) ExtractPages(indices []int, path string) error {
	if len(indices) == 0 {
		return ErrNoPages
	}
	keep := make([]int, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(d.pages) {
			return fmt.Errorf("page index %d out of range [0,%d)", idx, len(d.pages))
		}
		if i > 0 && idx <= indices[i-1] {
			return fmt.Errorf("page indices must be ascending: %v", indices)
		}
		keep[i] = d.pages[idx].nr
	}
	data, err := d.render(keep)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// Close releases the document.
func (d *Document) Close() error {
	d.ctx = nil
	d.pages = nil
	return nil
}

func (d *Document) render(keep []int) ([]byte, error) {
	if d.ctx == nil {
		return nil, fmt.Errorf("%s: document is closed", d.path)
	}
	for _, ref := range d.pages {
		if ref.page == nil || !ref.page.dirty {
			continue
		}
		if err := setPageContent(d.ctx, ref.nr, ref.page.Content()); err != nil {
			return nil, err
		}
		ref.page.dirty = false
	}

	data, err := writeContext(d.ctx, keep)
	if err != nil {
		return nil, err
	}
	if data, err = canonicalize(data); err != nil {
		return nil, err
	}
	return stabilize(data), nil
}

var (
	datePattern = regexp.MustCompile(`/(?:ModDate|CreationDate)\s*\([^)]*\)`)
	idPattern   = regexp.MustCompile(`/ID\s*\[\s*<([0-9A-Fa-f]*)>\s*<([0-9A-Fa-f]*)>\s*\]`)
)

// stabilize removes the time-dependent parts of a written PDF so that equal
// edits produce equal bytes. The info dates are blanked and the file
// identifiers are replaced by a digest of the remaining content; both keep
// their byte length so the cross-reference offsets stay valid.
func stabilize(data []byte) []byte {
	out := datePattern.ReplaceAllFunc(data, func(m []byte) []byte {
		return bytes.Repeat([]byte{' '}, len(m))
	})

	masked := idPattern.ReplaceAllFunc(out, func(m []byte) []byte {
		return bytes.Repeat([]byte{' '}, len(m))
	})
	sum := sha256.Sum256(masked)
	digest := hex.EncodeToString(sum[:])

	return idPattern.ReplaceAllFunc(out, func(m []byte) []byte {
		sub := idPattern.FindSubmatchIndex(m)
		res := append([]byte(nil), m...)
		for g := 1; g <= 2; g++ {
			start, end := sub[2*g], sub[2*g+1]
			for i := start; i < end; i++ {
				res[i] = digest[(i-start)%len(digest)]
			}
		}
		return res
	})
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, creating parent directories as needed.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".paperclean-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", path, closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	return nil
}
