// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clean implements the exam-paper cleaning pipeline: the page
// classifier, the region redactor, the page pruner, the single-document
// driver and the batch driver.
package clean

import (
	"github.com/pdiddy/paperclean/internal/pdfdoc"
	"github.com/pdiddy/paperclean/pkg/types"
)

// Page is the view of one PDF page the pipeline works against. Coordinates
// have their origin at the top-left and y grows downward.
type Page interface {
	Width() float64
	Height() float64

	// Blocks returns the text blocks of the page as currently redacted.
	Blocks() []types.TextBlock

	// Graphics returns the bounding boxes of painted line art.
	Graphics() []types.Rect

	// Text returns the full page text.
	Text() string

	// Search returns the rectangles of case-insensitive occurrences of s.
	Search(s string) []types.Rect

	// TextIn returns the text lying inside r.
	TextIn(r types.Rect) string

	// AddRedaction queues r; ApplyRedactions commits every queued region.
	AddRedaction(r types.Rect)
	ApplyRedactions() (int, error)
}

// Document is an open, mutable PDF.
type Document interface {
	PageCount() int
	Page(i int) (Page, error)
	DeletePage(i int) error
	Save(path string) error
	Close() error
}

// OpenFunc opens the document at path.
type OpenFunc func(path string) (Document, error)

// PDFOpener returns an OpenFunc backed by the pdfdoc engine, painting
// redactions in fill ("white" or "black").
func PDFOpener(fill string) OpenFunc {
	return func(path string) (Document, error) {
		d, err := pdfdoc.Open(path, pdfdoc.WithFill(fill))
		if err != nil {
			return nil, err
		}
		return pdfDocument{d}, nil
	}
}

type pdfDocument struct {
	*pdfdoc.Document
}

func (d pdfDocument) Page(i int) (Page, error) {
	p, err := d.Document.Page(i)
	if err != nil {
		return nil, err
	}
	return p, nil
}
