// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package split cuts cleaned exam papers into one PDF per question, either
// by detecting the pages on which questions begin or by an explicit
// per-page copy list.
package split

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/paperclean/internal/pdfdoc"
)

// ErrPageCountMismatch is returned when a duplication list does not have
// one entry per page.
var ErrPageCountMismatch = errors.New("duplication list does not match page count")

// Source is an open paper the splitter reads from.
type Source interface {
	PageCount() int
	PageText(i int) (string, error)
	// ExtractPages writes the given ascending pages to path.
	ExtractPages(indices []int, path string) error
	Close() error
}

// OpenFunc opens the paper at path.
type OpenFunc func(path string) (Source, error)

// OpenPDF opens a paper with the pdfdoc engine.
func OpenPDF(path string) (Source, error) {
	d, err := pdfdoc.Open(path)
	if err != nil {
		return nil, err
	}
	return pdfSource{d}, nil
}

type pdfSource struct {
	*pdfdoc.Document
}

func (s pdfSource) PageText(i int) (string, error) {
	p, err := s.Page(i)
	if err != nil {
		return "", err
	}
	return p.Text(), nil
}

// Range is a run of pages [Start, End] holding one question.
type Range struct {
	Number int
	Start  int
	End    int
}

// Pages returns the page indices of r.
func (r Range) Pages() []int {
	out := make([]int, 0, r.End-r.Start+1)
	for i := r.Start; i <= r.End; i++ {
		out = append(out, i)
	}
	return out
}

// QuestionRanges groups pages into questions. A page opens a question when
// its first non-empty line starts with a question number not seen before;
// other pages continue the current question. Pages before the first
// question are not part of any range. Ranges are numbered from 1 in order.
func QuestionRanges(texts []string) []Range {
	var ranges []Range
	seen := make(map[int]bool)
	for i, text := range texts {
		n, ok := leadingNumber(text)
		if !ok || seen[n] {
			continue
		}
		seen[n] = true
		if len(ranges) > 0 {
			ranges[len(ranges)-1].End = i - 1
		}
		ranges = append(ranges, Range{Number: len(ranges) + 1, Start: i, End: i})
	}
	if len(ranges) > 0 {
		ranges[len(ranges)-1].End = len(texts) - 1
	}
	return ranges
}

// leadingNumber returns the integer at the start of the first non-empty
// line of text.
func leadingNumber(text string) (int, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		end := strings.IndexFunc(line, func(r rune) bool { return !unicode.IsDigit(r) })
		if end == -1 {
			end = len(line)
		}
		if end == 0 {
			return 0, false
		}
		n, err := strconv.Atoi(line[:end])
		return n, err == nil
	}
	return 0, false
}

// SplitQuestions writes each question of src to dir/<n>.pdf and returns the
// number of files written. Status lines go to w.
func SplitQuestions(src Source, dir string, w io.Writer) (int, error) {
	texts := make([]string, src.PageCount())
	for i := range texts {
		t, err := src.PageText(i)
		if err != nil {
			return 0, fmt.Errorf("reading page %d: %w", i+1, err)
		}
		texts[i] = t
	}

	ranges := QuestionRanges(texts)
	if len(ranges) == 0 {
		return 0, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", dir, err)
	}
	for _, r := range ranges {
		path := filepath.Join(dir, strconv.Itoa(r.Number)+".pdf")
		if err := src.ExtractPages(r.Pages(), path); err != nil {
			return r.Number - 1, fmt.Errorf("writing question %d: %w", r.Number, err)
		}
		fmt.Fprintf(w, "  created: %s (pages %d-%d)\n", path, r.Start+1, r.End+1)
	}
	return len(ranges), nil
}

// SplitDuplicates writes page i of src duplicates[i] times, each copy as
// its own file dir/<k>.pdf with k counting from 1 across all pages.
func SplitDuplicates(src Source, duplicates []int, dir string, w io.Writer) (int, error) {
	if src.PageCount() != len(duplicates) {
		return 0, fmt.Errorf("%w: %d pages, %d entries", ErrPageCountMismatch, src.PageCount(), len(duplicates))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", dir, err)
	}

	k := 0
	for page, copies := range duplicates {
		for c := 0; c < copies; c++ {
			k++
			path := filepath.Join(dir, strconv.Itoa(k)+".pdf")
			if err := src.ExtractPages([]int{page}, path); err != nil {
				return k - 1, fmt.Errorf("writing copy %d of page %d: %w", c+1, page+1, err)
			}
			fmt.Fprintf(w, "  created: %s (page %d)\n", path, page+1)
		}
	}
	return k, nil
}
