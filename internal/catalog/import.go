// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperclean/pkg/types"
)

// ImportSummary counts the rows read by an import.
type ImportSummary struct {
	Imported int
	Failed   int
}

// Total returns the number of data rows read.
func (s ImportSummary) Total() int {
	return s.Imported + s.Failed
}

// columns maps normalized spreadsheet headings to record setters. Headings
// match ignoring case, spaces and underscores, so "Sub topic" and
// "sub_topic" are the same column.
var columns = map[string]func(r *types.PaperRecord, v string) error{
	"subjectname":    func(r *types.PaperRecord, v string) error { r.SubjectName = v; return nil },
	"subjectcode":    func(r *types.PaperRecord, v string) error { r.SubjectCode = number(v); return nil },
	"topic":          func(r *types.PaperRecord, v string) error { r.Topic = v; return nil },
	"subtopic":       func(r *types.PaperRecord, v string) error { r.SubTopic = v; return nil },
	"papernumber":    func(r *types.PaperRecord, v string) error { r.PaperNumber = number(v); return nil },
	"papervariant":   func(r *types.PaperRecord, v string) error { r.PaperVariant = number(v); return nil },
	"variant":        func(r *types.PaperRecord, v string) error { r.Variant = v; return nil },
	"difficulty":     func(r *types.PaperRecord, v string) error { r.Difficulty = v; return nil },
	"year":           func(r *types.PaperRecord, v string) error { r.Year = number(v); return nil },
	"questionnumber": func(r *types.PaperRecord, v string) error { r.QuestionNumber = number(v); return nil },
	"marks": func(r *types.PaperRecord, v string) error {
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("marks %q: %w", v, err)
		}
		r.Marks = int(f)
		return nil
	},
}

func normalizeHeading(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.NewReplacer(" ", "", "_", "").Replace(h)
}

// number drops the ".0" a spreadsheet export adds to integral cells.
func number(v string) string {
	if strings.HasSuffix(v, ".0") {
		if _, err := strconv.Atoi(strings.TrimSuffix(v, ".0")); err == nil {
			return strings.TrimSuffix(v, ".0")
		}
	}
	return v
}

// ParseCSV reads catalog records from CSV with a heading row. Unknown
// columns are ignored. A row whose marks cell is not a number is reported
// through bad and left out.
func ParseCSV(r io.Reader, bad func(line int, err error)) ([]types.PaperRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	setters := make([]func(*types.PaperRecord, string) error, len(header))
	known := 0
	for i, h := range header {
		if set, ok := columns[normalizeHeading(h)]; ok {
			setters[i] = set
			known++
		}
	}
	if known == 0 {
		return nil, fmt.Errorf("no catalog columns in header %v", header)
	}

	var records []types.PaperRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return records, fmt.Errorf("reading CSV: %w", err)
		}

		var rec types.PaperRecord
		var rowErr error
		for i, cell := range row {
			if i < len(setters) && setters[i] != nil {
				if err := setters[i](&rec, strings.TrimSpace(cell)); err != nil {
					rowErr = err
					break
				}
			}
		}
		if rowErr != nil {
			bad(line, rowErr)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseYAML reads a YAML list of catalog records.
func ParseYAML(r io.Reader) ([]types.PaperRecord, error) {
	var records []types.PaperRecord
	if err := yaml.NewDecoder(r).Decode(&records); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	for i := range records {
		records[i].ID = 0
	}
	return records, nil
}

// ImportFile loads a .csv, .yaml or .yml file into the catalog. Rejected
// CSV rows are logged and counted; they do not stop the import.
func (s *Store) ImportFile(ctx context.Context, path string, w io.Writer) (ImportSummary, error) {
	var summary ImportSummary
	f, err := os.Open(path)
	if err != nil {
		return summary, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []types.PaperRecord
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		records, err = ParseCSV(f, func(line int, err error) {
			s.log.Warn("skipping row", zap.String("file", filepath.Base(path)), zap.Int("line", line), zap.Error(err))
			fmt.Fprintf(w, "skipped: line %d (%v)\n", line, err)
			summary.Failed++
		})
	case ".yaml", ".yml":
		records, err = ParseYAML(f)
	default:
		return summary, fmt.Errorf("unsupported catalog file type %q", ext)
	}
	if err != nil {
		return summary, err
	}

	n, err := s.Insert(ctx, records)
	if err != nil {
		return summary, err
	}
	summary.Imported = n
	fmt.Fprintf(w, "imported: %s (%d rows, %d skipped)\n", filepath.Base(path), summary.Imported, summary.Failed)
	return summary, nil
}
