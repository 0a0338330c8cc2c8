// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package split

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/paperclean/internal/naming"
	"github.com/pdiddy/paperclean/internal/pdfdoc"
	"github.com/pdiddy/paperclean/internal/pdfdoc/pdfdoctest"
	"github.com/pdiddy/paperclean/pkg/types"
)

// fakeSource records the page sets written by ExtractPages.
type fakeSource struct {
	texts   []string
	written map[string][]int
	closed  bool
}

func newFakeSource(texts ...string) *fakeSource {
	return &fakeSource{texts: texts, written: make(map[string][]int)}
}

func (s *fakeSource) PageCount() int                 { return len(s.texts) }
func (s *fakeSource) PageText(i int) (string, error) { return s.texts[i], nil }
func (s *fakeSource) Close() error                   { s.closed = true; return nil }

func (s *fakeSource) ExtractPages(indices []int, path string) error {
	s.written[filepath.Base(path)] = append([]int(nil), indices...)
	return nil
}

func TestQuestionRanges(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  []Range
	}{
		{
			name:  "one page per question",
			texts: []string{"1 Define cost.", "2 Explain.", "3 Discuss."},
			want:  []Range{{1, 0, 0}, {2, 1, 1}, {3, 2, 2}},
		},
		{
			name:  "continuation pages join the open question",
			texts: []string{"1 (a) Define.", "(b) Explain.", "2 Discuss.", "Answer lines", "(c) more"},
			want:  []Range{{1, 0, 1}, {2, 2, 4}},
		},
		{
			name:  "repeated number does not reopen",
			texts: []string{"1 (a)", "1 (b) continued", "2 Next"},
			want:  []Range{{1, 0, 1}, {2, 2, 2}},
		},
		{
			name:  "two digit numbers",
			texts: []string{"9 Ninth", "10 Tenth", "11 Eleventh"},
			want:  []Range{{1, 0, 0}, {2, 1, 1}, {3, 2, 2}},
		},
		{
			name:  "leading blank lines and preamble page",
			texts: []string{"Instructions", "\n\n  1 First", "  \n2 Second"},
			want:  []Range{{1, 1, 1}, {2, 2, 2}},
		},
		{
			name:  "no questions",
			texts: []string{"Instructions", ""},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuestionRanges(tt.texts))
		})
	}
}

func TestSplitQuestions(t *testing.T) {
	src := newFakeSource("1 (a) Define.", "(b) Explain.", "2 Discuss.")
	dir := filepath.Join(t.TempDir(), "9706", "2024", "May_June", "12")
	var out bytes.Buffer

	n, err := SplitQuestions(src, dir, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, map[string][]int{"1.pdf": {0, 1}, "2.pdf": {2}}, src.written)
	assert.DirExists(t, dir)
	assert.Contains(t, out.String(), "(pages 1-2)")
}

func TestSplitDuplicates(t *testing.T) {
	src := newFakeSource("a", "b", "c")
	n, err := SplitDuplicates(src, []int{2, 0, 1}, t.TempDir(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, map[string][]int{"1.pdf": {0}, "2.pdf": {0}, "3.pdf": {2}}, src.written)
}

func TestSplitDuplicates_Mismatch(t *testing.T) {
	src := newFakeSource("a", "b")
	_, err := SplitDuplicates(src, []int{1}, t.TempDir(), &bytes.Buffer{})
	assert.True(t, errors.Is(err, ErrPageCountMismatch))
	assert.Empty(t, src.written)
}

func TestSplitQuestions_PDF(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "paper.pdf")
	require.NoError(t, pdfdoctest.Write(src,
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 700, Text: "1 Define opportunity cost."}),
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 700, Text: "(b) Explain."}),
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 700, Text: "2 Discuss policy."}),
	))

	doc, err := OpenPDF(src)
	require.NoError(t, err)
	defer doc.Close()

	out := filepath.Join(dir, "questions")
	n, err := SplitQuestions(doc, out, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	q1, err := pdfdoc.Open(filepath.Join(out, "1.pdf"))
	require.NoError(t, err)
	defer q1.Close()
	assert.Equal(t, 2, q1.PageCount())

	q2, err := pdfdoc.Open(filepath.Join(out, "2.pdf"))
	require.NoError(t, err)
	defer q2.Close()
	require.Equal(t, 1, q2.PageCount())
	p, err := q2.Page(0)
	require.NoError(t, err)
	assert.Equal(t, "2 Discuss policy.", strings.TrimSpace(p.Text()))
}

func TestSplitBatch(t *testing.T) {
	in := t.TempDir()
	outBase := t.TempDir()
	for _, name := range []string{"9706_s24_qp_12_cleaned.pdf", "notes_cleaned.pdf", "9706_s24_qp_12.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(in, name), nil, 0o644))
	}

	var sources []*fakeSource
	open := func(string) (Source, error) {
		s := newFakeSource("1 First", "2 Second")
		sources = append(sources, s)
		return s, nil
	}

	core, logs := observer.New(zapcore.WarnLevel)
	var out bytes.Buffer
	cfg := types.SplitConfig{InputDir: in, OutputDir: outBase}
	result, err := SplitBatch(context.Background(), open, cfg, naming.DefaultSessions(), zap.New(core), &out)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Split)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Files)
	assert.True(t, result.HasFailures())
	assert.Equal(t, 1, logs.FilterMessage("skipping file").Len())
	require.Len(t, sources, 1)
	assert.True(t, sources[0].closed)
	assert.DirExists(t, filepath.Join(outBase, "9706", "2024", "May_June", "12"))
}

func TestSplitBatch_DuplicatesMismatchFails(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "9706_w23_qp_3_cleaned.pdf"), nil, 0o644))
	open := func(string) (Source, error) { return newFakeSource("1", "2", "3"), nil }

	cfg := types.SplitConfig{InputDir: in, OutputDir: t.TempDir(), Duplicates: []int{1, 1}}
	result, err := SplitBatch(context.Background(), open, cfg, naming.DefaultSessions(), zap.NewNop(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Zero(t, result.Files)
}
