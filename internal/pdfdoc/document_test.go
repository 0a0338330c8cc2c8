// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperclean/internal/pdfdoc/pdfdoctest"
)

func writeFixture(t *testing.T, pages ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.pdf")
	require.NoError(t, pdfdoctest.Write(path, pages...))
	return path
}

func TestOpen(t *testing.T) {
	path := writeFixture(t,
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 700, Text: "Question 1"}),
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 700, Text: "BLANK PAGE"}),
	)

	doc, err := Open(path)
	require.NoError(t, err)
	defer doc.Close()

	assert.Equal(t, path, doc.Path())
	require.Equal(t, 2, doc.PageCount())

	p, err := doc.Page(1)
	require.NoError(t, err)
	assert.Equal(t, pdfdoctest.Width, p.Width())
	assert.Equal(t, pdfdoctest.Height, p.Height())
	assert.Equal(t, "BLANK PAGE", p.Text())

	_, err = doc.Page(2)
	assert.Error(t, err)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.pdf")
	require.NoError(t, os.WriteFile(garbage, []byte("not a pdf"), 0o644))
	_, err = Open(garbage)
	assert.Error(t, err)
}

func TestSave_RedactDeleteAndReopen(t *testing.T) {
	src := writeFixture(t,
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 700, Text: "Cover"}),
		pdfdoctest.Text(
			pdfdoctest.Line{X: 72, Y: 770, Text: "9706/12/M/J/24"},
			pdfdoctest.Line{X: 72, Y: 600, Text: "1 Define opportunity cost."},
		),
	)
	original, err := os.ReadFile(src)
	require.NoError(t, err)

	doc, err := Open(src)
	require.NoError(t, err)
	require.NoError(t, doc.DeletePage(0))

	p, err := doc.Page(0)
	require.NoError(t, err)
	for _, r := range p.Search("9706/12/M/J/24") {
		p.AddRedaction(r)
	}
	_, err = p.ApplyRedactions()
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "nested", "out.pdf")
	require.NoError(t, doc.Save(out))
	require.NoError(t, doc.Close())

	after, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, original, after, "source is never modified")

	saved, err := Open(out)
	require.NoError(t, err)
	defer saved.Close()
	require.Equal(t, 1, saved.PageCount())
	sp, err := saved.Page(0)
	require.NoError(t, err)
	assert.Equal(t, "1 Define opportunity cost.", strings.TrimSpace(sp.Text()))
	assert.Empty(t, sp.Search("9706/12"))
}

func TestSave_Deterministic(t *testing.T) {
	src := writeFixture(t,
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 770, Text: "header"}, pdfdoctest.Line{X: 72, Y: 600, Text: "body"}),
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 600, Text: "second"}),
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 600, Text: "third"}),
	)
	dir := t.TempDir()

	run := func(name string) []byte {
		doc, err := Open(src)
		require.NoError(t, err)
		defer doc.Close()
		p, err := doc.Page(0)
		require.NoError(t, err)
		p.AddRedaction(p.Search("header")[0])
		_, err = p.ApplyRedactions()
		require.NoError(t, err)
		require.NoError(t, doc.DeletePage(1))
		out := filepath.Join(dir, name)
		require.NoError(t, doc.Save(out))
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		return data
	}

	first := run("run0.pdf")
	for i := 1; i < 12; i++ {
		got := run(fmt.Sprintf("run%d.pdf", i))
		require.True(t, bytes.Equal(first, got), "run %d: equal edits give equal bytes", i)
	}

	doc, err := Open(filepath.Join(dir, "run0.pdf"))
	require.NoError(t, err)
	defer doc.Close()
	require.Equal(t, 2, doc.PageCount())
	p, err := doc.Page(1)
	require.NoError(t, err)
	assert.Equal(t, "third", strings.TrimSpace(p.Text()))
}

func TestSave_RepeatedOnOneDocument(t *testing.T) {
	doc, err := Open(writeFixture(t,
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 600, Text: "first"}),
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 600, Text: "second"}),
	))
	require.NoError(t, err)
	defer doc.Close()
	dir := t.TempDir()

	require.NoError(t, doc.Save(filepath.Join(dir, "both.pdf")))
	require.NoError(t, doc.DeletePage(0))
	require.NoError(t, doc.Save(filepath.Join(dir, "a.pdf")))
	require.NoError(t, doc.Save(filepath.Join(dir, "b.pdf")))

	a, err := os.ReadFile(filepath.Join(dir, "a.pdf"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "b.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "saving twice gives equal bytes")

	both, err := Open(filepath.Join(dir, "both.pdf"))
	require.NoError(t, err)
	defer both.Close()
	assert.Equal(t, 2, both.PageCount(), "a later deletion does not change an earlier save")
}

func TestSave_NoPages(t *testing.T) {
	doc, err := Open(writeFixture(t, pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 700, Text: "only"})))
	require.NoError(t, err)
	defer doc.Close()

	require.NoError(t, doc.DeletePage(0))
	err = doc.Save(filepath.Join(t.TempDir(), "out.pdf"))
	assert.True(t, errors.Is(err, ErrNoPages))
	assert.Error(t, doc.DeletePage(0))
}

func TestExtractPages(t *testing.T) {
	doc, err := Open(writeFixture(t,
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 700, Text: "1 first"}),
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 700, Text: "continued"}),
		pdfdoctest.Text(pdfdoctest.Line{X: 72, Y: 700, Text: "2 second"}),
	))
	require.NoError(t, err)
	defer doc.Close()

	dir := t.TempDir()
	require.NoError(t, doc.ExtractPages([]int{0, 1}, filepath.Join(dir, "1.pdf")))
	require.NoError(t, doc.ExtractPages([]int{2}, filepath.Join(dir, "2.pdf")))
	assert.Error(t, doc.ExtractPages([]int{1, 0}, filepath.Join(dir, "bad.pdf")))
	assert.ErrorIs(t, doc.ExtractPages(nil, filepath.Join(dir, "none.pdf")), ErrNoPages)

	first, err := Open(filepath.Join(dir, "1.pdf"))
	require.NoError(t, err)
	defer first.Close()
	assert.Equal(t, 2, first.PageCount())

	second, err := Open(filepath.Join(dir, "2.pdf"))
	require.NoError(t, err)
	defer second.Close()
	require.Equal(t, 1, second.PageCount())
	p, err := second.Page(0)
	require.NoError(t, err)
	assert.Equal(t, "2 second", p.Text())
}

func TestStabilize(t *testing.T) {
	a := []byte("<< /Producer (x) /ModDate (D:20260101120000Z) >>\ntrailer << /ID [<0A0B0C0D><0E0F1011>] >>")
	b := []byte("<< /Producer (x) /ModDate (D:20261231235959Z) >>\ntrailer << /ID [<FFFFFFFF><00000000>] >>")

	sa, sb := stabilize(a), stabilize(b)
	assert.Equal(t, sa, sb)
	assert.Len(t, sa, len(a), "offsets are preserved")
	assert.NotContains(t, string(sa), "ModDate")
	assert.Contains(t, string(sa), "/Producer (x)")
}
