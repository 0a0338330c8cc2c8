// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperclean/pkg/types"
)

// testPage builds a US Letter page whose user space origin is the
// bottom-left corner, with a single default-width font F1.
func testPage(t *testing.T, content string) *Page {
	t.Helper()
	p, err := newPage([]byte(content), 612, 792, 0, 792, fontSet{"F1": newSimpleFont()}, 1)
	require.NoError(t, err)
	return p
}

func TestPage_TextGeometry(t *testing.T) {
	p := testPage(t, "BT /F1 10 Tf 1 0 0 1 72 700 Tm (Hello World) Tj ET")

	assert.Equal(t, 612.0, p.Width())
	assert.Equal(t, 792.0, p.Height())
	assert.Equal(t, "Hello World", p.Text())

	blocks := p.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, types.Rect{X0: 72, Y0: 84, X1: 127, Y1: 94}, blocks[0].Rect)

	hits := p.Search("WORLD")
	require.Len(t, hits, 1)
	assert.Equal(t, types.Rect{X0: 102, Y0: 84, X1: 127, Y1: 94}, hits[0])

	assert.Equal(t, "World", p.TextIn(types.Rect{X0: 100, Y0: 80, X1: 130, Y1: 100}))
	assert.Empty(t, p.Search("absent"))
}

func TestPage_ApplyRedactionsRemovesText(t *testing.T) {
	p := testPage(t, "BT /F1 10 Tf 1 0 0 1 72 700 Tm (Hello World) Tj ET")

	for _, r := range p.Search("world") {
		p.AddRedaction(r)
	}
	n, err := p.ApplyRedactions()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, "Hello", strings.TrimSpace(p.Text()))
	assert.Empty(t, p.Search("world"))
	assert.Empty(t, p.Graphics(), "fills are not reported as graphics")

	content := string(p.Content())
	assert.Contains(t, content, "[<48656c6c6f20> -2500] TJ")
	assert.Contains(t, content, "1 g\n102 698 25 10 re\nf\n")
	assert.True(t, strings.HasPrefix(content, "q\n"))

	n, err = p.ApplyRedactions()
	require.NoError(t, err)
	assert.Zero(t, n, "nothing pending")
}

func TestPage_TJKeepsFollowingGlyphsInPlace(t *testing.T) {
	p := testPage(t, "BT /F1 10 Tf 1 0 0 1 72 700 Tm [(A) -200 (B)] TJ ET")
	assert.Equal(t, "A B", p.Text(), "kerning gap reads as a word gap")

	before := p.Search("B")
	require.Len(t, before, 1)
	assert.Equal(t, 79.0, before[0].X0)

	p.AddRedaction(p.Search("A")[0])
	_, err := p.ApplyRedactions()
	require.NoError(t, err)

	after := p.Search("B")
	require.Len(t, after, 1)
	assert.InDelta(t, before[0].X0, after[0].X0, 1e-9)
	assert.Contains(t, string(p.Content()), "[-700 (B)] TJ")
}

func TestPage_QuoteOperator(t *testing.T) {
	p := testPage(t, "BT /F1 10 Tf 12 TL 1 0 0 1 72 700 Tm (first) Tj (second) ' ET")
	assert.Equal(t, "first\nsecond", p.Text())

	hits := p.Search("second")
	require.Len(t, hits, 1)
	assert.Equal(t, 96.0, hits[0].Y0)

	p.AddRedaction(hits[0])
	_, err := p.ApplyRedactions()
	require.NoError(t, err)
	assert.Equal(t, "first", p.Text())
	assert.Contains(t, string(p.Content()), "T*\n[")

	first := p.Search("first")
	require.Len(t, first, 1)
	assert.Equal(t, types.Rect{X0: 72, Y0: 84, X1: 97, Y1: 94}, first[0])
}

func TestPage_Transform(t *testing.T) {
	p := testPage(t, "q 2 0 0 2 0 0 cm BT /F1 10 Tf 1 0 0 1 10 10 Tm (X) Tj ET Q")
	blocks := p.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, types.Rect{X0: 20, Y0: 756, X1: 30, Y1: 776}, blocks[0].Rect)
}

func TestPage_Graphics(t *testing.T) {
	p := testPage(t, "0.5 w 72 100 m 540 100 l S 72 200 200 50 re f")

	g := p.Graphics()
	require.Len(t, g, 2)
	assert.Equal(t, types.Rect{X0: 72, Y0: 692, X1: 540, Y1: 692}, g[0])
	assert.Equal(t, types.Rect{X0: 72, Y0: 542, X1: 272, Y1: 592}, g[1])

	// The band covers the rule and only part of the rectangle.
	p.AddRedaction(types.Rect{X0: 0, Y0: 580, X1: 612, Y1: 700})
	_, err := p.ApplyRedactions()
	require.NoError(t, err)

	g = p.Graphics()
	require.Len(t, g, 1)
	assert.Equal(t, 542.0, g[0].Y0)
}

func TestPage_RepeatedApplyWrapsOnce(t *testing.T) {
	p := testPage(t, "BT /F1 10 Tf 1 0 0 1 72 700 Tm (one two) Tj ET")

	p.AddRedaction(p.Search("one")[0])
	_, err := p.ApplyRedactions()
	require.NoError(t, err)
	p.AddRedaction(p.Search("two")[0])
	_, err = p.ApplyRedactions()
	require.NoError(t, err)

	content := string(p.Content())
	assert.Equal(t, 3, strings.Count(content, "q\n"), "one wrap plus one per fill group")
	assert.Equal(t, 2, strings.Count(content, " re\n"))
	assert.Empty(t, strings.TrimSpace(p.Text()))
	assert.Empty(t, p.Graphics())
}

func TestPage_EmptyRegionIgnored(t *testing.T) {
	p := testPage(t, "BT /F1 10 Tf 1 0 0 1 72 700 Tm (text) Tj ET")
	p.AddRedaction(types.Rect{})
	n, err := p.ApplyRedactions()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "text", p.Text())
}

func TestBuildBlocks_SeparatesDistantLines(t *testing.T) {
	p := testPage(t, "BT /F1 10 Tf 1 0 0 1 72 760 Tm (Header) Tj 1 0 0 1 72 400 Tm (Body line one) Tj 1 0 0 1 72 388 Tm (Body line two) Tj ET")

	blocks := p.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "Header", blocks[0].Text)
	assert.Equal(t, "Body line one\nBody line two", blocks[1].Text)
	assert.Equal(t, "Header\nBody line one\nBody line two", p.Text())
}
