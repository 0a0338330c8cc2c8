// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"math"
	"strings"
	"unicode"

	"github.com/pdiddy/paperclean/pkg/types"
)

// char is one rune of extracted text. Synthesized word gaps have glyph -1.
type char struct {
	r     rune
	rect  types.Rect
	glyph int
}

type line struct {
	chars []char
	rect  types.Rect
}

func (l line) text() string {
	var b strings.Builder
	for _, c := range l.chars {
		b.WriteRune(c.r)
	}
	return b.String()
}

type block struct {
	lines []line
	rect  types.Rect
}

func (b block) text() string {
	parts := make([]string, len(b.lines))
	for i, l := range b.lines {
		parts[i] = l.text()
	}
	return strings.Join(parts, "\n")
}

// Thresholds relative to the glyph height.
const (
	sameLineOverlap = 0.5
	wordGapRatio    = 0.15
	lineBreakGap    = 3.0
	blockGapRatio   = 0.6
)

// buildLines groups glyphs into lines in content order. A new line starts
// when the next glyph leaves the current baseline, jumps backwards, or sits
// further right than a column gap.
func buildLines(glyphs []glyph) []line {
	var (
		lines []line
		cur   *line
		last  types.Rect
	)
	for gi, g := range glyphs {
		runes := []rune(g.text)
		if len(runes) == 0 || g.rect.IsEmpty() && g.rect.Height() <= 0 {
			continue
		}
		h := g.rect.Height()
		if cur != nil && !continuesLine(last, g.rect, h) {
			lines = append(lines, *cur)
			cur = nil
		}
		if cur == nil {
			cur = &line{rect: g.rect}
		} else if gap := g.rect.X0 - last.X1; gap > wordGapRatio*h && !endsWithSpace(cur.chars) && !unicode.IsSpace(runes[0]) {
			cur.chars = append(cur.chars, char{r: ' ', glyph: -1, rect: types.Rect{X0: last.X1, Y0: g.rect.Y0, X1: g.rect.X0, Y1: g.rect.Y1}})
		}

		step := g.rect.Width() / float64(len(runes))
		for i, r := range runes {
			cur.chars = append(cur.chars, char{
				r:     r,
				glyph: gi,
				rect:  types.Rect{X0: g.rect.X0 + step*float64(i), Y0: g.rect.Y0, X1: g.rect.X0 + step*float64(i+1), Y1: g.rect.Y1},
			})
		}
		cur.rect = cur.rect.Union(g.rect)
		last = g.rect
	}
	if cur != nil {
		lines = append(lines, *cur)
	}

	out := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l.text()) != "" {
			out = append(out, l)
		}
	}
	return out
}

func continuesLine(prev, next types.Rect, h float64) bool {
	overlap := math.Min(prev.Y1, next.Y1) - math.Max(prev.Y0, next.Y0)
	minH := math.Min(prev.Height(), next.Height())
	if minH <= 0 || overlap < sameLineOverlap*minH {
		return false
	}
	if next.X0 < prev.X1-sameLineOverlap*h {
		return false
	}
	return next.X0-prev.X1 <= lineBreakGap*h
}

func endsWithSpace(cs []char) bool {
	return len(cs) > 0 && unicode.IsSpace(cs[len(cs)-1].r)
}

// buildBlocks merges consecutive lines that stack closely with horizontal
// overlap into blocks.
func buildBlocks(lines []line) []block {
	var blocks []block
	for _, l := range lines {
		if n := len(blocks); n > 0 {
			b := &blocks[n-1]
			h := l.rect.Height()
			gap := l.rect.Y0 - b.rect.Y1
			overlaps := l.rect.X0 < b.rect.X1 && l.rect.X1 > b.rect.X0
			if overlaps && gap >= -sameLineOverlap*h && gap < blockGapRatio*h {
				b.lines = append(b.lines, l)
				b.rect = b.rect.Union(l.rect)
				continue
			}
		}
		blocks = append(blocks, block{lines: []line{l}, rect: l.rect})
	}
	return blocks
}

// search returns the rectangle of every case-insensitive occurrence of
// needle within a single line.
func search(lines []line, needle string) []types.Rect {
	pat := []rune(strings.ToLower(needle))
	if len(pat) == 0 {
		return nil
	}
	var hits []types.Rect
	for _, l := range lines {
		hay := make([]rune, len(l.chars))
		for i, c := range l.chars {
			hay[i] = unicode.ToLower(c.r)
		}
		for i := 0; i+len(pat) <= len(hay); i++ {
			if !runesEqual(hay[i:i+len(pat)], pat) {
				continue
			}
			r := l.chars[i].rect
			for _, c := range l.chars[i+1 : i+len(pat)] {
				r = r.Union(c.rect)
			}
			hits = append(hits, r)
			i += len(pat) - 1
		}
	}
	return hits
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// textIn returns the characters whose centre lies inside r, one line per
// output line.
func textIn(lines []line, r types.Rect) string {
	var parts []string
	for _, l := range lines {
		var b strings.Builder
		for _, c := range l.chars {
			cx := (c.rect.X0 + c.rect.X1) / 2
			cy := (c.rect.Y0 + c.rect.Y1) / 2
			if cx >= r.X0 && cx <= r.X1 && cy >= r.Y0 && cy <= r.Y1 {
				b.WriteRune(c.r)
			}
		}
		if b.Len() > 0 {
			parts = append(parts, b.String())
		}
	}
	return strings.Join(parts, "\n")
}
