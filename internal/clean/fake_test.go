// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

import (
	"errors"
	"os"
	"strings"
	"unicode"

	"github.com/pdiddy/paperclean/pkg/types"
)

// Fake geometry: every character is charW wide and lineH tall.
const (
	charW = 5.0
	lineH = 10.0
)

type fakeChar struct {
	r    rune
	rect types.Rect
}

// at places text with its top-left corner at (x, y) in page space.
type at struct {
	x, y float64
	text string
}

// fakePage implements Page over a list of single-line blocks.
type fakePage struct {
	w, h     float64
	lines    [][]fakeChar
	graphics []types.Rect
	pending  []types.Rect
	applies  int
}

func newFakePage(texts ...at) *fakePage {
	p := &fakePage{w: 612, h: 792}
	for _, t := range texts {
		var line []fakeChar
		for i, r := range []rune(t.text) {
			x := t.x + float64(i)*charW
			line = append(line, fakeChar{r: r, rect: types.Rect{X0: x, Y0: t.y, X1: x + charW, Y1: t.y + lineH}})
		}
		p.lines = append(p.lines, line)
	}
	return p
}

func (p *fakePage) Width() float64  { return p.w }
func (p *fakePage) Height() float64 { return p.h }

func (p *fakePage) Blocks() []types.TextBlock {
	var out []types.TextBlock
	for _, l := range p.lines {
		if len(l) == 0 {
			continue
		}
		var b strings.Builder
		r := l[0].rect
		for _, c := range l {
			b.WriteRune(c.r)
			r = r.Union(c.rect)
		}
		if strings.TrimSpace(b.String()) == "" {
			continue
		}
		out = append(out, types.TextBlock{Rect: r, Text: b.String()})
	}
	return out
}

func (p *fakePage) Graphics() []types.Rect { return p.graphics }

func (p *fakePage) Text() string {
	var parts []string
	for _, b := range p.Blocks() {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n")
}

func (p *fakePage) Search(s string) []types.Rect {
	pat := []rune(strings.ToLower(s))
	var hits []types.Rect
	for _, l := range p.lines {
		for i := 0; i+len(pat) <= len(l); i++ {
			match := true
			for j, r := range pat {
				if unicode.ToLower(l[i+j].r) != r {
					match = false
					break
				}
			}
			if match && len(pat) > 0 {
				hits = append(hits, l[i].rect.Union(l[i+len(pat)-1].rect))
			}
		}
	}
	return hits
}

func (p *fakePage) TextIn(r types.Rect) string {
	var b strings.Builder
	for _, l := range p.lines {
		for _, c := range l {
			cx, cy := (c.rect.X0+c.rect.X1)/2, (c.rect.Y0+c.rect.Y1)/2
			if cx >= r.X0 && cx <= r.X1 && cy >= r.Y0 && cy <= r.Y1 {
				b.WriteRune(c.r)
			}
		}
	}
	return b.String()
}

func (p *fakePage) AddRedaction(r types.Rect) { p.pending = append(p.pending, r) }

func (p *fakePage) ApplyRedactions() (int, error) {
	if len(p.pending) == 0 {
		return 0, nil
	}
	p.applies++
	for li, l := range p.lines {
		kept := l[:0]
		for _, c := range l {
			if !touches(c.rect, p.pending) {
				kept = append(kept, c)
			}
		}
		p.lines[li] = kept
	}
	var graphics []types.Rect
	for _, g := range p.graphics {
		if !touches(g, p.pending) {
			graphics = append(graphics, g)
		}
	}
	p.graphics = graphics
	n := len(p.pending)
	p.pending = nil
	return n, nil
}

func touches(r types.Rect, regions []types.Rect) bool {
	for _, reg := range regions {
		if reg.X0 <= r.X1 && r.X0 <= reg.X1 && reg.Y0 <= r.Y1 && r.Y0 <= reg.Y1 &&
			(reg.Intersects(r) || r.Height() == 0 || r.Width() == 0) {
			return true
		}
	}
	return false
}

// fakeDoc implements Document. Save writes each page's text separated by
// form feeds.
type fakeDoc struct {
	pages  []*fakePage
	closed bool
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) Page(i int) (Page, error) {
	if i < 0 || i >= len(d.pages) {
		return nil, errors.New("out of range")
	}
	return d.pages[i], nil
}

func (d *fakeDoc) DeletePage(i int) error {
	if i < 0 || i >= len(d.pages) {
		return errors.New("out of range")
	}
	d.pages = append(d.pages[:i], d.pages[i+1:]...)
	return nil
}

func (d *fakeDoc) Save(path string) error {
	if len(d.pages) == 0 {
		return errors.New("no pages")
	}
	parts := make([]string, len(d.pages))
	for i, p := range d.pages {
		parts[i] = p.Text()
	}
	return os.WriteFile(path, []byte(strings.Join(parts, "\f")), 0o644)
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}

func (d *fakeDoc) texts() []string {
	out := make([]string, len(d.pages))
	for i, p := range d.pages {
		out[i] = p.Text()
	}
	return out
}
