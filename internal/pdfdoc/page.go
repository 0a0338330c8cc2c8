// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/paperclean/pkg/types"
)

// thinPath is the largest extent, in points, of a path treated as a line
// stroke. Thin paths touching a redaction are removed; larger shapes are
// removed only when the redaction covers them completely.
const thinPath = 5.0

// Page is one page of a Document. Text and geometry queries reflect every
// redaction applied so far.
type Page struct {
	width, height float64
	frame         frame
	fonts         fontSet
	fill          float64

	ops       []op
	fillStart int
	wrapped   bool
	dirty     bool

	pending []types.Rect
	cache   *analysis
}

type analysis struct {
	interp interpretation
	lines  []line
	blocks []block
}

// newPage parses content for a page whose visible box spans width x height
// and whose user-space top-left corner is (left, top).
func newPage(content []byte, width, height, left, top float64, fonts fontSet, fill float64) (*Page, error) {
	ops, err := parseContent(content)
	if err != nil {
		return nil, fmt.Errorf("parsing content stream: %w", err)
	}
	return &Page{
		width:     width,
		height:    height,
		frame:     frame{left: left, top: top},
		fonts:     fonts,
		fill:      fill,
		ops:       ops,
		fillStart: len(ops),
	}, nil
}

// Width returns the page width in points.
func (p *Page) Width() float64 { return p.width }

// Height returns the page height in points.
func (p *Page) Height() float64 { return p.height }

func (p *Page) analyze() *analysis {
	if p.cache == nil {
		in := interpret(p.ops, p.fonts, p.frame)
		lines := buildLines(in.glyphs)
		p.cache = &analysis{interp: in, lines: lines, blocks: buildBlocks(lines)}
	}
	return p.cache
}

// Blocks returns the text blocks of the page in content order.
func (p *Page) Blocks() []types.TextBlock {
	an := p.analyze()
	out := make([]types.TextBlock, len(an.blocks))
	for i, b := range an.blocks {
		out[i] = types.TextBlock{Rect: b.rect, Text: b.text()}
	}
	return out
}

// Graphics returns the bounding boxes of painted paths, excluding the fills
// drawn over applied redactions.
func (p *Page) Graphics() []types.Rect {
	var out []types.Rect
	for _, pp := range p.analyze().interp.paths {
		if pp.op < p.fillStart {
			out = append(out, pp.rect)
		}
	}
	return out
}

// Text returns the page text, one block per paragraph.
func (p *Page) Text() string {
	an := p.analyze()
	parts := make([]string, len(an.blocks))
	for i, b := range an.blocks {
		parts[i] = b.text()
	}
	return strings.Join(parts, "\n")
}

// Search returns the rectangles of all case-insensitive occurrences of s.
func (p *Page) Search(s string) []types.Rect {
	return search(p.analyze().lines, s)
}

// TextIn returns the text whose characters are centred inside r.
func (p *Page) TextIn(r types.Rect) string {
	return textIn(p.analyze().lines, r)
}

// AddRedaction queues r. Nothing changes until ApplyRedactions.
func (p *Page) AddRedaction(r types.Rect) {
	if r.IsEmpty() {
		return
	}
	p.pending = append(p.pending, r)
}

// ApplyRedactions removes every glyph and line art touched by a queued
// region, paints the regions with the fill colour, and clears the queue.
// It returns the number of regions applied.
func (p *Page) ApplyRedactions() (int, error) {
	if len(p.pending) == 0 {
		return 0, nil
	}
	regions := p.pending
	an := p.analyze()

	removed := map[int][]glyph{}
	for _, g := range an.interp.glyphs {
		if hitsAny(g.rect, regions) {
			removed[g.op] = append(removed[g.op], g)
		}
	}
	dropped := map[int]bool{}
	for _, pp := range an.interp.paths {
		if pp.op >= p.fillStart {
			continue
		}
		for _, r := range regions {
			thin := pp.rect.Height() <= thinPath || pp.rect.Width() <= thinPath
			if r.Contains(pp.rect) || (thin && overlaps(r, pp.rect)) {
				dropped[pp.op] = true
				break
			}
		}
	}

	var ops []op
	if !p.wrapped {
		ops = append(ops, op{name: "q"})
	}
	for i, o := range p.ops {
		switch {
		case dropped[i]:
			ops = append(ops, op{name: "n"})
		case len(removed[i]) > 0:
			ops = append(ops, rewriteShow(o, removed[i])...)
		default:
			ops = append(ops, o)
		}
		if i == p.fillStart-1 && !p.wrapped {
			ops = append(ops, op{name: "Q"})
		}
	}
	if !p.wrapped {
		if p.fillStart == 0 {
			ops = append(ops, op{name: "Q"})
		}
		p.fillStart = len(ops)
		p.wrapped = true
	}

	ops = append(ops, op{name: "q"}, op{name: "g", args: []operand{numberOperand(p.fill)}})
	for _, r := range regions {
		ops = append(ops, op{name: "re", args: []operand{
			numberOperand(r.X0 + p.frame.left),
			numberOperand(p.frame.top - r.Y1),
			numberOperand(r.Width()),
			numberOperand(r.Height()),
		}}, op{name: "f"})
	}
	ops = append(ops, op{name: "Q"})

	p.ops = ops
	p.pending = nil
	p.cache = nil
	p.dirty = true
	return len(regions), nil
}

// Content returns the current content stream.
func (p *Page) Content() []byte {
	return serialize(p.ops)
}

func hitsAny(r types.Rect, regions []types.Rect) bool {
	for _, reg := range regions {
		if overlaps(reg, r) {
			return true
		}
	}
	return false
}

// overlaps is Intersects extended to degenerate rectangles such as
// horizontal rules of zero height.
func overlaps(r, o types.Rect) bool {
	return r.X0 <= o.X1 && o.X0 <= r.X1 && r.Y0 <= o.Y1 && o.Y0 <= r.Y1 &&
		(r.Intersects(o) || o.Width() == 0 || o.Height() == 0)
}

// rewriteShow replaces the removed codes of a text-showing op with
// negative TJ offsets of the same advance, so the remaining glyphs keep
// their positions.
func rewriteShow(o op, removed []glyph) []op {
	if len(o.args) == 0 {
		return []op{o}
	}
	byElem := map[int][]glyph{}
	for _, g := range removed {
		byElem[g.elem] = append(byElem[g.elem], g)
	}

	var out []operand
	push := func(n float64) {
		if k := len(out); k > 0 && out[k-1].kind == kindNumber {
			out[k-1] = numberOperand(out[k-1].num + n)
			return
		}
		out = append(out, numberOperand(n))
	}
	cut := func(s []byte, gs []glyph) {
		sort.Slice(gs, func(i, j int) bool { return gs[i].start < gs[j].start })
		cur := 0
		for _, g := range gs {
			if g.start > cur {
				out = append(out, stringOperand(s[cur:g.start]))
			}
			push(-g.advance)
			cur = g.end
		}
		if cur < len(s) {
			out = append(out, stringOperand(s[cur:]))
		}
	}

	last := o.args[len(o.args)-1]
	if o.name == "TJ" {
		for j, e := range last.elems {
			gs := byElem[j]
			switch {
			case e.kind == kindString && len(gs) > 0:
				cut(e.str, gs)
			case e.kind == kindNumber:
				if k := len(out); k > 0 && out[k-1].kind == kindNumber {
					push(e.num)
				} else {
					out = append(out, e)
				}
			default:
				out = append(out, e)
			}
		}
	} else {
		cut(last.str, byElem[-1])
	}

	tj := op{name: "TJ", args: []operand{arrayOperand(out)}}
	switch o.name {
	case "'":
		return []op{{name: "T*"}, tj}
	case "\"":
		return []op{
			{name: "Tw", args: []operand{o.args[0]}},
			{name: "Tc", args: []operand{o.args[1]}},
			{name: "T*"},
			tj,
		}
	default:
		return []op{tj}
	}
}
