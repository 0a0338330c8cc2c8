// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

import (
	"math"
	"strings"

	"github.com/pdiddy/paperclean/pkg/types"
)

// Redactor computes redaction regions from a rule set. Region methods only
// read the page; Commit queues and applies them.
type Redactor struct {
	rules types.RuleSet
}

// NewRedactor returns a Redactor for rules.
func NewRedactor(rules types.RuleSet) *Redactor {
	return &Redactor{rules: rules}
}

// HeaderRegions returns the blocks that fall in the header band.
func (r *Redactor) HeaderRegions(p Page) []types.Rect {
	h := r.rules.HeaderHeight
	if h <= 0 {
		return nil
	}
	band := types.Rect{X0: 0, Y0: 0, X1: p.Width(), Y1: h}
	center := p.Width() / 2

	var out []types.Rect
	for _, b := range p.Blocks() {
		var hit bool
		switch r.rules.HeaderMode {
		case types.HeaderAbove:
			hit = b.Rect.Y1 <= h
		case types.HeaderCentered:
			hit = b.Rect.Y0 <= h && math.Abs(b.Rect.CenterX()-center) <= r.rules.CenterTolerance
		default:
			hit = b.Rect.Intersects(band)
		}
		if hit {
			out = append(out, b.Rect)
		}
	}
	return out
}

// LiteralRegions returns every case-insensitive occurrence of the literal
// strings.
func (r *Redactor) LiteralRegions(p Page) []types.Rect {
	var out []types.Rect
	for _, lit := range r.rules.Literals {
		if lit == "" {
			continue
		}
		out = append(out, p.Search(lit)...)
	}
	return out
}

// KeywordRegions returns the occurrences of the case-sensitive keywords
// whose matched text has exactly the keyword's spelling and case.
func (r *Redactor) KeywordRegions(p Page) []types.Rect {
	var out []types.Rect
	for _, kw := range r.rules.CaseSensitive {
		if kw == "" {
			continue
		}
		for _, hit := range p.Search(kw) {
			if strings.TrimSpace(p.TextIn(hit)) == kw {
				out = append(out, hit)
			}
		}
	}
	return out
}

// FooterRegions returns the last-page footer regions: thin elements in the
// bottom band and the blanket cut below the footer. When FooterText is set
// the cut starts FooterTextMargin above its first occurrence, and a page
// without that text gets no cut.
func (r *Redactor) FooterRegions(p Page) []types.Rect {
	w, h := p.Width(), p.Height()
	var out []types.Rect

	if band := r.rules.FooterRuleBand; band > 0 {
		top := h - band
		thin := func(rect types.Rect) bool {
			return rect.Y0 > top && rect.Height() < r.rules.RuleMaxHeight
		}
		for _, b := range p.Blocks() {
			if thin(b.Rect) {
				out = append(out, b.Rect)
			}
		}
		for _, g := range p.Graphics() {
			if thin(g) {
				out = append(out, pad(g))
			}
		}
	}

	if text := r.rules.FooterText; text != "" {
		hits := p.Search(text)
		if len(hits) > 0 {
			y := math.Max(0, hits[0].Y0-r.rules.FooterTextMargin)
			out = append(out, types.Rect{X0: 0, Y0: y, X1: w, Y1: h})
		}
	} else if off := r.rules.FooterCutoffOffset; off > 0 {
		out = append(out, types.Rect{X0: 0, Y0: math.Max(0, h-off), X1: w, Y1: h})
	}
	return out
}

// pad gives a zero-height or zero-width rule a paintable area.
func pad(g types.Rect) types.Rect {
	const half = 0.5
	if g.Height() < 2*half {
		g.Y0 -= half
		g.Y1 += half
	}
	if g.Width() < 2*half {
		g.X0 -= half
		g.X1 += half
	}
	return g
}

// Commit queues regions on p and applies them in one step.
func Commit(p Page, regions []types.Rect) (int, error) {
	if len(regions) == 0 {
		return 0, nil
	}
	for _, reg := range regions {
		p.AddRedaction(reg)
	}
	return p.ApplyRedactions()
}
