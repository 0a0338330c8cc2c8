// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"math"

	"github.com/pdiddy/paperclean/pkg/types"
)

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

func translate(tx, ty float64) matrix { return matrix{1, 0, 0, 1, tx, ty} }

// mul returns m followed by n.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func matrixFrom(args []operand) (matrix, bool) {
	if len(args) < 6 {
		return identity, false
	}
	var m matrix
	for i := range m {
		m[i] = args[len(args)-6+i].num
	}
	return m, true
}

// frame maps PDF user space onto the top-left page space of types.Rect.
type frame struct {
	left, top float64
}

func (f frame) rect(xs, ys []float64) types.Rect {
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for i := range xs {
		x0, x1 = math.Min(x0, xs[i]), math.Max(x1, xs[i])
		y0, y1 = math.Min(y0, ys[i]), math.Max(y1, ys[i])
	}
	return types.Rect{X0: x0 - f.left, Y0: f.top - y1, X1: x1 - f.left, Y1: f.top - y0}
}

// glyph is one shown character code.
type glyph struct {
	op    int // index of the showing op
	elem  int // array element for TJ, -1 otherwise
	start int // byte range of the code within the string operand
	end   int
	text  string
	rect  types.Rect
	// advance is the displacement of the code in TJ units (thousandths of
	// text space), used to keep following glyphs in place when the code is
	// removed.
	advance float64
}

// pathPaint is one painted path.
type pathPaint struct {
	op   int
	rect types.Rect
}

type textState struct {
	font      *font
	size      float64
	charSpace float64
	wordSpace float64
	scale     float64
	leading   float64
	rise      float64
}

type gstate struct {
	ctm  matrix
	text textState
}

// interpretation is the result of running a content stream.
type interpretation struct {
	glyphs []glyph
	paths  []pathPaint
}

// Glyph extents relative to the baseline, in text space units of one em.
const (
	glyphDescent = -0.2
	glyphAscent  = 0.8
)

// interpret runs ops and records the page-space position of every shown
// glyph and painted path.
func interpret(ops []op, fonts fontSet, fr frame) interpretation {
	var (
		res    interpretation
		gs     = gstate{ctm: identity, text: textState{scale: 1, font: fonts.lookup("")}}
		stack  []gstate
		tm     = identity
		tlm    = identity
		xs, ys []float64
	)

	show := func(opIdx, elem int, s []byte) {
		ts := gs.text
		for _, c := range ts.font.codes(s) {
			w0 := ts.font.width(c.value)
			trm := matrix{ts.size * ts.scale, 0, 0, ts.size, 0, ts.rise}.mul(tm).mul(gs.ctm)
			var bx, by []float64
			for _, p := range [][2]float64{{0, glyphDescent}, {w0 / 1000, glyphDescent}, {0, glyphAscent}, {w0 / 1000, glyphAscent}} {
				x, y := trm.apply(p[0], p[1])
				bx, by = append(bx, x), append(by, y)
			}

			spacing := ts.charSpace
			if ts.font.isSpace(c.value) {
				spacing += ts.wordSpace
			}
			advance := w0
			if ts.size != 0 {
				advance += spacing * 1000 / ts.size
			}
			res.glyphs = append(res.glyphs, glyph{
				op: opIdx, elem: elem, start: c.start, end: c.end,
				text:    ts.font.text(c.value),
				rect:    fr.rect(bx, by),
				advance: advance,
			})

			tx := (w0/1000*ts.size + spacing) * ts.scale
			tm = translate(tx, 0).mul(tm)
		}
	}

	nextLine := func(tx, ty float64) {
		tlm = translate(tx, ty).mul(tlm)
		tm = tlm
	}

	for i, o := range ops {
		a := o.args
		switch o.name {
		case "q":
			stack = append(stack, gs)
		case "Q":
			if n := len(stack); n > 0 {
				gs = stack[n-1]
				stack = stack[:n-1]
			}
		case "cm":
			if m, ok := matrixFrom(a); ok {
				gs.ctm = m.mul(gs.ctm)
			}
		case "BT":
			tm, tlm = identity, identity
		case "Tf":
			if len(a) >= 2 {
				gs.text.font = fonts.lookup(string(a[0].str))
				gs.text.size = a[1].num
			}
		case "Tc":
			if len(a) >= 1 {
				gs.text.charSpace = a[0].num
			}
		case "Tw":
			if len(a) >= 1 {
				gs.text.wordSpace = a[0].num
			}
		case "Tz":
			if len(a) >= 1 {
				gs.text.scale = a[0].num / 100
			}
		case "TL":
			if len(a) >= 1 {
				gs.text.leading = a[0].num
			}
		case "Ts":
			if len(a) >= 1 {
				gs.text.rise = a[0].num
			}
		case "Tm":
			if m, ok := matrixFrom(a); ok {
				tm, tlm = m, m
			}
		case "Td":
			if len(a) >= 2 {
				nextLine(a[0].num, a[1].num)
			}
		case "TD":
			if len(a) >= 2 {
				gs.text.leading = -a[1].num
				nextLine(a[0].num, a[1].num)
			}
		case "T*":
			nextLine(0, -gs.text.leading)
		case "Tj":
			if len(a) >= 1 {
				show(i, -1, a[len(a)-1].str)
			}
		case "'":
			nextLine(0, -gs.text.leading)
			if len(a) >= 1 {
				show(i, -1, a[len(a)-1].str)
			}
		case "\"":
			if len(a) >= 3 {
				gs.text.wordSpace = a[0].num
				gs.text.charSpace = a[1].num
				nextLine(0, -gs.text.leading)
				show(i, -1, a[2].str)
			}
		case "TJ":
			if len(a) < 1 {
				continue
			}
			for j, e := range a[len(a)-1].elems {
				switch e.kind {
				case kindString:
					show(i, j, e.str)
				case kindNumber:
					tx := -e.num / 1000 * gs.text.size * gs.text.scale
					tm = translate(tx, 0).mul(tm)
				}
			}
		case "m", "l":
			if len(a) >= 2 {
				x, y := gs.ctm.apply(a[len(a)-2].num, a[len(a)-1].num)
				xs, ys = append(xs, x), append(ys, y)
			}
		case "c", "v", "y":
			for j := 0; j+1 < len(a); j += 2 {
				x, y := gs.ctm.apply(a[j].num, a[j+1].num)
				xs, ys = append(xs, x), append(ys, y)
			}
		case "re":
			if len(a) >= 4 {
				x, y, w, h := a[0].num, a[1].num, a[2].num, a[3].num
				for _, p := range [][2]float64{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
					px, py := gs.ctm.apply(p[0], p[1])
					xs, ys = append(xs, px), append(ys, py)
				}
			}
		case "S", "s", "f", "F", "f*", "B", "B*", "b", "b*":
			if len(xs) > 0 {
				res.paths = append(res.paths, pathPaint{op: i, rect: fr.rect(xs, ys)})
			}
			xs, ys = nil, nil
		case "n":
			xs, ys = nil, nil
		}
	}
	return res
}
