// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"golang.org/x/text/encoding/charmap"
)

// defaultWidth is the glyph width, in thousandths of an em, used when a
// font carries no width for a code.
const defaultWidth = 500

// font holds what the interpreter needs from a font resource: how to split
// a string into codes, each code's advance width and its Unicode text.
type font struct {
	// twoByte is set for Type0 fonts with a two-byte encoding.
	twoByte bool

	widths       map[int]float64
	defaultWidth float64

	// encoding decodes single-byte codes lacking a ToUnicode entry.
	encoding *charmap.Charmap

	unicode toUnicode
}

func newSimpleFont() *font {
	return &font{
		widths:       map[int]float64{},
		defaultWidth: defaultWidth,
		encoding:     charmap.Windows1252,
	}
}

// code is one character code read from a shown string.
type code struct {
	value      int
	start, end int
}

func (f *font) codes(s []byte) []code {
	step := 1
	if f.twoByte {
		step = 2
	}
	out := make([]code, 0, len(s)/step)
	for i := 0; i < len(s); i += step {
		end := i + step
		if end > len(s) {
			end = len(s)
		}
		v := 0
		for _, b := range s[i:end] {
			v = v<<8 | int(b)
		}
		out = append(out, code{value: v, start: i, end: end})
	}
	return out
}

func (f *font) width(c int) float64 {
	if w, ok := f.widths[c]; ok {
		return w
	}
	return f.defaultWidth
}

func (f *font) text(c int) string {
	if s, ok := f.unicode[c]; ok {
		return s
	}
	if f.twoByte {
		if c < 0x20 {
			return ""
		}
		return string(rune(c))
	}
	if c < 0x20 {
		return ""
	}
	if f.encoding != nil {
		return string(f.encoding.DecodeByte(byte(c)))
	}
	return string(rune(c))
}

// isSpace reports whether word spacing applies to c.
func (f *font) isSpace(c int) bool {
	return !f.twoByte && c == 32
}

// encodingByName maps the predefined simple-font encodings to charmaps.
func encodingByName(name string) *charmap.Charmap {
	switch name {
	case "MacRomanEncoding":
		return charmap.Macintosh
	default:
		return charmap.Windows1252
	}
}

// fontSet resolves font resource names used by Tf.
type fontSet map[string]*font

func (fs fontSet) lookup(name string) *font {
	if f, ok := fs[name]; ok && f != nil {
		return f
	}
	return newSimpleFont()
}
