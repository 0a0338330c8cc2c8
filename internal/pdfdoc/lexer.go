// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

type operandKind int

const (
	kindNumber operandKind = iota
	kindString
	kindName
	kindArray
	kindDict
	kindKeyword
)

// operand is one content-stream operand. raw holds the exact bytes the
// operand occupied so untouched operations are written back unchanged.
type operand struct {
	kind  operandKind
	raw   []byte
	num   float64
	str   []byte
	elems []operand
}

// op is a content-stream operation. Inline images are kept as a single op
// named "BI" whose raw bytes span BI through EI.
type op struct {
	name string
	args []operand
	raw  []byte
}

func (o op) appendTo(b []byte) []byte {
	if o.raw != nil {
		b = append(b, o.raw...)
		return append(b, '\n')
	}
	for _, a := range o.args {
		b = append(b, a.raw...)
		b = append(b, ' ')
	}
	b = append(b, o.name...)
	return append(b, '\n')
}

func serialize(ops []op) []byte {
	var b []byte
	for _, o := range ops {
		b = o.appendTo(b)
	}
	return b
}

func numberOperand(v float64) operand {
	return operand{kind: kindNumber, num: v, raw: []byte(formatNumber(v))}
}

func stringOperand(s []byte) operand {
	raw := make([]byte, 0, 2*len(s)+2)
	raw = append(raw, '<')
	raw = append(raw, hex.EncodeToString(s)...)
	raw = append(raw, '>')
	return operand{kind: kindString, str: s, raw: raw}
}

func arrayOperand(elems []operand) operand {
	var raw []byte
	raw = append(raw, '[')
	for i, e := range elems {
		if i > 0 {
			raw = append(raw, ' ')
		}
		raw = append(raw, e.raw...)
	}
	raw = append(raw, ']')
	return operand{kind: kindArray, elems: elems, raw: raw}
}

// formatNumber writes v with at most four decimals and no trailing zeros.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

type lexer struct {
	data []byte
	pos  int
}

// parseContent splits a decoded content stream into operations.
func parseContent(data []byte) ([]op, error) {
	l := &lexer{data: data}
	var (
		ops   []op
		stack []operand
	)
	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			break
		}
		c := l.data[l.pos]
		if isRegular(c) && !isNumberStart(c) {
			start := l.pos
			word := l.readRegular()
			switch word {
			case "true", "false", "null":
				stack = append(stack, operand{kind: kindKeyword, raw: l.data[start:l.pos]})
			case "BI":
				raw, err := l.readInlineImage(start)
				if err != nil {
					return nil, err
				}
				ops = append(ops, op{name: "BI", raw: raw})
				stack = nil
			default:
				ops = append(ops, op{name: word, args: stack})
				stack = nil
			}
			continue
		}
		o, err := l.readOperand()
		if err != nil {
			return nil, err
		}
		stack = append(stack, o)
	}
	return ops, nil
}

func (l *lexer) readOperand() (operand, error) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return operand{}, fmt.Errorf("unexpected end of content stream")
	}
	start := l.pos
	c := l.data[l.pos]
	switch {
	case c == '(':
		s, err := l.readLiteral()
		if err != nil {
			return operand{}, err
		}
		return operand{kind: kindString, str: s, raw: l.data[start:l.pos]}, nil
	case c == '<' && l.peek(1) == '<':
		if err := l.skipDict(); err != nil {
			return operand{}, err
		}
		return operand{kind: kindDict, raw: l.data[start:l.pos]}, nil
	case c == '<':
		s, err := l.readHex()
		if err != nil {
			return operand{}, err
		}
		return operand{kind: kindString, str: s, raw: l.data[start:l.pos]}, nil
	case c == '[':
		l.pos++
		var elems []operand
		for {
			l.skipSpace()
			if l.pos >= len(l.data) {
				return operand{}, fmt.Errorf("unterminated array at offset %d", start)
			}
			if l.data[l.pos] == ']' {
				l.pos++
				break
			}
			if isRegular(l.data[l.pos]) && !isNumberStart(l.data[l.pos]) {
				kwStart := l.pos
				l.readRegular()
				elems = append(elems, operand{kind: kindKeyword, raw: l.data[kwStart:l.pos]})
				continue
			}
			e, err := l.readOperand()
			if err != nil {
				return operand{}, err
			}
			elems = append(elems, e)
		}
		return operand{kind: kindArray, elems: elems, raw: l.data[start:l.pos]}, nil
	case c == '/':
		l.pos++
		for l.pos < len(l.data) && isRegular(l.data[l.pos]) {
			l.pos++
		}
		return operand{kind: kindName, raw: l.data[start:l.pos], str: l.data[start+1 : l.pos]}, nil
	case isNumberStart(c):
		l.pos++
		for l.pos < len(l.data) && isRegular(l.data[l.pos]) {
			l.pos++
		}
		raw := l.data[start:l.pos]
		v, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			v = 0
		}
		return operand{kind: kindNumber, num: v, raw: raw}, nil
	default:
		return operand{}, fmt.Errorf("unexpected byte %q at offset %d", c, l.pos)
	}
}

func (l *lexer) peek(n int) byte {
	if l.pos+n < len(l.data) {
		return l.data[l.pos+n]
	}
	return 0
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		if !isSpace(c) {
			return
		}
		l.pos++
	}
}

func (l *lexer) readRegular() string {
	start := l.pos
	for l.pos < len(l.data) && isRegular(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

func (l *lexer) readLiteral() ([]byte, error) {
	start := l.pos
	l.pos++
	depth := 1
	var out []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '\\':
			if l.pos >= len(l.data) {
				return nil, fmt.Errorf("unterminated string at offset %d", start)
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && l.pos < len(l.data); i++ {
						d := l.data[l.pos]
						if d < '0' || d > '7' {
							break
						}
						v = v*8 + int(d-'0')
						l.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out, nil
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return nil, fmt.Errorf("unterminated string at offset %d", start)
}

func (l *lexer) readHex() ([]byte, error) {
	start := l.pos
	l.pos++
	var digits []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			if len(digits)%2 == 1 {
				digits = append(digits, '0')
			}
			out := make([]byte, len(digits)/2)
			if _, err := hex.Decode(out, digits); err != nil {
				return nil, fmt.Errorf("hex string at offset %d: %w", start, err)
			}
			return out, nil
		}
		if isSpace(c) {
			continue
		}
		digits = append(digits, c)
	}
	return nil, fmt.Errorf("unterminated hex string at offset %d", start)
}

func (l *lexer) skipDict() error {
	start := l.pos
	depth := 0
	for l.pos < len(l.data) {
		switch {
		case l.data[l.pos] == '<' && l.peek(1) == '<':
			depth++
			l.pos += 2
		case l.data[l.pos] == '>' && l.peek(1) == '>':
			depth--
			l.pos += 2
			if depth == 0 {
				return nil
			}
		case l.data[l.pos] == '(':
			if _, err := l.readLiteral(); err != nil {
				return err
			}
		default:
			l.pos++
		}
	}
	return fmt.Errorf("unterminated dictionary at offset %d", start)
}

// readInlineImage consumes an inline image starting at the BI keyword and
// returns its raw bytes through the closing EI.
func (l *lexer) readInlineImage(start int) ([]byte, error) {
	idx := bytes.Index(l.data[l.pos:], []byte("ID"))
	if idx < 0 {
		return nil, fmt.Errorf("inline image without ID at offset %d", start)
	}
	p := l.pos + idx + 3
	for p < len(l.data) {
		i := bytes.Index(l.data[p:], []byte("EI"))
		if i < 0 {
			break
		}
		end := p + i
		before := end == 0 || isSpace(l.data[end-1])
		after := end+2 >= len(l.data) || isSpace(l.data[end+2])
		if before && after {
			l.pos = end + 2
			return l.data[start:l.pos], nil
		}
		p = end + 2
	}
	return nil, fmt.Errorf("inline image without EI at offset %d", start)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(c byte) bool {
	return !isSpace(c) && !isDelimiter(c)
}

func isNumberStart(c byte) bool {
	return c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')
}
