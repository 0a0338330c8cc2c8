// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfdoctest writes small, valid PDF files for tests.
package pdfdoctest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Page size used by Write (US Letter).
const (
	Width  = 612.0
	Height = 792.0
)

// Line is a line of text placed with its baseline Y points from the page
// bottom, in 10 pt Helvetica.
type Line struct {
	X, Y float64
	Text string
}

// Text returns a content stream showing lines.
func Text(lines ...Line) string {
	var b strings.Builder
	b.WriteString("BT\n/F1 10 Tf\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "1 0 0 1 %g %g Tm\n(%s) Tj\n", l.X, l.Y, escape(l.Text))
	}
	b.WriteString("ET\n")
	return b.String()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// Write creates a PDF at path with one page per content stream. Every page
// has a Helvetica font resource named F1.
func Write(path string, contents ...string) error {
	return os.WriteFile(path, Build(contents...), 0o644)
}

// Build returns the bytes of a PDF with one page per content stream.
func Build(contents ...string) []byte {
	n := len(contents)
	// Objects: 1 catalog, 2 pages, 3 font, then a page and content pair per page.
	objects := make([]string, 0, 3+2*n)
	kids := make([]string, n)
	for i := range contents {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, c := range contents {
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
				Width, Height, 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(c), c),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, o := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
