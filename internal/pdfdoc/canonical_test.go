// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classic writes objs as a classic PDF, placing the objects in the given
// order regardless of their numbers.
func classic(objs map[int]string, order []int, trailer string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	offsets := map[int]int{}
	size := 0
	for _, n := range order {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, objs[n])
		if n+1 > size {
			size = n + 1
		}
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", size)
	for n := 1; n < size; n++ {
		if off, ok := offsets[n]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 00000 f \n")
		}
	}
	fmt.Fprintf(&buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, xref)
	return buf.Bytes()
}

const testContent = "BT /F1 12 Tf 72 700 Td (see 9 0 R) Tj ET"

func onePage(catalog, pages, font, page, content int) map[int]string {
	return map[int]string{
		catalog: fmt.Sprintf("<</Pages %d 0 R/Type/Catalog>>", pages),
		pages:   fmt.Sprintf("<</Count 1/Kids[%d 0 R]/Type/Pages>>", page),
		font:    "<</BaseFont/Helvetica/Encoding/WinAnsiEncoding/Subtype/Type1/Type/Font>>",
		page: fmt.Sprintf("<</Contents %d 0 R/MediaBox[0 0 595 842]/Parent %d 0 R/Resources<</Font<</F1 %d 0 R>>>>/Type/Page>>",
			content, pages, font),
		content: fmt.Sprintf("<</Length %d>>\nstream\n%s\nendstream", len(testContent), testContent),
	}
}

func TestCanonicalize_IgnoresNumberingAndOrder(t *testing.T) {
	a := onePage(1, 2, 3, 4, 5)
	b := onePage(7, 3, 9, 2, 5)
	b[8] = "<</Orphan true>>"

	outA, err := canonicalize(classic(a, []int{1, 2, 3, 4, 5}, "<</ID[<AB> <AB>]/Root 1 0 R/Size 6>>"))
	require.NoError(t, err)
	outB, err := canonicalize(classic(b, []int{5, 8, 2, 9, 3, 7}, "<</ID[<AB> <AB>]/Root 7 0 R/Size 10>>"))
	require.NoError(t, err)

	assert.Equal(t, string(outA), string(outB))
	assert.NotContains(t, string(outB), "Orphan", "unreachable objects are dropped")
	assert.Contains(t, string(outA), "1 0 obj\n<</Pages 2 0 R/Type/Catalog>>")
	assert.Contains(t, string(outA), "3 0 obj\n<</Contents 4 0 R", "objects are numbered in reference order")
	assert.Contains(t, string(outA), "(see 9 0 R)", "stream data is not renumbered")
	assert.Contains(t, string(outA), "/ID[<AB> <AB>] /Root 1 0 R /Size 6>>")

	again, err := canonicalize(outA)
	require.NoError(t, err)
	assert.Equal(t, string(outA), string(again))
}

func TestCanonicalize_Readable(t *testing.T) {
	data, err := canonicalize(classic(onePage(4, 1, 2, 3, 5), []int{3, 5, 1, 4, 2}, "<</Root 4 0 R/Size 6>>"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "canonical.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	doc, err := Open(path)
	require.NoError(t, err)
	defer doc.Close()
	require.Equal(t, 1, doc.PageCount())
	p, err := doc.Page(0)
	require.NoError(t, err)
	assert.Equal(t, "see 9 0 R", strings.TrimSpace(p.Text()))
}

func TestCanonicalize_Errors(t *testing.T) {
	_, err := canonicalize([]byte("%PDF-1.7\nnot a pdf"))
	assert.ErrorIs(t, err, errLayout)

	objs := onePage(1, 2, 3, 4, 5)
	_, err = canonicalize(classic(objs, []int{1, 2, 3, 4, 5}, "<</Size 6>>"))
	assert.ErrorIs(t, err, errLayout, "trailer without Root")
}

func TestMapRefs(t *testing.T) {
	renumber := func(n int) (int, bool) {
		if n == 4 {
			return 0, false
		}
		return n * 10, true
	}
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dict", "<</A 1 0 R/B[2 0 R 3 0 R]>>", "<</A 10 0 R/B[20 0 R 30 0 R]>>"},
		{"missing object", "[1 0 R 4 0 R]", "[10 0 R null]"},
		{"literal string", "<</T(1 0 R \\) 2 0 R)/P 2 0 R>>", "<</T(1 0 R \\) 2 0 R)/P 20 0 R>>"},
		{"hex string", "<</H<31203020 52>/P 3 0 R>>", "<</H<31203020 52>/P 30 0 R>>"},
		{"stream", "<</Length 5 0 R>>\nstream\n1 0 R\nendstream", "<</Length 50 0 R>>\nstream\n1 0 R\nendstream"},
		{"numbers", "[0 0 612 792]", "[0 0 612 792]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(mapRefs([]byte(tt.in), renumber)))
		})
	}
}
