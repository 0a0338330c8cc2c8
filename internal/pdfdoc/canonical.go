// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// pdfcpu writes objects in dictionary map order and keeps the object numbers
// of its cross-reference table, so the same document can come out with a
// different layout on every write. canonicalize rewrites a classic
// (xref-table, no object streams) file so that objects are numbered 1..n in
// the order they are first referenced from the trailer and written in that
// order.

var errLayout = errors.New("unexpected pdf layout")

var (
	refPattern     = regexp.MustCompile(`(\d+)\s+(\d+)\s+R\b`)
	trailerRef     = regexp.MustCompile(`/(Root|Info)\s+(\d+)\s+\d+\s+R\b`)
	trailerID      = regexp.MustCompile(`/ID\s*\[[^\]]*\]`)
	objectHeader   = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s+obj`)
	startxrefToken = []byte("startxref")
)

// writtenFile is a parsed classic PDF: the bytes before the first object,
// each in-use object's body keyed by object number, and the trailer dict.
type writtenFile struct {
	header  []byte
	objects map[int][]byte
	trailer []byte
}

func parseWritten(data []byte) (*writtenFile, error) {
	sx := bytes.LastIndex(data, startxrefToken)
	if sx < 0 {
		return nil, fmt.Errorf("%w: missing startxref", errLayout)
	}
	fields := bytes.Fields(data[sx+len(startxrefToken):])
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: missing xref offset", errLayout)
	}
	xref, err := strconv.Atoi(string(fields[0]))
	if err != nil || xref < 0 || xref >= sx || !bytes.HasPrefix(data[xref:], []byte("xref")) {
		return nil, fmt.Errorf("%w: no xref table at startxref", errLayout)
	}
	tr := bytes.Index(data[xref:sx], []byte("trailer"))
	if tr < 0 {
		return nil, fmt.Errorf("%w: missing trailer", errLayout)
	}

	offsets := map[int]int{}
	entries := bytes.Fields(data[xref+len("xref") : xref+tr])
	for k := 0; k+1 < len(entries); {
		start, err1 := strconv.Atoi(string(entries[k]))
		count, err2 := strconv.Atoi(string(entries[k+1]))
		if err1 != nil || err2 != nil || k+2+3*count > len(entries) {
			return nil, fmt.Errorf("%w: malformed xref subsection", errLayout)
		}
		k += 2
		for j := 0; j < count; j, k = j+1, k+3 {
			off, err := strconv.Atoi(string(entries[k]))
			if err != nil {
				return nil, fmt.Errorf("%w: malformed xref entry", errLayout)
			}
			if string(entries[k+2]) == "n" && off > 0 {
				offsets[start+j] = off
			}
		}
	}
	if len(offsets) == 0 {
		return nil, fmt.Errorf("%w: no objects", errLayout)
	}

	nums := make([]int, 0, len(offsets))
	for n := range offsets {
		nums = append(nums, n)
	}
	sort.Slice(nums, func(a, b int) bool { return offsets[nums[a]] < offsets[nums[b]] })

	f := &writtenFile{
		header:  data[:offsets[nums[0]]],
		objects: make(map[int][]byte, len(nums)),
		trailer: data[xref+tr : sx],
	}
	for i, n := range nums {
		end := xref
		if i+1 < len(nums) {
			end = offsets[nums[i+1]]
		}
		chunk := data[offsets[n]:end]
		m := objectHeader.FindSubmatchIndex(chunk)
		if m == nil || string(chunk[m[2]:m[3]]) != strconv.Itoa(n) {
			return nil, fmt.Errorf("%w: object %d not at its xref offset", errLayout, n)
		}
		body := bytes.TrimSpace(chunk[m[1]:])
		body = bytes.TrimSpace(bytes.TrimSuffix(body, []byte("endobj")))
		f.objects[n] = body
	}
	return f, nil
}

// canonicalize renumbers and reorders the objects of data. Objects not
// reachable from the trailer are dropped; references to missing objects
// become null.
func canonicalize(data []byte) ([]byte, error) {
	f, err := parseWritten(data)
	if err != nil {
		return nil, err
	}

	var order []int
	number := map[int]int{}
	visit := func(n int) {
		if _, ok := f.objects[n]; !ok {
			return
		}
		if _, seen := number[n]; seen {
			return
		}
		number[n] = len(order) + 1
		order = append(order, n)
	}

	roots := map[string]int{}
	for _, m := range trailerRef.FindAllSubmatch(f.trailer, -1) {
		n, _ := strconv.Atoi(string(m[2]))
		roots[string(m[1])] = n
	}
	root, ok := roots["Root"]
	if !ok {
		return nil, fmt.Errorf("%w: trailer has no Root", errLayout)
	}
	visit(root)
	if _, ok := number[root]; !ok {
		return nil, fmt.Errorf("%w: Root object %d missing", errLayout, root)
	}
	info, hasInfo := roots["Info"]
	if hasInfo {
		visit(info)
	}
	for i := 0; i < len(order); i++ {
		mapRefs(f.objects[order[i]], func(n int) (int, bool) {
			visit(n)
			return n, true
		})
	}

	renumber := func(n int) (int, bool) {
		m, ok := number[n]
		return m, ok
	}

	var out bytes.Buffer
	out.Write(f.header)
	offsets := make([]int, len(order))
	for i, n := range order {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n", i+1)
		out.Write(mapRefs(f.objects[n], renumber))
		out.WriteString("\nendobj\n")
	}

	xref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(order)+1)
	out.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}

	out.WriteString("trailer\n<<")
	if id := trailerID.Find(f.trailer); id != nil {
		out.Write(id)
		out.WriteByte(' ')
	}
	if n, ok := number[info]; hasInfo && ok {
		fmt.Fprintf(&out, "/Info %d 0 R ", n)
	}
	fmt.Fprintf(&out, "/Root 1 0 R /Size %d>>\n", len(order)+1)
	fmt.Fprintf(&out, "startxref\n%d\n%%%%EOF\n", xref)
	return out.Bytes(), nil
}

// mapRefs returns body with every indirect reference "n g R" replaced by
// "fn(n) 0 R", or by null when fn reports false. Strings and stream data are
// copied unchanged.
func mapRefs(body []byte, fn func(n int) (int, bool)) []byte {
	end := len(body)
	if d := dictEnd(body); d > 0 && bytes.HasPrefix(bytes.TrimLeft(body[d:], " \t\r\n"), []byte("stream")) {
		end = d
	}

	var out bytes.Buffer
	code := 0
	for i := 0; i < end; {
		switch {
		case body[i] == '(':
			out.Write(rewriteRefs(body[code:i], fn))
			j := skipLiteralString(body, i, end)
			out.Write(body[i:j])
			i, code = j, j
		case body[i] == '<' && i+1 < end && body[i+1] == '<':
			i += 2
		case body[i] == '<':
			out.Write(rewriteRefs(body[code:i], fn))
			j := i + 1
			for j < end && body[j] != '>' {
				j++
			}
			if j < end {
				j++
			}
			out.Write(body[i:j])
			i, code = j, j
		default:
			i++
		}
	}
	out.Write(rewriteRefs(body[code:end], fn))
	out.Write(body[end:])
	return out.Bytes()
}

func rewriteRefs(code []byte, fn func(n int) (int, bool)) []byte {
	return refPattern.ReplaceAllFunc(code, func(m []byte) []byte {
		sub := refPattern.FindSubmatch(m)
		n, err := strconv.Atoi(string(sub[1]))
		if err != nil {
			return m
		}
		if to, ok := fn(n); ok {
			return []byte(strconv.Itoa(to) + " 0 R")
		}
		return []byte("null")
	})
}

// dictEnd returns the index just past the dictionary that opens body, or -1
// when body does not start with one.
func dictEnd(body []byte) int {
	i := 0
	for i < len(body) && isSpace(body[i]) {
		i++
	}
	if !bytes.HasPrefix(body[i:], []byte("<<")) {
		return -1
	}
	depth := 0
	for i < len(body) {
		switch {
		case body[i] == '(':
			i = skipLiteralString(body, i, len(body))
		case bytes.HasPrefix(body[i:], []byte("<<")):
			depth++
			i += 2
		case body[i] == '<':
			for i < len(body) && body[i] != '>' {
				i++
			}
			i++
		case bytes.HasPrefix(body[i:], []byte(">>")):
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return -1
}

// skipLiteralString returns the index just past the literal string starting
// at body[i], honouring escapes and balanced parentheses.
func skipLiteralString(body []byte, i, end int) int {
	depth := 0
	for ; i < end; i++ {
		switch body[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return end
}
