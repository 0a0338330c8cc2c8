// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"encoding/hex"
	"regexp"
	"strconv"

	"golang.org/x/text/encoding/unicode"
)

// maxRange bounds a single bfrange so malformed CMaps cannot stall parsing.
const maxRange = 0xFFFF

var (
	bfcharSection  = regexp.MustCompile(`(?s)beginbfchar(.*?)endbfchar`)
	bfrangeSection = regexp.MustCompile(`(?s)beginbfrange(.*?)endbfrange`)
	hexPair        = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]*)>`)
	hexRange       = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]*)>`)
	hexArrayRange  = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]+)>\s*\[([^\]]*)\]`)
	hexValue       = regexp.MustCompile(`<([0-9A-Fa-f]*)>`)
)

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// toUnicode maps character codes to the text they represent.
type toUnicode map[int]string

// parseToUnicode reads the bfchar and bfrange sections of a ToUnicode CMap.
func parseToUnicode(data []byte) toUnicode {
	m := toUnicode{}
	content := string(data)

	for _, section := range bfcharSection.FindAllStringSubmatch(content, -1) {
		for _, p := range hexPair.FindAllStringSubmatch(section[1], -1) {
			m[hexInt(p[1])] = decodeUTF16(p[2])
		}
	}

	for _, section := range bfrangeSection.FindAllStringSubmatch(content, -1) {
		body := section[1]
		for _, r := range hexArrayRange.FindAllStringSubmatch(body, -1) {
			low, high := hexInt(r[1]), hexInt(r[2])
			values := hexValue.FindAllStringSubmatch(r[3], -1)
			for i, code := 0, low; code <= high && i < len(values); i, code = i+1, code+1 {
				m[code] = decodeUTF16(values[i][1])
			}
		}
		body = hexArrayRange.ReplaceAllString(body, "")
		for _, r := range hexRange.FindAllStringSubmatch(body, -1) {
			low, high := hexInt(r[1]), hexInt(r[2])
			if high < low || high-low > maxRange {
				continue
			}
			dst, err := hex.DecodeString(evenHex(r[3]))
			if err != nil || len(dst) == 0 {
				continue
			}
			for code := low; code <= high; code++ {
				m[code] = decodeUTF16Bytes(dst)
				increment(dst)
			}
		}
	}
	return m
}

func hexInt(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}

func evenHex(s string) string {
	if len(s)%2 == 1 {
		return s + "0"
	}
	return s
}

func decodeUTF16(s string) string {
	b, err := hex.DecodeString(evenHex(s))
	if err != nil {
		return ""
	}
	return decodeUTF16Bytes(b)
}

func decodeUTF16Bytes(b []byte) string {
	out, err := utf16be.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// increment adds one to b read as a big-endian number.
func increment(b []byte) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i]++
		if b[i] != 0 {
			return
		}
	}
}
