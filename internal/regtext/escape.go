package regtext

import (
	"bytes"
	"fmt"
	"strings"
)

// unescapeString undoes the \\ and \" escapes regedit applies to quoted
// names and string data.
func unescapeString(s string) string {
	if strings.IndexByte(s, '\\') == -1 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, Backslash, EscapedBackslash)
	return strings.ReplaceAll(s, Quote, EscapedQuote)
}

// findClosingQuote returns the index of the quote closing the one at
// position 0, skipping quotes preceded by an odd number of backslashes.
func findClosingQuote(line string) int {
	for i := 1; i < len(line); i++ {
		if line[i] != '"' {
			continue
		}
		n := 0
		for j := i - 1; j >= 0 && line[j] == '\\'; j-- {
			n++
		}
		if n%2 == 0 {
			return i
		}
	}
	return -1
}

// parseHexBytes decodes "01,02,ab" style payloads. Whitespace and
// continuation backslashes are ignored; single digits are zero padded.
func parseHexBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s)/3+1)
	for _, part := range strings.Split(s, HexByteSeparator) {
		part = strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', '\r', '\n', '\\':
				return -1
			}
			return r
		}, part)
		if part == "" {
			continue
		}
		if len(part) > 2 {
			return nil, fmt.Errorf("regtext: invalid hex byte %q", part)
		}
		var v byte
		for i := 0; i < len(part); i++ {
			n := hexNibble(part[i])
			if n == 0xFF {
				return nil, fmt.Errorf("regtext: invalid hex byte %q", part)
			}
			v = v<<4 | n
		}
		out = append(out, v)
	}
	return out, nil
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0xFF
	}
}

// writeHex emits data as comma separated bytes, wrapping lines the way
// regedit does. col is the width already used on the current line.
func writeHex(buf *bytes.Buffer, col int, data []byte) {
	for i, b := range data {
		fmt.Fprintf(buf, HexByteFormat, b)
		col += 2
		if i == len(data)-1 {
			break
		}
		buf.WriteString(HexByteSeparator)
		col++
		if col >= hexLineWidth {
			buf.WriteString(Continuation + CRLF + "  ")
			col = 2
		}
	}
}
