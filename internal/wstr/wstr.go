// Package wstr converts between Go strings and the registry's native
// UTF-16LE, NUL-terminated string encoding.
//
// Every string that crosses the store boundary goes through this package so
// the rest of the module only ever handles UTF-8.
package wstr

import (
	"encoding/binary"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
)

// CodeUnitSize is the size in bytes of one UTF-16 code unit.
const CodeUnitSize = 2

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Encode returns s as UTF-16LE followed by a NUL code unit.
func Encode(s string) []byte {
	out, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		out = encodeFallback(s)
	}
	return append(out, 0, 0)
}

// Decode converts UTF-16LE bytes to a string. Decoding stops at the first NUL
// code unit. Invalid sequences are replaced with U+FFFD; Decode never fails.
func Decode(b []byte) string {
	b = b[:terminator(b)]
	if len(b) == 0 {
		return ""
	}
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return decodeFallback(b)
	}
	return string(out)
}

// EncodeMulti encodes a REG_MULTI_SZ payload: every entry NUL-terminated and
// the list closed by an extra NUL.
func EncodeMulti(values []string) []byte {
	var out []byte
	for _, v := range values {
		out = append(out, Encode(v)...)
	}
	return append(out, 0, 0)
}

// DecodeMulti splits a REG_MULTI_SZ payload. The terminating empty entry is
// dropped.
func DecodeMulti(b []byte) []string {
	var out []string
	for len(b) >= CodeUnitSize {
		end := terminator(b)
		if end == 0 {
			break
		}
		out = append(out, Decode(b[:end]))
		if end+CodeUnitSize > len(b) {
			break
		}
		b = b[end+CodeUnitSize:]
	}
	return out
}

// terminator returns the byte offset of the first NUL code unit, or the
// even-aligned length of b when there is none.
func terminator(b []byte) int {
	for i := 0; i+1 < len(b); i += CodeUnitSize {
		if b[i] == 0 && b[i+1] == 0 {
			return i
		}
	}
	if len(b)%CodeUnitSize == 1 {
		return len(b) - 1
	}
	return len(b)
}

func encodeFallback(s string) []byte {
	words := utf16.Encode([]rune(s))
	buf := make([]byte, len(words)*CodeUnitSize)
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[i*CodeUnitSize:], w)
	}
	return buf
}

func decodeFallback(b []byte) string {
	words := make([]uint16, len(b)/CodeUnitSize)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(b[i*CodeUnitSize:])
	}
	return string(utf16.Decode(words))
}

// FromUTF16 decodes code units already split by a system call, with the same
// NUL and replacement rules as Decode.
func FromUTF16(words []uint16) string {
	b := make([]byte, len(words)*CodeUnitSize)
	for i, w := range words {
		binary.LittleEndian.PutUint16(b[i*CodeUnitSize:], w)
	}
	return Decode(b)
}
