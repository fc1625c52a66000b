package regtext

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// inputReader picks a decoder for raw .reg bytes. UTF-16LE files carry a
// BOM; BOM-less input that is not valid UTF-8 is treated as Windows-1252,
// which is what REGEDIT4 files and most ANSI tools produce.
func inputReader(data []byte) io.Reader {
	switch {
	case bytes.HasPrefix(data, utf16LEBOM):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		return transform.NewReader(bytes.NewReader(data), dec)
	case bytes.HasPrefix(data, utf8BOM):
		return bytes.NewReader(data[len(utf8BOM):])
	case utf8.Valid(data):
		return bytes.NewReader(data)
	default:
		return transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder())
	}
}

// encodeOutput converts UTF-8 text to the requested encoding.
func encodeOutput(text string, encoding string, withBOM bool) ([]byte, error) {
	switch strings.ToUpper(encoding) {
	case "", EncodingUTF8:
		if withBOM {
			return append(append([]byte{}, utf8BOM...), text...), nil
		}
		return []byte(text), nil
	case EncodingUTF16LE:
		bom := unicode.IgnoreBOM
		if withBOM {
			bom = unicode.UseBOM
		}
		return unicode.UTF16(unicode.LittleEndian, bom).NewEncoder().Bytes([]byte(text))
	default:
		return nil, errUnsupportedEncoding
	}
}
