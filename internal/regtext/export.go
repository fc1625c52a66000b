package regtext

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/joshuapare/assockit/internal/regval"
	"github.com/joshuapare/assockit/internal/wstr"
	"github.com/joshuapare/assockit/pkg/types"
	"github.com/joshuapare/assockit/store"
)

// ExportOptions controls Export.
type ExportOptions struct {
	// Root is written in front of every section. Default HKEY_CLASSES_ROOT.
	Root string

	// Encoding is "UTF-8" (default) or "UTF-16LE", which regedit writes.
	Encoding string

	// WithBOM prefixes the output with a byte order mark.
	WithBOM bool

	// Logger receives close failures. Nil discards them.
	Logger *slog.Logger
}

// Export writes the subtrees at paths, in the given order, as one .reg
// document. The empty path exports the whole root. Paths that do not exist
// are skipped.
func Export(s store.Store, paths []string, opts ExportOptions) ([]byte, error) {
	if opts.Root == "" {
		opts.Root = HKEYClassesRoot
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := &exporter{s: s, opts: opts}
	e.buf.WriteString(RegFileHeader + CRLF + CRLF)

	for _, path := range paths {
		path = strings.Trim(path, Backslash)
		if path == "" {
			if err := e.key(s.Root(), ""); err != nil {
				return nil, err
			}
			continue
		}
		h, err := s.OpenKey(s.Root(), path, store.AccessRead)
		if store.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("regtext: open %s: %w", path, err)
		}
		err = e.key(h, path)
		store.CloseQuietly(s, h, opts.Logger)
		if err != nil {
			return nil, err
		}
	}
	return encodeOutput(e.buf.String(), opts.Encoding, opts.WithBOM)
}

type exporter struct {
	s    store.Store
	opts ExportOptions
	buf  bytes.Buffer
}

func (e *exporter) key(h store.Handle, path string) error {
	e.buf.WriteString(KeyOpenBracket)
	e.buf.WriteString(store.Join(e.opts.Root, path))
	e.buf.WriteString(KeyCloseBracket + CRLF)

	names, err := e.s.ValueNames(h)
	if err != nil {
		return fmt.Errorf("regtext: values of %s: %w", path, err)
	}
	sortFold(names)
	for _, name := range names {
		typ, data, err := regval.Read(e.s, h, name)
		if err != nil {
			return fmt.Errorf("regtext: %s: %w", path, err)
		}
		e.value(name, typ, data)
	}
	e.buf.WriteString(CRLF)

	it, err := e.s.SubKeys(h)
	if err != nil {
		return fmt.Errorf("regtext: subkeys of %s: %w", path, err)
	}
	children, err := store.Collect(it)
	if err != nil {
		return fmt.Errorf("regtext: subkeys of %s: %w", path, err)
	}
	sortFold(children)
	for _, child := range children {
		ch, err := e.s.OpenKey(h, child, store.AccessRead)
		if store.IsNotFound(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("regtext: open %s: %w", store.Join(path, child), err)
		}
		err = e.key(ch, store.Join(path, child))
		store.CloseQuietly(e.s, ch, e.opts.Logger)
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *exporter) value(name string, typ types.RegType, data []byte) {
	start := e.buf.Len()
	if name == "" {
		e.buf.WriteString(DefaultValuePrefix)
	} else {
		e.buf.WriteString(Quote + escapeString(name) + Quote + ValueAssignment)
	}
	switch {
	case typ == types.REG_SZ:
		e.buf.WriteString(Quote + escapeString(wstr.Decode(data)) + Quote)
	case typ == types.REG_DWORD && len(data) == 4:
		fmt.Fprintf(&e.buf, DWORDPrefix+DWORDHexFormat, binary.LittleEndian.Uint32(data))
	case typ == types.REG_BINARY:
		e.buf.WriteString(HexPrefix)
		writeHex(&e.buf, e.buf.Len()-start, data)
	default:
		fmt.Fprintf(&e.buf, HexTypeFormat, uint32(typ))
		writeHex(&e.buf, e.buf.Len()-start, data)
	}
	e.buf.WriteString(CRLF)
}

// sortFold orders names the way regedit does: default value first, then
// case-insensitively.
func sortFold(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
}
