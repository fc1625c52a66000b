package regtext

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/assockit/internal/wstr"
	"github.com/joshuapare/assockit/pkg/types"
)

var (
	errMissingHeader       = errors.New("regtext: missing header")
	errUnsupportedEncoding = errors.New("regtext: unsupported encoding")
)

// ParseOptions controls Parse.
type ParseOptions struct {
	// Roots are the section prefixes stripped from key paths. Sections under
	// none of them are rejected. Nil means ClassesRoots.
	Roots []string
}

// Parse converts .reg text into edit operations whose paths are relative to
// the matched root. The empty path names the root itself.
func Parse(data []byte, opts ParseOptions) ([]types.EditOp, error) {
	roots := opts.Roots
	if roots == nil {
		roots = ClassesRoots
	}

	scanner := bufio.NewScanner(inputReader(data))
	scanner.Buffer(make([]byte, 0, scannerInitialBufferSize), scannerMaxLineSize)

	var (
		ops        []types.EditOp
		seenHeader bool
		inSection  bool
		current    string
		lineNo     int
		pending    strings.Builder
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t"+CR)
		if pending.Len() == 0 {
			if t := strings.TrimSpace(line); t == "" || strings.HasPrefix(t, CommentPrefix) {
				continue
			}
		} else {
			line = strings.TrimSpace(line)
		}
		if strings.HasSuffix(line, Continuation) && !strings.HasPrefix(strings.TrimSpace(line), KeyOpenBracket) {
			pending.WriteString(strings.TrimSuffix(line, Continuation))
			continue
		}
		if pending.Len() > 0 {
			pending.WriteString(line)
			line = pending.String()
			pending.Reset()
		}

		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, CommentPrefix) {
			continue
		}
		if !seenHeader {
			if trim != RegFileHeader && trim != Regedit4Header {
				return nil, errMissingHeader
			}
			seenHeader = true
			continue
		}

		if strings.HasPrefix(trim, KeyOpenBracket) {
			if !strings.HasSuffix(trim, KeyCloseBracket) {
				return nil, fmt.Errorf("regtext: line %d: malformed section %q", lineNo, trim)
			}
			section := trim[1 : len(trim)-1]
			deleting := strings.HasPrefix(section, DeleteKeyPrefix)
			if deleting {
				section = section[1:]
			}
			path, err := relativePath(strings.TrimSpace(section), roots)
			if err != nil {
				return nil, fmt.Errorf("regtext: line %d: %w", lineNo, err)
			}
			if deleting {
				if path == "" {
					return nil, fmt.Errorf("regtext: line %d: refusing to delete the root", lineNo)
				}
				ops = append(ops, types.OpDeleteKey{Path: path})
				inSection = false
				continue
			}
			current, inSection = path, true
			if path != "" {
				ops = append(ops, types.OpCreateKey{Path: path})
			}
			continue
		}

		if !inSection {
			return nil, fmt.Errorf("regtext: line %d: value outside a section", lineNo)
		}
		op, err := parseValueLine(current, trim)
		if err != nil {
			return nil, fmt.Errorf("regtext: line %d: %w", lineNo, err)
		}
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("regtext: scan: %w", err)
	}
	if !seenHeader {
		return nil, errMissingHeader
	}
	return ops, nil
}

// relativePath strips the first matching root, compared case-insensitively.
func relativePath(section string, roots []string) (string, error) {
	section = strings.Trim(section, Backslash)
	for _, root := range roots {
		switch {
		case strings.EqualFold(section, root):
			return "", nil
		case len(section) > len(root) && strings.EqualFold(section[:len(root)], root) && section[len(root)] == '\\':
			return section[len(root)+1:], nil
		}
	}
	return "", fmt.Errorf("key %q is outside the classes root", section)
}

func parseValueLine(path, line string) (types.EditOp, error) {
	if strings.HasPrefix(line, DefaultValuePrefix) {
		return parseValue(path, "", line[len(DefaultValuePrefix):])
	}
	if !strings.HasPrefix(line, Quote) {
		return nil, fmt.Errorf("malformed value line %q", line)
	}
	end := findClosingQuote(line)
	if end < 0 {
		return nil, fmt.Errorf("unterminated value name in %q", line)
	}
	name := unescapeString(line[1:end])
	rest := strings.TrimSpace(line[end+1:])
	if !strings.HasPrefix(rest, ValueAssignment) {
		return nil, fmt.Errorf("missing %q in %q", ValueAssignment, line)
	}
	return parseValue(path, name, rest[1:])
}

func parseValue(path, name, payload string) (types.EditOp, error) {
	payload = strings.TrimSpace(payload)
	switch {
	case payload == DeleteValueToken:
		return types.OpDeleteValue{Path: path, Name: name}, nil

	case strings.HasPrefix(payload, Quote):
		if len(payload) < 2 || findClosingQuote(payload) != len(payload)-1 {
			return nil, fmt.Errorf("unterminated string %q", payload)
		}
		v := unescapeString(payload[1 : len(payload)-1])
		return types.OpSetValue{Path: path, Name: name, Type: types.REG_SZ, Data: wstr.Encode(v)}, nil

	case strings.HasPrefix(strings.ToLower(payload), DWORDPrefix):
		digits := payload[len(DWORDPrefix):]
		if len(digits) != DWORDHexLength {
			return nil, fmt.Errorf("invalid dword %q", payload)
		}
		n, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid dword %q: %w", payload, err)
		}
		data := make([]byte, 4)
		binary.LittleEndian.PutUint32(data, uint32(n))
		return types.OpSetValue{Path: path, Name: name, Type: types.REG_DWORD, Data: data}, nil

	case strings.HasPrefix(strings.ToLower(payload), "hex"):
		typ, data, err := parseHexPayload(payload)
		if err != nil {
			return nil, err
		}
		return types.OpSetValue{Path: path, Name: name, Type: typ, Data: data}, nil
	}
	return nil, fmt.Errorf("unsupported value %q", payload)
}

// parseHexPayload handles "hex:" and typed "hex(N):" payloads, N being the
// registry type in hex.
func parseHexPayload(payload string) (types.RegType, []byte, error) {
	colon := strings.IndexByte(payload, ':')
	if colon < 0 {
		return 0, nil, fmt.Errorf("invalid hex payload %q", payload)
	}
	prefix := strings.ToLower(payload[:colon])
	typ := types.REG_BINARY
	if prefix != "hex" {
		if !strings.HasPrefix(prefix, "hex(") || !strings.HasSuffix(prefix, ")") {
			return 0, nil, fmt.Errorf("invalid hex payload %q", payload)
		}
		n, err := strconv.ParseUint(prefix[4:len(prefix)-1], 16, 32)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid value type in %q: %w", payload, err)
		}
		typ = types.RegType(n)
	}
	data, err := parseHexBytes(payload[colon+1:])
	if err != nil {
		return 0, nil, err
	}
	return typ, data, nil
}
