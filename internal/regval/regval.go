// Package regval reads and writes single registry values on top of
// store.Store.
//
// The registry cannot report a value's size before it is read, so Read
// follows a fixed protocol: probe with a ProbeSize buffer, and if the store
// answers types.ErrMoreData, allocate exactly the reported size and retry
// once. Nothing else is ever retried.
package regval

import (
	"errors"

	"github.com/joshuapare/assockit/internal/wstr"
	"github.com/joshuapare/assockit/pkg/types"
	"github.com/joshuapare/assockit/store"
)

// ProbeSize is the capacity of the first query buffer. Zero turns the first
// query into a pure size probe.
var ProbeSize = 0

// errRetry signals that the probe was too small and carries the size the
// store asked for.
type errRetry struct{ size int }

func (e errRetry) Error() string { return "regval: buffer too small" }

// Read returns the type and raw payload of the named value under h. The
// empty name addresses the key's default value. Failures are wrapped as
// types.ErrKindIO; the store error stays reachable with errors.Is.
func Read(s store.Store, h store.Handle, name string) (types.RegType, []byte, error) {
	typ, data, err := query(s, h, name, make([]byte, ProbeSize))
	var retry errRetry
	if errors.As(err, &retry) {
		typ, data, err = query(s, h, name, make([]byte, retry.size))
		if errors.As(err, &retry) {
			// The value grew between the two calls.
			err = types.ErrMoreData
		}
	}
	if err != nil {
		return types.REG_NONE, nil, types.IOError("regval: read value "+quote(name), err)
	}
	return typ, data, nil
}

func query(s store.Store, h store.Handle, name string, buf []byte) (types.RegType, []byte, error) {
	typ, n, err := s.QueryValue(h, name, buf)
	if errors.Is(err, types.ErrMoreData) {
		return typ, nil, errRetry{size: n}
	}
	if err != nil {
		return typ, nil, err
	}
	return typ, buf[:n], nil
}

// ReadString reads a REG_SZ or REG_EXPAND_SZ value and decodes it.
func ReadString(s store.Store, h store.Handle, name string) (string, error) {
	typ, data, err := Read(s, h, name)
	if err != nil {
		return "", err
	}
	if !typ.IsString() {
		return "", &types.Error{Kind: types.ErrKindType, Msg: "regval: " + quote(name) + " is " + typ.String(), Err: types.ErrTypeMismatch}
	}
	return wstr.Decode(data), nil
}

// ReadDefault reads the default value of h as a string.
func ReadDefault(s store.Store, h store.Handle) (string, error) {
	return ReadString(s, h, "")
}

// Write stores a raw payload. Failures are surfaced, never retried.
func Write(s store.Store, h store.Handle, name string, typ types.RegType, data []byte) error {
	if err := s.SetValue(h, name, typ, data); err != nil {
		return types.IOError("regval: write value "+quote(name), err)
	}
	return nil
}

// WriteString stores v as REG_SZ.
func WriteString(s store.Store, h store.Handle, name, v string) error {
	return Write(s, h, name, types.REG_SZ, wstr.Encode(v))
}

func quote(name string) string {
	if name == "" {
		return "(default)"
	}
	return `"` + name + `"`
}
