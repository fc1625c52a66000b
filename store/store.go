// Package store defines the raw accessor contract over a hierarchical
// key/value configuration tree (the Windows registry, or an in-memory stand-in).
//
// Keys are addressed by backslash-separated paths relative to a parent
// Handle. Every handle returned by OpenKey or CreateKey is owned by the
// caller and must be released with CloseKey on every exit path. The handle
// returned by Root is well-known and never needs closing.
//
// Implementations:
//   - store/winreg: the live registry (Windows only)
//   - store/memstore: an isolated in-memory tree used by tests and for
//     offline editing of .reg snapshots
package store

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/joshuapare/assockit/pkg/types"
)

// Handle is an opaque reference to an opened key.
type Handle uintptr

// InvalidHandle is never issued by a store.
const InvalidHandle Handle = 0

// Separator joins path segments.
const Separator = `\`

// Access selects the rights requested when opening a key.
type Access int

const (
	// AccessRead allows querying values and enumerating subkeys.
	AccessRead Access = iota + 1
	// AccessWrite allows setting values and creating/deleting subkeys.
	AccessWrite
	// AccessAll combines read and write access.
	AccessAll
)

// CanRead reports whether a handle opened with a may be read.
func (a Access) CanRead() bool { return a == AccessRead || a == AccessAll }

// CanWrite reports whether a handle opened with a may be mutated.
func (a Access) CanWrite() bool { return a == AccessWrite || a == AccessAll }

func (a Access) String() string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessAll:
		return "all"
	default:
		return "none"
	}
}

// SubkeyIterator yields child key names. It is lazy and finite and cannot be
// restarted. Next returns io.EOF once every name has been produced.
type SubkeyIterator interface {
	Next() (string, error)
	Close() error
}

// Store is the primitive capability the rest of the module is built on.
type Store interface {
	// Root returns the application-class root (e.g. HKEY_CLASSES_ROOT).
	Root() Handle

	// OpenKey opens an existing key. Missing keys yield types.ErrNotFound.
	OpenKey(parent Handle, path string, access Access) (Handle, error)

	// CreateKey opens path, creating it (and any missing ancestors) first if
	// needed. The returned handle has AccessAll.
	CreateKey(parent Handle, path string) (Handle, error)

	// CloseKey releases a handle.
	CloseKey(h Handle) error

	// DeleteKey removes a key that has no subkeys. A key with children
	// yields types.ErrKeyHasSubkeys.
	DeleteKey(parent Handle, path string) error

	// SubKeys enumerates the direct children of h.
	SubKeys(h Handle) (SubkeyIterator, error)

	// ValueNames lists the value names stored under h ("" for the default value).
	ValueNames(h Handle) ([]string, error)

	// QueryValue copies the named value into buf and returns its type and
	// size. When buf is too small (including a zero-length probe) it returns
	// types.ErrMoreData together with the required size.
	QueryValue(h Handle, name string, buf []byte) (types.RegType, int, error)

	// SetValue writes a value. The empty name denotes the key's default value.
	SetValue(h Handle, name string, typ types.RegType, data []byte) error

	// DeleteValue removes a value. Missing values yield types.ErrNotFound.
	DeleteValue(h Handle, name string) error
}

// CloseQuietly releases h and logs, rather than returns, any failure. Use it
// in deferred cleanup where a close error must not mask the real result.
func CloseQuietly(s Store, h Handle, logger *slog.Logger) {
	if h == InvalidHandle || h == s.Root() {
		return
	}
	if err := s.CloseKey(h); err != nil && logger != nil {
		logger.Warn("close registry key", "handle", uint64(h), "error", err)
	}
}

// Collect drains it into a slice and closes it.
func Collect(it SubkeyIterator) ([]string, error) {
	defer it.Close()
	var names []string
	for {
		name, err := it.Next()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
}

// Join builds a key path from segments, skipping empty ones.
func Join(elems ...string) string {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		e = strings.Trim(e, Separator)
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, Separator)
}

// Split breaks a key path into its non-empty segments.
func Split(path string) []string {
	raw := strings.Split(path, Separator)
	out := raw[:0]
	for _, p := range raw {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsNotFound reports whether err means the key or value does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}
