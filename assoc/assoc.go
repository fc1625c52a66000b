// Package assoc binds file extensions to ProgIDs and finds the extensions
// bound to a given ProgID.
//
// An association is the default value of a top-level ".ext" key naming a
// ProgID id. The registry keeps no reverse index, so Enumerate scans every
// top-level key of the classes root and reads the default value of each
// dot-prefixed one. On a typical machine HKEY_CLASSES_ROOT holds several
// thousand keys; callers enumerating often should expect that cost.
package assoc

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joshuapare/assockit/internal/regval"
	"github.com/joshuapare/assockit/pkg/types"
	"github.com/joshuapare/assockit/progid"
	"github.com/joshuapare/assockit/store"
)

// Associations reads and writes extension bindings in a store.
type Associations struct {
	s   store.Store
	log *slog.Logger
}

// Option configures Associations.
type Option func(*Associations)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Associations) {
		if l != nil {
			a.log = l
		}
	}
}

// New returns Associations over s.
func New(s store.Store, opts ...Option) *Associations {
	a := &Associations{
		s:   s,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NormalizeExtension trims ext and adds the leading dot. It rejects empty
// extensions and ones containing a backslash.
func NormalizeExtension(ext string) (string, error) {
	ext = strings.TrimSpace(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext == "." || strings.Contains(ext, store.Separator) || strings.HasPrefix(ext, "..") {
		return "", &types.Error{Kind: types.ErrKindInvalidParameter, Msg: fmt.Sprintf("assoc: invalid extension %q", ext), Err: types.ErrInvalidParameter}
	}
	return ext, nil
}

// checkID applies progid's id rules.
func checkID(id string) error {
	if err := progid.ValidateID(id); err != nil {
		return fmt.Errorf("assoc: %w", err)
	}
	return nil
}

// Enumerate returns every extension whose default value names id
// (case-insensitively). Unassociated extensions are skipped. Any other
// failure aborts the scan and no partial result is returned.
func (a *Associations) Enumerate(id string) ([]string, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	it, err := a.s.SubKeys(a.s.Root())
	if err != nil {
		return nil, fmt.Errorf("assoc: enumerate root: %w", err)
	}
	defer it.Close()

	found := []string{}
	scanned := 0
	for {
		name, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("assoc: enumerate root: %w", err)
		}
		if !strings.HasPrefix(name, ".") {
			continue
		}
		scanned++
		owner, ok, err := a.lookup(name)
		if err != nil {
			return nil, err
		}
		if ok && strings.EqualFold(owner, id) {
			found = append(found, name)
		}
	}
	a.log.Debug("enumerated associations", "id", id, "extensions_scanned", scanned, "matches", len(found))
	return found, nil
}

// Lookup returns the ProgID ext is bound to. ok is false when the extension
// key or its default value does not exist.
func (a *Associations) Lookup(ext string) (owner string, ok bool, err error) {
	ext, err = NormalizeExtension(ext)
	if err != nil {
		return "", false, err
	}
	return a.lookup(ext)
}

func (a *Associations) lookup(ext string) (string, bool, error) {
	h, err := a.s.OpenKey(a.s.Root(), ext, store.AccessRead)
	if store.IsNotFound(err) {
		// Removed by another writer since it was listed.
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("assoc: open %s: %w", ext, err)
	}
	defer store.CloseQuietly(a.s, h, a.log)

	owner, err := regval.ReadDefault(a.s, h)
	switch {
	case store.IsNotFound(err):
		return "", false, nil
	case errors.Is(err, types.ErrTypeMismatch):
		a.log.Debug("extension default value is not a string", "extension", ext)
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("assoc: read %s: %w", ext, err)
	}
	return owner, owner != "", nil
}

// Associate binds ext to id, creating the extension key when needed and
// replacing any previous binding.
func (a *Associations) Associate(ext, id string) error {
	ext, err := NormalizeExtension(ext)
	if err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}
	h, err := a.s.CreateKey(a.s.Root(), ext)
	if err != nil {
		return fmt.Errorf("assoc: create %s: %w", ext, err)
	}
	defer store.CloseQuietly(a.s, h, a.log)

	if err := regval.WriteString(a.s, h, "", id); err != nil {
		return fmt.Errorf("assoc: bind %s to %s: %w", ext, id, err)
	}
	a.log.Debug("associated extension", "extension", ext, "id", id)
	return nil
}

// Disassociate removes the binding of ext when it currently names id. The
// extension key itself is kept since other software may hang data off it.
func (a *Associations) Disassociate(ext, id string) error {
	ext, err := NormalizeExtension(ext)
	if err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}
	h, err := a.s.OpenKey(a.s.Root(), ext, store.AccessAll)
	if err != nil {
		return fmt.Errorf("assoc: open %s: %w", ext, err)
	}
	defer store.CloseQuietly(a.s, h, a.log)

	owner, err := regval.ReadDefault(a.s, h)
	if err != nil {
		return fmt.Errorf("assoc: read %s: %w", ext, err)
	}
	if !strings.EqualFold(owner, id) {
		return &types.Error{
			Kind: types.ErrKindConflict,
			Msg:  fmt.Sprintf("assoc: %s belongs to %q", ext, owner),
			Err:  types.ErrAlreadyAssociated,
		}
	}
	if err := a.s.DeleteValue(h, ""); err != nil {
		return fmt.Errorf("assoc: unbind %s: %w", ext, err)
	}
	a.log.Debug("disassociated extension", "extension", ext, "id", id)
	return nil
}
