// Package progid manages ProgID records: the group of registry keys that
// gives an application an identity file extensions can point at.
//
// Layout under the classes root:
//
//	<id>                      (default) = display name
//	<id>\CurVer               (default) = id
//	<id>\DefaultIcon          (default) = icon path, optional
//	<id>\shell\open\command   (default) = open command, optional
//
// The registry offers no multi-key transactions. A failed Create or Delete
// leaves whatever the last successful step wrote; callers recover by
// re-reading with Get and repeating the whole operation.
package progid

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joshuapare/assockit/internal/regval"
	"github.com/joshuapare/assockit/pkg/types"
	"github.com/joshuapare/assockit/store"
)

// Child key names.
const (
	CurVerKey      = "CurVer"
	DefaultIconKey = "DefaultIcon"
	ShellKey       = "shell"
	OpenVerbKey    = `shell\open`
	OpenCommandKey = `shell\open\command`
)

// maxIDLen is the registry key name limit.
const maxIDLen = 255

// ProgID is a ProgID record as currently persisted.
type ProgID struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DefaultIconPath *string `json:"default_icon_path,omitempty"`
	OpenCommand     *string `json:"open_command,omitempty"`
}

// Manager creates, reads and deletes ProgID records in a store.
type Manager struct {
	s   store.Store
	log *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for diagnostics and swallowed close errors.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// New returns a Manager over s.
func New(s store.Store, opts ...Option) *Manager {
	m := &Manager{
		s:   s,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ValidateID checks that id can name a ProgID key.
func ValidateID(id string) error {
	switch {
	case id == "":
		return invalid("empty ProgID")
	case len(id) > maxIDLen:
		return invalid("ProgID longer than 255 characters")
	case strings.Contains(id, store.Separator):
		return invalid("ProgID " + id + " contains a backslash")
	case strings.HasPrefix(id, "."):
		return invalid("ProgID " + id + " looks like a file extension")
	}
	return nil
}

func invalid(msg string) error {
	return &types.Error{Kind: types.ErrKindInvalidParameter, Msg: "progid: " + msg, Err: types.ErrInvalidParameter}
}

// Create writes the identity key, CurVer and, when iconPath is non-empty,
// DefaultIcon. Existing keys are opened and overwritten, so repeating Create
// with the same inputs is harmless. The returned record is re-read from the
// store.
func (m *Manager) Create(id, name, iconPath string) (*ProgID, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, invalid("ProgID " + id + " needs a name")
	}
	if err := m.write(id, name, iconPath); err != nil {
		return nil, fmt.Errorf("progid: create %s: %w", id, err)
	}
	m.log.Debug("created ProgID", "id", id, "icon", iconPath != "")

	rec, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		// Another writer removed it between our write and read.
		return nil, fmt.Errorf("progid: create %s: %w", id, types.ErrNotFound)
	}
	return rec, nil
}

func (m *Manager) write(id, name, iconPath string) error {
	h, err := m.s.CreateKey(m.s.Root(), id)
	if err != nil {
		return err
	}
	defer store.CloseQuietly(m.s, h, m.log)

	if err := regval.WriteString(m.s, h, "", name); err != nil {
		return err
	}
	if err := m.writeChild(h, CurVerKey, id); err != nil {
		return err
	}
	if iconPath != "" {
		if err := m.writeChild(h, DefaultIconKey, iconPath); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) writeChild(parent store.Handle, path, v string) error {
	h, err := m.s.CreateKey(parent, path)
	if err != nil {
		return err
	}
	defer store.CloseQuietly(m.s, h, m.log)
	return regval.WriteString(m.s, h, "", v)
}

// Get reads a record. A missing identity key yields (nil, nil).
func (m *Manager) Get(id string) (*ProgID, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	h, err := m.s.OpenKey(m.s.Root(), id, store.AccessRead)
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("progid: open %s: %w", id, err)
	}
	defer store.CloseQuietly(m.s, h, m.log)

	name, err := optionalString(regval.ReadDefault(m.s, h))
	if err != nil {
		return nil, fmt.Errorf("progid: read %s: %w", id, err)
	}
	rec := &ProgID{ID: id}
	if name != nil {
		rec.Name = *name
	}
	if rec.DefaultIconPath, err = m.readChild(h, DefaultIconKey); err != nil {
		return nil, fmt.Errorf("progid: read %s: %w", id, err)
	}
	if rec.OpenCommand, err = m.readChild(h, OpenCommandKey); err != nil {
		return nil, fmt.Errorf("progid: read %s: %w", id, err)
	}
	return rec, nil
}

// readChild returns the default value of an optional child key, or nil when
// the key or its default value is absent.
func (m *Manager) readChild(parent store.Handle, path string) (*string, error) {
	h, err := m.s.OpenKey(parent, path, store.AccessRead)
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer store.CloseQuietly(m.s, h, m.log)
	return optionalString(regval.ReadDefault(m.s, h))
}

func optionalString(v string, err error) (*string, error) {
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Installed reports whether id has a CurVer key naming itself.
func (m *Manager) Installed(id string) (bool, error) {
	if err := ValidateID(id); err != nil {
		return false, err
	}
	h, err := m.s.OpenKey(m.s.Root(), store.Join(id, CurVerKey), store.AccessRead)
	if store.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("progid: open %s: %w", id, err)
	}
	defer store.CloseQuietly(m.s, h, m.log)

	cur, err := optionalString(regval.ReadDefault(m.s, h))
	if err != nil {
		return false, fmt.Errorf("progid: read %s: %w", id, err)
	}
	return cur != nil && strings.EqualFold(*cur, id), nil
}

// SetOpenCommand writes the shell\open\command verb of an existing record.
func (m *Manager) SetOpenCommand(id, command string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if command == "" {
		return invalid("empty open command for " + id)
	}
	h, err := m.s.OpenKey(m.s.Root(), id, store.AccessAll)
	if err != nil {
		return fmt.Errorf("progid: open %s: %w", id, err)
	}
	defer store.CloseQuietly(m.s, h, m.log)

	if err := m.writeChild(h, OpenCommandKey, command); err != nil {
		return fmt.Errorf("progid: set open command for %s: %w", id, err)
	}
	return nil
}

// Delete removes a record. Children go first because the registry refuses to
// delete a key that still has subkeys: CurVer (must exist), then the
// optional DefaultIcon and shell verb keys, then the identity key.
// Extensions pointing at id are left alone.
func (m *Manager) Delete(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	h, err := m.s.OpenKey(m.s.Root(), id, store.AccessAll)
	if err != nil {
		return fmt.Errorf("progid: delete %s: %w", id, err)
	}
	defer store.CloseQuietly(m.s, h, m.log)

	if err := m.s.DeleteKey(h, CurVerKey); err != nil {
		return fmt.Errorf("progid: delete %s\\%s: %w", id, CurVerKey, err)
	}
	for _, child := range []string{DefaultIconKey, OpenCommandKey, OpenVerbKey, ShellKey} {
		if err := m.s.DeleteKey(h, child); err != nil && !store.IsNotFound(err) {
			return fmt.Errorf("progid: delete %s\\%s: %w", id, child, err)
		}
	}
	if err := m.s.DeleteKey(m.s.Root(), id); err != nil {
		return fmt.Errorf("progid: delete %s: %w", id, err)
	}
	m.log.Debug("deleted ProgID", "id", id)
	return nil
}
