package fileassoc

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joshuapare/assockit/assoc"
	"github.com/joshuapare/assockit/internal/shellnotify"
	"github.com/joshuapare/assockit/pkg/types"
	"github.com/joshuapare/assockit/progid"
	"github.com/joshuapare/assockit/store"
)

// Permissions is the open mode of an Application.
type Permissions struct {
	Read   bool
	Write  bool
	Strict bool
}

// ReadOnly allows inspection only.
func ReadOnly() Permissions { return Permissions{Read: true} }

// ReadWrite allows every operation.
func ReadWrite() Permissions { return Permissions{Read: true, Write: true} }

// String renders the set as "read|write|strict", or "none".
func (p Permissions) String() string {
	var parts []string
	if p.Read {
		parts = append(parts, "read")
	}
	if p.Write {
		parts = append(parts, "write")
	}
	if p.Strict {
		parts = append(parts, "strict")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Descriptor names the ProgID an application registers under.
type Descriptor struct {
	ID       string
	Name     string
	IconPath string
}

// Client creates and opens Applications over one store.
type Client struct {
	s          store.Store
	log        *slog.Logger
	notifier   shellnotify.Notifier
	executable func() (string, error)

	progids *progid.Manager
	assocs  *assoc.Associations
}

// New returns a Client over s. By default it logs nowhere, resolves the
// running executable with os.Executable and notifies the shell after
// association changes.
func New(s store.Store, opts ...Option) *Client {
	c := &Client{
		s:          s,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		executable: os.Executable,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = shellnotify.Shell{Logger: c.log}
	}
	c.progids = progid.New(s, progid.WithLogger(c.log))
	c.assocs = assoc.New(s, assoc.WithLogger(c.log))
	return c
}

// OpenCommand is the shell\open\command line written for an executable.
func OpenCommand(path string) string {
	return `"` + path + `" "%1"`
}

// Current resolves the running executable and returns the application for
// desc, creating the ProgID when it does not exist yet. With Read the
// existing record is reused; otherwise Create runs, which is harmless on an
// existing record.
func (c *Client) Current(desc Descriptor, perms Permissions) (*Application, error) {
	path, err := c.executable()
	if err == nil && path == "" {
		err = types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fileassoc: resolve executable: %w: %w", types.ErrExecutableDoesntExist, err)
	}
	if !perms.Read && !perms.Write {
		return nil, fmt.Errorf("fileassoc: current %s: %w", desc.ID, types.ErrReadPermissionRequired)
	}
	if perms.Read {
		app, err := c.Get(desc.ID, path, perms)
		if err != nil || app != nil {
			return app, err
		}
	}
	return c.Create(desc, path, perms)
}

// Create writes the ProgID for desc and, when path is non-empty, its open
// command. It requires Write.
func (c *Client) Create(desc Descriptor, path string, perms Permissions) (*Application, error) {
	if !perms.Write {
		return nil, fmt.Errorf("fileassoc: create %s: %w", desc.ID, types.ErrWritePermissionRequired)
	}
	rec, err := c.progids.Create(desc.ID, desc.Name, desc.IconPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := c.progids.SetOpenCommand(desc.ID, OpenCommand(path)); err != nil {
			return nil, err
		}
		cmd := OpenCommand(path)
		rec.OpenCommand = &cmd
	}
	c.log.Info("registered application", "id", desc.ID, "path", path, "perms", perms.String())
	return c.Bind(desc.ID, path, perms).withRecord(rec), nil
}

// Get opens the application for an existing ProgID. It returns (nil, nil)
// when id is not registered and requires Read.
func (c *Client) Get(id, path string, perms Permissions) (*Application, error) {
	if !perms.Read {
		return nil, fmt.Errorf("fileassoc: get %s: %w", id, types.ErrReadPermissionRequired)
	}
	rec, err := c.progids.Get(id)
	if err != nil || rec == nil {
		return nil, err
	}
	return c.Bind(id, path, perms).withRecord(rec), nil
}

// Bind returns an application for id without touching the store.
func (c *Client) Bind(id, path string, perms Permissions) *Application {
	return &Application{c: c, id: id, path: path, perms: perms}
}

// Application is a capability over one ProgID. It is not safe for
// concurrent use.
type Application struct {
	c       *Client
	id      string
	path    string
	perms   Permissions
	record  *progid.ProgID
	deleted bool
}

func (a *Application) withRecord(rec *progid.ProgID) *Application {
	a.record = rec
	return a
}

// ID returns the ProgID id.
func (a *Application) ID() string { return a.id }

// Path returns the executable path, possibly empty.
func (a *Application) Path() string { return a.path }

// Permissions returns the open mode.
func (a *Application) Permissions() Permissions { return a.perms }

// Record returns the ProgID as read when the application was opened, or nil
// for applications made with Bind.
func (a *Application) Record() *progid.ProgID { return a.record }

func (a *Application) check(op string, needWrite bool) error {
	switch {
	case a.deleted:
		return fmt.Errorf("fileassoc: %s %s: %w", op, a.id, types.ErrApplicationDeleted)
	case needWrite && !a.perms.Write:
		return fmt.Errorf("fileassoc: %s %s: %w", op, a.id, types.ErrWritePermissionRequired)
	case !needWrite && !a.perms.Read:
		return fmt.Errorf("fileassoc: %s %s: %w", op, a.id, types.ErrReadPermissionRequired)
	}
	return nil
}

// Delete removes the ProgID. Extensions pointing at it are left in place
// unless Strict is set, in which case Delete refuses while any remain. After
// a successful Delete every method returns types.ErrApplicationDeleted.
func (a *Application) Delete() error {
	if err := a.check("delete", true); err != nil {
		return err
	}
	if a.perms.Strict {
		exts, err := a.c.assocs.Enumerate(a.id)
		if err != nil {
			return err
		}
		if len(exts) > 0 {
			return &types.Error{
				Kind: types.ErrKindConflict,
				Msg:  fmt.Sprintf("fileassoc: delete %s: still bound to %s", a.id, strings.Join(exts, ", ")),
				Err:  types.ErrStillAssociated,
			}
		}
	}
	if err := a.c.progids.Delete(a.id); err != nil {
		return err
	}
	a.deleted = true
	a.record = nil
	a.c.log.Info("unregistered application", "id", a.id)
	return nil
}

// SetFileTypeAssociation binds ext to the application and notifies the
// shell.
func (a *Application) SetFileTypeAssociation(ext string) error {
	if err := a.check("associate", true); err != nil {
		return err
	}
	if a.perms.Strict {
		owner, ok, err := a.c.assocs.Lookup(ext)
		if err != nil {
			return err
		}
		if ok && !strings.EqualFold(owner, a.id) {
			return &types.Error{
				Kind: types.ErrKindConflict,
				Msg:  fmt.Sprintf("fileassoc: %s is bound to %q", ext, owner),
				Err:  types.ErrAlreadyAssociated,
			}
		}
	}
	if err := a.c.assocs.Associate(ext, a.id); err != nil {
		return err
	}
	a.c.notifier.AssociationsChanged()
	return nil
}

// RemoveFileTypeAssociation unbinds ext when it names this application and
// notifies the shell.
func (a *Application) RemoveFileTypeAssociation(ext string) error {
	if err := a.check("disassociate", true); err != nil {
		return err
	}
	if err := a.c.assocs.Disassociate(ext, a.id); err != nil {
		return err
	}
	a.c.notifier.AssociationsChanged()
	return nil
}

// EnumerateAssociations lists the extensions bound to the application.
func (a *Application) EnumerateAssociations() ([]string, error) {
	if err := a.check("enumerate", false); err != nil {
		return nil, err
	}
	return a.c.assocs.Enumerate(a.id)
}

// Installed reports whether the ProgID's CurVer points back at it.
func (a *Application) Installed() (bool, error) {
	if err := a.check("installed", false); err != nil {
		return false, err
	}
	return a.c.progids.Installed(a.id)
}
