//go:build windows

package winreg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/joshuapare/assockit/internal/wstr"
	"github.com/joshuapare/assockit/pkg/types"
	"github.com/joshuapare/assockit/store"
)

// maxKeyNameLen is the registry limit for key names, in UTF-16 code units.
const maxKeyNameLen = 255

// Store is the live registry.
type Store struct {
	scope Scope
	root  registry.Key
	owned bool
}

var _ store.Store = (*Store)(nil)

// New binds a store to the classes root selected by scope.
func New(scope Scope) (*Store, error) {
	switch scope {
	case ScopeMerged:
		return &Store{scope: scope, root: registry.CLASSES_ROOT}, nil
	case ScopeUser:
		k, _, err := registry.CreateKey(registry.CURRENT_USER, ClassesPath, registry.ALL_ACCESS)
		if err != nil {
			return nil, fmt.Errorf("winreg: open %s: %w", scope.RootName(), mapErr(err))
		}
		return &Store{scope: scope, root: k, owned: true}, nil
	case ScopeMachine:
		k, err := registry.OpenKey(registry.LOCAL_MACHINE, ClassesPath, registry.ALL_ACCESS)
		if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
			// Not elevated: reads still work, writes fail with access denied.
			k, err = registry.OpenKey(registry.LOCAL_MACHINE, ClassesPath, registry.READ)
		}
		if err != nil {
			return nil, fmt.Errorf("winreg: open %s: %w", scope.RootName(), mapErr(err))
		}
		return &Store{scope: scope, root: k, owned: true}, nil
	default:
		return nil, fmt.Errorf("winreg: %s: %w", scope, types.ErrInvalidParameter)
	}
}

// Close releases the root key when New opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	s.owned = false
	return mapErr(s.root.Close())
}

func (s *Store) Root() store.Handle { return store.Handle(s.root) }

func (s *Store) OpenKey(parent store.Handle, path string, access store.Access) (store.Handle, error) {
	sam, err := samFor(access)
	if err != nil {
		return store.InvalidHandle, err
	}
	k, err := registry.OpenKey(registry.Key(parent), path, sam)
	if err != nil {
		return store.InvalidHandle, mapErr(err)
	}
	return store.Handle(k), nil
}

func (s *Store) CreateKey(parent store.Handle, path string) (store.Handle, error) {
	if len(store.Split(path)) == 0 {
		return store.InvalidHandle, types.ErrInvalidParameter
	}
	k, _, err := registry.CreateKey(registry.Key(parent), path, registry.ALL_ACCESS)
	if err != nil {
		return store.InvalidHandle, mapErr(err)
	}
	return store.Handle(k), nil
}

func (s *Store) CloseKey(h store.Handle) error {
	if h == s.Root() {
		return nil
	}
	return mapErr(registry.Key(h).Close())
}

func (s *Store) DeleteKey(parent store.Handle, path string) error {
	if len(store.Split(path)) == 0 {
		return types.ErrInvalidParameter
	}
	return mapErr(registry.DeleteKey(registry.Key(parent), path))
}

func (s *Store) SubKeys(h store.Handle) (store.SubkeyIterator, error) {
	return &subkeyIter{key: windows.Handle(h)}, nil
}

func (s *Store) ValueNames(h store.Handle) ([]string, error) {
	names, err := registry.Key(h).ReadValueNames(0)
	if err != nil {
		return nil, mapErr(err)
	}
	return names, nil
}

func (s *Store) QueryValue(h store.Handle, name string, buf []byte) (types.RegType, int, error) {
	n, valtype, err := registry.Key(h).GetValue(name, buf)
	typ := types.RegType(valtype)
	if err != nil {
		return typ, n, mapErr(err)
	}
	// A zero-length probe succeeds and only reports the size.
	if n > len(buf) {
		return typ, n, types.ErrMoreData
	}
	return typ, n, nil
}

func (s *Store) SetValue(h store.Handle, name string, typ types.RegType, data []byte) error {
	k := registry.Key(h)
	var err error
	switch typ {
	case types.REG_SZ:
		err = k.SetStringValue(name, wstr.Decode(data))
	case types.REG_EXPAND_SZ:
		err = k.SetExpandStringValue(name, wstr.Decode(data))
	case types.REG_MULTI_SZ:
		err = k.SetStringsValue(name, wstr.DecodeMulti(data))
	case types.REG_DWORD:
		if len(data) != 4 {
			return types.ErrInvalidParameter
		}
		err = k.SetDWordValue(name, binary.LittleEndian.Uint32(data))
	case types.REG_QWORD:
		if len(data) != 8 {
			return types.ErrInvalidParameter
		}
		err = k.SetQWordValue(name, binary.LittleEndian.Uint64(data))
	case types.REG_BINARY:
		err = k.SetBinaryValue(name, data)
	default:
		// REG_NONE, REG_LINK, resource lists and unknown types have no typed
		// setter; their payload is stored as is.
		err = setRaw(k, name, typ, data)
	}
	return mapErr(err)
}

var (
	advapi32           = windows.NewLazySystemDLL("advapi32.dll")
	procRegSetValueExW = advapi32.NewProc("RegSetValueExW")
)

// setRaw writes data unchanged with RegSetValueExW.
func setRaw(k registry.Key, name string, typ types.RegType, data []byte) error {
	pname, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return types.ErrInvalidParameter
	}
	if err := procRegSetValueExW.Find(); err != nil {
		return err
	}
	var p *byte
	if len(data) > 0 {
		p = &data[0]
	}
	r, _, _ := procRegSetValueExW.Call(
		uintptr(k),
		uintptr(unsafe.Pointer(pname)),
		0,
		uintptr(typ),
		uintptr(unsafe.Pointer(p)),
		uintptr(len(data)),
	)
	if r != 0 {
		return syscall.Errno(r)
	}
	return nil
}

func (s *Store) DeleteValue(h store.Handle, name string) error {
	return mapErr(registry.Key(h).DeleteValue(name))
}

func samFor(access store.Access) (uint32, error) {
	switch access {
	case store.AccessRead:
		return registry.READ, nil
	case store.AccessWrite:
		return registry.WRITE, nil
	case store.AccessAll:
		return registry.ALL_ACCESS, nil
	default:
		return 0, types.ErrInvalidParameter
	}
}

// mapErr translates a Win32 error into the pkg/types taxonomy, keeping the
// original errno in the chain.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return err
	}
	switch errno {
	case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND:
		return fmt.Errorf("%w: %w", types.ErrNotFound, err)
	case windows.ERROR_ACCESS_DENIED:
		return fmt.Errorf("%w: %w", types.ErrAccessDenied, err)
	case windows.ERROR_INVALID_HANDLE, windows.ERROR_KEY_DELETED:
		return fmt.Errorf("%w: %w", types.ErrInvalidHandle, err)
	case windows.ERROR_INVALID_PARAMETER:
		return fmt.Errorf("%w: %w", types.ErrInvalidParameter, err)
	case windows.ERROR_MORE_DATA:
		return fmt.Errorf("%w: %w", types.ErrMoreData, err)
	default:
		return err
	}
}

// subkeyIter walks RegEnumKeyEx one index at a time.
type subkeyIter struct {
	key    windows.Handle
	index  uint32
	done   bool
	closed bool
}

func (it *subkeyIter) Next() (string, error) {
	if it.closed {
		return "", types.ErrInvalidHandle
	}
	if it.done {
		return "", io.EOF
	}
	buf := make([]uint16, maxKeyNameLen+1)
	n := uint32(len(buf))
	err := windows.RegEnumKeyEx(it.key, it.index, &buf[0], &n, nil, nil, nil, nil)
	if errors.Is(err, windows.ERROR_NO_MORE_ITEMS) {
		it.done = true
		return "", io.EOF
	}
	if err != nil {
		it.done = true
		return "", mapErr(err)
	}
	it.index++
	return wstr.FromUTF16(buf[:n]), nil
}

func (it *subkeyIter) Close() error {
	it.closed = true
	return nil
}
