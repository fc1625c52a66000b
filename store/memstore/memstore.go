// Package memstore implements store.Store as an isolated in-memory key tree.
//
// It mirrors the registry behaviors the rest of the module relies on: key and
// value names are case-insensitive, keys with children cannot be deleted,
// handles are tracked so leaks and stale handles are observable, and a
// read-only mode reproduces the access-denied errors a non-elevated process
// receives when writing to HKEY_CLASSES_ROOT.
package memstore

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/joshuapare/assockit/pkg/types"
	"github.com/joshuapare/assockit/store"
)

const (
	rootHandle  store.Handle = 1
	firstHandle store.Handle = 0x100
)

type value struct {
	name string
	typ  types.RegType
	data []byte
}

type node struct {
	name     string
	parent   *node
	children map[string]*node
	values   map[string]*value
	deleted  bool
}

func newNode(name string, parent *node) *node {
	return &node{
		name:     name,
		parent:   parent,
		children: make(map[string]*node),
		values:   make(map[string]*value),
	}
}

type openKey struct {
	n      *node
	access store.Access
}

// Stats counts mutations applied to the store.
type Stats struct {
	KeysCreated   int
	KeysDeleted   int
	ValuesWritten int
	ValuesDeleted int
}

// Mutations returns the total number of mutating operations.
func (s Stats) Mutations() int {
	return s.KeysCreated + s.KeysDeleted + s.ValuesWritten + s.ValuesDeleted
}

// Store is an in-memory store.Store. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	root     *node
	handles  map[store.Handle]*openKey
	next     store.Handle
	readOnly bool
	stats    Stats
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		root:    newNode("", nil),
		handles: make(map[store.Handle]*openKey),
		next:    firstHandle,
	}
}

// SetReadOnly toggles read-only mode. While enabled every mutation and every
// open with write access fails with types.ErrAccessDenied.
func (s *Store) SetReadOnly(ro bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly = ro
}

// Stats returns the mutation counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// OpenHandles returns the number of handles issued and not yet closed.
func (s *Store) OpenHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Close releases every outstanding handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.handles)
	return nil
}

func (s *Store) Root() store.Handle { return rootHandle }

func (s *Store) OpenKey(parent store.Handle, path string, access store.Access) (store.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if access < store.AccessRead || access > store.AccessAll {
		return store.InvalidHandle, types.ErrInvalidParameter
	}
	p, err := s.lookup(parent)
	if err != nil {
		return store.InvalidHandle, err
	}
	n := p.n
	for _, seg := range store.Split(path) {
		child, ok := n.children[fold(seg)]
		if !ok {
			return store.InvalidHandle, types.ErrNotFound
		}
		n = child
	}
	if access.CanWrite() && s.readOnly {
		return store.InvalidHandle, types.ErrAccessDenied
	}
	return s.issue(n, access), nil
}

func (s *Store) CreateKey(parent store.Handle, path string) (store.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.lookup(parent)
	if err != nil {
		return store.InvalidHandle, err
	}
	segs := store.Split(path)
	if len(segs) == 0 {
		return store.InvalidHandle, types.ErrInvalidParameter
	}
	if s.readOnly || !p.access.CanWrite() {
		return store.InvalidHandle, types.ErrAccessDenied
	}
	n := p.n
	for _, seg := range segs {
		child, ok := n.children[fold(seg)]
		if !ok {
			child = newNode(seg, n)
			n.children[fold(seg)] = child
			s.stats.KeysCreated++
		}
		n = child
	}
	return s.issue(n, store.AccessAll), nil
}

func (s *Store) CloseKey(h store.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h == rootHandle {
		return nil
	}
	if _, ok := s.handles[h]; !ok {
		return types.ErrInvalidHandle
	}
	delete(s.handles, h)
	return nil
}

func (s *Store) DeleteKey(parent store.Handle, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.lookup(parent)
	if err != nil {
		return err
	}
	segs := store.Split(path)
	if len(segs) == 0 {
		return types.ErrInvalidParameter
	}
	n := p.n
	for _, seg := range segs {
		child, ok := n.children[fold(seg)]
		if !ok {
			return types.ErrNotFound
		}
		n = child
	}
	if s.readOnly || !p.access.CanWrite() {
		return types.ErrAccessDenied
	}
	if len(n.children) > 0 {
		return types.ErrKeyHasSubkeys
	}
	delete(n.parent.children, fold(n.name))
	n.deleted = true
	s.stats.KeysDeleted++
	return nil
}

func (s *Store) SubKeys(h store.Handle) (store.SubkeyIterator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	if !k.access.CanRead() {
		return nil, types.ErrAccessDenied
	}
	return &subkeyIter{s: s, n: k.n}, nil
}

func (s *Store) ValueNames(h store.Handle) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	if !k.access.CanRead() {
		return nil, types.ErrAccessDenied
	}
	names := make([]string, 0, len(k.n.values))
	for _, v := range k.n.values {
		names = append(names, v.name)
	}
	sort.Slice(names, func(i, j int) bool { return fold(names[i]) < fold(names[j]) })
	return names, nil
}

func (s *Store) QueryValue(h store.Handle, name string, buf []byte) (types.RegType, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, err := s.lookup(h)
	if err != nil {
		return types.REG_NONE, 0, err
	}
	if !k.access.CanRead() {
		return types.REG_NONE, 0, types.ErrAccessDenied
	}
	v, ok := k.n.values[fold(name)]
	if !ok {
		return types.REG_NONE, 0, types.ErrNotFound
	}
	if len(buf) < len(v.data) {
		return v.typ, len(v.data), types.ErrMoreData
	}
	copy(buf, v.data)
	return v.typ, len(v.data), nil
}

func (s *Store) SetValue(h store.Handle, name string, typ types.RegType, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, err := s.lookup(h)
	if err != nil {
		return err
	}
	if s.readOnly || !k.access.CanWrite() {
		return types.ErrAccessDenied
	}
	k.n.values[fold(name)] = &value{
		name: name,
		typ:  typ,
		data: append([]byte(nil), data...),
	}
	s.stats.ValuesWritten++
	return nil
}

func (s *Store) DeleteValue(h store.Handle, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, err := s.lookup(h)
	if err != nil {
		return err
	}
	if s.readOnly || !k.access.CanWrite() {
		return types.ErrAccessDenied
	}
	if _, ok := k.n.values[fold(name)]; !ok {
		return types.ErrNotFound
	}
	delete(k.n.values, fold(name))
	s.stats.ValuesDeleted++
	return nil
}

// lookup resolves a handle. Callers must hold s.mu.
func (s *Store) lookup(h store.Handle) (*openKey, error) {
	if h == rootHandle {
		return &openKey{n: s.root, access: store.AccessAll}, nil
	}
	k, ok := s.handles[h]
	if !ok || k.n.deleted {
		return nil, types.ErrInvalidHandle
	}
	return k, nil
}

// issue registers a new handle for n. Callers must hold s.mu.
func (s *Store) issue(n *node, access store.Access) store.Handle {
	h := s.next
	s.next++
	s.handles[h] = &openKey{n: n, access: access}
	return h
}

func fold(name string) string { return strings.ToLower(name) }

// subkeyIter snapshots the child names on first use and walks them in
// case-insensitive order.
type subkeyIter struct {
	s      *Store
	n      *node
	names  []string
	loaded bool
	pos    int
	closed bool
}

func (it *subkeyIter) Next() (string, error) {
	if it.closed {
		return "", types.ErrInvalidHandle
	}
	if !it.loaded {
		it.s.mu.Lock()
		if it.n.deleted {
			it.s.mu.Unlock()
			return "", types.ErrInvalidHandle
		}
		it.names = make([]string, 0, len(it.n.children))
		for _, c := range it.n.children {
			it.names = append(it.names, c.name)
		}
		it.s.mu.Unlock()
		sort.Slice(it.names, func(i, j int) bool { return fold(it.names[i]) < fold(it.names[j]) })
		it.loaded = true
	}
	if it.pos >= len(it.names) {
		return "", io.EOF
	}
	name := it.names[it.pos]
	it.pos++
	return name, nil
}

func (it *subkeyIter) Close() error {
	it.closed = true
	return nil
}
