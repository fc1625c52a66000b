//go:build !windows

package winreg

import (
	"github.com/joshuapare/assockit/pkg/types"
	"github.com/joshuapare/assockit/store"
)

// Store is unavailable on this platform.
type Store struct {
	store.Store
}

// New always fails outside Windows.
func New(scope Scope) (*Store, error) {
	return nil, &types.Error{Kind: types.ErrKindUnsupported, Msg: "winreg: " + scope.String() + " registry", Err: types.ErrUnsupported}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
