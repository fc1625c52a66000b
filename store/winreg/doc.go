// Package winreg binds store.Store to the live Windows registry through
// golang.org/x/sys/windows/registry.
//
// The application-class root depends on the Scope:
//   - ScopeMerged:  HKEY_CLASSES_ROOT (the merged per-user/per-machine view)
//   - ScopeUser:    HKEY_CURRENT_USER\Software\Classes (no elevation needed)
//   - ScopeMachine: HKEY_LOCAL_MACHINE\Software\Classes (writes need elevation)
//
// Writes the caller is not entitled to surface as types.ErrAccessDenied; the
// store never tries to elevate. On other platforms New returns
// types.ErrUnsupported.
package winreg

import (
	"fmt"
	"strings"

	"github.com/joshuapare/assockit/pkg/types"
)

// Scope selects which classes root the store is bound to.
type Scope int

const (
	ScopeMerged Scope = iota
	ScopeUser
	ScopeMachine
)

// ClassesPath is the classes subtree under HKCU and HKLM.
const ClassesPath = `Software\Classes`

func (s Scope) String() string {
	switch s {
	case ScopeMerged:
		return "merged"
	case ScopeUser:
		return "user"
	case ScopeMachine:
		return "machine"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// RootName is the .reg spelling of the scope's classes root.
func (s Scope) RootName() string {
	switch s {
	case ScopeUser:
		return `HKEY_CURRENT_USER\` + ClassesPath
	case ScopeMachine:
		return `HKEY_LOCAL_MACHINE\` + ClassesPath
	default:
		return "HKEY_CLASSES_ROOT"
	}
}

// ParseScope parses "merged", "user" or "machine" (case-insensitive).
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "merged", "hkcr":
		return ScopeMerged, nil
	case "user", "hkcu":
		return ScopeUser, nil
	case "machine", "hklm":
		return ScopeMachine, nil
	default:
		return 0, fmt.Errorf("winreg: unknown scope %q: %w", s, types.ErrInvalidParameter)
	}
}
