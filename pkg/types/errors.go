package types

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindNotFound         ErrKind = iota // missing key/value/path
	ErrKindPermission                      // store refused access
	ErrKindInvalidHandle                   // closed, unknown or foreign handle
	ErrKindInvalidParameter                // malformed id, extension or path
	ErrKindMoreData                        // caller buffer too small
	ErrKindIO                              // store I/O failure surfaced by a higher layer
	ErrKindReadGate                        // application opened without read permission
	ErrKindWriteGate                       // application opened without write permission
	ErrKindExecutable                      // running executable could not be resolved
	ErrKindState                           // invalid operation for current state
	ErrKindUnsupported                     // valid feature we don't support on this platform
	ErrKindType                            // value has an unexpected registry type
	ErrKindConflict                        // record owned by someone else
)

// String returns a short name for the kind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not-found"
	case ErrKindPermission:
		return "permission"
	case ErrKindInvalidHandle:
		return "invalid-handle"
	case ErrKindInvalidParameter:
		return "invalid-parameter"
	case ErrKindMoreData:
		return "more-data"
	case ErrKindIO:
		return "io"
	case ErrKindReadGate:
		return "read-gate"
	case ErrKindWriteGate:
		return "write-gate"
	case ErrKindExecutable:
		return "executable"
	case ErrKindState:
		return "state"
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindType:
		return "type"
	case ErrKindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels commonly returned by implementations.
var (
	// ErrNotFound indicates a missing key or value.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrAccessDenied indicates the store refused the requested access.
	ErrAccessDenied = &Error{Kind: ErrKindPermission, Msg: "access denied"}
	// ErrInvalidHandle indicates a handle that is closed or was never issued.
	ErrInvalidHandle = &Error{Kind: ErrKindInvalidHandle, Msg: "invalid handle"}
	// ErrInvalidParameter indicates a malformed argument.
	ErrInvalidParameter = &Error{Kind: ErrKindInvalidParameter, Msg: "invalid parameter"}
	// ErrMoreData indicates the supplied buffer could not hold the value.
	ErrMoreData = &Error{Kind: ErrKindMoreData, Msg: "more data is available"}
	// ErrKeyHasSubkeys is returned when deleting a key that still has children.
	// It wraps ErrAccessDenied because that is what the registry reports.
	ErrKeyHasSubkeys = &Error{Kind: ErrKindPermission, Msg: "key has subkeys", Err: ErrAccessDenied}

	// ErrReadPermissionRequired is returned by read operations on an
	// application opened without read permission.
	ErrReadPermissionRequired = &Error{Kind: ErrKindReadGate, Msg: "read permission required"}
	// ErrWritePermissionRequired is returned by mutations on an application
	// opened without write permission.
	ErrWritePermissionRequired = &Error{Kind: ErrKindWriteGate, Msg: "write permission required"}
	// ErrExecutableDoesntExist indicates the running executable could not be resolved.
	ErrExecutableDoesntExist = &Error{Kind: ErrKindExecutable, Msg: "executable doesn't exist"}

	// ErrTypeMismatch indicates a value of an unexpected registry type.
	ErrTypeMismatch = &Error{Kind: ErrKindType, Msg: "registry value has different type"}
	// ErrAlreadyAssociated indicates an extension is bound to a different ProgID.
	ErrAlreadyAssociated = &Error{Kind: ErrKindConflict, Msg: "extension is associated with another ProgID"}
	// ErrStillAssociated indicates a ProgID that extensions still point at.
	ErrStillAssociated = &Error{Kind: ErrKindConflict, Msg: "ProgID still has associated extensions"}
	// ErrApplicationDeleted is returned by any call on a deleted application.
	ErrApplicationDeleted = &Error{Kind: ErrKindState, Msg: "application was deleted"}
	// ErrUnsupported indicates a backend that is not available on this platform.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "unsupported on this platform"}
)

// IsKind reports whether any *Error in err's tree has the given kind. Like
// errors.Is it follows both Unwrap() error and Unwrap() []error, so every
// operand of a multi-%w error is searched.
func IsKind(err error, kind ErrKind) bool {
	if err == nil {
		return false
	}
	if te, ok := err.(*Error); ok {
		if te == nil {
			return false
		}
		if te.Kind == kind {
			return true
		}
	}
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			if IsKind(e, kind) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return IsKind(x.Unwrap(), kind)
	}
	return false
}

// IOError wraps a store failure so it is surfaced as an I/O error while
// keeping the original cause matchable with errors.Is.
func IOError(msg string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: ErrKindIO, Msg: msg, Err: cause}
}
