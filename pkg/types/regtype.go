package types

import "fmt"

// RegType enumerates Windows registry value types.
// (The numbers align with Windows definitions.)
type RegType uint32

const (
	REG_NONE                       RegType = 0
	REG_SZ                         RegType = 1
	REG_EXPAND_SZ                  RegType = 2
	REG_BINARY                     RegType = 3
	REG_DWORD                      RegType = 4
	REG_DWORD_LE                   RegType = 4 // alias for clarity
	REG_DWORD_BE                   RegType = 5
	REG_LINK                       RegType = 6
	REG_MULTI_SZ                   RegType = 7
	REG_RESOURCE_LIST              RegType = 8
	REG_FULL_RESOURCE_DESCRIPTOR   RegType = 9
	REG_RESOURCE_REQUIREMENTS_LIST RegType = 10
	REG_QWORD                      RegType = 11
)

// String implements the Stringer interface for RegType
func (t RegType) String() string {
	switch t {
	case REG_NONE:
		return "REG_NONE"
	case REG_SZ:
		return "REG_SZ"
	case REG_EXPAND_SZ:
		return "REG_EXPAND_SZ"
	case REG_BINARY:
		return "REG_BINARY"
	case REG_DWORD:
		return "REG_DWORD"
	case REG_DWORD_BE:
		return "REG_DWORD_BE"
	case REG_LINK:
		return "REG_LINK"
	case REG_MULTI_SZ:
		return "REG_MULTI_SZ"
	case REG_RESOURCE_LIST:
		return "REG_RESOURCE_LIST"
	case REG_FULL_RESOURCE_DESCRIPTOR:
		return "REG_FULL_RESOURCE_DESCRIPTOR"
	case REG_RESOURCE_REQUIREMENTS_LIST:
		return "REG_RESOURCE_REQUIREMENTS_LIST"
	case REG_QWORD:
		return "REG_QWORD"
	default:
		return fmt.Sprintf("UNKNOWN_TYPE_%d", int32(t))
	}
}

// IsString reports whether values of this type carry UTF-16 text.
func (t RegType) IsString() bool {
	return t == REG_SZ || t == REG_EXPAND_SZ || t == REG_LINK
}

// -----------------------------------------------------------------------------
// .reg edit operations
// -----------------------------------------------------------------------------

// EditOp represents a high-level registry edit parsed from .reg text.
// Paths are relative to the store root.
type EditOp interface{ isEdit() }

type OpSetValue struct {
	Path string
	Name string
	Type RegType
	Data []byte
}

func (OpSetValue) isEdit() {}

type OpDeleteValue struct {
	Path string
	Name string
}

func (OpDeleteValue) isEdit() {}

type OpCreateKey struct {
	Path string
}

func (OpCreateKey) isEdit() {}

type OpDeleteKey struct {
	Path string
}

func (OpDeleteKey) isEdit() {}
