package types

import (
	"testing"
)

func TestRegType_String(t *testing.T) {
	tests := []struct {
		name     string
		regType  RegType
		expected string
	}{
		{name: "REG_NONE", regType: REG_NONE, expected: "REG_NONE"},
		{name: "REG_SZ", regType: REG_SZ, expected: "REG_SZ"},
		{name: "REG_EXPAND_SZ", regType: REG_EXPAND_SZ, expected: "REG_EXPAND_SZ"},
		{name: "REG_BINARY", regType: REG_BINARY, expected: "REG_BINARY"},
		{name: "REG_DWORD", regType: REG_DWORD, expected: "REG_DWORD"},
		{name: "REG_DWORD_BE", regType: REG_DWORD_BE, expected: "REG_DWORD_BE"},
		{name: "REG_MULTI_SZ", regType: REG_MULTI_SZ, expected: "REG_MULTI_SZ"},
		{name: "REG_QWORD", regType: REG_QWORD, expected: "REG_QWORD"},
		{name: "Unknown type 100", regType: RegType(100), expected: "UNKNOWN_TYPE_100"},
		{name: "Invalid type -1 (0xFFFFFFFF)", regType: RegType(0xFFFFFFFF), expected: "UNKNOWN_TYPE_-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.regType.String()
			if result != tt.expected {
				t.Errorf("RegType(%d).String() = %q, expected %q", uint32(tt.regType), result, tt.expected)
			}
		})
	}
}

func TestRegType_IsString(t *testing.T) {
	if !REG_SZ.IsString() || !REG_EXPAND_SZ.IsString() {
		t.Error("REG_SZ and REG_EXPAND_SZ carry text")
	}
	if REG_DWORD.IsString() || REG_BINARY.IsString() || REG_MULTI_SZ.IsString() {
		t.Error("non-string types reported as text")
	}
}
