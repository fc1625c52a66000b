package regtext

// .reg file tokens.
const (
	// RegFileHeader is the header regedit writes for version 5 files.
	RegFileHeader = "Windows Registry Editor Version 5.00"

	// Regedit4Header is the legacy ANSI header, still accepted on input.
	Regedit4Header = "REGEDIT4"

	KeyOpenBracket     = "["
	KeyCloseBracket    = "]"
	DeleteKeyPrefix    = "-"
	ValueAssignment    = "="
	DefaultValuePrefix = "@="
	CommentPrefix      = ";"
	DeleteValueToken   = "-"
	Continuation       = "\\"

	Quote            = "\""
	Backslash        = "\\"
	EscapedQuote     = "\\\""
	EscapedBackslash = "\\\\"

	CRLF = "\r\n"
	CR   = "\r"
)

// Value payload prefixes.
const (
	DWORDPrefix       = "dword:"
	HexPrefix         = "hex:"
	HexExpandSZPrefix = "hex(2):"
	HexMultiSZPrefix  = "hex(7):"
	HexTypeFormat     = "hex(%x):"
	HexByteFormat     = "%02x"
	HexByteSeparator  = ","
	DWORDHexFormat    = "%08x"
	DWORDHexLength    = 8
)

// Output encodings.
const (
	EncodingUTF8    = "UTF-8"
	EncodingUTF16LE = "UTF-16LE"
)

// Root key names as they appear in section headers.
const (
	HKEYClassesRoot       = "HKEY_CLASSES_ROOT"
	HKEYClassesRootShort  = "HKCR"
	HKEYCurrentUser       = "HKEY_CURRENT_USER"
	HKEYCurrentUserShort  = "HKCU"
	HKEYLocalMachine      = "HKEY_LOCAL_MACHINE"
	HKEYLocalMachineShort = "HKLM"

	classesSubpath = `Software\Classes`
)

// ClassesRoots lists every spelling of a classes root, longest first so
// the HKCU and HKLM forms win over a bare hive name.
var ClassesRoots = []string{
	HKEYCurrentUser + Backslash + classesSubpath,
	HKEYLocalMachine + Backslash + classesSubpath,
	HKEYCurrentUserShort + Backslash + classesSubpath,
	HKEYLocalMachineShort + Backslash + classesSubpath,
	HKEYClassesRoot,
	HKEYClassesRootShort,
}

const (
	scannerInitialBufferSize = 64 * 1024
	scannerMaxLineSize       = 1024 * 1024

	// hexLineWidth is where regedit wraps long hex payloads.
	hexLineWidth = 76
)

var (
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
)
