//go:build windows

package shellnotify

import "golang.org/x/sys/windows"

const (
	shcneAssocChanged = 0x08000000
	shcnfIDList       = 0x0000
)

var (
	shell32            = windows.NewLazySystemDLL("shell32.dll")
	procSHChangeNotify = shell32.NewProc("SHChangeNotify")
)

func broadcast() error {
	if err := procSHChangeNotify.Find(); err != nil {
		return err
	}
	// SHChangeNotify has no return value.
	procSHChangeNotify.Call(shcneAssocChanged, shcnfIDList, 0, 0)
	return nil
}
