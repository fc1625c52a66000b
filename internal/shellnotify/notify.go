// Package shellnotify tells the Windows shell that file associations
// changed so Explorer refreshes icons and open verbs.
package shellnotify

import "log/slog"

// Notifier is called after a successful association change.
type Notifier interface {
	AssociationsChanged()
}

// Func adapts a plain function to Notifier.
type Func func()

func (f Func) AssociationsChanged() { f() }

// Shell broadcasts SHCNE_ASSOCCHANGED. On other platforms it only logs.
type Shell struct {
	Logger *slog.Logger
}

// AssociationsChanged implements Notifier.
func (s Shell) AssociationsChanged() {
	if err := broadcast(); err != nil && s.Logger != nil {
		s.Logger.Warn("shell notification failed", "error", err)
		return
	}
	if s.Logger != nil {
		s.Logger.Debug("notified shell of association change")
	}
}

// Nop ignores notifications.
type Nop struct{}

func (Nop) AssociationsChanged() {}
