package fileassoc

import (
	"log/slog"

	"github.com/joshuapare/assockit/internal/shellnotify"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger shared by the client and its managers.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithNotifier replaces the shell notifier called after association changes.
func WithNotifier(n shellnotify.Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithExecutableResolver replaces os.Executable as the source of the running
// executable's path used by Current.
func WithExecutableResolver(fn func() (string, error)) Option {
	return func(c *Client) {
		if fn != nil {
			c.executable = fn
		}
	}
}
