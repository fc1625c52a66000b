//go:build !windows

package shellnotify

func broadcast() error { return nil }
