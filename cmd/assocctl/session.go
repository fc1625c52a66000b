package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/assockit/internal/regtext"
	"github.com/joshuapare/assockit/internal/shellnotify"
	"github.com/joshuapare/assockit/pkg/fileassoc"
	"github.com/joshuapare/assockit/store"
	"github.com/joshuapare/assockit/store/memstore"
	"github.com/joshuapare/assockit/store/winreg"
)

// session is one command's view of the classes root.
type session struct {
	store    store.Store
	client   *fileassoc.Client
	rootName string

	close func() error
	// save writes an offline snapshot back to disk; nil for the live registry.
	save func() error
}

// openSession binds the store selected by --reg-file or --scope.
func openSession() (*session, error) {
	scope, err := winreg.ParseScope(scopeName)
	if err != nil {
		return nil, err
	}
	if regFile != "" {
		return openSnapshot(regFile, scope.RootName())
	}

	s, err := winreg.New(scope)
	if err != nil {
		return nil, fmt.Errorf("open %s registry: %w", scope, err)
	}
	logger.Debug("opened live registry", "scope", scope.String(), "root", scope.RootName())
	return &session{
		store:    s,
		client:   fileassoc.New(s, fileassoc.WithLogger(logger)),
		rootName: scope.RootName(),
		close:    s.Close,
	}, nil
}

func openSnapshot(path, rootName string) (*session, error) {
	s := memstore.New()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Debug("snapshot does not exist yet", "path", path)
	case err != nil:
		return nil, fmt.Errorf("read snapshot: %w", err)
	default:
		if err := regtext.Load(s, data, logger); err != nil {
			return nil, fmt.Errorf("load snapshot %s: %w", path, err)
		}
	}
	loaded := s.Stats().Mutations()
	sess := &session{
		store:    s,
		client:   fileassoc.New(s, fileassoc.WithLogger(logger), fileassoc.WithNotifier(shellnotify.Nop{})),
		rootName: rootName,
		close:    s.Close,
	}
	sess.save = func() error {
		if s.Stats().Mutations() == loaded {
			return nil
		}
		out, err := regtext.Export(s, []string{""}, regtext.ExportOptions{Root: rootName, Logger: logger})
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		logger.Debug("snapshot saved", "path", path, "mutations", s.Stats().Mutations()-loaded)
		return nil
	}
	return sess, nil
}

// finish persists a snapshot after a successful mutation and releases the
// store. The first error wins.
func (s *session) finish(runErr error) error {
	if runErr == nil && s.save != nil {
		runErr = s.save()
	}
	if err := s.close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// withSession runs fn against a fresh session.
func withSession(fn func(*session) error) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	return sess.finish(fn(sess))
}

// strictPerms returns read/write permissions, optionally strict.
func strictPerms(strict bool) fileassoc.Permissions {
	p := fileassoc.ReadWrite()
	p.Strict = strict
	return p
}
