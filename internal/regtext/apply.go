package regtext

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joshuapare/assockit/internal/regval"
	"github.com/joshuapare/assockit/pkg/types"
	"github.com/joshuapare/assockit/store"
)

// Apply replays ops against s relative to s.Root(). Deleting a key or value
// that does not exist is not an error. The first other failure stops the
// replay; earlier operations stay applied.
func Apply(s store.Store, ops []types.EditOp, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	for i, op := range ops {
		if err := applyOne(s, op, logger); err != nil {
			return fmt.Errorf("regtext: op %d: %w", i, err)
		}
	}
	return nil
}

// Load parses data and applies it to s.
func Load(s store.Store, data []byte, logger *slog.Logger) error {
	ops, err := Parse(data, ParseOptions{})
	if err != nil {
		return err
	}
	return Apply(s, ops, logger)
}

func applyOne(s store.Store, op types.EditOp, logger *slog.Logger) error {
	switch o := op.(type) {
	case types.OpCreateKey:
		h, err := s.CreateKey(s.Root(), o.Path)
		if err != nil {
			return fmt.Errorf("create %s: %w", o.Path, err)
		}
		store.CloseQuietly(s, h, logger)
		return nil

	case types.OpSetValue:
		h, err := createOrRoot(s, o.Path)
		if err != nil {
			return fmt.Errorf("create %s: %w", o.Path, err)
		}
		defer store.CloseQuietly(s, h, logger)
		return regval.Write(s, h, o.Name, o.Type, o.Data)

	case types.OpDeleteValue:
		h := s.Root()
		if o.Path != "" {
			var err error
			h, err = s.OpenKey(s.Root(), o.Path, store.AccessAll)
			if store.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("open %s: %w", o.Path, err)
			}
			defer store.CloseQuietly(s, h, logger)
		}
		if err := s.DeleteValue(h, o.Name); err != nil && !store.IsNotFound(err) {
			return fmt.Errorf("delete value %q under %s: %w", o.Name, o.Path, err)
		}
		return nil

	case types.OpDeleteKey:
		return DeleteTree(s, s.Root(), o.Path, logger)

	default:
		return fmt.Errorf("unsupported operation %T", op)
	}
}

func createOrRoot(s store.Store, path string) (store.Handle, error) {
	if path == "" {
		return s.Root(), nil
	}
	return s.CreateKey(s.Root(), path)
}

// DeleteTree removes path and everything below it, children first. A
// missing key is not an error.
func DeleteTree(s store.Store, parent store.Handle, path string, logger *slog.Logger) error {
	h, err := s.OpenKey(parent, path, store.AccessAll)
	if store.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	it, err := s.SubKeys(h)
	if err != nil {
		store.CloseQuietly(s, h, logger)
		return fmt.Errorf("list %s: %w", path, err)
	}
	children, err := store.Collect(it)
	if err == nil {
		for _, child := range children {
			if err = DeleteTree(s, h, child, logger); err != nil {
				break
			}
		}
	}
	store.CloseQuietly(s, h, logger)
	if err != nil {
		return err
	}
	if err := s.DeleteKey(parent, path); err != nil && !store.IsNotFound(err) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
