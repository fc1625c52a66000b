package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/assockit/pkg/fileassoc"
	"github.com/joshuapare/assockit/pkg/types"
)

var associateStrict bool

func init() {
	cmd := newAssociateCmd()
	cmd.Flags().BoolVar(&associateStrict, "strict", false, "Refuse extensions already bound to another ProgID")
	rootCmd.AddCommand(cmd)
	rootCmd.AddCommand(newDisassociateCmd())
}

func newAssociateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "associate <id> <ext>...",
		Short: "Bind file extensions to a ProgID",
		Long: `The associate command points each extension's default value at the ProgID
and tells the shell that associations changed. The leading dot is optional.

Example:
  assocctl associate Acme.Notes .note .todo
  assocctl associate Acme.Notes txt --strict`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssociate(args)
		},
	}
}

func newDisassociateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disassociate <id> <ext>...",
		Short: "Unbind file extensions from a ProgID",
		Long: `The disassociate command clears each extension's default value when it
names the ProgID. Extensions owned by another ProgID are an error.

Example:
  assocctl disassociate Acme.Notes .note`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisassociate(args)
		},
	}
}

// openApp returns the application for an existing ProgID.
func openApp(sess *session, id string, perms fileassoc.Permissions) (*fileassoc.Application, error) {
	app, err := sess.client.Get(id, "", perms)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, fmt.Errorf("ProgID %s is not registered: %w", id, types.ErrNotFound)
	}
	return app, nil
}

func runAssociate(args []string) error {
	id, exts := args[0], args[1:]
	err := withSession(func(sess *session) error {
		app, err := openApp(sess, id, strictPerms(associateStrict))
		if err != nil {
			return err
		}
		for _, ext := range exts {
			if err := app.SetFileTypeAssociation(ext); err != nil {
				return err
			}
			logger.Info("associated", "extension", ext, "id", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return reportExtensions("Associated", id, exts)
}

func runDisassociate(args []string) error {
	id, exts := args[0], args[1:]
	err := withSession(func(sess *session) error {
		app, err := openApp(sess, id, fileassoc.ReadWrite())
		if err != nil {
			return err
		}
		for _, ext := range exts {
			if err := app.RemoveFileTypeAssociation(ext); err != nil {
				return err
			}
			logger.Info("disassociated", "extension", ext, "id", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return reportExtensions("Disassociated", id, exts)
}

func reportExtensions(verb, id string, exts []string) error {
	if jsonOut {
		return printJSON(map[string]any{"id": id, "extensions": exts})
	}
	for _, ext := range exts {
		printInfo("%s %s -> %s\n", successStyle.Render(verb), extStyle.Render(ext), titleStyle.Render(id))
	}
	return nil
}
