package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/assockit/internal/regtext"
)

func init() {
	rootCmd.AddCommand(newImportCmd())
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.reg>",
		Short: "Apply a .reg file to the classes root",
		Long: `The import command replays a .reg file against the selected classes root.
Every section must live under a classes root (HKEY_CLASSES_ROOT or
Software\Classes of HKCU or HKLM); other sections are rejected before anything
is written.

Example:
  assocctl import acme.reg
  assocctl --reg-file snapshot.reg import acme.reg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args)
		},
	}
}

func runImport(args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	ops, err := regtext.Parse(data, regtext.ParseOptions{})
	if err != nil {
		return err
	}
	err = withSession(func(sess *session) error {
		return regtext.Apply(sess.store, ops, logger)
	})
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(map[string]int{"operations": len(ops)})
	}
	printInfo("%s %d operations from %s\n", successStyle.Render("Applied"), len(ops), args[0])
	return nil
}
