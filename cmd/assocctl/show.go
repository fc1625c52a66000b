package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/assockit/pkg/fileassoc"
	"github.com/joshuapare/assockit/pkg/types"
	"github.com/joshuapare/assockit/progid"
)

func init() {
	rootCmd.AddCommand(newShowCmd())
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a ProgID and the extensions bound to it",
		Long: `The show command prints a ProgID record, whether its CurVer points back at
it and every extension whose default value names it. Finding the extensions
scans every top-level key of the classes root.

Example:
  assocctl show Acme.Notes
  assocctl show Acme.Notes --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args)
		},
	}
}

type showResult struct {
	*progid.ProgID
	Root       string   `json:"root"`
	Installed  bool     `json:"installed"`
	Extensions []string `json:"extensions"`
}

func runShow(args []string) error {
	id := args[0]
	var res showResult
	err := withSession(func(sess *session) error {
		app, err := sess.client.Get(id, "", fileassoc.ReadOnly())
		if err != nil {
			return err
		}
		if app == nil {
			return fmt.Errorf("ProgID %s is not registered: %w", id, types.ErrNotFound)
		}
		res.ProgID = app.Record()
		res.Root = sess.rootName
		if res.Installed, err = app.Installed(); err != nil {
			return err
		}
		res.Extensions, err = app.EnumerateAssociations()
		return err
	})
	if err != nil {
		return err
	}
	sort.Strings(res.Extensions)

	if jsonOut {
		return printJSON(res)
	}
	printInfo("%s\n", titleStyle.Render(res.Root+`\`+res.ID))
	printField("Name", res.Name)
	printField("Icon", deref(res.DefaultIconPath))
	printField("Open command", deref(res.OpenCommand))
	printField("Installed", yesNo(res.Installed))
	exts := make([]string, len(res.Extensions))
	for i, ext := range res.Extensions {
		exts[i] = extStyle.Render(ext)
	}
	printField("Extensions", strings.Join(exts, ", "))
	return nil
}

func printField(label, value string) {
	if value == "" {
		value = "-"
	}
	printInfo("  %s%s\n", labelStyle.Render(label), value)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return successStyle.Render("yes")
	}
	return warningStyle.Render("no")
}
