package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/joshuapare/assockit/pkg/fileassoc"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <id>",
		Short: "List the extensions bound to a ProgID",
		Long: `The list command prints every extension whose default value names the
ProgID. The ProgID itself does not have to exist.

Example:
  assocctl list Acme.Notes
  assocctl list txtfile --scope merged --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(args)
		},
	}
}

func runList(args []string) error {
	var exts []string
	err := withSession(func(sess *session) error {
		var err error
		exts, err = sess.client.Bind(args[0], "", fileassoc.ReadOnly()).EnumerateAssociations()
		return err
	})
	if err != nil {
		return err
	}
	sort.Strings(exts)

	if jsonOut {
		return printJSON(exts)
	}
	for _, ext := range exts {
		printInfo("%s\n", extStyle.Render(ext))
	}
	return nil
}
