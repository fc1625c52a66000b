package main

import (
	"github.com/spf13/cobra"
)

var unregisterStrict bool

func init() {
	cmd := newUnregisterCmd()
	cmd.Flags().BoolVar(&unregisterStrict, "strict", false, "Refuse while extensions still point at the ProgID")
	rootCmd.AddCommand(cmd)
}

func newUnregisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unregister <id>",
		Short: "Delete a ProgID",
		Long: `The unregister command deletes a ProgID record. Extensions bound to it are
left in place unless --strict is given, in which case the command fails while
any remain.

Example:
  assocctl unregister Acme.Notes
  assocctl unregister Acme.Notes --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnregister(args)
		},
	}
}

func runUnregister(args []string) error {
	id := args[0]
	err := withSession(func(sess *session) error {
		return sess.client.Bind(id, "", strictPerms(unregisterStrict)).Delete()
	})
	if err != nil {
		return err
	}
	if cfg.Forget(id) {
		saveConfig()
	}
	if jsonOut {
		return printJSON(map[string]string{"unregistered": id})
	}
	printInfo("%s %s\n", successStyle.Render("Unregistered"), titleStyle.Render(id))
	return nil
}
