package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/assockit/internal/config"
	"github.com/joshuapare/assockit/pkg/fileassoc"
)

var (
	registerIcon string
	registerExe  string
	registerSelf bool
)

func init() {
	cmd := newRegisterCmd()
	cmd.Flags().StringVar(&registerIcon, "icon", "", "Icon resource, e.g. C:\\app.exe,0")
	cmd.Flags().StringVar(&registerExe, "exe", "", "Executable written to shell\\open\\command")
	cmd.Flags().BoolVar(&registerSelf, "self", false, "Register the running executable")
	rootCmd.AddCommand(cmd)
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <id> [name]",
		Short: "Create or update a ProgID",
		Long: `The register command writes a ProgID record: its display name, CurVer and,
optionally, DefaultIcon and an open command. Running it again with the same
inputs changes nothing. The name, icon and executable are remembered in the
config file, so later runs can omit them.

Example:
  assocctl register Acme.Notes "Acme Notes" --exe "C:\Program Files\Acme\notes.exe"
  assocctl register Acme.Notes --icon "C:\Program Files\Acme\notes.exe,0"
  assocctl --reg-file notes.reg register Acme.Notes "Acme Notes"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(args)
		},
	}
	return cmd
}

func runRegister(args []string) error {
	id := args[0]
	remembered := cfg.Apps[id]
	desc := fileassoc.Descriptor{ID: id, Name: remembered.Name, IconPath: remembered.Icon}
	if len(args) > 1 {
		desc.Name = args[1]
	}
	if registerIcon != "" {
		desc.IconPath = registerIcon
	}
	exe := remembered.Exe
	if registerExe != "" {
		exe = registerExe
	}
	if desc.Name == "" {
		return fmt.Errorf("no name given for %s and none remembered", id)
	}

	var app *fileassoc.Application
	err := withSession(func(sess *session) error {
		var err error
		if registerSelf {
			app, err = sess.client.Current(desc, fileassoc.ReadWrite())
		} else {
			app, err = sess.client.Create(desc, exe, fileassoc.ReadWrite())
		}
		return err
	})
	if err != nil {
		return err
	}

	cfg.Remember(id, config.App{Name: desc.Name, Exe: app.Path(), Icon: desc.IconPath})
	saveConfig()

	if jsonOut {
		return printJSON(app.Record())
	}
	printInfo("%s %s\n", successStyle.Render("Registered"), titleStyle.Render(id))
	return nil
}
