package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/assockit/internal/regtext"
	"github.com/joshuapare/assockit/pkg/fileassoc"
)

var (
	exportOutput string
	exportUTF16  bool
)

func init() {
	cmd := newExportCmd()
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&exportUTF16, "utf16", false, "Write UTF-16LE with BOM, as regedit does")
	rootCmd.AddCommand(cmd)
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <id>",
		Short: "Export a ProgID and its extensions as .reg text",
		Long: `The export command writes the ProgID subtree followed by every extension
key bound to it in regedit's .reg format.

Example:
  assocctl export Acme.Notes
  assocctl export Acme.Notes -o acme.reg --utf16`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args)
		},
	}
}

func runExport(args []string) error {
	id := args[0]
	opts := regtext.ExportOptions{Logger: logger}
	if exportUTF16 {
		opts.Encoding = regtext.EncodingUTF16LE
		opts.WithBOM = true
	}

	var out []byte
	err := withSession(func(sess *session) error {
		app, err := openApp(sess, id, fileassoc.ReadOnly())
		if err != nil {
			return err
		}
		exts, err := app.EnumerateAssociations()
		if err != nil {
			return err
		}
		opts.Root = sess.rootName
		out, err = regtext.Export(sess.store, append([]string{id}, exts...), opts)
		return err
	})
	if err != nil {
		return err
	}

	if exportOutput == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(exportOutput, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportOutput, err)
	}
	printInfo("%s %s to %s\n", successStyle.Render("Exported"), titleStyle.Render(id), exportOutput)
	return nil
}
