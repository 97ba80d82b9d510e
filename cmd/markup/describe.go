package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vango-dev/markup/pkg/schema"
)

func describeCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "describe [type...]",
		Short: "Show the declaration of node types",
		Long: `Show attributes, categories and content model of node types.

With no argument, the names of all declared types are listed.

Examples:
  markup describe
  markup describe a img
  markup describe --json x:doctype`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(a, args, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func runDescribe(a *app, names []string, asJSON bool) error {
	if len(names) == 0 {
		all := schema.Default.Names()
		if asJSON {
			return a.printJSON(all)
		}
		for _, name := range all {
			fmt.Fprintln(a.out, name)
		}
		return nil
	}

	descs := make([]schema.Description, 0, len(names))
	for _, name := range names {
		decl, err := schema.Lookup(name)
		if err != nil {
			return err
		}
		descs = append(descs, schema.Describe(decl))
	}
	if asJSON {
		return a.printJSON(descs)
	}
	for _, d := range descs {
		fmt.Fprint(a.out, d.String())
	}
	return nil
}

func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}
