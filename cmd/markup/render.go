package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/internal/publish"
	"github.com/vango-dev/markup/pkg/document"
	"github.com/vango-dev/markup/pkg/markup"
)

func renderCmd(a *app) *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "render [file...]",
		Short: "Render documents to HTML",
		Long: `Render one or more document descriptions to HTML.

With no file, or "-", the description is read from stdin. The format is
taken from the file extension unless --format is given. With several
files, --output names a directory and each page is written next to its
relative path.

Examples:
  markup render pages/index.yaml
  markup render --format json < page.json
  markup render -o dist pages/a.yaml pages/b.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), a, cmd.InOrStdin(), args, output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, or directory when rendering several files")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: yaml or json (default from extension)")

	return cmd
}

func runRender(ctx context.Context, a *app, stdin io.Reader, files []string, output, format string) error {
	if len(files) == 0 {
		files = []string{"-"}
	}

	if len(files) > 1 && output != "" {
		store, err := publish.NewDiskStore(output)
		if err != nil {
			return err
		}
		p := publish.New(store, publish.Options{Renderer: a.renderer, Logger: a.logger})
		for _, file := range files {
			doc, err := readDocument(stdin, file, format)
			if err != nil {
				return err
			}
			key := publish.PageKey(filepath.Base(file))
			if err := p.Publish(ctx, key, doc); err != nil {
				return err
			}
		}
		a.success("Rendered %d documents to %s", len(files), output)
		return nil
	}

	w := a.out
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	for _, file := range files {
		doc, err := readDocument(stdin, file, format)
		if err != nil {
			return err
		}
		out, err := a.renderer.RenderContext(ctx, doc)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, out+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func readDocument(stdin io.Reader, file, format string) (*markup.Node, error) {
	f, err := parseFormat(format, file)
	if err != nil {
		return nil, err
	}
	if file == "-" {
		return document.Decode(stdin, f)
	}
	if format == "" {
		return document.ParseFile(file)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.New("E140").Wrap(err).WithDetailf("reading %s", file)
	}
	return document.Parse(data, f)
}

func parseFormat(format, file string) (document.Format, error) {
	switch format {
	case "":
		return document.FormatFromPath(file), nil
	case "yaml", "yml":
		return document.FormatYAML, nil
	case "json":
		return document.FormatJSON, nil
	}
	return 0, errors.New("E140").WithDetailf("unknown format %q", format)
}
