// Command markup renders, inspects, previews and publishes markup
// documents.
package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/markup/internal/config"
	"github.com/vango-dev/markup/internal/errors"
	_ "github.com/vango-dev/markup/pkg/html"
	"github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/metrics"
	"github.com/vango-dev/markup/pkg/schema"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd, teardown := newRootCmd(os.Stdout, os.Stderr)
	err := cmd.Execute()
	teardown()
	if err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// app is the state shared by all subcommands. It is filled in by setup
// before any subcommand runs.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	coercion   string
	verbose    bool

	cfg      *config.Config
	logger   *slog.Logger
	renderer *markup.Renderer
	registry *prometheus.Registry
	restore  []func()
}

// newRootCmd builds the command tree. The returned function undoes the
// settings installed by setup and must run after Execute.
func newRootCmd(out, errOut io.Writer) (*cobra.Command, func()) {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "markup",
		Short: "Typed markup trees for Go",
		Long: `markup renders document descriptions written in YAML or JSON
into HTML. Every node is checked against the attribute schema and content
model of its type before it is written.

Commands:
  render    Render documents to HTML
  describe  Show the declaration of node types
  serve     Preview documents with live reload
  publish   Render a directory of documents to disk or S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: markup.json or markup.yaml in the project root)")
	rootCmd.PersistentFlags().StringVar(&a.coercion, "coercion", "", "Coercion mode: silent, warn or strict (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		renderCmd(a),
		describeCmd(a),
		serveCmd(a),
		publishCmd(a),
		versionCmd(a),
	)
	return rootCmd, a.teardown
}

// setup loads the configuration and installs the process-wide settings.
// A missing config file is not an error: the defaults are used.
func (a *app) setup() error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.CheckVersion(version); err != nil {
		return err
	}
	if a.coercion != "" {
		cfg.CoercionMode = a.coercion
	}
	restore, err := cfg.Apply()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.restore = append(a.restore, restore)

	rc := cfg.RendererConfig()
	rc.Logger = a.logger

	notices := schema.NoticeHandler(a.logNotice)
	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		m := metrics.New(
			metrics.WithRegistry(a.registry),
			metrics.WithNamespace(cfg.Metrics.Namespace),
		)
		rc.Observer = m
		notices = m.NoticeHandler(notices)
	}
	prevNotices := schema.SetNoticeHandler(notices)

	a.renderer = markup.NewRenderer(rc)
	prevRenderer := markup.SetDefaultRenderer(a.renderer)
	a.restore = append(a.restore, func() {
		schema.SetNoticeHandler(prevNotices)
		markup.SetDefaultRenderer(prevRenderer)
	})
	return nil
}

func (a *app) teardown() {
	for i := len(a.restore) - 1; i >= 0; i-- {
		a.restore[i]()
	}
	a.restore = nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		return config.LoadFile(a.configPath)
	}
	cfg, err := config.LoadFromWorkingDir()
	if err == nil {
		a.logger.Debug("config loaded", "path", cfg.Path())
		return cfg, nil
	}
	var me *errors.MarkupError
	if stderrors.As(err, &me) && me.Code == "E131" {
		a.logger.Debug("no config file, using defaults")
		return config.New(), nil
	}
	return nil, err
}

func (a *app) logNotice(n schema.Notice) {
	a.logger.Warn("deprecated attribute coercion",
		"type", n.NodeType,
		"attribute", n.Attribute,
		"from", n.From,
		"to", n.To,
		"message", n.Message,
	)
}

// success prints a success message.
func (a *app) success(format string, args ...any) {
	fmt.Fprintf(a.out, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func (a *app) info(format string, args ...any) {
	fmt.Fprintf(a.out, "  %s\n", fmt.Sprintf(format, args...))
}
