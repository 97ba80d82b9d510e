package publish

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/document"
	"github.com/vango-dev/markup/pkg/markup"
)

// ContentType is the content type pages are stored with.
const ContentType = "text/html; charset=utf-8"

// Options configures a Publisher.
type Options struct {
	// Renderer renders documents. Defaults to markup.DefaultRenderer().
	Renderer *markup.Renderer

	// Logger receives one line per page. Defaults to slog.Default().
	Logger *slog.Logger

	// Prune deletes .html pages the run did not produce. Pruning is
	// skipped when any page failed.
	Prune bool
}

// Result lists what a run did.
type Result struct {
	Published []string
	Pruned    []string
}

// Publisher renders documents into a Store.
type Publisher struct {
	store    Store
	renderer *markup.Renderer
	logger   *slog.Logger
	prune    bool
}

// New creates a Publisher writing to store.
func New(store Store, opts Options) *Publisher {
	if opts.Renderer == nil {
		opts.Renderer = markup.DefaultRenderer()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Publisher{
		store:    store,
		renderer: opts.Renderer,
		logger:   opts.Logger,
		prune:    opts.Prune,
	}
}

// Publish renders n and stores it under key.
func (p *Publisher) Publish(ctx context.Context, key string, n *markup.Node) error {
	out, err := p.renderer.RenderContext(ctx, n)
	if err != nil {
		return errors.New("E150").Wrap(err).WithDetailf("rendering %s", key)
	}
	if err := p.store.Put(ctx, key, ContentType, strings.NewReader(out)); err != nil {
		return errors.New("E150").Wrap(err).WithDetailf("storing %s", key)
	}
	p.logger.Info("published", "key", key, "bytes", len(out))
	return nil
}

// PublishDir publishes every document below dir. A failing document does
// not stop the run; all failures are returned joined.
func (p *Publisher) PublishDir(ctx context.Context, dir string) (*Result, error) {
	files, err := documentFiles(dir)
	if err != nil {
		return nil, errors.New("E150").Wrap(err).WithDetailf("reading %s", dir)
	}

	result := &Result{}
	var errs []error
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		key := PageKey(rel)
		if err := p.publishFile(ctx, filepath.Join(dir, rel), key); err != nil {
			p.logger.Error("publish failed", "file", rel, "error", err)
			errs = append(errs, err)
			continue
		}
		result.Published = append(result.Published, key)
	}
	if len(errs) > 0 {
		return result, stderrors.Join(errs...)
	}

	if p.prune {
		pruned, err := p.pruneStale(ctx, result.Published)
		result.Pruned = pruned
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

func (p *Publisher) publishFile(ctx context.Context, path, key string) error {
	doc, err := document.ParseFile(path)
	if err != nil {
		return err
	}
	return p.Publish(ctx, key, doc)
}

func (p *Publisher) pruneStale(ctx context.Context, keep []string) ([]string, error) {
	keys, err := p.store.List(ctx)
	if err != nil {
		return nil, errors.New("E150").Wrap(err).WithDetail("listing store")
	}
	var pruned []string
	for _, key := range keys {
		if !strings.HasSuffix(key, ".html") || slices.Contains(keep, key) {
			continue
		}
		if err := p.store.Delete(ctx, key); err != nil && !stderrors.Is(err, ErrNotFound) {
			return pruned, errors.New("E150").Wrap(err).WithDetailf("deleting %s", key)
		}
		p.logger.Info("pruned", "key", key)
		pruned = append(pruned, key)
	}
	return pruned, nil
}

// PageKey maps a document path relative to the documents directory to
// the key of its page: "guide/intro.yaml" becomes "guide/intro.html".
func PageKey(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
}

// documentFiles lists the documents below dir, relative to it and sorted.
func documentFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml", ".json":
		default:
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}
