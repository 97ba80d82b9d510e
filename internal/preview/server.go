package preview

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/markup/internal/config"
	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/document"
	_ "github.com/vango-dev/markup/pkg/html"
	"github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/schema"
)

// documentExts are tried in order when resolving a request path.
var documentExts = []string{".yaml", ".yml", ".json"}

// ServerOptions configures the preview server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Logger receives request and reload logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Renderer renders documents. Defaults to one built from Config.
	Renderer *markup.Renderer

	// Gatherer backs /metrics. The route is not mounted when nil.
	Gatherer prometheus.Gatherer
}

// Server is the preview server.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	renderer *markup.Renderer
	gatherer prometheus.Gatherer
	hub      *ReloadHub
	watcher  *Watcher
	router   chi.Router

	mu         sync.Mutex
	httpServer *http.Server
}

// NewServer creates a preview server. Live reload is wired when the
// configuration enables it.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	renderer := options.Renderer
	if renderer == nil {
		rc := cfg.RendererConfig()
		rc.Logger = logger
		renderer = markup.NewRenderer(rc)
	}

	s := &Server{
		config:   cfg,
		logger:   logger,
		renderer: renderer,
		gatherer: options.Gatherer,
	}
	if cfg.Preview.Reload {
		s.hub = NewReloadHub()
		s.watcher = NewWatcher(WatcherConfig{Paths: cfg.WatchPaths()})
		s.watcher.OnChange(s.onChange)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	if s.hub != nil {
		r.Handle(ReloadPath, s.hub)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/_markup/types", s.handleTypes)
	r.Get("/_markup/types/{name}", s.handleType)
	r.Get("/*", s.handleDocument)
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the reload hub, or nil when live reload is off.
func (s *Server) Hub() *ReloadHub {
	return s.hub
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.PreviewAddress())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	if s.watcher != nil {
		go s.watcher.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	if s.hub != nil {
		s.hub.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	file, ok := s.resolveDocument(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	doc, err := document.ParseFile(file)
	if err == nil {
		var out string
		if out, err = s.renderer.RenderContext(r.Context(), doc); err == nil {
			if s.hub != nil {
				out = injectReloadScript(out)
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(out))
			return
		}
	}

	s.logger.Error("render failed", "file", file, "error", err)
	if s.hub != nil {
		s.hub.NotifyError(err.Error())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	page := "<!DOCTYPE html><html><body><h1>Render error</h1><pre>" +
		markup.EscapeHTML(err.Error()) + "</pre></body></html>"
	if s.hub != nil {
		page = injectReloadScript(page)
	}
	w.Write([]byte(page))
}

// resolveDocument maps a URL path to a document file. Paths cannot leave
// the documents directory.
func (s *Server) resolveDocument(urlPath string) (string, bool) {
	clean := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	clean = strings.TrimSuffix(clean, ".html")
	if clean == "" || strings.HasSuffix(urlPath, "/") {
		clean = path.Join(clean, "index")
	}
	base := filepath.Join(s.config.DocumentsPath(), filepath.FromSlash(clean))
	for _, ext := range documentExts {
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schema.Default.Names())
}

func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	decl, err := schema.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		var me *errors.MarkupError
		if stderrors.As(err, &me) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(me.FormatJSON()))
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, schema.Describe(decl))
}

func (s *Server) onChange(changes []Change) {
	for _, c := range changes {
		s.logger.Info("change detected", "path", c.Path, "type", c.Type.String(), "removed", c.Removed)
	}
	if s.hub == nil {
		return
	}
	s.hub.ClearError()
	s.hub.NotifyReload(changes[0].Path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// injectReloadScript places the reload script before </body>, or at the
// end when the page has none.
func injectReloadScript(page string) string {
	if i := strings.LastIndex(strings.ToLower(page), "</body>"); i >= 0 {
		return page[:i] + ReloadScript + page[i:]
	}
	return page + ReloadScript
}
