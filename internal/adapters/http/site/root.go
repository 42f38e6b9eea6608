// Package site serves the dashboard page and its assets.
package site

import (
	"errors"
	"net/http"
	"os"

	"github.com/a-h/templ"

	"github.com/okian/floorwatch/internal/domain/dashboard"
	"github.com/okian/floorwatch/internal/platform/i18n"
)

// Error constants.
var (
	ErrRender = errors.New("dashboard page render failed")
)

const defaultTitle = "Factory floor"

// Option configures the site handler.
type Option func(*RootHandler)

// WithDebugAssets serves assets from dir without caching, so edits show up
// on reload. An empty dir keeps the embedded assets.
func WithDebugAssets(dir string) Option {
	return func(h *RootHandler) {
		if dir != "" {
			h.assetsDir = dir
		}
	}
}

// WithTitle overrides the page title.
func WithTitle(title string) Option {
	return func(h *RootHandler) {
		if title != "" {
			h.title = title
		}
	}
}

// RootHandler serves the dashboard page.
type RootHandler struct {
	layout    dashboard.LayoutView
	title     string
	assetsDir string
}

// NewRootHandler creates a new root handler for layout.
func NewRootHandler(layout dashboard.Layout, opts ...Option) *RootHandler {
	h := &RootHandler{layout: layout.Describe(), title: defaultTitle}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register attaches the page and asset routes to mux.
func (h *RootHandler) Register(mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", h.HandleRoot)
	mux.Handle("GET /static/", http.StripPrefix("/static/", h.assets()))
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	tag := i18n.ResolveTag(r)
	page := Page(PageData{Lang: tag.String(), Title: h.title, Layout: h.layout})
	templ.Handler(page).ServeHTTP(w, r)
}

func (h *RootHandler) assets() http.Handler {
	if h.assetsDir == "" {
		files := http.FileServer(FS())
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			files.ServeHTTP(w, r)
		})
	}
	files := http.FileServer(http.FS(os.DirFS(h.assetsDir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	})
}
