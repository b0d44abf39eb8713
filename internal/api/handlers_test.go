package api

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/projecthelena/tictactoe/internal/config"
	"github.com/projecthelena/tictactoe/internal/metrics"
	"github.com/projecthelena/tictactoe/internal/render"
	"github.com/projecthelena/tictactoe/web"
)

// setupTest builds the full router against fresh template and static
// directories so the embedded defaults are served.
func setupTest(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()

	cfg := config.Default()
	root := t.TempDir()
	cfg.TemplateDir = filepath.Join(root, "templates")
	cfg.StaticDir = filepath.Join(root, "static")
	if err := cfg.PrepareDirs(); err != nil {
		t.Fatalf("PrepareDirs: %v", err)
	}

	pages, err := render.New(web.Templates(cfg.TemplateDir), cfg.Debug)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	store, err := NewSessionStore(&cfg)
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}

	router := NewRouter(testContext(t), &cfg, pages, store, metrics.NewRegistry())
	return router, &cfg
}

// testContext returns a context canceled when the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
