package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
)

// Pages lists the templates the server renders.
var Pages = []string{"index.html"}

// Renderer executes page templates from a file system. With reload enabled
// the templates are parsed again on every render so edits on disk show up
// without a restart.
type Renderer struct {
	fsys   fs.FS
	reload bool

	mu   sync.RWMutex
	tmpl *template.Template
}

// New parses the page templates. Outside reload mode a parse failure is
// returned; in reload mode it is logged and retried on the next render.
func New(fsys fs.FS, reload bool) (*Renderer, error) {
	r := &Renderer{fsys: fsys, reload: reload}

	tmpl, err := r.parse()
	if err != nil {
		if !reload {
			return nil, err
		}
		slog.Warn("page templates not ready, will retry on request", "error", err)
	}
	r.tmpl = tmpl
	return r, nil
}

func (r *Renderer) parse() (*template.Template, error) {
	tmpl, err := template.ParseFS(r.fsys, Pages...)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

func (r *Renderer) current() (*template.Template, error) {
	if r.reload {
		tmpl, err := r.parse()
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.tmpl = tmpl
		r.mu.Unlock()
		return tmpl, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tmpl, nil
}

// Render executes the named template into a buffer and writes it as HTML.
// Nothing is written to w when execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, err := r.current()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	// Headers are out; a failed write means the client went away.
	_, _ = buf.WriteTo(w)
	return nil
}

// Check reports whether the page templates currently parse.
func (r *Renderer) Check() error {
	_, err := r.parse()
	return err
}
