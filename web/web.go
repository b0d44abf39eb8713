// Package web holds the default page template and static assets. Files
// placed in the configured template and static directories take precedence
// over the embedded copies.
package web

import (
	"embed"
	"errors"
	"io/fs"
	"os"
)

//go:embed templates/* static/*
var embedded embed.FS

// Templates returns the page templates, preferring files found in dir.
func Templates(dir string) fs.FS {
	return layered(dir, "templates")
}

// Static returns the static assets, preferring files found in dir.
func Static(dir string) fs.FS {
	return layered(dir, "static")
}

func layered(dir, sub string) fs.FS {
	fallback, err := fs.Sub(embedded, sub)
	if err != nil {
		// Only reachable if the embed pattern above changes.
		panic(err)
	}
	if dir == "" {
		return fallback
	}
	return overlayFS{upper: os.DirFS(dir), lower: fallback}
}

// overlayFS opens names from upper and falls back to lower when upper does
// not have them.
type overlayFS struct {
	upper fs.FS
	lower fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.upper.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.lower.Open(name)
}
