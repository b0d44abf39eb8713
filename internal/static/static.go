package static

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// NewHandler serves files from fsys. Paths are relative to the mount point,
// so callers strip their URL prefix first. Directories and missing files
// return 404; there is no index fallback.
func NewHandler(fsys fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upath := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if upath == "" || upath == "." {
			http.NotFound(w, r)
			return
		}
		info, err := fs.Stat(fsys, upath)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
