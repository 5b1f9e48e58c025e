package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web
var webContent embed.FS

// webFS returns the embedded upload page with the prefix stripped.
func webFS() fs.FS {
	sub, err := fs.Sub(webContent, "web")
	if err != nil {
		// only fails if the embed directive is wrong
		panic(err)
	}
	return sub
}

// serveIndex serves the upload page.
func serveIndex(root fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, root, "index.html")
	}
}
