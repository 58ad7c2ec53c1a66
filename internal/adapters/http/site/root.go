// Package site serves the embedded survey form page.
package site

import (
	"context"
	"net/http"
)

// Register attaches the form page and its assets to mux at /.
// Unknown paths under / fall through to a 404 from the file server.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", noStore(http.FileServer(FS())))
}

// noStore keeps browsers from caching a page whose questions may change
// with a new model release.
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "/index.html" {
			w.Header().Set("Cache-Control", "no-store")
		}
		next.ServeHTTP(w, r)
	})
}
