package httpapi

import (
	"embed"
	"net/http"
)

// The real product front-end lives elsewhere; these embedded pages keep the
// gate's redirect targets resolvable when the server runs standalone.

//go:embed pages/*.html
var pageFS embed.FS

func servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := pageFS.ReadFile("pages/" + name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	}
}
