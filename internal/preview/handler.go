package preview

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Routes serves GET /{id} for live previews. Mount it under /previews.
func (r *Registry) Routes(allowedOrigins []string) chi.Router {
	router := chi.NewRouter()

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Range"},
		ExposedHeaders: []string{"Content-Length", "Content-Range"},
		MaxAge:         300,
	}))

	router.Get("/{id}", r.serve)
	router.Head("/{id}", r.serve)

	return router
}

func (r *Registry) serve(w http.ResponseWriter, req *http.Request) {
	b, ok := r.lookup(chi.URLParam(req, "id"))
	if !ok {
		http.NotFound(w, req)
		return
	}
	if b.contentType != "" {
		w.Header().Set("Content-Type", b.contentType)
	}
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, req, b.name, b.createdAt, bytes.NewReader(b.data))
}
