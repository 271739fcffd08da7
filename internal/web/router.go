// Package web serves the read-only viewer: the embedded static page plus
// the snapshot document it renders. It never mutates the store.
package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/anzeb/placekeeper/internal/store"
	webembed "github.com/anzeb/placekeeper/web"
)

// Server holds the viewer's dependencies.
type Server struct {
	DB *sql.DB
}

// NewRouter creates the viewer router with all routes registered.
func NewRouter(db *sql.DB) http.Handler {
	s := &Server{DB: db}

	mux := http.NewServeMux()
	static := http.FileServer(http.FS(webembed.StaticFS()))
	mux.Handle("GET /static/", http.StripPrefix("/static/", static))
	mux.Handle("GET /{$}", static)
	mux.HandleFunc("GET /snapshot.json", s.Snapshot)
	mux.HandleFunc("GET /items/{id}/photo", s.ItemPhoto)

	return LoggingMiddleware(mux)
}

// Snapshot handles GET /snapshot.json: the same document `export` writes,
// generated at request time from the local store.
func (s *Server) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := store.ExportSnapshot(r.Context(), s.DB, time.Now())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to export snapshot")
		return
	}
	jsonResponse(w, http.StatusOK, snap)
}

// ItemPhoto handles GET /items/{id}/photo.
func (s *Server) ItemPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	photo, mime, err := store.GetItemPhoto(r.Context(), s.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if photo == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(photo)
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("error encoding response: %v", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}
