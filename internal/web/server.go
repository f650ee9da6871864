// Package web exposes the handicap service as a small JSON API.
//
// Three endpoints mirror the steps of the calculation: search a player,
// list courses grouped by base name, and compute a playing-handicap table
// for a chosen course and player set.
package web

import (
	"encoding/json"
	"net/http"

	"github.com/bkoksal/tgf-handicap/internal/course"
	"github.com/bkoksal/tgf-handicap/internal/logger"
	"github.com/bkoksal/tgf-handicap/internal/player"
)

// Server holds the service's shared state: one directory (with its session
// reuse behind it), one catalog, and the per-day query cache.
type Server struct {
	log       *logger.Logger
	directory player.Directory
	catalog   course.Catalog
	queries   *player.QueryCache
}

// NewServer wires a server from its collaborators.
func NewServer(log *logger.Logger, directory player.Directory, catalog course.Catalog) *Server {
	return &Server{
		log:       log,
		directory: directory,
		catalog:   catalog,
		queries:   player.NewQueryCache(),
	}
}

// Routes returns the service's handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/search_player", s.handleSearchPlayer)
	mux.HandleFunc("/api/courses", s.handleCourses)
	mux.HandleFunc("/api/calculate", s.handleCalculate)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
