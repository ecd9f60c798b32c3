// Package api serves a machine-readable catalog of the hosted games, for
// launchers and dashboards that would rather not scrape the index page.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ahamlinman/gamehost/internal/games"
)

var websocketUpgrader = websocket.Upgrader{
	// The catalog is public and read-only, so any page may subscribe to it.
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// Handler serves the catalog API for a fixed set of games.
type Handler struct {
	mux     *http.ServeMux
	catalog []Entry
}

// Entry describes one game in the catalog.
type Entry struct {
	Name string
	Href string
}

// NewHandler creates a Handler serving the catalog of gs, in order.
func NewHandler(gs []games.Game) *Handler {
	h := &Handler{
		mux:     http.NewServeMux(),
		catalog: make([]Entry, len(gs)),
	}
	for i, g := range gs {
		h.catalog[i] = Entry{Name: g.Name, Href: g.Href()}
	}

	h.mux.HandleFunc("/api/games", h.handleGames)
	h.mux.HandleFunc("/api/sockets/games", h.handleSocketGames)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Add("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	if r.Method == http.MethodHead {
		return
	}
	json.NewEncoder(w).Encode(h.catalog)
}
