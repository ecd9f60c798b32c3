package server

import (
	"net/http"
	"os"

	"github.com/ahamlinman/gamehost/internal/log"
	"github.com/ahamlinman/gamehost/internal/mimetype"
)

// serveFavicon serves the configured icon file. Browsers ask for it on every
// page, so a missing icon answers 204 instead of cluttering logs and consoles
// with 404s.
func (s *Server) serveFavicon(w http.ResponseWriter, r *http.Request) {
	if s.cfg.FaviconPath == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	f, err := os.Open(s.cfg.FaviconPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Tprintf(s, "Unable to open favicon: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil || !fi.Mode().IsRegular() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", mimetype.ForPath(s.cfg.FaviconPath))
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}
