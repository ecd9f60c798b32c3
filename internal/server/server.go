// Package server hosts a directory of games over HTTP.
//
// A Server is built in two steps. New scans the games directory and prepares
// everything that requests will read: a route for each game, the rendered
// index page, and the optional catalog API. None of it changes afterward, so
// requests are served concurrently without locking. Serve or ListenAndServe
// then accept connections until their context is canceled.
//
// Requests are dispatched in this order:
//
//   - paths with a ".." segment are refused with 403
//   - /favicon.ico serves the configured icon, or 204 if there is none
//   - /{game} and everything under it is served from the game's directory
//   - /api/ goes to the catalog API, when enabled
//   - / serves the index page
//   - anything else, including files a game does not have, is a 404
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ahamlinman/gamehost/internal/api"
	"github.com/ahamlinman/gamehost/internal/config"
	"github.com/ahamlinman/gamehost/internal/games"
	"github.com/ahamlinman/gamehost/internal/index"
	"github.com/ahamlinman/gamehost/internal/log"
	"github.com/ahamlinman/gamehost/internal/static"
)

const notFoundBody = "404 Not Found"

// routeTable maps a game name, as found in the first segment of a request
// path, to the handler for that game's directory.
type routeTable map[string]*static.Handler

// Server serves the games found in one directory.
type Server struct {
	cfg       config.Config
	games     []games.Game
	routes    routeTable
	indexPage []byte
	api       http.Handler
	handler   http.Handler
}

// New scans the games directory named by cfg and prepares a Server for it. It
// fails if the directory cannot be read, in which case nothing should be
// served.
func New(cfg config.Config) (*Server, error) {
	gs, err := games.Scan(cfg.GamesDir)
	if err != nil {
		return nil, fmt.Errorf("scanning games: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		games:  gs,
		routes: make(routeTable, len(gs)),
	}

	notFound := http.HandlerFunc(s.serveNotFound)
	for _, g := range gs {
		h, err := static.NewHandler(g.Path, notFound)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("mounting %s: %w", g.Name, err)
		}
		s.routes[g.Name] = h
	}

	if s.indexPage, err = index.Render(gs); err != nil {
		s.Close()
		return nil, fmt.Errorf("rendering index page: %w", err)
	}

	if cfg.EnableAPI {
		s.api = api.NewHandler(gs)
	}

	s.handler = http.HandlerFunc(s.dispatch)
	if !cfg.Quiet {
		s.handler = log.Requests(s.handler)
	}

	return s, nil
}

// Games returns the games the Server was built with, in index order.
func (s *Server) Games() []games.Game {
	return s.games
}

// Close releases the directory handles held for each game. The Server must
// not serve requests afterward.
func (s *Server) Close() error {
	var errs []error
	for _, h := range s.routes {
		errs = append(errs, h.Close())
	}
	return errors.Join(errs...)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe listens on the configured address and serves until ctx is
// canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is canceled, then gives
// in-flight requests up to the configured shutdown timeout to finish. It
// returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       90 * time.Second,
	}

	log.Printf("Server is listening on %s", listenURL(ln.Addr()))

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		srv.Close()
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if static.HasDotDot(p) {
		http.Error(w, "403 Forbidden", http.StatusForbidden)
		return
	}

	if p == "/favicon.ico" {
		s.serveFavicon(w, r)
		return
	}

	name, rest, _ := strings.Cut(strings.TrimPrefix(p, "/"), "/")
	if h, ok := s.routes[name]; ok && name != "" {
		s.serveGame(w, r, h, name, rest)
		return
	}

	if s.api != nil && strings.HasPrefix(p, "/api/") {
		s.api.ServeHTTP(w, r)
		return
	}

	if p == "/" && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		s.serveIndex(w, r)
		return
	}

	s.serveNotFound(w, r)
}

// serveGame hands the request to the game's handler with the /{name} prefix
// removed.
func (s *Server) serveGame(w http.ResponseWriter, r *http.Request, h *static.Handler, name, rest string) {
	if r.URL.Path == "/"+name && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		// Relative URLs in the game's index.html only resolve correctly under
		// the slash form.
		target := (&url.URL{Path: "/" + name + "/"}).EscapedPath()
		if q := r.URL.RawQuery; q != "" {
			target += "?" + q
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	r2 := new(http.Request)
	*r2 = *r
	r2.URL = new(url.URL)
	*r2.URL = *r.URL
	r2.URL.Path = "/" + rest
	r2.URL.RawPath = ""
	h.ServeHTTP(w, r2)
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", index.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(s.indexPage)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(s.indexPage)
	}
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, notFoundBody)
}

// listenURL describes where a listener can be reached from the local machine.
func listenURL(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return addr.String()
	}
	host := "localhost"
	if !tcp.IP.IsUnspecified() && !tcp.IP.IsLoopback() {
		host = tcp.IP.String()
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(tcp.Port))
}
