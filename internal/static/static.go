// Package static serves the files of a single game directory to HTTP clients.
package static

import (
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/ahamlinman/gamehost/internal/log"
	"github.com/ahamlinman/gamehost/internal/mimetype"
)

const indexPage = "index.html"

// Handler serves the contents of a directory to HTTP clients. It expects
// request paths relative to the directory, so it is typically mounted behind
// a router that strips a prefix.
//
// When a client indicates support for compression through the Accept-Encoding
// header, Handler will look for a precompressed sibling of the requested file
// ("app.js.br" or "app.js.gz" for "app.js") and serve its bytes as-is with the
// matching Content-Encoding. Content-Type always reflects the original file.
// Nothing is compressed or decompressed on the server.
//
// Directories are served through their index.html file, never as listings.
// Requests that Handler cannot satisfy are passed to the next handler.
//
// Handler never opens a file outside of its directory. Paths with ".."
// segments are rejected outright, and all opens go through an [os.Root], which
// also refuses symbolic links that lead out of the directory.
type Handler struct {
	root *os.Root
	next http.Handler
}

// NewHandler creates a Handler serving the directory dir, which must exist.
// Requests that do not match a file are passed to next.
func NewHandler(dir string, next http.Handler) (*Handler, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	if next == nil {
		next = http.NotFoundHandler()
	}
	return &Handler{root: root, next: next}, nil
}

// Close releases the directory handle. Handler must not be used afterward.
func (h *Handler) Close() error {
	return h.root.Close()
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if HasDotDot(r.URL.Path) {
		http.Error(w, "403 Forbidden", http.StatusForbidden)
		return
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.next.ServeHTTP(w, r)
		return
	}

	np := normalizePath(r.URL.Path)
	if fi, err := h.root.Stat(string(np)); err == nil && fi.IsDir() {
		if !strings.HasSuffix(r.URL.Path, "/") {
			localRedirect(w, r, path.Base(r.URL.Path)+"/")
			return
		}
		np = np.Join(indexPage)
	}

	accepted := parseAcceptEncoding(r.Header.Get("Accept-Encoding"))
	for _, enc := range encodings {
		if accepted.allows(enc.coding) && h.serveFile(w, r, np+npath(enc.suffix), enc.coding) {
			return
		}
	}

	if h.serveFile(w, r, np, "") {
		return
	}

	h.next.ServeHTTP(w, r)
}

// serveFile writes the regular file at np to w, with the given Content-Encoding
// if not empty. It reports false without writing anything if the file cannot
// be served.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, np npath, coding string) bool {
	f, err := h.root.Open(string(np))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Tprintf(h, "Unable to open %s: %v", np, err)
		}
		return false
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		log.Tprintf(h, "Unable to stat %s: %v", np, err)
		return false
	}
	if !fi.Mode().IsRegular() {
		return false
	}

	header := w.Header()
	header.Add("Vary", "Accept-Encoding")
	if coding == "" {
		header.Set("Content-Type", mimetype.ForPath(string(np)))
	} else {
		header.Set("Content-Type", mimetype.ForVariant(string(np)))
		header.Set("Content-Encoding", coding)
	}

	// ServeContent takes care of HEAD, Range, and conditional requests based on
	// the modification time.
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
	return true
}

// localRedirect redirects to a path relative to the current request path.
// Unlike http.Redirect, it does not resolve target against r.URL.Path, which
// no longer carries the prefix the client actually requested.
func localRedirect(w http.ResponseWriter, r *http.Request, target string) {
	target = url.PathEscape(strings.TrimSuffix(target, "/")) + "/"
	if q := r.URL.RawQuery; q != "" {
		target += "?" + q
	}
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusMovedPermanently)
}

// HasDotDot reports whether any slash- or backslash-separated segment of p is
// "..".
func HasDotDot(p string) bool {
	if !strings.Contains(p, "..") {
		return false
	}
	for _, seg := range strings.FieldsFunc(p, isSlash) {
		if seg == ".." {
			return true
		}
	}
	return false
}

func isSlash(r rune) bool { return r == '/' || r == '\\' }

// npath holds a normalized path: a Clean relative path separated by forward
// slashes. Because an npath is relative, it contains no leading or trailing
// slashes, and the root path is represented as ".".
type npath string

// normalizePath converts an arbitrary slash-separated path to an npath.
func normalizePath(p string) npath {
	p = path.Clean("/" + p)
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		p = "."
	}
	return npath(p)
}

// Join returns the npath of name within the directory np.
func (np npath) Join(name string) npath {
	return normalizePath(path.Join(string(np), name))
}
