package api

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ahamlinman/gamehost/internal/log"
)

// CatalogSocketHandler sends the catalog over a websocket once, then keeps the
// connection open until the client goes away. The catalog never changes while
// the server runs, so there is nothing further to push.
type CatalogSocketHandler struct {
	catalog  []Entry
	socket   *websocket.Conn
	ctx      context.Context
	shutdown context.CancelCauseFunc
}

func (h *Handler) handleSocketGames(w http.ResponseWriter, r *http.Request) {
	ctx, shutdown := context.WithCancelCause(r.Context())
	csh := &CatalogSocketHandler{
		catalog:  h.catalog,
		ctx:      ctx,
		shutdown: shutdown,
	}
	csh.ServeHTTP(w, r)
}

func (csh *CatalogSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Tprintf(csh, "Starting new connection")
	defer func() { log.Tprintf(csh, "Connection done: %v", context.Cause(csh.ctx)) }()

	var err error
	csh.socket, err = websocketUpgrader.Upgrade(w, r, nil)
	if err != nil {
		csh.shutdown(err)
		return
	}
	defer csh.socket.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		csh.drainClient()
	}()

	if err := csh.socket.WriteJSON(csh.catalog); err != nil {
		csh.shutdown(err)
	}

	<-csh.ctx.Done()
	csh.socket.Close()
	<-done
}

func (csh *CatalogSocketHandler) drainClient() {
	// Per https://pkg.go.dev/github.com/gorilla/websocket#hdr-Control_Messages,
	// we have to drain incoming messages ourselves even if we don't care about
	// them.
	for {
		if _, _, err := csh.socket.NextReader(); err != nil {
			csh.shutdown(err)
			return
		}
	}
}
