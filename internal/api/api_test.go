package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/ahamlinman/gamehost/internal/games"
)

const timeout = 2 * time.Second

var testGames = []games.Game{
	{Name: "chess", Path: "/srv/games/chess"},
	{Name: "space invaders", Path: "/srv/games/space invaders"},
}

var wantCatalog = []Entry{
	{Name: "chess", Href: "/chess"},
	{Name: "space invaders", Href: "/space%20invaders"},
}

func TestGames(t *testing.T) {
	testCases := []struct {
		Description string
		Games       []games.Game
		Want        string
	}{
		{
			Description: "some games",
			Games:       testGames,
			Want:        `[{"Name":"chess","Href":"/chess"},{"Name":"space invaders","Href":"/space%20invaders"}]`,
		},
		{
			Description: "no games",
			Games:       nil,
			Want:        `[]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
			resp := httptest.NewRecorder()
			NewHandler(tc.Games).ServeHTTP(resp, req)

			result := resp.Result()
			if result.StatusCode != http.StatusOK {
				t.Errorf("wrong status: got %d, want %d", result.StatusCode, http.StatusOK)
			}
			if ct := result.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("wrong Content-Type: %q", ct)
			}
			if body := strings.TrimSpace(resp.Body.String()); body != tc.Want {
				t.Errorf("wrong body: got %s, want %s", body, tc.Want)
			}
		})
	}
}

func TestGamesMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/games", nil)
	resp := httptest.NewRecorder()
	NewHandler(testGames).ServeHTTP(resp, req)

	result := resp.Result()
	if result.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("wrong status: got %d, want %d", result.StatusCode, http.StatusMethodNotAllowed)
	}
	if diff := cmp.Diff([]string{"GET, HEAD"}, result.Header.Values("Allow")); diff != "" {
		t.Errorf("wrong Allow header (-want +got)\n%s", diff)
	}
}

func TestSocketGames(t *testing.T) {
	srv := httptest.NewServer(NewHandler(testGames))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sockets/games"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial %s: %v", url, err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(timeout))
	msgType, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read catalog: %v", err)
	}
	if msgType != websocket.TextMessage {
		t.Errorf("wrong message type: got %d, want %d", msgType, websocket.TextMessage)
	}

	var got []Entry
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("invalid catalog message %q: %v", msg, err)
	}
	if diff := cmp.Diff(wantCatalog, got); diff != "" {
		t.Errorf("wrong catalog (-want +got)\n%s", diff)
	}

	err = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		t.Fatalf("failed to close socket: %v", err)
	}

	// The server closes its end once it sees ours.
	conn.SetReadDeadline(time.Now().Add(timeout))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("socket still open after close")
	}
}

func TestSocketGamesRequiresUpgrade(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/sockets/games", nil)
	resp := httptest.NewRecorder()
	NewHandler(testGames).ServeHTTP(resp, req)

	if code := resp.Result().StatusCode; code != http.StatusBadRequest {
		t.Errorf("wrong status: got %d, want %d", code, http.StatusBadRequest)
	}
}
