package mux

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devanshi-server/pkg/room"
	"devanshi-server/pkg/store"
)

func testLobby(t *testing.T) *room.Lobby {
	t.Helper()

	lobby := room.NewLobby(store.NewMemory(), room.Options{
		TrickResolveDelay: time.Millisecond * 10,
		GameRestartDelay:  time.Millisecond * 10,
	})
	lobby.StartShift()
	t.Cleanup(lobby.EndShift)

	return lobby
}

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int) {
	t.Helper()

	resp, err := http.DefaultClient.Get(ts.URL + path)
	if err != nil {
		t.Error(err)
		return
	}
	defer resp.Body.Close()

	if statusCode != resp.StatusCode {
		t.Errorf("expected status code %d, got %d", statusCode, resp.StatusCode)
		return
	}

	if respObj != nil {
		if err := json.NewDecoder(resp.Body).Decode(respObj); err != nil {
			t.Error(err)
		}
	}
}
