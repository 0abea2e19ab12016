package mux

import (
	"net/http"

	"devanshi-server/pkg/room"

	gmux "github.com/gorilla/mux"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	lobby   *room.Lobby
}

// NewMux returns a new HTTP mux
// The lobby must already be running (see Lobby.StartShift)
func NewMux(version string, lobby *room.Lobby) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		lobby:   lobby,
	}

	this.Router.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	this.Router.Methods(http.MethodGet).Path("/ws").Handler(this.getWS())

	return this
}
