package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"devanshi-server/internal/config"
	"devanshi-server/internal/mux"
	"devanshi-server/pkg/db"
	"devanshi-server/pkg/room"
	"devanshi-server/pkg/store"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	lobby := room.NewLobby(newRoomStore(), room.Options{
		TrickResolveDelay: config.Instance().TrickResolveDelay(),
		GameRestartDelay:  config.Instance().GameRestartDelay(),
		RoomTTL:           config.Instance().RoomTTL(),
	})
	lobby.StartShift()
	defer lobby.EndShift()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, lobby))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

func newRoomStore() store.RoomStore {
	switch backend := config.Instance().Store; backend {
	case "", "memory":
		return store.NewMemory()
	case "postgres":
		// run the db migrations
		db.Migrate()
		return store.NewPostgres(db.Instance())
	default:
		logrus.WithField("store", backend).Fatal("unknown store backend")
		return nil
	}
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
