package server

import (
	"github.com/cyclopcam/logs"
	"github.com/evanwboyle/roboscore/server/pipeline"
	"github.com/gorilla/websocket"
)

// Server exposes the live scoring session and the still-image scorer over
// HTTP. One server fronts one session.
type Server struct {
	Log     logs.Log
	Session *pipeline.Session

	wsUpgrader websocket.Upgrader
}

func NewServer(logger logs.Log, session *pipeline.Session) *Server {
	return &Server{
		Log:     logger,
		Session: session,
	}
}
