package server

import (
	"net/http"

	"github.com/cyclopcam/www"
	"github.com/julienschmidt/httprouter"
)

// port example: ":8080"
func (s *Server) SetupHTTP(port string) error {
	router := httprouter.New()

	www.Handle(s.Log, router, "GET", "/api/ping", s.httpPing)
	www.Handle(s.Log, router, "GET", "/api/score", s.httpScoreLatest)
	www.Handle(s.Log, router, "GET", "/api/score/ws", s.httpScoreWS)
	www.Handle(s.Log, router, "POST", "/api/still/score", s.httpStillScore)

	s.Log.Infof("Listening on %v", port)
	return http.ListenAndServe(port, router)
}

func (s *Server) httpPing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	www.SendOK(w)
}
