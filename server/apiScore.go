package server

import (
	"net/http"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/www"
	"github.com/evanwboyle/roboscore/pkg/balls"
	"github.com/evanwboyle/roboscore/pkg/counts"
	"github.com/julienschmidt/httprouter"
)

// Maximum size of an uploaded still image
const maxStillImageBytes = 32 * 1024 * 1024

func (s *Server) httpScoreLatest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	state := s.Session.LatestState()
	if state == nil {
		www.PanicNoContent()
	}
	www.SendJSON(w, state)
}

// httpScoreWS streams every published score state to the client, so an
// overlay can redraw at frame rate without polling
func (s *Server) httpScoreWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Errorf("httpScoreWS websocket upgrade failed: %v", err)
		return
	}
	defer c.Close()

	ch := s.Session.AddWatcher()
	defer s.Session.RemoveWatcher(ch)

	// Reads exist only to detect the client going away
	closed := make(chan bool)
	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				close(closed)
				return
			}
		}
	}()

	for {
		select {
		case state := <-ch:
			if err := c.WriteJSON(state); err != nil {
				s.Log.Infof("httpScoreWS write failed, closing: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
}

type stillScoreResponse struct {
	Counts counts.ZoneCounts `json:"counts"`
	Balls  []balls.Ball      `json:"balls"`
}

// httpStillScore scores one uploaded image (request body = JPEG/PNG).
// Query parameters:
//
//	pipe       "long" (default) or "short"
//	annotated  1 returns an annotated JPEG instead of JSON
//	redThreshold, blueThreshold, whiteThreshold: classifier overrides
func (s *Server) httpStillScore(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body := www.ReadLimited(w, r, maxStillImageBytes)
	img, err := cimg.Decompress(body)
	www.Check(err)

	pipe := balls.PipeLong
	if www.QueryValue(r, "pipe") == "short" {
		pipe = balls.PipeShort
	}
	params := balls.DefaultParams(pipe)
	if v := www.QueryInt(r, "redThreshold"); v > 0 {
		params.Thresholds.Red = float32(v)
	}
	if v := www.QueryInt(r, "blueThreshold"); v > 0 {
		params.Thresholds.Blue = float32(v)
	}
	if v := www.QueryInt(r, "whiteThreshold"); v > 0 {
		params.Thresholds.White = float32(v)
	}

	result := balls.NewDetector(params).Detect(img)

	if www.QueryInt(r, "annotated") == 1 {
		annotated := balls.RenderAnnotated(&result)
		if annotated == nil {
			www.PanicServerError("Failed to render annotated image")
		}
		jpg, err := cimg.Compress(annotated, cimg.MakeCompressParams(cimg.Sampling420, 85, 0))
		www.Check(err)
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(jpg)
		return
	}

	www.SendJSON(w, stillScoreResponse{Counts: result.Counts, Balls: result.Balls})
}
