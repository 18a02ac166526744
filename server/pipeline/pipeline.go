package pipeline

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/logs"
	"github.com/evanwboyle/roboscore/pkg/balls"
	"github.com/evanwboyle/roboscore/pkg/counts"
	"github.com/evanwboyle/roboscore/pkg/field"
	"github.com/evanwboyle/roboscore/pkg/nn"
	"github.com/evanwboyle/roboscore/pkg/track"
)

// Package pipeline drives the live scoring loop for one camera session:
// detect goal legs -> track/ghost lifecycle -> field polygon -> goal
// segments -> ball assignment -> smoothed counts -> publish.

// LegClassName is the detector class of a goal leg
const LegClassName = "goal leg"

// Session owns all live-pipeline state for one camera. Frames go in through
// SubmitFrame; states come out through LatestState and watcher channels.
type Session struct {
	Log logs.Log

	detector      nn.ObjectDetector
	detectParams  *nn.DetectionParams
	legClass      int
	legs          *track.LegManager
	ballsDetector *balls.Detector
	smoother      *counts.Smoother[field.SegmentKey]
	fieldConfig   field.Config

	// Single-slot frame channel. SubmitFrame does a non-blocking send: if the
	// loop is still busy with the previous frame, the new frame is dropped,
	// never queued. The channel is never closed, so a producer racing Close
	// can at worst park a frame that the loop never reads.
	frames        chan *cimg.Image
	quit          chan bool
	stopped       chan bool
	mustStop      atomic.Bool
	pauseCount    atomic.Int32
	droppedFrames atomic.Int64
	frameIndex    atomic.Int64

	stateLock sync.Mutex
	lastState *ScoreState

	watchersLock sync.Mutex
	watchers     []chan *ScoreState
}

// NewSession wires a live pipeline together. The detector and tracker are
// platform-provided; everything downstream of them lives here.
func NewSession(logger logs.Log, detector nn.ObjectDetector, tracker track.Tracker, fieldConfig field.Config) *Session {
	liveParams := balls.DefaultParams(balls.PipeLong)
	liveParams.DisableExpansion = true
	liveParams.MinWhiteLineSize = 0

	legClass := -1
	if detector != nil && detector.Config() != nil {
		legClass = detector.Config().ClassIndex(LegClassName)
	}

	return &Session{
		Log:           logger,
		detector:      detector,
		detectParams:  nn.NewDetectionParams(),
		legClass:      legClass,
		legs:          track.NewLegManager(logger, tracker),
		ballsDetector: balls.NewDetector(liveParams),
		smoother:      counts.NewSmoother[field.SegmentKey](counts.DefaultSmootherWindow),
		fieldConfig:   fieldConfig,
		frames:        make(chan *cimg.Image, 1),
		quit:          make(chan bool),
		stopped:       make(chan bool),
	}
}

// Start launches the processing loop
func (s *Session) Start() {
	go s.loop()
}

// Close stops the loop and releases the detector
func (s *Session) Close() {
	s.mustStop.Store(true)
	close(s.quit)
	<-s.stopped
	if s.detector != nil {
		s.detector.Close()
	}
}

// SubmitFrame offers a frame to the pipeline. Returns false if the loop was
// still busy and the frame was dropped.
func (s *Session) SubmitFrame(img *cimg.Image) bool {
	if s.mustStop.Load() {
		return false
	}
	select {
	case s.frames <- img:
		return true
	default:
		s.droppedFrames.Add(1)
		return false
	}
}

// DroppedFrames reports how many frames the backpressure guard discarded
func (s *Session) DroppedFrames() int64 {
	return s.droppedFrames.Load()
}

// Pause/Unpause is a counter, so every call to Pause() must be matched by a
// call to Unpause(). While paused, frames re-render the last completed state:
// the detector is not invoked, the tracker does not advance, ghosts do not
// drift.
func (s *Session) Pause() {
	s.pauseCount.Add(1)
}

func (s *Session) Unpause() {
	nv := s.pauseCount.Add(-1)
	if nv < 0 {
		s.Log.Errorf("Session pause count is negative. This is a bug")
	}
}

// OrientationChanged clears all ghosts: a frozen position in the old
// reference frame is meaningless in the new one. Tracked legs survive; the
// tracker recomputes them on the next frame regardless.
func (s *Session) OrientationChanged() {
	s.Log.Infof("Orientation changed, clearing ghost legs")
	s.legs.Reset()
}

// LatestState returns the most recently published state, or nil before the
// first frame completes
func (s *Session) LatestState() *ScoreState {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()
	return s.lastState
}

func (s *Session) loop() {
	for {
		select {
		case img := <-s.frames:
			s.processFrame(img)
		case <-s.quit:
			close(s.stopped)
			return
		}
	}
}

func (s *Session) processFrame(img *cimg.Image) {
	if s.pauseCount.Load() > 0 {
		s.republishPaused()
		return
	}

	legBoxes := s.detectLegs(img)
	tracked, ghosts := s.legs.Update(legBoxes)

	ballResult := s.ballsDetector.Detect(img)

	state := &ScoreState{
		FrameIndex: s.frameIndex.Add(1),
		Time:       time.Now(),
		Tracked:    tracked,
		Ghosts:     ghosts,
		Balls:      ballResult.Balls,
	}

	poly, polyOK := field.LivePolygon(tracked, ghosts)
	if polyOK {
		state.Polygon = poly[:]
		segments := field.BuildSegments(poly, s.fieldConfig)
		raw := field.AssignBallsToSegments(ballResult.Balls, segments)
		smoothed := s.smoother.Update(raw)
		state.Segments = segmentStates(segments, raw, smoothed)
		state.Control = controlStates(smoothed)
	}

	s.publish(state)
}

// republishPaused re-renders the last completed frame's state without
// advancing any pipeline stage
func (s *Session) republishPaused() {
	s.stateLock.Lock()
	last := s.lastState
	s.stateLock.Unlock()
	if last == nil {
		return
	}
	frozen := *last
	frozen.Paused = true
	frozen.Time = time.Now()
	s.publish(&frozen)
}

// detectLegs runs the external detector and filters to goal-leg boxes.
// A detector failure yields zero detections for the frame, never an error to
// the caller.
func (s *Session) detectLegs(img *cimg.Image) []nn.Rect {
	if s.detector == nil {
		return nil
	}
	objects, err := s.detector.DetectObjects(img, s.detectParams)
	if err != nil {
		s.Log.Errorf("Error detecting objects: %v", err)
		return nil
	}
	boxes := []nn.Rect{}
	for _, obj := range objects {
		if obj.Class == s.legClass {
			boxes = append(boxes, obj.Box)
		}
	}
	return boxes
}

func (s *Session) publish(state *ScoreState) {
	s.stateLock.Lock()
	s.lastState = state
	s.stateLock.Unlock()
	s.sendToWatchers(state)
}

func segmentStates(segments []field.Segment, raw, smoothed map[field.SegmentKey]counts.ColorCount) []SegmentState {
	out := make([]SegmentState, 0, len(segments))
	for _, seg := range segments {
		out = append(out, SegmentState{
			Key:      seg.Key,
			Label:    seg.Key.String(),
			P1:       seg.P1,
			P2:       seg.P2,
			Raw:      raw[seg.Key],
			Smoothed: smoothed[seg.Key],
		})
	}
	return out
}

func controlStates(smoothed map[field.SegmentKey]counts.ColorCount) []ControlState {
	states := field.ControlStates(smoothed)
	out := make([]ControlState, 0, len(states))
	for goal, color := range states {
		out = append(out, ControlState{Goal: goal, ControlledBy: color.String()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Goal < out[j].Goal })
	return out
}
