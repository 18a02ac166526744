package pipeline

import (
	"time"

	"github.com/evanwboyle/roboscore/pkg/balls"
	"github.com/evanwboyle/roboscore/pkg/counts"
	"github.com/evanwboyle/roboscore/pkg/field"
	"github.com/evanwboyle/roboscore/pkg/nn"
	"github.com/evanwboyle/roboscore/pkg/track"
)

// SegmentState is one goal segment's line and counts for a frame.
// Slice-of-struct rather than a struct-keyed map, because JSON objects can
// only have string keys.
type SegmentState struct {
	Key      field.SegmentKey  `json:"key"`
	Label    string            `json:"label"` // eg "LG1-Control"
	P1       nn.PointF         `json:"p1"`
	P2       nn.PointF         `json:"p2"`
	Raw      counts.ColorCount `json:"raw"`
	Smoothed counts.ColorCount `json:"smoothed"`
}

// ControlState is a long goal's control-zone resolution
type ControlState struct {
	Goal         int    `json:"goal"` // 1-based long goal number
	ControlledBy string `json:"controlledBy"`
}

// ScoreState is the full output of one live-pipeline frame. Published to
// watchers and served over the HTTP API. Immutable once published.
type ScoreState struct {
	FrameIndex int64              `json:"frameIndex"`
	Time       time.Time          `json:"time"`
	Paused     bool               `json:"paused"`
	Tracked    []track.TrackedLeg `json:"tracked"`
	Ghosts     []track.GhostLeg   `json:"ghosts"`
	Polygon    []nn.PointF        `json:"polygon,omitempty"` // empty when the field frame is absent
	Balls      []balls.Ball       `json:"balls"`
	Segments   []SegmentState     `json:"segments"`
	Control    []ControlState     `json:"control"`
}
