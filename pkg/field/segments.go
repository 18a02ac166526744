package field

import (
	"fmt"

	"github.com/evanwboyle/roboscore/pkg/gen"
	"github.com/evanwboyle/roboscore/pkg/nn"
	"github.com/evanwboyle/roboscore/pkg/track"
)

type GoalType int

const (
	GoalLong GoalType = iota
	GoalShort
)

// SubSegment identifies the piece of a long goal's line. Short goals are a
// single segment and always use SubWhole.
type SubSegment int

const (
	SubWhole SubSegment = iota
	SubLeft
	SubRight
	SubControl
)

// SegmentKey identifies one scoring bucket. Using a struct key (rather than
// strings like "LG1CZ") means a switch over Type/Sub is exhaustive.
type SegmentKey struct {
	Type  GoalType   `json:"type"`
	Index int        `json:"index"` // 1-based goal number
	Sub   SubSegment `json:"sub"`
}

func (k SegmentKey) String() string {
	if k.Type == GoalShort {
		return fmt.Sprintf("SG%v", k.Index)
	}
	switch k.Sub {
	case SubLeft:
		return fmt.Sprintf("LG%v-Left", k.Index)
	case SubRight:
		return fmt.Sprintf("LG%v-Right", k.Index)
	case SubControl:
		return fmt.Sprintf("LG%v-Control", k.Index)
	}
	return fmt.Sprintf("LG%v", k.Index)
}

// Segment is one scoring line in image coordinates, valid for the frame whose
// polygon produced it.
type Segment struct {
	Key SegmentKey `json:"key"`
	P1  nn.PointF  `json:"p1"`
	P2  nn.PointF  `json:"p2"`
}

// PercentPoint is a point expressed as percentage offsets (0..100) into the
// live polygon's axis-aligned bounding box.
type PercentPoint struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type LongGoalConfig struct {
	P1                 PercentPoint `json:"p1"`
	P2                 PercentPoint `json:"p2"`
	ControlZonePercent float32      `json:"controlZonePercent"` // control zone length as a percentage of the line
}

type ShortGoalConfig struct {
	P1 PercentPoint `json:"p1"`
	P2 PercentPoint `json:"p2"`
}

// Config is the percentage-based goal layout, independent of any particular
// camera view. It comes from the static annotation file.
type Config struct {
	LongGoals  []LongGoalConfig  `json:"longGoals"`
	ShortGoals []ShortGoalConfig `json:"shortGoals"`
}

// BuildSegments maps the percentage-based goal layout onto a concrete polygon.
// The returned order is the assignment priority order: for each long goal its
// left, right, then control-zone sub-segments, followed by the short goals.
// Degenerate (zero-length) goal lines are skipped.
func BuildSegments(poly Polygon, cfg Config) []Segment {
	minP, maxP := poly.Bounds()
	w := maxP.X - minP.X
	h := maxP.Y - minP.Y
	at := func(pp PercentPoint) nn.PointF {
		return nn.PointF{X: minP.X + w*pp.X/100, Y: minP.Y + h*pp.Y/100}
	}

	segments := []Segment{}
	for i, lg := range cfg.LongGoals {
		p1 := at(lg.P1)
		p2 := at(lg.P2)
		length := p1.Distance(p2)
		if length == 0 {
			continue
		}
		pct := gen.Clamp(lg.ControlZonePercent, 0, 100)
		// Control zone is centered on the line's midpoint
		half := length * pct / 100 / 2
		dirX := (p2.X - p1.X) / length
		dirY := (p2.Y - p1.Y) / length
		midX := (p1.X + p2.X) / 2
		midY := (p1.Y + p2.Y) / 2
		czStart := nn.PointF{X: midX - dirX*half, Y: midY - dirY*half}
		czEnd := nn.PointF{X: midX + dirX*half, Y: midY + dirY*half}

		segments = append(segments,
			Segment{Key: SegmentKey{Type: GoalLong, Index: i + 1, Sub: SubLeft}, P1: p1, P2: czStart},
			Segment{Key: SegmentKey{Type: GoalLong, Index: i + 1, Sub: SubRight}, P1: czEnd, P2: p2},
			Segment{Key: SegmentKey{Type: GoalLong, Index: i + 1, Sub: SubControl}, P1: czStart, P2: czEnd},
		)
	}
	for i, sg := range cfg.ShortGoals {
		p1 := at(sg.P1)
		p2 := at(sg.P2)
		if p1.Distance(p2) == 0 {
			continue
		}
		segments = append(segments, Segment{Key: SegmentKey{Type: GoalShort, Index: i + 1, Sub: SubWhole}, P1: p1, P2: p2})
	}
	return segments
}

// LiveSegments builds this frame's goal segments from the tracked/ghost legs.
// Returns false when the polygon cannot be reconstructed (not exactly 4 legs).
func LiveSegments(tracked []track.TrackedLeg, ghosts []track.GhostLeg, cfg Config) ([]Segment, bool) {
	poly, ok := LivePolygon(tracked, ghosts)
	if !ok {
		return nil, false
	}
	return BuildSegments(poly, cfg), true
}
