package field

import (
	"sort"

	flatbush "github.com/bmharper/flatbush-go"
	"github.com/chewxy/math32"
	"github.com/evanwboyle/roboscore/pkg/balls"
	"github.com/evanwboyle/roboscore/pkg/counts"
)

// AssignBallsToSegments buckets every ball into the first segment (in the
// priority order of BuildSegments) whose line passes within the ball's radius
// of the ball center. A ball matching no segment is not counted. Every
// segment gets a bucket in the result, even when empty, so downstream
// smoothing sees an explicit zero rather than a missing category.
func AssignBallsToSegments(ballList []balls.Ball, segments []Segment) map[SegmentKey]counts.ColorCount {
	out := make(map[SegmentKey]counts.ColorCount, len(segments))
	for _, seg := range segments {
		out[seg.Key] = counts.ColorCount{}
	}
	if len(segments) == 0 || len(ballList) == 0 {
		return out
	}

	// Spatial index over segment bounding boxes, so each ball only tests the
	// few segments near it
	fb := flatbush.NewFlatbush[int32]()
	fb.Reserve(len(segments))
	for _, seg := range segments {
		fb.Add(
			int32(math32.Floor(math32.Min(seg.P1.X, seg.P2.X))),
			int32(math32.Floor(math32.Min(seg.P1.Y, seg.P2.Y))),
			int32(math32.Ceil(math32.Max(seg.P1.X, seg.P2.X))),
			int32(math32.Ceil(math32.Max(seg.P1.Y, seg.P2.Y))),
		)
	}
	fb.Finish()

	for _, ball := range ballList {
		r := ball.Radius
		candidates := fb.Search(
			int32(math32.Floor(ball.Center.X-r)),
			int32(math32.Floor(ball.Center.Y-r)),
			int32(math32.Ceil(ball.Center.X+r)),
			int32(math32.Ceil(ball.Center.Y+r)),
		)
		// Search order is index order within the tree, not insertion order,
		// and insertion order is our priority order
		sort.Ints(candidates)
		for _, si := range candidates {
			seg := segments[si]
			if pointSegmentDistance(ball.Center.X, ball.Center.Y, seg.P1.X, seg.P1.Y, seg.P2.X, seg.P2.Y) > r {
				continue
			}
			c := out[seg.Key]
			switch ball.Color {
			case balls.Red:
				c.Red++
			case balls.Blue:
				c.Blue++
			}
			out[seg.Key] = c
			break
		}
	}
	return out
}

// ControlColor is the "controlled by" state of a long goal's control zone
type ControlColor int

const (
	Uncontrolled ControlColor = iota
	ControlledRed
	ControlledBlue
)

func (c ControlColor) String() string {
	switch c {
	case ControlledRed:
		return "red"
	case ControlledBlue:
		return "blue"
	}
	return "none"
}

// ControlStates resolves control of each long goal from its control-zone
// bucket. Strict majority wins; a tie leaves the goal uncontrolled.
// Keyed by the long goal's 1-based index.
func ControlStates(segCounts map[SegmentKey]counts.ColorCount) map[int]ControlColor {
	out := map[int]ControlColor{}
	for key, c := range segCounts {
		if key.Type != GoalLong || key.Sub != SubControl {
			continue
		}
		state := Uncontrolled
		if c.Red > c.Blue {
			state = ControlledRed
		} else if c.Blue > c.Red {
			state = ControlledBlue
		}
		out[key.Index] = state
	}
	return out
}

// pointSegmentDistance is the minimum distance from point (px,py) to the
// segment (x1,y1)-(x2,y2)
func pointSegmentDistance(px, py, x1, y1, x2, y2 float32) float32 {
	dx := x2 - x1
	dy := y2 - y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math32.Hypot(px-x1, py-y1)
	}
	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	t = math32.Max(0, math32.Min(1, t))
	return math32.Hypot(px-(x1+t*dx), py-(y1+t*dy))
}
