package field

import (
	"testing"

	"github.com/evanwboyle/roboscore/pkg/balls"
	"github.com/evanwboyle/roboscore/pkg/counts"
	"github.com/evanwboyle/roboscore/pkg/nn"
	"github.com/evanwboyle/roboscore/pkg/track"
	"github.com/stretchr/testify/require"
)

// 200x100 field with one horizontal long goal at 25% height and one short
// goal on the lower right
func testConfig() Config {
	return Config{
		LongGoals: []LongGoalConfig{
			{P1: PercentPoint{X: 0, Y: 25}, P2: PercentPoint{X: 100, Y: 25}, ControlZonePercent: 20},
		},
		ShortGoals: []ShortGoalConfig{
			{P1: PercentPoint{X: 50, Y: 75}, P2: PercentPoint{X: 100, Y: 75}},
		},
	}
}

func testPolygon(t *testing.T) Polygon {
	poly, ok := PolygonFromPoints([]nn.PointF{
		{X: 200, Y: 100}, {X: 0, Y: 0}, {X: 0, Y: 100}, {X: 200, Y: 0},
	})
	require.True(t, ok)
	return poly
}

func ball(x, y, r float32, color balls.Color) balls.Ball {
	return balls.Ball{Center: nn.PointF{X: x, Y: y}, Radius: r, Color: color}
}

func TestPolygonOrderedClockwise(t *testing.T) {
	poly := testPolygon(t)
	want := Polygon{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 100}, {X: 0, Y: 100}}
	require.Equal(t, want, poly)
}

func TestPolygonRequiresFourPoints(t *testing.T) {
	_, ok := PolygonFromPoints([]nn.PointF{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}})
	require.False(t, ok)
	_, ok = PolygonFromPoints(make([]nn.PointF, 5))
	require.False(t, ok)
}

func TestLivePolygonMixesTrackedAndGhosts(t *testing.T) {
	box := func(x, y int) nn.Rect { return nn.Rect{X: x, Y: y, Width: 10, Height: 10} }
	tracked := []track.TrackedLeg{
		{Box: box(0, 0), ID: 1},
		{Box: box(200, 0), ID: 2},
		{Box: box(200, 100), ID: 3},
	}
	ghosts := []track.GhostLeg{{Box: box(0, 100), ID: 4}}

	_, ok := LivePolygon(tracked, ghosts)
	require.True(t, ok)
	_, ok = LivePolygon(tracked, nil)
	require.False(t, ok)
}

func TestBuildSegmentsGeometry(t *testing.T) {
	segments := BuildSegments(testPolygon(t), testConfig())
	require.Len(t, segments, 4)

	// Long goal: y=25, control zone is the central 20% (x 80..120)
	require.Equal(t, SegmentKey{Type: GoalLong, Index: 1, Sub: SubLeft}, segments[0].Key)
	require.Equal(t, nn.PointF{X: 0, Y: 25}, segments[0].P1)
	require.Equal(t, nn.PointF{X: 80, Y: 25}, segments[0].P2)

	require.Equal(t, SegmentKey{Type: GoalLong, Index: 1, Sub: SubRight}, segments[1].Key)
	require.Equal(t, nn.PointF{X: 120, Y: 25}, segments[1].P1)
	require.Equal(t, nn.PointF{X: 200, Y: 25}, segments[1].P2)

	require.Equal(t, SegmentKey{Type: GoalLong, Index: 1, Sub: SubControl}, segments[2].Key)
	require.Equal(t, nn.PointF{X: 80, Y: 25}, segments[2].P1)
	require.Equal(t, nn.PointF{X: 120, Y: 25}, segments[2].P2)

	require.Equal(t, SegmentKey{Type: GoalShort, Index: 1, Sub: SubWhole}, segments[3].Key)
	require.Equal(t, nn.PointF{X: 100, Y: 75}, segments[3].P1)
	require.Equal(t, nn.PointF{X: 200, Y: 75}, segments[3].P2)
}

func TestBuildSegmentsSkipsDegenerateLines(t *testing.T) {
	cfg := Config{
		LongGoals: []LongGoalConfig{
			{P1: PercentPoint{X: 50, Y: 50}, P2: PercentPoint{X: 50, Y: 50}, ControlZonePercent: 20},
		},
	}
	require.Empty(t, BuildSegments(testPolygon(t), cfg))
}

func TestAssignBallsToSegments(t *testing.T) {
	segments := BuildSegments(testPolygon(t), testConfig())

	out := AssignBallsToSegments([]balls.Ball{
		ball(40, 25, 5, balls.Red),    // left sub-segment
		ball(100, 25, 5, balls.Blue),  // control zone
		ball(150, 27, 5, balls.Red),   // right sub-segment (2px off the line)
		ball(150, 75, 5, balls.Blue),  // short goal
		ball(100, 50, 5, balls.Red),   // matches nothing
	}, segments)

	require.Equal(t, counts.ColorCount{Red: 1}, out[SegmentKey{Type: GoalLong, Index: 1, Sub: SubLeft}])
	require.Equal(t, counts.ColorCount{Blue: 1}, out[SegmentKey{Type: GoalLong, Index: 1, Sub: SubControl}])
	require.Equal(t, counts.ColorCount{Red: 1}, out[SegmentKey{Type: GoalLong, Index: 1, Sub: SubRight}])
	require.Equal(t, counts.ColorCount{Blue: 1}, out[SegmentKey{Type: GoalShort, Index: 1, Sub: SubWhole}])
}

func TestAssignFirstMatchWins(t *testing.T) {
	segments := BuildSegments(testPolygon(t), testConfig())

	// The control-zone boundary (80,25) is also the left sub-segment's
	// endpoint; left comes first in priority order
	out := AssignBallsToSegments([]balls.Ball{ball(80, 25, 5, balls.Red)}, segments)
	require.Equal(t, counts.ColorCount{Red: 1}, out[SegmentKey{Type: GoalLong, Index: 1, Sub: SubLeft}])
	require.Equal(t, counts.ColorCount{}, out[SegmentKey{Type: GoalLong, Index: 1, Sub: SubControl}])
}

func TestAssignEmitsEmptyBuckets(t *testing.T) {
	segments := BuildSegments(testPolygon(t), testConfig())
	out := AssignBallsToSegments(nil, segments)
	require.Len(t, out, 4)
	for _, c := range out {
		require.Equal(t, counts.ColorCount{}, c)
	}
}

func TestControlStates(t *testing.T) {
	control := SegmentKey{Type: GoalLong, Index: 1, Sub: SubControl}
	left := SegmentKey{Type: GoalLong, Index: 1, Sub: SubLeft}

	states := ControlStates(map[SegmentKey]counts.ColorCount{
		control: {Red: 2, Blue: 1},
		left:    {Blue: 5}, // non-control buckets never decide control
	})
	require.Equal(t, ControlledRed, states[1])

	states = ControlStates(map[SegmentKey]counts.ColorCount{control: {Red: 1, Blue: 1}})
	require.Equal(t, Uncontrolled, states[1])

	states = ControlStates(map[SegmentKey]counts.ColorCount{control: {Blue: 3}})
	require.Equal(t, ControlledBlue, states[1])
}

func TestPointSegmentDistance(t *testing.T) {
	// Perpendicular drop onto the interior
	require.InDelta(t, 3.0, pointSegmentDistance(5, 3, 0, 0, 10, 0), 1e-5)
	// Beyond an endpoint the distance is to the endpoint
	require.InDelta(t, 5.0, pointSegmentDistance(13, 4, 0, 0, 10, 0), 1e-5)
	// Degenerate segment collapses to a point
	require.InDelta(t, 5.0, pointSegmentDistance(3, 4, 0, 0, 0, 0), 1e-5)
}
