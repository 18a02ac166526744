package field

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/evanwboyle/roboscore/pkg/nn"
	"github.com/evanwboyle/roboscore/pkg/track"
)

// Package field reconstructs a field-relative coordinate frame from the four
// goal legs, maps percentage-based goal definitions onto it, and assigns
// detected balls to goal segments.

// Polygon is the field quadrilateral: 4 corners ordered clockwise (screen
// coordinates, y down) by angle about the centroid.
type Polygon [4]nn.PointF

// PolygonFromPoints orders 4 leg centers into a polygon. Anything other than
// exactly 4 points means the field frame cannot be reconstructed this frame.
func PolygonFromPoints(points []nn.PointF) (Polygon, bool) {
	if len(points) != 4 {
		return Polygon{}, false
	}
	var cx, cy float32
	for _, p := range points {
		cx += p.X
		cy += p.Y
	}
	cx /= 4
	cy /= 4

	ordered := make([]nn.PointF, 4)
	copy(ordered, points)
	sort.Slice(ordered, func(i, j int) bool {
		ai := math32.Atan2(ordered[i].Y-cy, ordered[i].X-cx)
		aj := math32.Atan2(ordered[j].Y-cy, ordered[j].X-cx)
		return ai < aj
	})

	var poly Polygon
	copy(poly[:], ordered)
	return poly, true
}

// LivePolygon builds this frame's polygon from tracked and ghost leg centers.
// Requires exactly 4 combined legs; otherwise the polygon is absent.
func LivePolygon(tracked []track.TrackedLeg, ghosts []track.GhostLeg) (Polygon, bool) {
	centers := make([]nn.PointF, 0, len(tracked)+len(ghosts))
	for _, leg := range tracked {
		c := leg.Box.Center()
		centers = append(centers, nn.PointF{X: float32(c.X), Y: float32(c.Y)})
	}
	for _, g := range ghosts {
		c := g.Box.Center()
		centers = append(centers, nn.PointF{X: float32(c.X), Y: float32(c.Y)})
	}
	return PolygonFromPoints(centers)
}

// Bounds returns the axis-aligned bounding box as (min, max)
func (p Polygon) Bounds() (nn.PointF, nn.PointF) {
	minP := p[0]
	maxP := p[0]
	for _, c := range p[1:] {
		minP.X = math32.Min(minP.X, c.X)
		minP.Y = math32.Min(minP.Y, c.Y)
		maxP.X = math32.Max(maxP.X, c.X)
		maxP.Y = math32.Max(maxP.Y, c.Y)
	}
	return minP, maxP
}
