package balls

import (
	"sort"
)

// Zone is the scoring zone a ball lands in
type Zone uint8

const (
	ZoneMiddle Zone = iota
	ZoneOutside
)

func (z Zone) String() string {
	if z == ZoneMiddle {
		return "middle"
	}
	return "outside"
}

// BoundaryLine is a white cluster large enough to qualify as a zone boundary
type BoundaryLine struct {
	MeanX float32
	MeanY float32
	Size  int
}

// Buffer in pixels around a boundary line. A ball whose bounding circle comes
// within this buffer of a line is not middle-zone.
const lineBuffer = 2.0

// detectBoundaryLines finds the two largest qualifying white clusters, seeded
// in the horizontal middle half of the image. Returns them ordered left to
// right. Long-goal pipes only; callers skip this entirely for short goals.
func detectBoundaryLines(ci *ClassifiedImage, minSize int) []BoundaryLine {
	if minSize <= 0 {
		return nil
	}
	clusters := findClusters(ci, White, ci.Width/4, ci.Width*3/4)
	qualifying := []BoundaryLine{}
	for i := range clusters {
		if clusters[i].Size() < minSize {
			continue
		}
		c := clusters[i].Centroid()
		qualifying = append(qualifying, BoundaryLine{MeanX: c.X, MeanY: c.Y, Size: clusters[i].Size()})
	}
	sort.Slice(qualifying, func(i, j int) bool {
		return qualifying[i].Size > qualifying[j].Size
	})
	if len(qualifying) > 2 {
		qualifying = qualifying[:2]
	}
	sort.Slice(qualifying, func(i, j int) bool {
		return qualifying[i].MeanX < qualifying[j].MeanX
	})
	return qualifying
}

// classifyZone assigns a ball's zone.
//   - Short pipes have a single zone: everything is middle.
//   - Long pipes with line detection disabled (minSize <= 0): outside.
//   - Long pipes where we failed to find both lines: middle (no boundary
//     means nothing separates the ball from the middle).
//   - Otherwise a ball is middle iff its center is strictly between the two
//     lines and its bounding circle stays clear of both.
func classifyZone(pipe PipeType, lines []BoundaryLine, centerX, radius float32, minLineSize int) Zone {
	if pipe == PipeShort {
		return ZoneMiddle
	}
	if minLineSize <= 0 {
		return ZoneOutside
	}
	if len(lines) < 2 {
		return ZoneMiddle
	}
	left, right := lines[0].MeanX, lines[1].MeanX
	if centerX-radius > left+lineBuffer && centerX+radius < right-lineBuffer {
		return ZoneMiddle
	}
	return ZoneOutside
}
