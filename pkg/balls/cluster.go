package balls

import (
	"github.com/evanwboyle/roboscore/pkg/nn"
)

// Cluster is a maximal 4-connected set of same-class pixels
type Cluster struct {
	Class  Color
	Pixels []nn.Point
}

func (c *Cluster) Size() int {
	return len(c.Pixels)
}

func (c *Cluster) Centroid() nn.PointF {
	if len(c.Pixels) == 0 {
		return nn.PointF{}
	}
	sumX, sumY := 0, 0
	for _, p := range c.Pixels {
		sumX += p.X
		sumY += p.Y
	}
	n := float32(len(c.Pixels))
	return nn.PointF{X: float32(sumX) / n, Y: float32(sumY) / n}
}

func (c *Cluster) Bounds() nn.Rect {
	if len(c.Pixels) == 0 {
		return nn.Rect{}
	}
	minX, minY := c.Pixels[0].X, c.Pixels[0].Y
	maxX, maxY := minX, minY
	for _, p := range c.Pixels {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return nn.Rect{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

// visitedMask guarantees O(1) revisits and global disjointness of all
// clusters discovered in one scan pass. One mask is owned by one scan;
// nothing here is shared between detector instances.
type visitedMask struct {
	width  int
	height int
	bits   []bool
}

func newVisitedMask(width, height int) *visitedMask {
	return &visitedMask{
		width:  width,
		height: height,
		bits:   make([]bool, width*height),
	}
}

func (v *visitedMask) get(x, y int) bool {
	return v.bits[y*v.width+x]
}

func (v *visitedMask) set(x, y int) {
	v.bits[y*v.width+x] = true
}

var neighbors4 = [4]nn.Point{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}

var neighbors8 = [8]nn.Point{
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
}

// floodFill runs a breadth-first fill from 'start' over 4-connected pixels of
// the given class. Pixels already in 'visited' are never re-entered, so two
// fills with the same mask can never produce overlapping clusters.
func floodFill(ci *ClassifiedImage, visited *visitedMask, start nn.Point, class Color) Cluster {
	cluster := Cluster{Class: class}
	if visited.get(start.X, start.Y) || ci.At(start.X, start.Y) != class {
		return cluster
	}
	queue := []nn.Point{start}
	visited.set(start.X, start.Y)
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		cluster.Pixels = append(cluster.Pixels, p)
		for _, d := range neighbors4 {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || ny < 0 || nx >= ci.Width || ny >= ci.Height {
				continue
			}
			if visited.get(nx, ny) || ci.At(nx, ny) != class {
				continue
			}
			visited.set(nx, ny)
			queue = append(queue, nn.Point{X: nx, Y: ny})
		}
	}
	return cluster
}

// findClusters scans the buffer in raster order and returns every cluster of
// the given class. xMin/xMax restrict the seed columns (the boundary-line
// detector only seeds in the middle half of the image); the fill itself is
// free to grow outside that range.
func findClusters(ci *ClassifiedImage, class Color, xMin, xMax int) []Cluster {
	visited := newVisitedMask(ci.Width, ci.Height)
	clusters := []Cluster{}
	for y := 0; y < ci.Height; y++ {
		for x := xMin; x < xMax; x++ {
			if visited.get(x, y) || ci.At(x, y) != class {
				continue
			}
			cluster := floodFill(ci, visited, nn.Point{X: x, Y: y}, class)
			if cluster.Size() > 0 {
				clusters = append(clusters, cluster)
			}
		}
	}
	return clusters
}
