package balls

import (
	"sort"

	"github.com/evanwboyle/roboscore/pkg/nn"
)

// Border expansion: glare on a ball's edge tends to classify as White, which
// shrinks the cluster and can split one ball into several. For each of the
// largest Red and Blue clusters we walk outward from the cluster border
// through White pixels, up to a bounded distance, and convert every White
// pixel we reach to the cluster's color. Reachability from a large cluster is
// the acceptance criterion; no per-pixel distance threshold is needed.

type expandParams struct {
	minSizeToExpand int // clusters smaller than this are left alone
	maxClusters     int // only the top-K largest clusters per color are expanded
	maxDistance     int // BFS depth limit through white pixels
}

// expandBorders returns a new buffer with white pixels converted. Both color
// passes read from 'src' and write into the returned copy, so the red
// expansion cannot eat white pixels out from under the blue expansion.
func expandBorders(src *ClassifiedImage, p expandParams) *ClassifiedImage {
	out := src.Clone()
	for _, class := range []Color{Red, Blue} {
		clusters := findClusters(src, class, 0, src.Width)
		sort.Slice(clusters, func(i, j int) bool {
			return clusters[i].Size() > clusters[j].Size()
		})
		kept := 0
		for i := range clusters {
			if kept >= p.maxClusters {
				break
			}
			if clusters[i].Size() < p.minSizeToExpand {
				break // sorted descending, nothing further qualifies
			}
			kept++
			expandCluster(src, out, &clusters[i], p.maxDistance)
		}
	}
	return out
}

// expandCluster BFSes outward from the cluster's border pixels through White
// pixels in 'src', writing conversions into 'dst'.
func expandCluster(src, dst *ClassifiedImage, cluster *Cluster, maxDistance int) {
	inCluster := newVisitedMask(src.Width, src.Height)
	for _, p := range cluster.Pixels {
		inCluster.set(p.X, p.Y)
	}

	type frontierPixel struct {
		pos  nn.Point
		dist int
	}
	seen := newVisitedMask(src.Width, src.Height)
	queue := []frontierPixel{}

	// Border pixels: cluster members with an 8-connected neighbor outside the cluster
	for _, p := range cluster.Pixels {
		for _, d := range neighbors8 {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || ny < 0 || nx >= src.Width || ny >= src.Height {
				continue
			}
			if !inCluster.get(nx, ny) {
				queue = append(queue, frontierPixel{pos: p, dist: 0})
				seen.set(p.X, p.Y)
				break
			}
		}
	}

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		if f.dist >= maxDistance {
			continue
		}
		for _, d := range neighbors4 {
			nx, ny := f.pos.X+d.X, f.pos.Y+d.Y
			if nx < 0 || ny < 0 || nx >= src.Width || ny >= src.Height {
				continue
			}
			if seen.get(nx, ny) || src.At(nx, ny) != White {
				continue
			}
			seen.set(nx, ny)
			dst.Set(nx, ny, cluster.Class)
			queue = append(queue, frontierPixel{pos: nn.Point{X: nx, Y: ny}, dist: f.dist + 1})
		}
	}
}
