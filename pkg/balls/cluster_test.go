package balls

import (
	"testing"

	"github.com/evanwboyle/roboscore/pkg/nn"
	"github.com/stretchr/testify/require"
)

func TestFloodFillFourConnectivity(t *testing.T) {
	ci := NewClassifiedImage(4, 4)
	// Two red pixels touching only diagonally: separate clusters
	ci.Set(0, 0, Red)
	ci.Set(1, 1, Red)

	clusters := findClusters(ci, Red, 0, ci.Width)
	require.Len(t, clusters, 2)
	require.Equal(t, 1, clusters[0].Size())
	require.Equal(t, 1, clusters[1].Size())
}

func TestClusterDisjointness(t *testing.T) {
	ci := NewClassifiedImage(20, 20)
	// Scatter several blobs, some adjacent, some not
	for x := 2; x < 6; x++ {
		for y := 2; y < 6; y++ {
			ci.Set(x, y, Red)
		}
	}
	for x := 10; x < 18; x++ {
		ci.Set(x, 3, Red)
	}
	for y := 10; y < 16; y++ {
		ci.Set(5, y, Red)
		ci.Set(6, y, Red)
	}

	clusters := findClusters(ci, Red, 0, ci.Width)
	require.Len(t, clusters, 3)

	// No pixel belongs to two clusters, and the union covers every red pixel
	seen := map[nn.Point]bool{}
	total := 0
	for _, c := range clusters {
		for _, p := range c.Pixels {
			require.False(t, seen[p], "pixel %v in two clusters", p)
			seen[p] = true
			require.Equal(t, Red, ci.At(p.X, p.Y))
		}
		total += c.Size()
	}
	redPixels := 0
	for _, class := range ci.Classes {
		if class == Red {
			redPixels++
		}
	}
	require.Equal(t, redPixels, total)
}

func TestClusterCentroidAndBounds(t *testing.T) {
	ci := NewClassifiedImage(10, 10)
	for x := 2; x <= 4; x++ {
		for y := 5; y <= 7; y++ {
			ci.Set(x, y, Blue)
		}
	}
	clusters := findClusters(ci, Blue, 0, ci.Width)
	require.Len(t, clusters, 1)
	centroid := clusters[0].Centroid()
	require.InDelta(t, 3.0, centroid.X, 1e-5)
	require.InDelta(t, 6.0, centroid.Y, 1e-5)
	require.Equal(t, nn.Rect{X: 2, Y: 5, Width: 3, Height: 3}, clusters[0].Bounds())
}

func TestBorderExpansionRecoversGlareSplit(t *testing.T) {
	// A red blob cut in half by a 2px white glare band. Expansion walks
	// through the white pixels and rejoins the halves.
	ci := NewClassifiedImage(30, 30)
	for x := 5; x < 25; x++ {
		for y := 5; y < 25; y++ {
			switch {
			case y == 14 || y == 15:
				ci.Set(x, y, White)
			default:
				ci.Set(x, y, Red)
			}
		}
	}

	expanded := expandBorders(ci, expandParams{minSizeToExpand: 50, maxClusters: 10, maxDistance: 3})
	clusters := findClusters(expanded, Red, 0, expanded.Width)
	require.Len(t, clusters, 1)
	require.Equal(t, 20*20, clusters[0].Size())

	// The source buffer is untouched
	require.Equal(t, White, ci.At(10, 14))
}

func TestBorderExpansionBoundedDistance(t *testing.T) {
	// White gap wider than maxDistance stays split
	ci := NewClassifiedImage(30, 30)
	for x := 5; x < 25; x++ {
		for y := 5; y < 25; y++ {
			switch {
			case y >= 12 && y <= 17:
				ci.Set(x, y, White)
			default:
				ci.Set(x, y, Red)
			}
		}
	}
	expanded := expandBorders(ci, expandParams{minSizeToExpand: 50, maxClusters: 10, maxDistance: 2})
	clusters := findClusters(expanded, Red, 0, expanded.Width)
	require.Len(t, clusters, 2)
}

func TestBorderExpansionSkipsSmallClusters(t *testing.T) {
	ci := NewClassifiedImage(10, 10)
	ci.Set(3, 3, Red)
	ci.Set(4, 3, White)
	expanded := expandBorders(ci, expandParams{minSizeToExpand: 50, maxClusters: 10, maxDistance: 3})
	require.Equal(t, White, expanded.At(4, 3))
}
