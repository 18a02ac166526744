package balls

import (
	"github.com/bmharper/cimg/v2"
	"github.com/chewxy/math32"
	"github.com/evanwboyle/roboscore/pkg/counts"
	"github.com/evanwboyle/roboscore/pkg/nn"
)

// PipeType selects the zone-classification and ball-size heuristics
type PipeType uint8

const (
	PipeLong PipeType = iota
	PipeShort
)

func (p PipeType) String() string {
	if p == PipeShort {
		return "short"
	}
	return "long"
}

// Params controls one detection pass. Values outside sane ranges are accepted
// as-is; they change sensitivity, they never crash.
type Params struct {
	Pipe       PipeType   `json:"pipe"`
	Thresholds Thresholds `json:"thresholds"`

	// Ball radius as a fraction of image width. Short-goal images are shot
	// closer, so balls appear larger.
	BallRadiusRatio float32 `json:"ballRadiusRatio"`

	// A cluster qualifies as a ball candidate when its pixel count is at
	// least pi * r^2 * (BallAreaPercentage/100)
	BallAreaPercentage float32 `json:"ballAreaPercentage"`

	// Rotated aspect ratio at or above which a cluster is split into bands
	ClusterSplitThreshold float32 `json:"clusterSplitThreshold"`
	MaxBallsInCluster     int     `json:"maxBallsInCluster"`

	// Minimum distance between split centers, as a fraction: centers must be
	// at least 2 * r * MinClusterSeparation apart
	MinClusterSeparation float32 `json:"minClusterSeparation"`

	// Exclusion circle radius multiplier around each accepted ball
	ExclusionRadiusMultiplier float32 `json:"exclusionRadiusMultiplier"`

	// Minimum white cluster size to qualify as a zone boundary line.
	// Zero or negative disables line detection.
	MinWhiteLineSize int `json:"minWhiteLineSize"`

	// Border expansion. The live pipeline runs a reduced variant with
	// expansion disabled; the still pipeline keeps it on.
	DisableExpansion  bool `json:"disableExpansion"`
	MinSizeToExpand   int  `json:"minSizeToExpand"`
	MaxExpandClusters int  `json:"maxExpandClusters"`
	MaxExpandDistance int  `json:"maxExpandDistance"`
}

func DefaultParams(pipe PipeType) Params {
	p := Params{
		Pipe:                      pipe,
		Thresholds:                DefaultThresholds(),
		BallRadiusRatio:           0.035,
		BallAreaPercentage:        30,
		ClusterSplitThreshold:     1.8,
		MaxBallsInCluster:         4,
		MinClusterSeparation:      0.8,
		ExclusionRadiusMultiplier: 1.5,
		MinWhiteLineSize:          200,
		MinSizeToExpand:           50,
		MaxExpandClusters:         10,
		MaxExpandDistance:         3,
	}
	if pipe == PipeShort {
		p.BallRadiusRatio = 0.055
		p.MinWhiteLineSize = 0
	}
	return p
}

// Ball is one detected game object. Never persists across frames; every
// detection pass produces a fresh set.
type Ball struct {
	Center nn.PointF `json:"center"`
	Radius float32   `json:"radius"`
	Color  Color     `json:"color"`
	Zone   Zone      `json:"zone"`
}

// Result of one detection pass
type Result struct {
	Counts     counts.ZoneCounts
	Balls      []Ball
	Lines      []BoundaryLine
	Classified *ClassifiedImage
}

// Detector runs the still-image ball detection pipeline. All mutable scan
// state (visited mask, exclusion zones, accepted balls) lives in the single
// Detect call, so one Detector value carries no state between images.
type Detector struct {
	params         Params
	principalAngle float32 // rotation of the goal's long axis, radians
}

func NewDetector(params Params) *Detector {
	return &Detector{params: params}
}

// NewDetectorWithAngle supplies a known principal angle, used to align
// elongated-cluster splitting when the goal is not axis-aligned in the image.
func NewDetectorWithAngle(params Params, principalAngle float32) *Detector {
	return &Detector{params: params, principalAngle: principalAngle}
}

// Detect locates and counts balls in one image. A nil or empty image yields
// an empty result, never an error: the caller's overlay simply shows nothing.
func (d *Detector) Detect(img *cimg.Image) Result {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return Result{}
	}

	classified := Classify(img, d.params.Thresholds)
	if !d.params.DisableExpansion {
		classified = expandBorders(classified, expandParams{
			minSizeToExpand: d.params.MinSizeToExpand,
			maxClusters:     d.params.MaxExpandClusters,
			maxDistance:     d.params.MaxExpandDistance,
		})
	}
	return d.DetectClassified(classified)
}

// DetectClassified runs extraction on an already-classified buffer.
func (d *Detector) DetectClassified(classified *ClassifiedImage) Result {
	result := Result{Classified: classified}

	// Boundary lines are found before ball extraction, and only for long goals
	if d.params.Pipe == PipeLong {
		result.Lines = detectBoundaryLines(classified, d.params.MinWhiteLineSize)
	}

	ballRadius := d.params.BallRadiusRatio * float32(classified.Width)
	minArea := math32.Pi * ballRadius * ballRadius * d.params.BallAreaPercentage / 100

	visited := newVisitedMask(classified.Width, classified.Height)
	exclusions := exclusionSet{}

	for y := 0; y < classified.Height; y++ {
		for x := 0; x < classified.Width; x++ {
			class := classified.At(x, y)
			if class != Red && class != Blue {
				continue
			}
			if visited.get(x, y) || exclusions.contains(float32(x), float32(y)) {
				continue
			}
			cluster := floodFill(classified, visited, nn.Point{X: x, Y: y}, class)
			if float32(cluster.Size()) < minArea {
				continue
			}
			for _, center := range d.splitCluster(&cluster, ballRadius) {
				ball := Ball{
					Center: center,
					Radius: ballRadius,
					Color:  class,
					Zone:   classifyZone(d.params.Pipe, result.Lines, center.X, ballRadius, d.params.MinWhiteLineSize),
				}
				result.Balls = append(result.Balls, ball)
				exclusions.add(center, ballRadius*d.params.ExclusionRadiusMultiplier)
				switch {
				case ball.Zone == ZoneMiddle && class == Red:
					result.Counts.Middle.Red++
				case ball.Zone == ZoneMiddle && class == Blue:
					result.Counts.Middle.Blue++
				case class == Red:
					result.Counts.Outside.Red++
				default:
					result.Counts.Outside.Blue++
				}
			}
		}
	}
	return result
}

// splitCluster returns the ball centers a qualifying cluster yields. Merged
// balls show up as one elongated cluster; we analyze it in a frame rotated by
// the negative principal angle so the elongation aligns to an axis, then
// slice it into equal-width bands.
func (d *Detector) splitCluster(cluster *Cluster, ballRadius float32) []nn.PointF {
	sinA := math32.Sin(d.principalAngle)
	cosA := math32.Cos(d.principalAngle)
	rotX := func(p nn.Point) float32 {
		return float32(p.X)*cosA + float32(p.Y)*sinA
	}
	rotY := func(p nn.Point) float32 {
		return -float32(p.X)*sinA + float32(p.Y)*cosA
	}

	minX, maxX := rotX(cluster.Pixels[0]), rotX(cluster.Pixels[0])
	minY, maxY := rotY(cluster.Pixels[0]), rotY(cluster.Pixels[0])
	for _, p := range cluster.Pixels[1:] {
		minX = math32.Min(minX, rotX(p))
		maxX = math32.Max(maxX, rotX(p))
		minY = math32.Min(minY, rotY(p))
		maxY = math32.Max(maxY, rotY(p))
	}
	width := maxX - minX + 1
	height := maxY - minY + 1

	aspect := width / height
	if aspect < d.params.ClusterSplitThreshold || d.params.MaxBallsInCluster < 2 {
		return []nn.PointF{cluster.Centroid()}
	}

	nBands := int(math32.Round(aspect))
	nBands = max(2, min(nBands, d.params.MaxBallsInCluster))
	bandWidth := width / float32(nBands)
	minSeparation := 2 * ballRadius * d.params.MinClusterSeparation

	// Per-band centroids, computed in original image coordinates
	sumX := make([]float32, nBands)
	sumY := make([]float32, nBands)
	count := make([]int, nBands)
	for _, p := range cluster.Pixels {
		band := int((rotX(p) - minX) / bandWidth)
		band = min(band, nBands-1)
		sumX[band] += float32(p.X)
		sumY[band] += float32(p.Y)
		count[band]++
	}

	accepted := []nn.PointF{}
	for band := 0; band < nBands; band++ {
		if count[band] == 0 {
			continue
		}
		center := nn.PointF{
			X: sumX[band] / float32(count[band]),
			Y: sumY[band] / float32(count[band]),
		}
		tooClose := false
		for _, prev := range accepted {
			if center.Distance(prev) < minSeparation {
				tooClose = true
				break
			}
		}
		if !tooClose {
			accepted = append(accepted, center)
		}
	}
	if len(accepted) == 0 {
		return []nn.PointF{cluster.Centroid()}
	}
	return accepted
}

// exclusionSet suppresses duplicate detection of a ball whose cluster has
// internal color variation or partial occlusion. Installed zones apply for
// the remainder of the scan.
type exclusionSet struct {
	circles []exclusionCircle
}

type exclusionCircle struct {
	center nn.PointF
	radius float32
}

func (e *exclusionSet) add(center nn.PointF, radius float32) {
	e.circles = append(e.circles, exclusionCircle{center: center, radius: radius})
}

func (e *exclusionSet) contains(x, y float32) bool {
	for _, c := range e.circles {
		dx := x - c.center.X
		dy := y - c.center.Y
		if dx*dx+dy*dy <= c.radius*c.radius {
			return true
		}
	}
	return false
}
