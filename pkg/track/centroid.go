package track

import (
	"github.com/evanwboyle/roboscore/pkg/nn"
)

// CentroidTracker is a simple greedy IOU/distance tracker that satisfies the
// Tracker interface. It exists so the live pipeline can run without a
// platform tracker. Matching prefers box overlap; when the frame rate is low
// enough that consecutive boxes no longer overlap, it falls back to the
// distance between box centers.
type CentroidTracker struct {
	nextID      int64
	maxDistance float32 // matches beyond this center distance start a new identity
	lastBoxes   []TrackedBox
}

func NewCentroidTracker(maxDistance float32) *CentroidTracker {
	return &CentroidTracker{
		nextID:      1,
		maxDistance: maxDistance,
	}
}

func (t *CentroidTracker) Update(boxes []nn.Rect) []TrackedBox {
	out := make([]TrackedBox, len(boxes))
	prevMatched := make([]bool, len(t.lastBoxes))

	for i, box := range boxes {
		bestJ := -1
		bestIOU := float32(0)
		bestDistance := t.maxDistance
		for j, prev := range t.lastBoxes {
			if prevMatched[j] {
				continue
			}
			iou := box.IOU(prev.Box)
			distance := box.Center().Distance(prev.Box.Center())
			if iou > bestIOU {
				bestIOU = iou
				bestJ = j
			} else if bestIOU == 0 && distance < bestDistance {
				bestDistance = distance
				bestJ = j
			}
		}
		if bestJ != -1 {
			prevMatched[bestJ] = true
			out[i] = TrackedBox{Box: box, ID: t.lastBoxes[bestJ].ID}
		} else {
			out[i] = TrackedBox{Box: box, ID: t.nextID}
			t.nextID++
		}
	}

	t.lastBoxes = out
	return out
}
