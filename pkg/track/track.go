package track

import (
	"github.com/evanwboyle/roboscore/pkg/nn"
)

// Package track wraps an external multi-object tracker primitive and layers
// the goal-leg lifecycle on top of it: identity loss turns a leg into a
// ghost, identity recovery near a ghost destroys the ghost, and ghosts drift
// with the averaged motion of the legs that are still visible.

// TrackedBox is a detection box annotated with a stable identity
type TrackedBox struct {
	Box nn.Rect `json:"box"`
	ID  int64   `json:"id"`
}

// Tracker is the external multi-object tracker primitive. It is stateful
// across calls and restricted by the caller to a single object class.
// The only promise is "same id implies same physical object, best effort".
type Tracker interface {
	// Update is given this frame's boxes and returns the same boxes with ids
	Update(boxes []nn.Rect) []TrackedBox
}
