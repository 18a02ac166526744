package track

import (
	"github.com/chewxy/math32"
	"github.com/cyclopcam/logs"
	"github.com/evanwboyle/roboscore/pkg/nn"
)

// The field has exactly four goal legs
const DefaultMaxLegs = 4

// A newborn tracked leg closer than this to a ghost is considered the same
// physical leg, and destroys the ghost
const DefaultGhostMatchDistance = 75

// A leg's displacement only contributes to the motion vector once its id has
// been seen this many consecutive frames
const minPersistenceForMotion = 3

// TrackedLeg is a goal leg with a live tracker identity
type TrackedLeg struct {
	Box               nn.Rect `json:"box"`
	ID                int64   `json:"id"`
	PersistenceFrames int     `json:"persistenceFrames"` // consecutive frames this id has been present
}

// GhostLeg is the last known position of a leg whose identity was lost.
// Its box drifts with the averaged motion of the visible legs.
type GhostLeg struct {
	Box nn.Rect `json:"box"`
	ID  int64   `json:"id"`
}

// LegManager owns the tracked/ghost leg state for one camera session.
// It is not safe for concurrent use; the live pipeline drives it from a
// single goroutine.
type LegManager struct {
	log                logs.Log
	tracker            Tracker
	maxLegs            int
	ghostMatchDistance float32

	tracked     []TrackedLeg
	ghosts      []GhostLeg // oldest first, so eviction is a pop from the front
	lastCenters map[int64]nn.Point
}

func NewLegManager(logger logs.Log, tracker Tracker) *LegManager {
	return &LegManager{
		log:                logger,
		tracker:            tracker,
		maxLegs:            DefaultMaxLegs,
		ghostMatchDistance: DefaultGhostMatchDistance,
		lastCenters:        map[int64]nn.Point{},
	}
}

// SetGhostMatchDistance overrides the newborn-to-ghost match threshold
func (m *LegManager) SetGhostMatchDistance(d float32) {
	m.ghostMatchDistance = d
}

// Update runs one frame through the external tracker and advances the
// tracked/ghost lifecycle. The returned slices are snapshots; the manager
// never mutates them after returning.
func (m *LegManager) Update(boxes []nn.Rect) ([]TrackedLeg, []GhostLeg) {
	trackedBoxes := m.tracker.Update(boxes)

	prev := map[int64]TrackedLeg{}
	for _, leg := range m.tracked {
		prev[leg.ID] = leg
	}
	nowIDs := map[int64]bool{}

	newTracked := make([]TrackedLeg, 0, len(trackedBoxes))
	for _, tb := range trackedBoxes {
		persistence := 1
		if p, ok := prev[tb.ID]; ok {
			persistence = p.PersistenceFrames + 1
		}
		newTracked = append(newTracked, TrackedLeg{
			Box:               tb.Box,
			ID:                tb.ID,
			PersistenceFrames: persistence,
		})
		nowIDs[tb.ID] = true
	}

	// Lost identities freeze into ghosts
	for _, leg := range m.tracked {
		if nowIDs[leg.ID] || m.ghostWithID(leg.ID) {
			continue
		}
		m.ghosts = append(m.ghosts, GhostLeg{Box: leg.Box, ID: leg.ID})
		m.log.Infof("Leg %v lost, ghost frozen at %v,%v", leg.ID, leg.Box.Center().X, leg.Box.Center().Y)
	}

	// A newborn identity appearing next to a ghost IS that leg, re-acquired
	// under a new id. Destroy the ghost so we don't overlay the leg twice.
	for _, leg := range newTracked {
		if _, existed := prev[leg.ID]; existed {
			continue
		}
		best := -1
		bestDistance := m.ghostMatchDistance
		for gi := range m.ghosts {
			d := leg.Box.Center().Distance(m.ghosts[gi].Box.Center())
			if d < bestDistance {
				bestDistance = d
				best = gi
			}
		}
		if best != -1 {
			m.log.Infof("Leg %v reappeared near ghost %v, removing ghost", leg.ID, m.ghosts[best].ID)
			m.ghosts = append(m.ghosts[:best], m.ghosts[best+1:]...)
		}
	}

	m.tracked = newTracked

	// Enforce the leg cap, evicting the oldest ghosts first
	for len(m.tracked)+len(m.ghosts) > m.maxLegs && len(m.ghosts) > 0 {
		m.log.Infof("Leg cap exceeded, evicting ghost %v", m.ghosts[0].ID)
		m.ghosts = m.ghosts[1:]
	}
	if len(m.tracked) > m.maxLegs {
		// The tracker found more legs than the field has. Keep the most
		// established identities.
		m.tracked = trimToOldestIdentities(m.tracked, m.maxLegs)
	}

	m.driftGhosts()

	// Carry centers forward, purging identities that are no longer tracked
	m.lastCenters = map[int64]nn.Point{}
	for _, leg := range m.tracked {
		m.lastCenters[leg.ID] = leg.Box.Center()
	}

	return m.snapshotTracked(), m.snapshotGhosts()
}

// driftGhosts translates every ghost by the average displacement of the legs
// that have been stably tracked, predicting where an occluded leg would be
// under uniform camera/field motion.
func (m *LegManager) driftGhosts() {
	var sumX, sumY float32
	n := 0
	for _, leg := range m.tracked {
		if leg.PersistenceFrames < minPersistenceForMotion {
			continue
		}
		last, ok := m.lastCenters[leg.ID]
		if !ok {
			continue
		}
		c := leg.Box.Center()
		sumX += float32(c.X - last.X)
		sumY += float32(c.Y - last.Y)
		n++
	}
	if n == 0 {
		return
	}
	dx := int(math32.Round(sumX / float32(n)))
	dy := int(math32.Round(sumY / float32(n)))
	if dx == 0 && dy == 0 {
		return
	}
	for i := range m.ghosts {
		m.ghosts[i].Box.Offset(dx, dy)
	}
}

// Reset drops all ghosts and motion history. Called on orientation or other
// reference-frame changes: a frozen position in the old frame is meaningless
// in the new one. Tracked legs survive; the tracker recomputes them on the
// next frame regardless.
func (m *LegManager) Reset() {
	m.ghosts = nil
	m.lastCenters = map[int64]nn.Point{}
}

func (m *LegManager) ghostWithID(id int64) bool {
	for _, g := range m.ghosts {
		if g.ID == id {
			return true
		}
	}
	return false
}

func (m *LegManager) snapshotTracked() []TrackedLeg {
	out := make([]TrackedLeg, len(m.tracked))
	copy(out, m.tracked)
	return out
}

func (m *LegManager) snapshotGhosts() []GhostLeg {
	out := make([]GhostLeg, len(m.ghosts))
	copy(out, m.ghosts)
	return out
}

func trimToOldestIdentities(legs []TrackedLeg, limit int) []TrackedLeg {
	for len(legs) > limit {
		newest := 0
		for i := range legs {
			if legs[i].ID > legs[newest].ID {
				newest = i
			}
		}
		legs = append(legs[:newest], legs[newest+1:]...)
	}
	return legs
}
