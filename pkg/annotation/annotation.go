package annotation

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/evanwboyle/roboscore/pkg/field"
	"github.com/evanwboyle/roboscore/pkg/gen"
	"github.com/evanwboyle/roboscore/pkg/nn"
)

// Package annotation loads the static field annotation: the four goal-leg
// centers of the reference view, and the goal lines expressed as percentage
// offsets. Loaded once at session start, read-only thereafter.

type Leg struct {
	Center nn.PointF `json:"center"`
}

type LongGoal struct {
	P1 field.PercentPoint `json:"p1"`
	P2 field.PercentPoint `json:"p2"`
	// Control zone as a [start, end] percentage range along the line
	ControlZone [2]float32 `json:"controlZone"`
}

type ShortGoal struct {
	P1 field.PercentPoint `json:"p1"`
	P2 field.PercentPoint `json:"p2"`
}

type Annotation struct {
	Legs       []Leg       `json:"legs"`
	LongGoals  []LongGoal  `json:"longGoals"`
	ShortGoals []ShortGoal `json:"shortGoals"`

	refOnce sync.Once
	refPoly field.Polygon
	refOK   bool
}

// Load reads and parses the annotation file. A missing or invalid file is not
// fatal to a session; the caller runs without a reference polygon.
func Load(filename string) (*Annotation, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation file %v: %w", filename, err)
	}
	a := &Annotation{}
	if err := json.Unmarshal(raw, a); err != nil {
		return nil, fmt.Errorf("failed to parse annotation file %v: %w", filename, err)
	}
	return a, nil
}

// LegCenters returns the annotated leg centers in file order
func (a *Annotation) LegCenters() []nn.PointF {
	centers := make([]nn.PointF, len(a.Legs))
	for i, leg := range a.Legs {
		centers[i] = leg.Center
	}
	return centers
}

// FieldConfig converts the annotation's goal lines into the percentage-based
// layout consumed by the field geometry builder. The control-zone range
// collapses to its length; the builder centers it on the line's midpoint.
func (a *Annotation) FieldConfig() field.Config {
	cfg := field.Config{}
	for _, lg := range a.LongGoals {
		// An inverted range is treated as an empty control zone
		pct := gen.Max(lg.ControlZone[1]-lg.ControlZone[0], 0)
		cfg.LongGoals = append(cfg.LongGoals, field.LongGoalConfig{
			P1:                 lg.P1,
			P2:                 lg.P2,
			ControlZonePercent: pct,
		})
	}
	for _, sg := range a.ShortGoals {
		cfg.ShortGoals = append(cfg.ShortGoals, field.ShortGoalConfig{P1: sg.P1, P2: sg.P2})
	}
	return cfg
}

// ReferencePolygon is the polygon of the annotated reference view, computed
// once and cached. Absent when the annotation doesn't have exactly 4 legs.
func (a *Annotation) ReferencePolygon() (field.Polygon, bool) {
	a.refOnce.Do(func() {
		a.refPoly, a.refOK = field.PolygonFromPoints(a.LegCenters())
	})
	return a.refPoly, a.refOK
}
