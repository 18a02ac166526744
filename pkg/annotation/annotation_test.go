package annotation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/evanwboyle/roboscore/pkg/field"
	"github.com/evanwboyle/roboscore/pkg/nn"
	"github.com/stretchr/testify/require"
)

const sampleAnnotation = `{
	"legs": [
		{"center": {"x": 10, "y": 20}},
		{"center": {"x": 610, "y": 20}},
		{"center": {"x": 610, "y": 420}},
		{"center": {"x": 10, "y": 420}}
	],
	"longGoals": [
		{"p1": {"x": 0, "y": 25}, "p2": {"x": 100, "y": 25}, "controlZone": [40, 60]}
	],
	"shortGoals": [
		{"p1": {"x": 50, "y": 75}, "p2": {"x": 100, "y": 75}}
	]
}`

func writeSample(t *testing.T, content string) string {
	filename := filepath.Join(t.TempDir(), "field.json")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestLoad(t *testing.T) {
	a, err := Load(writeSample(t, sampleAnnotation))
	require.NoError(t, err)
	require.Len(t, a.Legs, 4)

	centers := a.LegCenters()
	require.Equal(t, nn.PointF{X: 10, Y: 20}, centers[0])

	cfg := a.FieldConfig()
	require.Len(t, cfg.LongGoals, 1)
	require.Len(t, cfg.ShortGoals, 1)
	require.Equal(t, float32(20), cfg.LongGoals[0].ControlZonePercent)

	poly, ok := a.ReferencePolygon()
	require.True(t, ok)
	require.Equal(t, field.Polygon{
		{X: 10, Y: 20}, {X: 610, Y: 20}, {X: 610, Y: 420}, {X: 10, Y: 420},
	}, poly)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	_, err := Load(writeSample(t, "{not json"))
	require.Error(t, err)
}

func TestReferencePolygonAbsentWithoutFourLegs(t *testing.T) {
	a := &Annotation{Legs: []Leg{{Center: nn.PointF{X: 1, Y: 1}}}}
	_, ok := a.ReferencePolygon()
	require.False(t, ok)
}

func TestInvertedControlZoneRangeClampsToZero(t *testing.T) {
	a := &Annotation{LongGoals: []LongGoal{{ControlZone: [2]float32{60, 40}}}}
	require.Equal(t, float32(0), a.FieldConfig().LongGoals[0].ControlZonePercent)
}
