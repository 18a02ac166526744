package counts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSmootherConvergence(t *testing.T) {
	s := NewSmoother[string](10)
	constant := ColorCount{Red: 3, Blue: 1}
	var out map[string]ColorCount
	for i := 0; i < 10; i++ {
		out = s.Update(map[string]ColorCount{"middle": constant})
	}
	require.Equal(t, constant, out["middle"])

	// Keep feeding beyond the window; still exactly C
	for i := 0; i < 20; i++ {
		out = s.Update(map[string]ColorCount{"middle": constant})
	}
	require.Equal(t, constant, out["middle"])
}

func TestSmootherAbsorbsFlicker(t *testing.T) {
	s := NewSmoother[string](10)
	var out map[string]ColorCount
	for i := 0; i < 9; i++ {
		out = s.Update(map[string]ColorCount{"outside": {Red: 2}})
	}
	// One bad frame in a window of good ones must not change the rounded mean
	out = s.Update(map[string]ColorCount{"outside": {Red: 0}})
	require.Equal(t, 2, out["outside"].Red)
}

func TestSmootherWindowOfOne(t *testing.T) {
	// Degenerate but legal configuration: the output is just the latest frame
	s := NewSmoother[string](1)
	s.Update(map[string]ColorCount{"a": {Red: 3}})
	out := s.Update(map[string]ColorCount{"a": {Red: 7}})
	require.Equal(t, ColorCount{Red: 7}, out["a"])
}

func TestSmootherPowerOfTwoWindow(t *testing.T) {
	// The mean must span the full window even when the window is a power of two
	s := NewSmoother[string](8)
	var out map[string]ColorCount
	for i := 0; i < 4; i++ {
		out = s.Update(map[string]ColorCount{"a": {}})
	}
	for i := 0; i < 4; i++ {
		out = s.Update(map[string]ColorCount{"a": {Red: 8}})
	}
	// 4 zeros and 4 eights: mean 4. Averaging only 7 frames would give 5.
	require.Equal(t, ColorCount{Red: 4}, out["a"])
}

func TestSmootherDecaysMissingCategory(t *testing.T) {
	s := NewSmoother[string](4)
	for i := 0; i < 4; i++ {
		s.Update(map[string]ColorCount{"a": {Red: 4}})
	}
	// Category 'a' vanishes from the input; it decays to zero rather than
	// freezing at its last value.
	var out map[string]ColorCount
	for i := 0; i < 4; i++ {
		out = s.Update(map[string]ColorCount{})
	}
	require.Equal(t, 0, out["a"].Red)
}

func TestZoneCountsTotalIsDerived(t *testing.T) {
	z := ZoneCounts{
		Middle:  ColorCount{Red: 2, Blue: 1},
		Outside: ColorCount{Red: 1, Blue: 3},
	}
	require.Equal(t, ColorCount{Red: 3, Blue: 4}, z.Total())
	require.Equal(t, 7, z.Total().Total())
}
