package counts

import (
	"math"

	"github.com/bmharper/ringbuffer"
	"github.com/evanwboyle/roboscore/pkg/gen"
)

const DefaultSmootherWindow = 10

// Smoother keeps a FIFO of the last N frames' counts per category, and
// reports the rounded mean. Single-frame detection flicker disappears into
// the window; a constant input of C for N frames reports exactly C.
//
// K is the category key, eg a goal segment.
type Smoother[K comparable] struct {
	window  int
	history map[K]*ringbuffer.RingP[ColorCount]
}

func NewSmoother[K comparable](window int) *Smoother[K] {
	if window <= 0 {
		window = DefaultSmootherWindow
	}
	return &Smoother[K]{
		window:  window,
		history: map[K]*ringbuffer.RingP[ColorCount]{},
	}
}

// Update appends this frame's raw counts and returns the smoothed counts per
// category. Categories seen in earlier frames but absent from 'raw' are fed a
// zero count, so a segment that stops producing balls decays to zero instead
// of freezing at its last value.
func (s *Smoother[K]) Update(raw map[K]ColorCount) map[K]ColorCount {
	for key := range raw {
		if s.history[key] == nil {
			// The ring stores one less element than its capacity, so size it
			// past the window or the oldest frame falls out early
			ring := ringbuffer.NewRingP[ColorCount](nextPowerOf2(s.window + 1))
			s.history[key] = &ring
		}
	}
	out := map[K]ColorCount{}
	for key, ring := range s.history {
		ring.Add(raw[key])
		out[key] = s.smoothed(ring)
	}
	return out
}

func (s *Smoother[K]) smoothed(ring *ringbuffer.RingP[ColorCount]) ColorCount {
	n := gen.Min(ring.Len(), s.window)
	if n == 0 {
		return ColorCount{}
	}
	sum := ColorCount{}
	for i := 0; i < n; i++ {
		sum.Add(ring.Peek(ring.Len() - 1 - i))
	}
	return ColorCount{
		Red:  roundedMean(sum.Red, n),
		Blue: roundedMean(sum.Blue, n),
	}
}

func roundedMean(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}

func nextPowerOf2(n int) int {
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
