package counts

// Package counts holds the per-color ball tallies produced by detection,
// and the sliding-window smoother that stabilizes them for display.

// Number of red and blue balls in some region
type ColorCount struct {
	Red  int `json:"red"`
	Blue int `json:"blue"`
}

func (c ColorCount) Total() int {
	return c.Red + c.Blue
}

func (c *ColorCount) Add(b ColorCount) {
	c.Red += b.Red
	c.Blue += b.Blue
}

// Ball counts of one detection pass, split by scoring zone.
// The total is always derived, so it cannot drift out of sync with the zones.
type ZoneCounts struct {
	Middle  ColorCount `json:"middle"`
	Outside ColorCount `json:"outside"`
}

func (z ZoneCounts) Total() ColorCount {
	t := z.Middle
	t.Add(z.Outside)
	return t
}
