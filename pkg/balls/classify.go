package balls

import (
	"github.com/bmharper/cimg/v2"
	"github.com/chewxy/math32"
)

// Package balls turns raw pixels into discrete ball detections with a zone
// assignment. The pipeline is: classify pixels by nearest reference color,
// grow the largest clusters through adjacent white pixels to recover glare
// edges, flood-fill clusters, split merged clusters, and suppress duplicate
// detections with exclusion zones.

// Color is the class assigned to a pixel by the classifier
type Color uint8

const (
	Background Color = iota
	Red
	Blue
	White
)

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Blue:
		return "blue"
	case White:
		return "white"
	}
	return "background"
}

// Reference colors that pixels are quantized to
var refColors = map[Color][3]uint8{
	Red:   {255, 0, 0},
	Blue:  {0, 0, 255},
	White: {255, 255, 255},
}

// Classification order. Ties in distance are broken by this order.
var classOrder = []Color{Red, Blue, White}

const DefaultColorThreshold = 50

// Per-color Euclidean RGB distance thresholds
type Thresholds struct {
	Red   float32 `json:"red"`
	Blue  float32 `json:"blue"`
	White float32 `json:"white"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Red:   DefaultColorThreshold,
		Blue:  DefaultColorThreshold,
		White: DefaultColorThreshold,
	}
}

func (t Thresholds) forClass(c Color) float32 {
	switch c {
	case Red:
		return t.Red
	case Blue:
		return t.Blue
	case White:
		return t.White
	}
	return 0
}

// ClassifiedImage is the per-pixel class buffer produced by Classify.
// It is a plain value with no shared state, so independent goroutines can
// each classify their own image concurrently.
type ClassifiedImage struct {
	Width   int
	Height  int
	Classes []Color // Width*Height entries, row-major
}

func NewClassifiedImage(width, height int) *ClassifiedImage {
	return &ClassifiedImage{
		Width:   width,
		Height:  height,
		Classes: make([]Color, width*height),
	}
}

func (c *ClassifiedImage) At(x, y int) Color {
	return c.Classes[y*c.Width+x]
}

func (c *ClassifiedImage) Set(x, y int, class Color) {
	c.Classes[y*c.Width+x] = class
}

func (c *ClassifiedImage) Clone() *ClassifiedImage {
	dup := NewClassifiedImage(c.Width, c.Height)
	copy(dup.Classes, c.Classes)
	return dup
}

// Classify maps every pixel to the nearest reference color whose distance is
// within that color's threshold, or Background. The input may be RGB or RGBA.
func Classify(img *cimg.Image, thr Thresholds) *ClassifiedImage {
	out := NewClassifiedImage(img.Width, img.Height)
	nchan := img.NChan()
	for y := 0; y < img.Height; y++ {
		row := img.Pixels[y*img.Stride:]
		for x := 0; x < img.Width; x++ {
			p := row[x*nchan:]
			out.Classes[y*img.Width+x] = classifyPixel(p[0], p[1], p[2], thr)
		}
	}
	return out
}

func classifyPixel(r, g, b uint8, thr Thresholds) Color {
	best := Background
	bestDist := float32(math32.MaxFloat32)
	for _, class := range classOrder {
		ref := refColors[class]
		dist := colorDistance(r, g, b, ref)
		if dist <= thr.forClass(class) && dist < bestDist {
			best = class
			bestDist = dist
		}
	}
	return best
}

func colorDistance(r, g, b uint8, ref [3]uint8) float32 {
	dr := float32(int(r) - int(ref[0]))
	dg := float32(int(g) - int(ref[1]))
	db := float32(int(b) - int(ref[2]))
	return math32.Sqrt(dr*dr + dg*dg + db*db)
}

// ToImage renders the quantized buffer: every classified pixel becomes its
// exact reference RGB value, background pixels are zeroed.
func (c *ClassifiedImage) ToImage() *cimg.Image {
	img := cimg.NewImage(c.Width, c.Height, cimg.PixelFormatRGB)
	for y := 0; y < c.Height; y++ {
		row := img.Pixels[y*img.Stride:]
		for x := 0; x < c.Width; x++ {
			if ref, ok := refColors[c.Classes[y*c.Width+x]]; ok {
				row[x*3+0] = ref[0]
				row[x*3+1] = ref[1]
				row[x*3+2] = ref[2]
			}
		}
	}
	return img
}
