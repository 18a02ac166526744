package balls

import (
	"fmt"
	"image"

	"github.com/bmharper/cimg/v2"
	"github.com/fogleman/gg"
)

// RenderAnnotated draws the detection result over the quantized color map:
// a circle outline per ball, the boundary lines, and a count banner.
// The returned image is RGBA.
func RenderAnnotated(result *Result) *cimg.Image {
	if result.Classified == nil {
		return nil
	}
	ci := result.Classified
	base := image.NewRGBA(image.Rect(0, 0, ci.Width, ci.Height))
	for y := 0; y < ci.Height; y++ {
		for x := 0; x < ci.Width; x++ {
			i := y*base.Stride + x*4
			if ref, ok := refColors[ci.At(x, y)]; ok {
				base.Pix[i+0] = ref[0]
				base.Pix[i+1] = ref[1]
				base.Pix[i+2] = ref[2]
			}
			base.Pix[i+3] = 255
		}
	}

	dc := gg.NewContextForRGBA(base)

	for _, line := range result.Lines {
		dc.SetRGB(1, 1, 0)
		dc.SetLineWidth(2)
		dc.DrawLine(float64(line.MeanX), 0, float64(line.MeanX), float64(ci.Height))
		dc.Stroke()
	}

	for _, ball := range result.Balls {
		if ball.Zone == ZoneMiddle {
			dc.SetRGB(0, 1, 0)
		} else {
			dc.SetRGB(1, 0.65, 0)
		}
		dc.SetLineWidth(2)
		dc.DrawCircle(float64(ball.Center.X), float64(ball.Center.Y), float64(ball.Radius))
		dc.Stroke()
	}

	total := result.Counts.Total()
	dc.SetRGB(1, 1, 1)
	dc.DrawString(fmt.Sprintf("Red: %v  Blue: %v", total.Red, total.Blue), 10, 20)

	return cimg.WrapImage(ci.Width, ci.Height, cimg.PixelFormatRGBA, base.Pix)
}
