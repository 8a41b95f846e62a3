package orthoimage

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ToPrettyPicture renders a height raster as an HSV ramp for quick visual
// inspection. Voids stay transparent black.
func (im *OrthoImage[T]) ToPrettyPicture(hardMin, hardMax int) image.Image {
	min, max := im.MinMax()

	lo, hi := int(min), int(max)
	if lo < hardMin {
		lo = hardMin
	}
	if hi > hardMax {
		hi = hardMax
	}

	img := image.NewRGBA(image.Rect(0, 0, im.width, im.height))

	span := float64(hi) - float64(lo)

	for j := 0; j < im.height; j++ {
		for i := 0; i < im.width; i++ {
			z := int(im.data[j][i])
			if z == 0 {
				continue
			}

			if z < lo {
				z = lo
			}
			if z > hi {
				z = hi
			}

			ratio := 0.0
			if span > 0 {
				ratio = float64(z-lo) / span
			}

			hue := 30 + (200.0 * ratio)
			r, g, b := colorful.Hsv(hue, 1.0, 1.0).RGB255()
			img.Set(i, j, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}

	return img
}
