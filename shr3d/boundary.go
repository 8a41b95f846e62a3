package shr3d

import (
	"image"

	"github.com/SarahHas/pubgeo/orthoimage"
	"github.com/SarahHas/pubgeo/utils"
)

// labelObjectBoundaries resets the label raster and marks every pixel whose
// second difference against some neighbor exceeds minHeightDiff. Neighbors
// are probed on a 3x3 stencil at stride edgeResolution, and the neighbor's own
// gradient (probed at twice the stride) is subtracted first, so away from the
// raster border continuous terrain ramps do not trigger while discrete steps
// do. The test also fires below a step, at pixels whose first probe lands on
// flat ground and whose second probe lands on top of the step, and near the
// border, where clamped probes collapse onto the edge, a ramp can trigger it.
func labelObjectBoundaries(heights *orthoimage.OrthoImage[uint16], labels *orthoimage.OrthoImage[uint32],
	edgeResolution int, minHeightDiff uint16,
) {
	labels.Fill(LabelGround)

	width := labels.Width()
	height := labels.Height()
	threshold := float64(minHeightDiff)

	// Interestingly, probing at the stride alone works about as well as
	// checking every step in between.
	utils.ParallelForEachPixel(image.Point{width, height}, func(i, j int) {
		value := float64(heights.At(i, j))
		for dj := -edgeResolution; dj <= edgeResolution; dj += edgeResolution {
			for di := -edgeResolution; di <= edgeResolution; di += edgeResolution {
				j2 := utils.ClampInt(j+dj, 0, height-1)
				i2 := utils.ClampInt(i+di, 0, width-1)
				if heights.At(i2, j2) == 0 {
					continue
				}
				// Remove local slope to avoid tagging rough terrain.
				j3 := utils.ClampInt(j+dj*2, 0, height-1)
				i3 := utils.ClampInt(i+di*2, 0, width-1)
				myGradient := value - float64(heights.At(i2, j2))
				neighborGradient := float64(heights.At(i2, j2)) - float64(heights.At(i3, j3))
				if myGradient-neighborGradient > threshold {
					labels.Set(i, j, LabelObject)
				}
			}
		}
	})
}

// extendObjectBoundaries widens boundary labels across the flat tops of
// objects to capture pixels missed around the edges, while refusing to bleed
// onto smooth ground. Each of the edgeResolution rounds first tags close
// neighbors of labeled pixels as temporary, then promotes a temporary pixel
// only if it sits more than half a height step above some neighbor of its own.
func extendObjectBoundaries(heights *orthoimage.OrthoImage[uint16], labels *orthoimage.OrthoImage[uint32],
	edgeResolution int, minHeightDiff uint16,
) {
	width := labels.Width()
	height := labels.Height()
	halfStep := float64(minHeightDiff) / 2.0

	for k := 0; k < edgeResolution; k++ {
		// First, tag any close neighbor of a labeled interior pixel.
		for j := 1; j < height-1; j++ {
			for i := 1; i < width-1; i++ {
				if labels.At(i, j) != LabelObject {
					continue
				}
				for jj := j - 1; jj <= j+1; jj++ {
					for ii := i - 1; ii <= i+1; ii++ {
						if labels.At(ii, jj) == LabelObject {
							continue
						}
						if float64(heights.At(i, j))-float64(heights.At(ii, jj)) < halfStep {
							labels.Set(ii, jj, labelTemp)
						}
					}
				}
			}
		}

		// Then promote any tagged pixel that is also higher than one of its
		// neighbors.
		for j := 0; j < height; j++ {
			for i := 0; i < width; i++ {
				if labels.At(i, j) != labelTemp {
					continue
				}
				j1 := utils.MaxInt(0, j-1)
				j2 := utils.MinInt(j+1, height-1)
				i1 := utils.MaxInt(0, i-1)
				i2 := utils.MinInt(i+1, width-1)
				for jj := j1; jj <= j2; jj++ {
					for ii := i1; ii <= i2; ii++ {
						if float64(heights.At(i, j))-float64(heights.At(ii, jj)) > halfStep {
							labels.Set(i, j, LabelObject)
						}
					}
				}
			}
		}
	}

	// Demote whatever never got promoted.
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			if labels.At(i, j) == labelTemp {
				labels.Set(i, j, LabelGround)
			}
		}
	}
}
