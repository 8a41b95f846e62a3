package shr3d

import (
	"math"

	"github.com/SarahHas/pubgeo/orthoimage"
	"github.com/SarahHas/pubgeo/utils"
)

// ClassifyGround derives a bare-earth terrain model from the surface model,
// returning the terrain raster and a label raster holding LabelObject at
// every pixel whose surface sample was removed and LabelGround everywhere
// else. Pixels that are void in the surface model come back as LabelGround.
//
// Each iteration labels object boundaries on the working terrain model,
// extends them across flat tops, groups them into components, carves out the
// component interiors, and re-fills the resulting voids from the surrounding
// terrain so the next iteration's gradient test sees a plausible local
// ground. Each iteration thereby removes one scale of above-ground clutter.
func (s *Shr3dder) ClassifyGround(dsm *orthoimage.OrthoImage[uint16],
) (*orthoimage.OrthoImage[uint16], *orthoimage.OrthoImage[uint32], error) {
	width := dsm.Width()
	height := dsm.Height()
	gsd := dsm.GSD()

	labels, err := orthoimage.New[uint32](width, height, gsd)
	if err != nil {
		return nil, nil, err
	}
	voidMask, err := orthoimage.New[uint8](width, height, gsd)
	if err != nil {
		return nil, nil, err
	}

	dtm := dsm.Clone()

	s.logger.Debug("filling voids")
	dtm.FillVoidsPyramid(true)

	// The area cap is configured in meters; convert to a pixel count.
	maxCount := int(s.conf.MaxAreaMeters / (gsd * gsd))

	for k := 0; k < s.conf.GroundIterations; k++ {
		s.logger.Debugf("iteration #%d", k+1)

		s.logger.Debug("labeling object boundaries")
		labelObjectBoundaries(dtm, labels, s.conf.EdgeResolution, s.conf.MinHeightDiff)

		s.logger.Debug("extending object boundaries")
		extendObjectBoundaries(dtm, labels, s.conf.EdgeResolution, s.conf.MinHeightDiff)

		s.logger.Debug("grouping objects")
		objects := GroupObjects(labels, dtm, uint32(s.conf.MinHeightDiff), maxCount)
		s.logger.Debugf("number of objects = %d", len(objects))

		s.logger.Debug("labeling and removing objects")
		for idx := range objects {
			fillObjectBounds(labels, dtm, &objects[idx], s.conf.EdgeResolution)
		}

		finishLabelImage(labels)

		// Everything labeled this round joins the accumulated void set, and
		// every accumulated void is re-carved before the fill so earlier
		// estimates cannot ossify.
		for j := 0; j < height; j++ {
			for i := 0; i < width; i++ {
				if labels.At(i, j) == LabelObject {
					voidMask.Set(i, j, 1)
				}
			}
		}
		for j := 0; j < height; j++ {
			for i := 0; i < width; i++ {
				if voidMask.At(i, j) == 1 {
					dtm.Set(i, j, 0)
				}
			}
		}

		noSmoothing := k != s.conf.GroundIterations-1
		s.logger.Debugf("filling voids with noSmoothing = %v", noSmoothing)
		dtm.FillVoidsPyramid(noSmoothing)
	}

	// If any terrain points ended up above the surface, restore the surface
	// values.
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			if dtm.At(i, j) >= dsm.At(i, j) {
				dtm.Set(i, j, dsm.At(i, j))
				labels.Set(i, j, LabelGround)
				voidMask.Set(i, j, 0)
			}
		}
	}

	// Remove any leftover single point spikes. The scan stays serial: a
	// removed spike reads as zero to the pixels after it.
	s.logger.Debug("removing spikes")
	halfStep := float64(s.conf.MinHeightDiff) / 2.0
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			minDiff := math.MaxFloat64
			for jj := -1; jj <= 1; jj++ {
				j2 := utils.ClampInt(j+jj, 0, height-1)
				for ii := -1; ii <= 1; ii++ {
					if ii == 0 && jj == 0 {
						continue
					}
					i2 := utils.ClampInt(i+ii, 0, width-1)
					diff := math.Max(0, float64(dtm.At(i, j))-float64(dtm.At(i2, j2)))
					minDiff = math.Min(minDiff, diff)
				}
			}
			if minDiff > halfStep {
				labels.Set(i, j, LabelObject)
				voidMask.Set(i, j, 1)
				dtm.Set(i, j, 0)
			}
		}
	}

	s.logger.Debug("filling voids")
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			if voidMask.At(i, j) == 1 {
				dtm.Set(i, j, 0)
			}
		}
	}
	dtm.FillVoidsPyramid(false)

	// The final smoothing pass may nudge terrain above the surface; restore
	// those samples once more so ground never sits above it.
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			if dsm.At(i, j) != 0 && dtm.At(i, j) > dsm.At(i, j) {
				dtm.Set(i, j, dsm.At(i, j))
			}
		}
	}

	// Mark all accumulated voids in the label image now that the iterations
	// are complete.
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			if voidMask.At(i, j) == 1 {
				labels.Set(i, j, LabelObject)
			} else {
				labels.Set(i, j, LabelGround)
			}
		}
	}

	return dtm, labels, nil
}
