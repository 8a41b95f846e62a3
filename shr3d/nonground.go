package shr3d

import (
	"image"
	"math"

	"github.com/SarahHas/pubgeo/orthoimage"
	"github.com/SarahHas/pubgeo/utils"
)

// ClassifyNonGround prunes the non-ground candidates left by ClassifyGround
// down to the final object mask. Candidates are culled by height above
// terrain, by the mean gradient along their ground boundary, by a radius-one
// erode/dilate that removes narrow features, and finally by footprint area.
// On return the label raster holds LabelObject on surviving object pixels and
// LabelGround everywhere else.
func (s *Shr3dder) ClassifyNonGround(dsm, dtm *orthoimage.OrthoImage[uint16],
	labels *orthoimage.OrthoImage[uint32],
) error {
	if err := orthoimage.SameSize(dsm, dtm); err != nil {
		return err
	}
	if err := orthoimage.SameSize(dsm, labels); err != nil {
		return err
	}

	width := dsm.Width()
	height := dsm.Height()
	gsd := dsm.GSD()

	// Minimum number of points for the configured footprint area. Detection
	// performance falls off quickly for structures smaller than about 50
	// square meters.
	minPointCount := int(s.conf.MinAreaMeters / (gsd * gsd))
	s.logger.Debugf("min points for removing small objects = %d", minPointCount)

	// Ground level clutter tends to be below 2m AGL; drop individual low
	// candidates before any grouping.
	minAGL := float64(s.conf.MinAGL)
	utils.ParallelForEachPixel(image.Point{width, height}, func(i, j int) {
		if labels.At(i, j) == LabelGround {
			return
		}
		if dsm.At(i, j) == 0 {
			labels.Set(i, j, LabelGround)
		} else if float64(dsm.At(i, j))-float64(dtm.At(i, j)) < minAGL {
			labels.Set(i, j, LabelGround)
		}
	})

	// Group candidates by height similarity and reject each object whose
	// boundary against the ground is too gentle to be a structure edge.
	{
		objects := GroupObjects(labels, dsm, uint32(s.conf.MinHeightDiff)/2, math.MaxInt)
		numRejected := 0
		for k := range objects {
			if s.rejectByBoundaryGradient(dsm, labels, &objects[k]) {
				numRejected++
				relabelObject(labels, &objects[k], LabelGround)
			}
		}
		s.logger.Debugf("number of flat objects rejected = %d", numRejected)
	}

	// Erode and then dilate labels to remove narrow objects.
	{
		temp := labels.Clone()
		for j := 0; j < height; j++ {
			for i := 0; i < width; i++ {
				if labels.At(i, j) == LabelGround {
					continue
				}
				i1 := utils.MaxInt(0, i-1)
				i2 := utils.MinInt(i+1, width-1)
				j1 := utils.MaxInt(0, j-1)
				j2 := utils.MinInt(j+1, height-1)

				// Unlabel any point with an unlabeled neighbor.
				for jj := j1; jj <= j2; jj++ {
					for ii := i1; ii <= i2; ii++ {
						if labels.At(ii, jj) == LabelGround {
							temp.Set(i, j, LabelGround)
						}
					}
				}
			}
		}
		for j := 0; j < height; j++ {
			for i := 0; i < width; i++ {
				if labels.At(i, j) == LabelGround {
					continue
				}
				i1 := utils.MaxInt(0, i-1)
				i2 := utils.MinInt(i+1, width-1)
				j1 := utils.MaxInt(0, j-1)
				j2 := utils.MinInt(j+1, height-1)

				// Unlabel any point with no labeled neighbors after the
				// erosion.
				found := false
				for jj := j1; jj <= j2; jj++ {
					for ii := i1; ii <= i2; ii++ {
						if temp.At(ii, jj) != LabelGround {
							found = true
						}
					}
				}
				if !found {
					labels.Set(i, j, LabelGround)
				}
			}
		}
	}

	finishLabelImage(labels)

	// Group one more time with similarity off to remove small objects.
	{
		s.logger.Debug("grouping to remove small objects")
		objects := GroupObjects(labels, dsm, math.MaxUint32, math.MaxInt)
		numRejected := 0
		for k := range objects {
			if objects[k].Count < minPointCount {
				numRejected++
				relabelObject(labels, &objects[k], LabelGround)
			}
		}
		s.logger.Debugf("number of small objects rejected = %d", numRejected)
	}

	finishLabelImage(labels)

	return nil
}

// rejectByBoundaryGradient estimates the mean second-difference gradient
// along the object's contact with labeled ground. A small but non-zero mean
// marks terrain clutter rather than a structure; an object with no ground
// contact at all cannot be judged here and is kept for the area cull.
func (s *Shr3dder) rejectByBoundaryGradient(dsm *orthoimage.OrthoImage[uint16],
	labels *orthoimage.OrthoImage[uint32], obj *Object,
) bool {
	width := dsm.Width()
	height := dsm.Height()

	meanGradient := 0.0
	count := 0
	for j := obj.YMin; j <= obj.YMax; j++ {
		for i := obj.XMin; i <= obj.XMax; i++ {
			if labels.At(i, j) != obj.Label {
				continue
			}
			for jj := -1; jj <= 1; jj++ {
				j2 := utils.ClampInt(j+jj, 0, height-1)
				for ii := -1; ii <= 1; ii++ {
					i2 := utils.ClampInt(i+ii, 0, width-1)
					if labels.At(i2, j2) != LabelGround {
						continue
					}
					j3 := utils.ClampInt(j+jj*2, 0, height-1)
					i3 := utils.ClampInt(i+ii*2, 0, width-1)

					// These assume the object is higher than its neighbors.
					myGradient := math.Max(0, float64(dsm.At(i, j))-float64(dsm.At(i2, j2)))
					neighborGradient := math.Max(0, float64(dsm.At(i2, j2))-float64(dsm.At(i3, j3)))
					meanGradient += math.Max(0, myGradient-neighborGradient)
					count++
				}
			}
		}
	}
	if count == 0 {
		return false
	}
	meanGradient /= float64(count)
	return meanGradient != 0 && meanGradient < float64(s.conf.MinHeightDiff)/2.0
}

// relabelObject rewrites every pixel still carrying the object's label.
func relabelObject(labels *orthoimage.OrthoImage[uint32], obj *Object, value uint32) {
	for j := obj.YMin; j <= obj.YMax; j++ {
		for i := obj.XMin; i <= obj.XMax; i++ {
			if labels.At(i, j) == obj.Label {
				labels.Set(i, j, value)
			}
		}
	}
}
