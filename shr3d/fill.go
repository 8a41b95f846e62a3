package shr3d

import (
	"github.com/SarahHas/pubgeo/orthoimage"
	"github.com/SarahHas/pubgeo/utils"
)

// fillObjectBounds fills the interior of one grouped object: a pixel inside
// the object's contour is kept only if it sits above the ground level found
// just outside the contour on both its row and its column. The accepted
// region is then dilated by edgeResolution pixels in every direction, taking
// over every pixel in that margin whatever it held before, and the object's
// bounding box is expanded to cover the dilation.
//
// On return every pixel of the object carries either LabelGround or the
// filled sentinel; the caller collapses the latter via finishLabelImage.
func fillObjectBounds(labels *orthoimage.OrthoImage[uint32], heights *orthoimage.OrthoImage[uint16],
	obj *Object, edgeResolution int,
) {
	width := labels.Width()
	height := labels.Height()

	// Loop on rows, filling in labels.
	for j := utils.MaxInt(0, obj.YMin-1); j <= utils.MinInt(obj.YMax+1, height-1); j++ {
		startIndex := -1
		for i := utils.MaxInt(0, obj.XMin-1); i <= utils.MinInt(obj.XMax+1, width-1); i++ {
			if labels.At(i, j) == obj.Label {
				startIndex = i
				break
			}
		}
		if startIndex == -1 {
			continue
		}

		stopIndex := -1
		for i := utils.MinInt(obj.XMax+1, width-1); i >= utils.MaxInt(0, obj.XMin-1); i-- {
			if labels.At(i, j) == obj.Label {
				stopIndex = i
				break
			}
		}

		// If the object spans the entire row, there is no outside to read a
		// ground level from.
		if startIndex == 0 && stopIndex == width-1 {
			continue
		}

		// Max ground level just outside the contour. A void neighbor reads
		// as zero, which is fine.
		var groundLevel uint16
		switch {
		case startIndex == 0:
			groundLevel = heights.At(stopIndex+1, j)
		case stopIndex == width-1:
			groundLevel = heights.At(startIndex-1, j)
		default:
			g1 := heights.At(startIndex-1, j)
			g2 := heights.At(stopIndex+1, j)
			groundLevel = g1
			if g2 > g1 {
				groundLevel = g2
			}
		}

		for i := startIndex; i <= stopIndex; i++ {
			if heights.At(i, j) > groundLevel {
				if labels.At(i, j) != obj.Label {
					labels.Set(i, j, labelInOne)
				}
			} else if labels.At(i, j) == obj.Label {
				labels.Set(i, j, LabelGround)
			}
		}
	}

	// Loop on columns. This time require both scans to have passed.
	for i := utils.MaxInt(0, obj.XMin-1); i <= utils.MinInt(obj.XMax+1, width-1); i++ {
		startIndex := -1
		for j := utils.MaxInt(0, obj.YMin-1); j <= utils.MinInt(obj.YMax+1, height-1); j++ {
			if labels.At(i, j) == obj.Label {
				startIndex = j
				break
			}
		}
		if startIndex == -1 {
			continue
		}

		stopIndex := -1
		for j := utils.MinInt(obj.YMax+1, height-1); j >= utils.MaxInt(0, obj.YMin-1); j-- {
			if labels.At(i, j) == obj.Label {
				stopIndex = j
				break
			}
		}

		if startIndex == 0 && stopIndex == height-1 {
			continue
		}

		var groundLevel uint16
		switch {
		case startIndex == 0:
			groundLevel = heights.At(i, stopIndex+1)
		case stopIndex == height-1:
			groundLevel = heights.At(i, startIndex-1)
		default:
			g1 := heights.At(i, startIndex-1)
			g2 := heights.At(i, stopIndex+1)
			groundLevel = g1
			if g2 > g1 {
				groundLevel = g2
			}
		}

		for j := startIndex; j <= stopIndex; j++ {
			if heights.At(i, j) > groundLevel {
				if labels.At(i, j) == obj.Label || labels.At(i, j) == labelInOne {
					labels.Set(i, j, labelAccepted)
				}
			}
		}
	}

	// Mark every non-accepted pixel within the edge resolution of an
	// accepted pixel.
	rad := edgeResolution
	for j := utils.MaxInt(0, obj.YMin-1); j <= utils.MinInt(obj.YMax+1, height-1); j++ {
		for i := utils.MaxInt(0, obj.XMin-1); i <= utils.MinInt(obj.XMax+1, width-1); i++ {
			if labels.At(i, j) != labelAccepted {
				continue
			}
			i1 := utils.MaxInt(i-rad, 0)
			i2 := utils.MinInt(i+rad, width-1)
			j1 := utils.MaxInt(j-rad, 0)
			j2 := utils.MinInt(j+rad, height-1)
			for jj := j1; jj <= j2; jj++ {
				for ii := i1; ii <= i2; ii++ {
					if labels.At(ii, jj) != labelAccepted {
						labels.Set(ii, jj, labelTemp)
					}
				}
			}
		}
	}

	// Expand the bounds to cover the marked margin, then accept it, which
	// dilates the accepted region by the edge resolution.
	obj.XMin = utils.MaxInt(0, obj.XMin-edgeResolution-1)
	obj.YMin = utils.MaxInt(0, obj.YMin-edgeResolution-1)
	obj.XMax = utils.MinInt(obj.XMax+edgeResolution+1, width-1)
	obj.YMax = utils.MinInt(obj.YMax+edgeResolution+1, height-1)

	for j := obj.YMin; j <= obj.YMax; j++ {
		for i := obj.XMin; i <= obj.XMax; i++ {
			if labels.At(i, j) == labelTemp {
				labels.Set(i, j, labelAccepted)
			}
		}
	}

	// Finish up the labels.
	for j := utils.MaxInt(0, obj.YMin-1); j <= utils.MinInt(obj.YMax+1, height-1); j++ {
		for i := utils.MaxInt(0, obj.XMin-1); i <= utils.MinInt(obj.XMax+1, width-1); i++ {
			if labels.At(i, j) == obj.Label {
				labels.Set(i, j, LabelGround)
			}
			if labels.At(i, j) == labelAccepted {
				labels.Set(i, j, labelFilled)
			}
		}
	}
}
