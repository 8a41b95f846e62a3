package shr3d

import (
	"image"
	"math"

	"github.com/SarahHas/pubgeo/orthoimage"
	"github.com/SarahHas/pubgeo/utils"
)

// Label raster values. Between passes a label raster holds only LabelGround
// and LabelObject; component identifiers and the scratch sentinels below only
// ever exist inside a single pass.
const (
	// LabelGround marks a pixel classified as ground, or as void when a
	// parallel void mask says so.
	LabelGround uint32 = 0
	// LabelObject is the generic non-ground marker carried between passes.
	// It doubles as the "candidate" value consumed by GroupObjects.
	LabelObject uint32 = 1

	// Scratch sentinels sit at the top of the value range so the monotonic
	// component counter can never collide with them.
	labelTemp     uint32 = math.MaxUint32
	labelInOne    uint32 = math.MaxUint32 - 1
	labelAccepted uint32 = math.MaxUint32 - 2
	labelFilled   uint32 = math.MaxUint32 - 3
)

// firstComponentLabel is where the component counter starts; labelCeiling is
// where it must stop to stay clear of the scratch sentinels.
const (
	firstComponentLabel uint32 = 2
	labelCeiling        uint32 = labelFilled
)

// Object describes one connected component grouped out of a label raster.
// The bounding box is inclusive and tightly encloses every pixel carrying
// Label at the moment of construction; later passes may re-tag pixels.
type Object struct {
	Label uint32
	XMin  int
	XMax  int
	YMin  int
	YMax  int
	Count int
}

// GroupObjects grows every candidate pixel (value LabelObject) into a
// connected component, assigning labels from a monotonic counter starting at
// two, and returns the component descriptors. Growth expands in waves over
// 8-connected neighbors and accepts a neighbor only when it is itself a
// candidate and its height is within dzGroup of the current pixel.
//
// maxCount is a soft cap: once a component exceeds it, growth stops after the
// current wave and the unreached remainder keeps its candidate value, to be
// rediscovered by the outer scan as sibling components. This is quick but not
// especially smart; splitting the regions more sensibly has not proven
// necessary.
func GroupObjects(labels *orthoimage.OrthoImage[uint32], heights *orthoimage.OrthoImage[uint16],
	dzGroup uint32, maxCount int,
) []Object {
	var objects []Object
	label := firstComponentLabel - 1
	for j := 0; j < labels.Height(); j++ {
		for i := 0; i < labels.Width(); i++ {
			if labels.At(i, j) != LabelObject {
				continue
			}

			if label+1 >= labelCeiling {
				panic("shr3d: component label counter overflow")
			}
			label++

			obj := Object{
				Label: label,
				XMin:  i,
				XMax:  i,
				YMin:  j,
				YMax:  j,
				Count: 1,
			}
			labels.Set(i, j, label)

			frontier := []image.Point{{i, j}}
			for len(frontier) > 0 {
				frontier = addNeighbors(frontier, labels, heights, &obj, dzGroup)

				if obj.Count > maxCount {
					break
				}
			}

			objects = append(objects, obj)
		}
	}
	return objects
}

// addNeighbors grows the component by one wave, relabeling accepted pixels
// immediately so they cannot be rediscovered, and returns the next frontier.
func addNeighbors(frontier []image.Point, labels *orthoimage.OrthoImage[uint32],
	heights *orthoimage.OrthoImage[uint16], obj *Object, dzGroup uint32,
) []image.Point {
	var next []image.Point
	for _, p := range frontier {
		z := float64(heights.At(p.X, p.Y))
		for jj := utils.MaxInt(0, p.Y-1); jj <= utils.MinInt(p.Y+1, labels.Height()-1); jj++ {
			for ii := utils.MaxInt(0, p.X-1); ii <= utils.MinInt(p.X+1, labels.Width()-1); ii++ {
				// Only candidate pixels may join; ground and already
				// labeled pixels are left alone.
				if labels.At(ii, jj) != LabelObject {
					continue
				}

				// Subtraction in float so unsigned heights cannot wrap.
				if math.Abs(float64(heights.At(ii, jj))-z) > float64(dzGroup) {
					continue
				}

				labels.Set(ii, jj, obj.Label)
				next = append(next, image.Point{ii, jj})

				obj.XMin = utils.MinInt(obj.XMin, ii)
				obj.XMax = utils.MaxInt(obj.XMax, ii)
				obj.YMin = utils.MinInt(obj.YMin, jj)
				obj.YMax = utils.MaxInt(obj.YMax, jj)
				obj.Count++
			}
		}
	}
	return next
}

// finishLabelImage collapses every non-ground value to LabelObject so the
// next pass sees a clean two-valued raster.
func finishLabelImage(labels *orthoimage.OrthoImage[uint32]) {
	for j := 0; j < labels.Height(); j++ {
		for i := 0; i < labels.Width(); i++ {
			if labels.At(i, j) != LabelGround {
				labels.Set(i, j, LabelObject)
			}
		}
	}
}
