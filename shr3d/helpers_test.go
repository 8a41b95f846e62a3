package shr3d

import (
	"testing"

	"go.viam.com/test"

	"github.com/SarahHas/pubgeo/orthoimage"
)

func makeHeights(t *testing.T, w, h int, gsd float64, v uint16) *orthoimage.OrthoImage[uint16] {
	t.Helper()
	im, err := orthoimage.New[uint16](w, h, gsd)
	test.That(t, err, test.ShouldBeNil)
	im.Fill(v)
	return im
}

func makeLabels(t *testing.T, w, h int, gsd float64) *orthoimage.OrthoImage[uint32] {
	t.Helper()
	im, err := orthoimage.New[uint32](w, h, gsd)
	test.That(t, err, test.ShouldBeNil)
	return im
}

func setBlock(im *orthoimage.OrthoImage[uint16], i0, j0, i1, j1 int, v uint16) {
	for j := j0; j <= j1; j++ {
		for i := i0; i <= i1; i++ {
			im.Set(i, j, v)
		}
	}
}

func countValue(im *orthoimage.OrthoImage[uint32], v uint32) int {
	n := 0
	for j := 0; j < im.Height(); j++ {
		for i := 0; i < im.Width(); i++ {
			if im.At(i, j) == v {
				n++
			}
		}
	}
	return n
}

func countNonGround(im *orthoimage.OrthoImage[uint32]) int {
	n := 0
	for j := 0; j < im.Height(); j++ {
		for i := 0; i < im.Width(); i++ {
			if im.At(i, j) != LabelGround {
				n++
			}
		}
	}
	return n
}
