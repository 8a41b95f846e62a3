package orthoimage

import (
	"testing"

	"go.viam.com/test"
)

func makeFlat(t *testing.T, w, h int, v uint16) *OrthoImage[uint16] {
	t.Helper()
	im, err := New[uint16](w, h, 1)
	test.That(t, err, test.ShouldBeNil)
	im.Fill(v)
	return im
}

func TestFillVoidsPyramidNoSmoothing(t *testing.T) {
	im := makeFlat(t, 8, 8, 1000)
	im.Set(3, 3, 0)
	im.Set(4, 3, 0)
	im.Set(3, 4, 0)
	im.Set(6, 1, 1100)

	im.FillVoidsPyramid(true)

	// No voids remain and estimates stay inside the input range.
	for j := 0; j < im.Height(); j++ {
		for i := 0; i < im.Width(); i++ {
			test.That(t, im.At(i, j), test.ShouldBeGreaterThan, 0)
			test.That(t, im.At(i, j), test.ShouldBeBetweenOrEqual, 1000, 1100)
		}
	}

	// Non-void samples are untouched.
	test.That(t, im.At(6, 1), test.ShouldEqual, 1100)
	test.That(t, im.At(0, 0), test.ShouldEqual, 1000)
}

func TestFillVoidsPyramidSmoothing(t *testing.T) {
	im := makeFlat(t, 8, 8, 1000)
	im.Set(2, 2, 0)
	im.Set(5, 5, 1080)

	im.FillVoidsPyramid(false)

	min, max := im.MinMax()
	test.That(t, min, test.ShouldBeGreaterThanOrEqualTo, 1000)
	test.That(t, max, test.ShouldBeLessThanOrEqualTo, 1080)
	for j := 0; j < im.Height(); j++ {
		for i := 0; i < im.Width(); i++ {
			test.That(t, im.At(i, j), test.ShouldBeGreaterThan, 0)
		}
	}
}

func TestFillVoidsPyramidAllVoid(t *testing.T) {
	im, err := New[uint16](4, 4, 1)
	test.That(t, err, test.ShouldBeNil)

	im.FillVoidsPyramid(true)

	// Nothing to estimate from; the raster stays void.
	for j := 0; j < im.Height(); j++ {
		for i := 0; i < im.Width(); i++ {
			test.That(t, im.At(i, j), test.ShouldEqual, 0)
		}
	}
}

func TestFillVoidsPyramidFlatRegion(t *testing.T) {
	// A hole punched in flat terrain refills to the terrain value exactly.
	im := makeFlat(t, 20, 20, 1000)
	for j := 7; j <= 12; j++ {
		for i := 7; i <= 12; i++ {
			im.Set(i, j, 0)
		}
	}

	im.FillVoidsPyramid(true)

	for j := 0; j < im.Height(); j++ {
		for i := 0; i < im.Width(); i++ {
			test.That(t, im.At(i, j), test.ShouldEqual, 1000)
		}
	}
}
