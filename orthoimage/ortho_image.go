// Package orthoimage implements the dense ortho-rectified rasters the
// classification engine works on: height models in unsigned 16-bit units,
// label images in unsigned 32-bit, class and void masks in unsigned 8-bit.
// Zero is the void sentinel for height rasters.
package orthoimage

import (
	"image"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/SarahHas/pubgeo/utils"
)

// Value is the set of sample types an OrthoImage can carry.
type Value interface {
	~uint8 | ~uint16 | ~uint32
}

// OrthoImage is a dense rectangular grid of samples with a ground sample
// distance in meters per pixel. Data is stored row-major; a sample lives at
// column i of row j.
type OrthoImage[T Value] struct {
	width  int
	height int
	gsd    float64

	data [][]T
}

// New allocates a zeroed OrthoImage.
func New[T Value](width, height int, gsd float64) (*OrthoImage[T], error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("bad width or height for ortho image %v %v", width, height)
	}
	if gsd <= 0 {
		return nil, errors.Errorf("ground sample distance must be positive, got %v", gsd)
	}
	im := &OrthoImage[T]{
		width:  width,
		height: height,
		gsd:    gsd,
		data:   make([][]T, height),
	}
	for j := 0; j < height; j++ {
		im.data[j] = make([]T, width)
	}
	return im, nil
}

// Width returns the number of columns.
func (im *OrthoImage[T]) Width() int {
	return im.width
}

// Height returns the number of rows.
func (im *OrthoImage[T]) Height() int {
	return im.height
}

// GSD returns the ground sample distance in meters per pixel.
func (im *OrthoImage[T]) GSD() float64 {
	return im.gsd
}

// Size returns the raster dimensions as an image.Point.
func (im *OrthoImage[T]) Size() image.Point {
	return image.Point{im.width, im.height}
}

// At returns the sample at column i of row j. Bounds are assumed to be
// pre-checked by the caller's loop.
func (im *OrthoImage[T]) At(i, j int) T {
	return im.data[j][i]
}

// Set writes the sample at column i of row j.
func (im *OrthoImage[T]) Set(i, j int, v T) {
	im.data[j][i] = v
}

// Contains reports whether (i, j) is inside the raster.
func (im *OrthoImage[T]) Contains(i, j int) bool {
	return i >= 0 && i < im.width && j >= 0 && j < im.height
}

// AtClamped returns the sample at (i, j) with the coordinates clamped to the
// raster bounds.
func (im *OrthoImage[T]) AtClamped(i, j int) T {
	return im.data[utils.ClampInt(j, 0, im.height-1)][utils.ClampInt(i, 0, im.width-1)]
}

// Fill sets every sample to v.
func (im *OrthoImage[T]) Fill(v T) {
	for j := 0; j < im.height; j++ {
		for i := 0; i < im.width; i++ {
			im.data[j][i] = v
		}
	}
}

// Clone returns a deep copy.
func (im *OrthoImage[T]) Clone() *OrthoImage[T] {
	out := &OrthoImage[T]{
		width:  im.width,
		height: im.height,
		gsd:    im.gsd,
		data:   make([][]T, im.height),
	}
	for j := 0; j < im.height; j++ {
		out.data[j] = make([]T, im.width)
		copy(out.data[j], im.data[j])
	}
	return out
}

// MinMax returns the smallest and largest non-void sample. A fully void
// raster reports (0, 0).
func (im *OrthoImage[T]) MinMax() (T, T) {
	var min, max T
	seen := false
	for j := 0; j < im.height; j++ {
		for i := 0; i < im.width; i++ {
			z := im.data[j][i]
			if z == 0 {
				continue
			}
			if !seen {
				min, max = z, z
				seen = true
				continue
			}
			if z < min {
				min = z
			}
			if z > max {
				max = z
			}
		}
	}
	return min, max
}

// Dense exports the raster as a gonum matrix for analysis and comparison.
func (im *OrthoImage[T]) Dense() *mat.Dense {
	vals := make([]float64, 0, im.height*im.width)
	for j := 0; j < im.height; j++ {
		for i := 0; i < im.width; i++ {
			vals = append(vals, float64(im.data[j][i]))
		}
	}
	return mat.NewDense(im.height, im.width, vals)
}

// SameSize errors unless the two rasters have identical dimensions and
// ground sample distance. Every pipeline entry point checks this before
// mutating anything.
func SameSize[A, B Value](a *OrthoImage[A], b *OrthoImage[B]) error {
	if a.width != b.width || a.height != b.height {
		return errors.Errorf("these rasters aren't the same size (%d %d) != (%d %d)",
			a.width, a.height, b.width, b.height)
	}
	if a.gsd != b.gsd {
		return errors.Errorf("these rasters don't share a ground sample distance %v != %v", a.gsd, b.gsd)
	}
	return nil
}
