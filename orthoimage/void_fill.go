package orthoimage

// FillVoidsPyramid replaces every void (zero) sample with an estimate derived
// from the non-void samples via a multi-resolution pyramid: the raster is
// repeatedly downsampled by two, averaging the non-void children of each
// coarse cell, and remaining voids at each level are then pulled from the next
// coarser level on the way back up. A sample stays zero only if the entire
// raster is void. Estimates are averages, so the output is bounded by the
// input min and max.
//
// With noSmoothing set, non-void samples are preserved bit-exact. Otherwise a
// 3x3 void-aware mean is applied to the whole raster afterwards.
func (im *OrthoImage[T]) FillVoidsPyramid(noSmoothing bool) {
	im.fillVoids()
	if !noSmoothing {
		im.smooth()
	}
}

func (im *OrthoImage[T]) hasVoid() bool {
	for j := 0; j < im.height; j++ {
		for i := 0; i < im.width; i++ {
			if im.data[j][i] == 0 {
				return true
			}
		}
	}
	return false
}

// downsample halves the resolution, each coarse sample averaging the non-void
// samples among its up-to-four children. A coarse sample with only void
// children stays void.
func (im *OrthoImage[T]) downsample() *OrthoImage[T] {
	w2 := (im.width + 1) / 2
	h2 := (im.height + 1) / 2
	coarse := &OrthoImage[T]{
		width:  w2,
		height: h2,
		gsd:    im.gsd * 2,
		data:   make([][]T, h2),
	}
	for j := 0; j < h2; j++ {
		coarse.data[j] = make([]T, w2)
		for i := 0; i < w2; i++ {
			total := 0.0
			num := 0.0
			for dj := 0; dj <= 1; dj++ {
				for di := 0; di <= 1; di++ {
					jj := j*2 + dj
					ii := i*2 + di
					if ii >= im.width || jj >= im.height {
						continue
					}
					z := im.data[jj][ii]
					if z == 0 {
						continue
					}
					total += float64(z)
					num++
				}
			}
			if num > 0 {
				coarse.data[j][i] = T(total/num + 0.5)
			}
		}
	}
	return coarse
}

func (im *OrthoImage[T]) fillVoids() {
	if !im.hasVoid() {
		return
	}
	if im.width == 1 && im.height == 1 {
		// nothing left to estimate from
		return
	}
	coarse := im.downsample()
	coarse.fillVoids()
	for j := 0; j < im.height; j++ {
		for i := 0; i < im.width; i++ {
			if im.data[j][i] == 0 {
				im.data[j][i] = coarse.data[j/2][i/2]
			}
		}
	}
}

// smooth applies a 3x3 mean with clamped borders, skipping void samples both
// as contributors and as targets.
func (im *OrthoImage[T]) smooth() {
	out := make([][]T, im.height)
	for j := 0; j < im.height; j++ {
		out[j] = make([]T, im.width)
		for i := 0; i < im.width; i++ {
			if im.data[j][i] == 0 {
				continue
			}
			total := 0.0
			num := 0.0
			for dj := -1; dj <= 1; dj++ {
				for di := -1; di <= 1; di++ {
					z := im.AtClamped(i+di, j+dj)
					if z == 0 {
						continue
					}
					total += float64(z)
					num++
				}
			}
			out[j][i] = T(total/num + 0.5)
		}
	}
	im.data = out
}
