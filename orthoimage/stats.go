package orthoimage

import (
	"io"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/SarahHas/pubgeo/utils"
)

// SummarizeHeights prints a histogram of the non-void samples. The range
// between the lowest and highest sample is split into (max-min)/100 equal
// bins, at least one. Advisory output only.
func (im *OrthoImage[T]) SummarizeHeights(w io.Writer) error {
	heights := make([]float64, 0, im.width*im.height)
	for j := 0; j < im.height; j++ {
		for i := 0; i < im.width; i++ {
			if z := im.data[j][i]; z != 0 {
				heights = append(heights, float64(z))
			}
		}
	}
	if len(heights) == 0 {
		return nil
	}
	min, max := im.MinMax()
	nbins := utils.MaxInt(1, int(max-min)/100)
	hist := histogram.Hist(nbins, heights)
	return histogram.Fprint(w, hist, histogram.Linear(40))
}
