package utils

import (
	"image"
	"runtime"
	"sync"

	"go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// stripeBounds returns the half-open row range of stripe s when rows are
// split as evenly as possible across n stripes; the first rows%n stripes
// carry one extra row.
func stripeBounds(rows, n, s int) (int, int) {
	base := rows / n
	extra := rows % n
	start := s*base + MinInt(s, extra)
	end := start + base
	if s < extra {
		end++
	}
	return start, end
}

// ParallelForEachPixel calls f for every (x, y) of a raster of the given
// size. The raster is cut into contiguous row stripes, one goroutine per
// stripe, so each worker walks whole rows in scan order. Only passes whose
// per-pixel outputs are independent may use this; anything that assigns
// component labels stays on the serial row-major scan.
func ParallelForEachPixel(size image.Point, f func(x, y int)) {
	stripes := MinInt(ParallelFactor, MaxInt(1, size.Y))
	var wg sync.WaitGroup
	wg.Add(stripes)
	for s := 0; s < stripes; s++ {
		y0, y1 := stripeBounds(size.Y, stripes, s)
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				for x := 0; x < size.X; x++ {
					f(x, y)
				}
			}
		})
	}
	wg.Wait()
}
