package shr3d

import (
	"image"

	"github.com/SarahHas/pubgeo/orthoimage"
	"github.com/SarahHas/pubgeo/utils"
)

// Class raster values, following the ASPRS LAS point class numbering. Only
// the relative identities matter here.
const (
	ClassUnclassified   uint8 = 1
	ClassGround         uint8 = 2
	ClassHighVegetation uint8 = 5
	ClassBuilding       uint8 = 6
)

// LabelToClass projects a finished two-valued label raster onto a class
// raster: non-ground pixels become buildings, the rest ground. Callers with
// a vegetation source refine the result before running FillInsideBuildings.
func LabelToClass(labels *orthoimage.OrthoImage[uint32]) (*orthoimage.OrthoImage[uint8], error) {
	class, err := orthoimage.New[uint8](labels.Width(), labels.Height(), labels.GSD())
	if err != nil {
		return nil, err
	}
	for j := 0; j < labels.Height(); j++ {
		for i := 0; i < labels.Width(); i++ {
			if labels.At(i, j) == LabelGround {
				class.Set(i, j, ClassGround)
			} else {
				class.Set(i, j, ClassBuilding)
			}
		}
	}
	return class, nil
}

// FillInsideBuildings relabels every connected group of high-vegetation
// pixels that is completely enclosed by building pixels as building.
// Courtyard and rooftop vegetation is building structure for mapping
// purposes. Discovery uses a parallel visited mask so the class raster is
// only written on accepted groups.
func (s *Shr3dder) FillInsideBuildings(class *orthoimage.OrthoImage[uint8]) error {
	width := class.Width()
	height := class.Height()

	visited, err := orthoimage.New[uint8](width, height, class.GSD())
	if err != nil {
		return err
	}

	numFilled := 0
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			if visited.At(i, j) != 0 || class.At(i, j) != ClassHighVegetation {
				continue
			}

			// Gather the whole contiguous group.
			group := []image.Point{{i, j}}
			visited.Set(i, j, 1)
			for keepSearching := true; keepSearching; {
				keepSearching = addClassNeighbors(&group, class, visited, class.At(i, j))
			}

			// The group is inside only if every external neighbor is a
			// building pixel.
			inside := true
			for _, p := range group {
				for jj := utils.MaxInt(0, p.Y-1); jj <= utils.MinInt(p.Y+1, height-1); jj++ {
					for ii := utils.MaxInt(0, p.X-1); ii <= utils.MinInt(p.X+1, width-1); ii++ {
						if visited.At(ii, jj) == 0 && class.At(ii, jj) != ClassBuilding {
							inside = false
						}
					}
				}
			}

			if inside {
				for _, p := range group {
					numFilled++
					class.Set(p.X, p.Y, ClassBuilding)
				}
			}
		}
	}
	s.logger.Debugf("removed %d tree pixels inside building label groups", numFilled)
	return nil
}

// addClassNeighbors appends the unvisited 8-neighbors with the same class
// value to the group and reports whether it found any. Each call scans the
// whole group and appends the new pixels after the scan, so repeated calls
// grow the group breadth-like, one ring at a time.
func addClassNeighbors(group *[]image.Point, class *orthoimage.OrthoImage[uint8],
	visited *orthoimage.OrthoImage[uint8], value uint8,
) bool {
	var added []image.Point
	for _, p := range *group {
		for jj := utils.MaxInt(0, p.Y-1); jj <= utils.MinInt(p.Y+1, class.Height()-1); jj++ {
			for ii := utils.MaxInt(0, p.X-1); ii <= utils.MinInt(p.X+1, class.Width()-1); ii++ {
				if visited.At(ii, jj) == 1 {
					continue
				}
				if class.At(ii, jj) != value {
					continue
				}
				visited.Set(ii, jj, 1)
				added = append(added, image.Point{ii, jj})
			}
		}
	}
	if len(added) > 0 {
		*group = append(*group, added...)
		return true
	}
	return false
}
