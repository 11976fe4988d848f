package detector

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"fishdetector/internal/model"
)

// Column layout of the stats matrix produced by connected components.
const (
	statLeft = iota
	statTop
	statWidth
	statHeight
	statArea
)

// LargestRegion returns the biggest 8-connected foreground region of mask, or
// nil when the mask is empty. Area is the region's pixel count. Equal areas
// resolve to the region whose first pixel comes first in raster order.
func LargestRegion(mask gocv.Mat) (*model.Region, error) {
	if gocv.CountNonZero(mask) == 0 {
		return nil, nil
	}

	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	// label 0 is the background
	n := gocv.ConnectedComponentsWithStats(mask, &labels, &stats, &centroids)

	best, bestArea := -1, 0
	for label := 1; label < n; label++ {
		area := int(stats.GetIntAt(label, statArea))
		if area > bestArea {
			best, bestArea = label, area
		}
	}
	if best < 0 {
		return nil, nil
	}

	x := int(stats.GetIntAt(best, statLeft))
	y := int(stats.GetIntAt(best, statTop))
	w := int(stats.GetIntAt(best, statWidth))
	h := int(stats.GetIntAt(best, statHeight))

	outline, err := componentOutline(labels, best)
	if err != nil {
		return nil, err
	}

	return &model.Region{
		Area:    bestArea,
		Box:     image.Rect(x, y, x+w, y+h),
		Outline: outline,
	}, nil
}

// componentOutline traces the external contour of one labeled component.
func componentOutline(labels gocv.Mat, label int) ([]image.Point, error) {
	component := gocv.NewMat()
	defer component.Close()

	value := gocv.NewScalar(float64(label), 0, 0, 0)
	if err := gocv.InRangeWithScalar(labels, value, value, &component); err != nil {
		return nil, fmt.Errorf("failed to isolate component %d: %w", label, err)
	}

	contours := gocv.FindContours(component, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer contours.Close()

	var outline []image.Point
	var largestArea float64 = -1
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		if area := gocv.ContourArea(contour); area > largestArea {
			largestArea = area
			outline = contour.ToPoints()
		}
	}
	return outline, nil
}

// IsDegenerate reports whether a region covers at least the whole frame area,
// which only happens when the band matched the entire image.
func IsDegenerate(region *model.Region, width, height int) bool {
	return region != nil && region.Area >= width*height
}
