package detector

import (
	"fmt"

	"gocv.io/x/gocv"

	"fishdetector/internal/model"
)

// ColorMask converts a BGR frame to RGB and marks every pixel whose channels
// all fall inside band (inclusive). The returned mask is CV_8UC1 with 255 for
// on pixels; the caller owns it.
func ColorMask(frame gocv.Mat, band model.ColorBand) (gocv.Mat, error) {
	rgb := gocv.NewMat()
	defer rgb.Close()

	if err := gocv.CvtColor(frame, &rgb, gocv.ColorBGRToRGB); err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to convert frame to RGB: %w", err)
	}

	lower := gocv.NewScalar(float64(band.Lower[0]), float64(band.Lower[1]), float64(band.Lower[2]), 0)
	upper := gocv.NewScalar(float64(band.Upper[0]), float64(band.Upper[1]), float64(band.Upper[2]), 0)

	mask := gocv.NewMat()
	if err := gocv.InRangeWithScalar(rgb, lower, upper, &mask); err != nil {
		mask.Close()
		return gocv.NewMat(), fmt.Errorf("failed to apply color band: %w", err)
	}
	return mask, nil
}
