package detector

import (
	"image"

	"fishdetector/internal/model"
)

// Classify places a bounding box on the left or right half of a frame.
// A center exactly on the midline counts as left.
func Classify(box image.Rectangle, frameWidth int) model.Side {
	centerX := box.Min.X + box.Dx()/2
	if centerX > frameWidth/2 {
		return model.SideRight
	}
	return model.SideLeft
}
