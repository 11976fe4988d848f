package detector

import (
	"image"
	"testing"

	"gocv.io/x/gocv"

	"fishdetector/internal/model"
)

// fishBGR is stored as BGR; its RGB value (230,120,10) sits inside the default band.
var (
	fishBGR = gocv.NewScalar(10, 120, 230, 0)
	blueBGR = gocv.NewScalar(255, 0, 0, 0)
)

func newBlankFrame(t *testing.T, width, height int) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })
	return m
}

func paint(m *gocv.Mat, r image.Rectangle, s gocv.Scalar) {
	roi := m.Region(r)
	roi.SetTo(s)
	roi.Close()
}

func pixel(m gocv.Mat, x, y int) [3]uint8 {
	v := m.GetVecbAt(y, x)
	return [3]uint8{v[0], v[1], v[2]}
}

type sliceRecorder struct {
	sides []model.Side
}

func (r *sliceRecorder) Record(side model.Side) {
	r.sides = append(r.sides, side)
}
