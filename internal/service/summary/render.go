package summary

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"gocv.io/x/gocv"

	"fishdetector/internal/model"
	"fishdetector/internal/service/detector"
)

// DefaultFrameCount is how many winner frames trail the annotated video.
const DefaultFrameCount = 30

// Render builds count black frames of the given size announcing the winner of
// t. Every returned Mat is independent and must be closed by the caller.
func Render(t model.Tally, width, height, count int) ([]gocv.Mat, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: summary frame size %dx%d", model.ErrGeometry, width, height)
	}
	if count <= 0 {
		return nil, nil
	}

	card := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3)
	defer card.Close()

	if err := drawCard(&card, t); err != nil {
		return nil, err
	}

	frames := make([]gocv.Mat, 0, count)
	for i := 0; i < count; i++ {
		frames = append(frames, card.Clone())
	}
	return frames, nil
}

// CaptionColor is green when Left strictly leads, red otherwise.
func CaptionColor(t model.Tally) color.RGBA {
	if t.Winner() == model.SideLeft {
		return detector.Green
	}
	return detector.Red
}

func drawCard(card *gocv.Mat, t model.Tally) error {
	width, height := card.Cols(), card.Rows()
	c := CaptionColor(t)

	winner := "WINNER: " + strings.ToUpper(t.Winner().String())
	if err := gocv.PutText(card, winner, image.Pt(width/2-100, height/2), gocv.FontHersheySimplex, 2, c, 3); err != nil {
		return fmt.Errorf("failed to draw winner caption: %w", err)
	}

	counts := fmt.Sprintf("LEFT: %d - RIGHT: %d", t.Left, t.Right)
	if err := gocv.PutText(card, counts, image.Pt(0, 40), gocv.FontHersheySimplex, 1, c, 2); err != nil {
		return fmt.Errorf("failed to draw tally caption: %w", err)
	}
	return nil
}
