package detector

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"gocv.io/x/gocv"

	"fishdetector/internal/model"
)

// Drawing colors for midline, box and outline.
var (
	Green = color.RGBA{G: 255}
	Red   = color.RGBA{R: 255}
	Blue  = color.RGBA{B: 255}
)

// Recorder receives the side of every frame that gets classified.
type Recorder interface {
	Record(side model.Side)
}

// Annotation describes what Annotate decided for a frame.
type Annotation struct {
	Side       model.Side
	Degenerate bool
}

// Annotate draws the analysis result onto frame in place:
//
//  1. midline, always
//  2. region outline, whenever a region exists
//  3. degenerate regions stop here
//  4. bounding box, location label and a grayscale tint plus caption on the
//     half that does not contain the blob; rec is told the side once
//
// A nil region leaves the frame with only the midline.
func Annotate(frame *gocv.Mat, region *model.Region, rec Recorder) (Annotation, error) {
	width, height := frame.Cols(), frame.Rows()
	mid := width / 2

	if err := gocv.Line(frame, image.Pt(mid, 0), image.Pt(mid, height), Green, 2); err != nil {
		return Annotation{}, fmt.Errorf("failed to draw midline: %w", err)
	}

	if region == nil {
		return Annotation{}, nil
	}

	if len(region.Outline) > 0 {
		outline := gocv.NewPointsVectorFromPoints([][]image.Point{region.Outline})
		err := gocv.DrawContours(frame, outline, -1, Blue, 2)
		outline.Close()
		if err != nil {
			return Annotation{}, fmt.Errorf("failed to draw outline: %w", err)
		}
	}

	if IsDegenerate(region, width, height) {
		return Annotation{Degenerate: true}, nil
	}

	box := region.Box
	if err := gocv.Rectangle(frame, box, Red, 2); err != nil {
		return Annotation{}, fmt.Errorf("failed to draw bounding box: %w", err)
	}

	label := fmt.Sprintf("Located at: (%d, %d)", box.Min.X, box.Min.Y)
	if err := gocv.PutText(frame, label, image.Pt(box.Min.X, box.Min.Y-5), gocv.FontHersheySimplex, 0.5, Red, 2); err != nil {
		return Annotation{}, fmt.Errorf("failed to draw label: %w", err)
	}

	side := Classify(box, width)
	if err := tintLosingHalf(frame, side); err != nil {
		return Annotation{}, err
	}

	if rec != nil {
		rec.Record(side)
	}
	return Annotation{Side: side}, nil
}

// tintLosingHalf turns the half opposite to side gray and captions it. The
// halves are [0, W/2) and [W/2, W); the tinted half is written back in place.
func tintLosingHalf(frame *gocv.Mat, side model.Side) error {
	width, height := frame.Cols(), frame.Rows()
	mid := width / 2

	losing := image.Rect(mid, 0, width, height)
	if side == model.SideRight {
		losing = image.Rect(0, 0, mid, height)
	}
	if losing.Empty() {
		return nil
	}

	half := frame.Region(losing)
	defer half.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	if err := gocv.CvtColor(half, &gray, gocv.ColorBGRToGray); err != nil {
		return fmt.Errorf("failed to convert half to grayscale: %w", err)
	}

	tinted := gocv.NewMat()
	defer tinted.Close()
	if err := gocv.CvtColor(gray, &tinted, gocv.ColorGrayToBGR); err != nil {
		return fmt.Errorf("failed to convert grayscale half back to BGR: %w", err)
	}
	if err := tinted.CopyTo(&half); err != nil {
		return fmt.Errorf("failed to write tinted half: %w", err)
	}

	caption := "FISH IS ON THE " + strings.ToUpper(side.String())
	if err := gocv.PutText(&half, caption, image.Pt(0, 20), gocv.FontHersheySimplex, 0.5, Red, 2); err != nil {
		return fmt.Errorf("failed to draw caption: %w", err)
	}
	return nil
}
