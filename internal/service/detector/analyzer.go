package detector

import (
	"fmt"

	"gocv.io/x/gocv"

	"fishdetector/internal/model"
)

// Analyzer runs mask, blob extraction and annotation for single frames.
// It holds no per-frame state and is safe for concurrent use.
type Analyzer struct {
	band model.ColorBand
}

func NewAnalyzer(band model.ColorBand) *Analyzer {
	return &Analyzer{band: band}
}

// Detect returns the largest in-band region of frame without drawing anything.
func (a *Analyzer) Detect(frame gocv.Mat) (*model.Region, error) {
	mask, err := ColorMask(frame, a.band)
	if err != nil {
		return nil, err
	}
	defer mask.Close()

	return LargestRegion(mask)
}

// Analyze annotates frame in place and returns it as an AnnotatedFrame.
// Failures never escape: they come back in AnnotatedFrame.Err with Side none.
func (a *Analyzer) Analyze(frame model.Frame, rec Recorder) (out model.AnnotatedFrame) {
	out = model.AnnotatedFrame{Index: frame.Index, Mat: frame.Mat}

	defer func() {
		if r := recover(); r != nil {
			out.Side = model.SideNone
			out.Err = &model.FrameError{Index: frame.Index, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	region, err := a.Detect(frame.Mat)
	if err != nil {
		out.Err = &model.FrameError{Index: frame.Index, Err: err}
		return out
	}
	out.Region = region

	ann, err := Annotate(&out.Mat, region, rec)
	if err != nil {
		out.Err = &model.FrameError{Index: frame.Index, Err: err}
		return out
	}
	out.Side = ann.Side
	out.Degenerate = ann.Degenerate
	return out
}
