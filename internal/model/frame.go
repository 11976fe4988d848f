package model

import (
	"image"

	"gocv.io/x/gocv"
)

// Frame is a single BGR video frame plus its position in the input sequence.
type Frame struct {
	Index int
	Mat   gocv.Mat
}

// Width returns the frame width in pixels.
func (f Frame) Width() int {
	return f.Mat.Cols()
}

// Height returns the frame height in pixels.
func (f Frame) Height() int {
	return f.Mat.Rows()
}

// Region is the largest blob found in a frame's mask.
type Region struct {
	Area    int
	Box     image.Rectangle
	Outline []image.Point
}

// AnnotatedFrame is a Frame after drawing, still keyed by its source index.
type AnnotatedFrame struct {
	Index      int
	Mat        gocv.Mat
	Side       Side
	Region     *Region // nil when the mask was empty
	Degenerate bool
	Err        error // set when analysis failed; the frame is then a no-detection frame
}

// Detected reports whether the frame contributed to the tally.
func (a AnnotatedFrame) Detected() bool {
	return a.Err == nil && a.Side != SideNone
}

// CloseFrames releases the native buffers of every annotated frame.
func CloseFrames(frames []AnnotatedFrame) {
	for i := range frames {
		frames[i].Mat.Close()
	}
}
