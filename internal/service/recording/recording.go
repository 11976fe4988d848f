package recording

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

var ErrNoFrames = errors.New("no frames to write")

// VideoConfig controls how the output video is muxed.
type VideoConfig struct {
	FPS    float64
	Codecs []string
}

// WriteVideo writes frames to path, trying each codec in order until one
// opens. It returns the codec that was used.
func WriteVideo(path string, frames []gocv.Mat, config VideoConfig) (string, error) {
	if len(frames) == 0 {
		return "", ErrNoFrames
	}
	width, height := frames[0].Cols(), frames[0].Rows()

	// Try different codecs for better compatibility
	var vw *gocv.VideoWriter
	var usedCodec string
	err := fmt.Errorf("no codecs configured")
	for _, fourcc := range config.Codecs {
		vw, err = gocv.VideoWriterFile(path, fourcc, config.FPS, width, height, true)
		if err != nil {
			continue
		}
		if !vw.IsOpened() {
			vw.Close()
			vw, err = nil, fmt.Errorf("codec %s is not available", fourcc)
			continue
		}
		usedCodec = fourcc
		break
	}
	if vw == nil {
		return "", fmt.Errorf("could not create video writer with any codec: %w", err)
	}

	for i, frame := range frames {
		if frame.Cols() != width || frame.Rows() != height {
			vw.Close()
			return "", fmt.Errorf("frame %d is %dx%d, expected %dx%d", i, frame.Cols(), frame.Rows(), width, height)
		}
		if err := vw.Write(frame); err != nil {
			vw.Close()
			return "", fmt.Errorf("error writing frame %d: %w", i, err)
		}
	}

	if err := vw.Close(); err != nil {
		return "", fmt.Errorf("error closing video writer: %w", err)
	}
	return usedCodec, nil
}

// Display plays frames in a window, waiting delay milliseconds between them.
// ESC stops playback early.
func Display(title string, frames []gocv.Mat, delay int) error {
	window := gocv.NewWindow(title)
	defer window.Close()

	for i, frame := range frames {
		if err := window.IMShow(frame); err != nil {
			return fmt.Errorf("failed to show frame %d: %w", i, err)
		}
		if window.WaitKey(delay) == 27 { // ESC
			return nil
		}
	}
	return nil
}
