package detector

import (
	"errors"
	"image"
	"testing"

	"gocv.io/x/gocv"

	"fishdetector/internal/model"
)

type panickingRecorder struct{}

func (panickingRecorder) Record(model.Side) {
	panic("recorder exploded")
}

func TestAnalyzer_Analyze(t *testing.T) {
	tests := []struct {
		name       string
		blob       image.Rectangle
		side       model.Side
		detected   bool
		degenerate bool
	}{
		{"left fish", image.Rect(10, 10, 40, 40), model.SideLeft, true, false},
		{"right fish", image.Rect(150, 50, 190, 90), model.SideRight, true, false},
		{"no fish", image.Rectangle{}, model.SideNone, false, false},
		{"whole frame", image.Rect(0, 0, 200, 100), model.SideNone, false, true},
	}

	a := NewAnalyzer(model.DefaultColorBand())
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := newBlankFrame(t, 200, 100)
			if !tt.blob.Empty() {
				paint(&frame, tt.blob, fishBGR)
			}

			rec := &sliceRecorder{}
			out := a.Analyze(model.Frame{Index: i, Mat: frame}, rec)

			if out.Err != nil {
				t.Fatalf("unexpected error: %v", out.Err)
			}
			if out.Index != i {
				t.Errorf("index = %d, expected %d", out.Index, i)
			}
			if out.Side != tt.side {
				t.Errorf("side = %v, expected %v", out.Side, tt.side)
			}
			if out.Detected() != tt.detected {
				t.Errorf("detected = %v, expected %v", out.Detected(), tt.detected)
			}
			if out.Degenerate != tt.degenerate {
				t.Errorf("degenerate = %v, expected %v", out.Degenerate, tt.degenerate)
			}
			if tt.detected && len(rec.sides) != 1 {
				t.Errorf("expected one recorded side, got %v", rec.sides)
			}
			if !tt.detected && len(rec.sides) != 0 {
				t.Errorf("expected nothing recorded, got %v", rec.sides)
			}
		})
	}
}

func TestAnalyzer_RecoversPanics(t *testing.T) {
	frame := newBlankFrame(t, 200, 100)
	paint(&frame, image.Rect(10, 10, 40, 40), fishBGR)

	out := NewAnalyzer(model.DefaultColorBand()).Analyze(model.Frame{Index: 7, Mat: frame}, panickingRecorder{})

	if out.Err == nil {
		t.Fatal("expected a frame error")
	}
	var frameErr *model.FrameError
	if !errors.As(out.Err, &frameErr) || frameErr.Index != 7 {
		t.Errorf("error = %v, expected FrameError for frame 7", out.Err)
	}
	if out.Side != model.SideNone || out.Detected() {
		t.Errorf("failed frame must not count, got side %v", out.Side)
	}
}

func TestAnalyzer_MaskFailureIsFrameError(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 100, 200, gocv.MatTypeCV8UC1)
	defer frame.Close()

	rec := &sliceRecorder{}
	out := NewAnalyzer(model.DefaultColorBand()).Analyze(model.Frame{Index: 3, Mat: frame}, rec)

	var frameErr *model.FrameError
	if !errors.As(out.Err, &frameErr) || frameErr.Index != 3 {
		t.Fatalf("error = %v, expected FrameError for frame 3", out.Err)
	}
	if out.Side != model.SideNone || out.Detected() {
		t.Errorf("failed frame must be a no-detection frame, got side %v", out.Side)
	}
	if len(rec.sides) != 0 {
		t.Errorf("expected nothing recorded, got %v", rec.sides)
	}
}
