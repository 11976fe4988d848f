package recording

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

func newFrames(t *testing.T, n, width, height int) []gocv.Mat {
	t.Helper()
	frames := make([]gocv.Mat, n)
	for i := range frames {
		frames[i] = gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(i*20), 80, 160, 0), height, width, gocv.MatTypeCV8UC3)
	}
	t.Cleanup(func() {
		for i := range frames {
			frames[i].Close()
		}
	})
	return frames
}

func TestWriteVideo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.avi")
	frames := newFrames(t, 6, 64, 48)

	codec, err := WriteVideo(path, frames, VideoConfig{FPS: 15, Codecs: []string{"MJPG"}})
	if err != nil {
		t.Fatalf("WriteVideo failed: %v", err)
	}
	if codec != "MJPG" {
		t.Errorf("codec = %s, expected MJPG", codec)
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected a non-empty video file, got %v", err)
	}

	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		t.Fatalf("failed to reopen video: %v", err)
	}
	defer capture.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	n := 0
	for capture.Read(&frame) && !frame.Empty() {
		if frame.Cols() != 64 || frame.Rows() != 48 {
			t.Errorf("frame %d is %dx%d", n, frame.Cols(), frame.Rows())
		}
		n++
	}
	if n != len(frames) {
		t.Errorf("read back %d frames, expected %d", n, len(frames))
	}
}

func TestWriteVideo_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := WriteVideo(filepath.Join(dir, "empty.avi"), nil, VideoConfig{FPS: 15, Codecs: []string{"MJPG"}}); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}

	if _, err := WriteVideo(filepath.Join(dir, "nocodec.avi"), newFrames(t, 1, 8, 8), VideoConfig{FPS: 15}); err == nil {
		t.Error("expected an error without codecs")
	}

	mixed := append(newFrames(t, 2, 32, 24), newFrames(t, 1, 16, 24)...)
	if _, err := WriteVideo(filepath.Join(dir, "mixed.avi"), mixed, VideoConfig{FPS: 15, Codecs: []string{"MJPG"}}); err == nil {
		t.Error("expected an error for frames of different sizes")
	}
}
