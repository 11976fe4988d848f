package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"

	"fishdetector/internal/model"
)

var (
	ErrNoVideos      = errors.New("no videos found")
	ErrShortCapture  = errors.New("camera returned fewer frames than requested")
	ErrUnreadableImg = errors.New("image could not be decoded")
)

// imageExtensions are the files ReadImageDir picks up.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// frameReader is the part of gocv.VideoCapture used for reading.
type frameReader interface {
	Read(m *gocv.Mat) bool
}

// ReadCamera grabs exactly n frames from camera id.
func ReadCamera(ctx context.Context, id, n int) ([]model.Frame, error) {
	capture, err := gocv.VideoCaptureDevice(id)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", id, err)
	}
	defer capture.Close()

	frames, err := readFrames(ctx, capture, n)
	if err != nil {
		return nil, err
	}
	if len(frames) < n {
		closeFrames(frames)
		return nil, fmt.Errorf("%w: got %d of %d", ErrShortCapture, len(frames), n)
	}
	return frames, nil
}

// ReadVideo decodes every frame of the video file at path.
func ReadVideo(ctx context.Context, path string) ([]model.Frame, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}

	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video %s: %w", path, err)
	}
	defer capture.Close()

	return readFrames(ctx, capture, 0)
}

// readFrames reads until the source is exhausted or limit frames were read.
// A limit of zero or less means no limit.
func readFrames(ctx context.Context, r frameReader, limit int) ([]model.Frame, error) {
	var frames []model.Frame
	for limit <= 0 || len(frames) < limit {
		if err := ctx.Err(); err != nil {
			closeFrames(frames)
			return nil, err
		}

		mat := gocv.NewMat()
		if ok := r.Read(&mat); !ok || mat.Empty() {
			mat.Close()
			break
		}
		frames = append(frames, model.Frame{Index: len(frames), Mat: mat})
	}
	return frames, nil
}

// ReadImageDir decodes the images in dir, ordered by file name, using up to
// workers decoders in parallel.
func ReadImageDir(ctx context.Context, dir string, workers int) ([]model.Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frames directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	if workers < 1 {
		workers = 1
	}

	frames := make([]model.Frame, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mat := gocv.IMRead(path, gocv.IMReadColor)
			if mat.Empty() {
				mat.Close()
				return fmt.Errorf("%w: %s", ErrUnreadableImg, filepath.Base(path))
			}
			frames[i] = model.Frame{Index: i, Mat: mat}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		closeFrames(frames)
		return nil, err
	}
	return frames, nil
}

// FindVideos walks root recursively and returns every regular file whose name
// ends in suffix, sorted by path.
func FindVideos(root, suffix string) ([]string, error) {
	var videos []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), suffix) {
			videos = append(videos, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s for videos: %w", root, err)
	}
	sort.Strings(videos)
	return videos, nil
}

func closeFrames(frames []model.Frame) {
	for i := range frames {
		frames[i].Mat.Close()
	}
}
