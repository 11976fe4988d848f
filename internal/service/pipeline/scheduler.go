package pipeline

import (
	"context"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"fishdetector/internal/config"
	"fishdetector/internal/logger"
	"fishdetector/internal/model"
	"fishdetector/internal/service/detector"
)

// FrameAnalyzer turns one frame into its annotated form. Implementations must
// be safe for concurrent use and report failures through AnnotatedFrame.Err.
type FrameAnalyzer interface {
	Analyze(frame model.Frame, rec detector.Recorder) model.AnnotatedFrame
}

// Scheduler fans frames out to a fixed pool of analysis workers and gathers
// the results back into source order.
type Scheduler struct {
	analyzer   FrameAnalyzer
	logger     *logger.Logger
	numWorkers int // Liczba workerów analizy
	queueSize  int // Pojemność kolejki zadań

	observer func(model.AnnotatedFrame)
}

func NewScheduler(analyzer FrameAnalyzer, cfg *config.Config, logger *logger.Logger) *Scheduler {
	workers := cfg.AnalysisWorkers
	if workers < 1 {
		workers = 1
	}
	queue := cfg.QueueSize
	if queue < 0 {
		queue = 0
	}
	return &Scheduler{
		analyzer:   analyzer,
		logger:     logger,
		numWorkers: workers,
		queueSize:  queue,
	}
}

// OnFrame registers fn to be called for every finished frame, in completion
// order, from the collecting goroutine. fn must not retain the Mat.
func (s *Scheduler) OnFrame(fn func(model.AnnotatedFrame)) {
	s.observer = fn
}

// Run analyzes frames and returns them annotated, indexed exactly like the
// input. rec receives one side per classified frame. Frame-level failures are
// kept in the output as no-detection frames; only configuration, aggregation
// and cancellation errors are returned. On error the caller keeps ownership
// of the input Mats.
func (s *Scheduler) Run(ctx context.Context, frames []model.Frame, rec detector.Recorder) ([]model.AnnotatedFrame, error) {
	if err := ValidateFrames(frames); err != nil {
		return nil, err
	}

	tasks := make(chan model.Frame, s.queueSize)
	results := make(chan model.AnnotatedFrame, s.queueSize)

	var wg sync.WaitGroup
	for i := 0; i < s.numWorkers; i++ {
		wg.Add(1)
		go s.processingWorker(i, tasks, results, rec, &wg)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	submitted := make(chan int, 1)
	go func() {
		defer close(tasks)
		n := 0
	submit:
		for _, frame := range frames {
			if ctx.Err() != nil {
				break
			}
			select {
			case <-ctx.Done():
				break submit
			case tasks <- frame:
				n++
			}
		}
		submitted <- n
	}()

	out, collectErr := s.collect(results, len(frames))
	if n := <-submitted; n < len(frames) {
		s.logger.Warning("⚠️  Run cancelled after %d of %d frames", n, len(frames))
		return nil, ctx.Err()
	}
	if collectErr != nil {
		s.logger.Error("Failed to aggregate results: %v", collectErr)
		return nil, collectErr
	}

	s.logger.Info("🎬 Analyzed %d frames with %d workers", len(frames), s.numWorkers)
	return out, nil
}

// processingWorker analyzes frames until the task queue is closed.
func (s *Scheduler) processingWorker(workerID int, tasks <-chan model.Frame, results chan<- model.AnnotatedFrame, rec detector.Recorder, wg *sync.WaitGroup) {
	defer wg.Done()

	s.logger.Debug("🔧 Processing worker %d started", workerID)

	for frame := range tasks {
		result := s.analyzeFrame(frame, rec)
		if result.Err != nil {
			s.logger.Warning("⚠️  Worker %d: frame %d marked as no detection: %v", workerID, frame.Index, result.Err)
		}
		results <- result
	}

	s.logger.Debug("🔧 Processing worker %d stopped", workerID)
}

func (s *Scheduler) analyzeFrame(frame model.Frame, rec detector.Recorder) (out model.AnnotatedFrame) {
	defer func() {
		if r := recover(); r != nil {
			out = model.AnnotatedFrame{
				Index: frame.Index,
				Mat:   frame.Mat,
				Err:   &model.FrameError{Index: frame.Index, Err: fmt.Errorf("panic: %v", r)},
			}
		}
	}()

	out = s.analyzer.Analyze(frame, rec)
	if out.Err != nil {
		out.Side = model.SideNone
	}
	return out
}

// collect drains results and slots each one at its index. The channel is
// always drained, even after an error, so workers never block.
func (s *Scheduler) collect(results <-chan model.AnnotatedFrame, n int) ([]model.AnnotatedFrame, error) {
	out := make([]model.AnnotatedFrame, n)
	filled := make([]bool, n)

	var firstErr error
	for result := range results {
		switch {
		case result.Index < 0 || result.Index >= n:
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: result index %d out of range [0, %d)", model.ErrAggregation, result.Index, n)
			}
			continue
		case filled[result.Index]:
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: duplicate result for frame %d", model.ErrAggregation, result.Index)
			}
			continue
		}
		out[result.Index] = result
		filled[result.Index] = true

		if s.observer != nil {
			s.observer(result)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	for i, ok := range filled {
		if !ok {
			return nil, fmt.Errorf("%w: missing result for frame %d", model.ErrAggregation, i)
		}
	}
	return out, nil
}

// ValidateFrames checks that frames is a non-empty 0..n-1 sequence of
// non-empty BGR images sharing one geometry.
func ValidateFrames(frames []model.Frame) error {
	if len(frames) == 0 {
		return model.ErrEmptyInput
	}

	width, height := frames[0].Width(), frames[0].Height()
	for i, frame := range frames {
		if frame.Index != i {
			return fmt.Errorf("%w: position %d holds frame %d", model.ErrSequence, i, frame.Index)
		}
		if frame.Mat.Empty() {
			return fmt.Errorf("%w: frame %d is empty", model.ErrGeometry, i)
		}
		if frame.Mat.Type() != gocv.MatTypeCV8UC3 {
			return fmt.Errorf("%w: frame %d is not a 3-channel 8-bit image", model.ErrGeometry, i)
		}
		if frame.Width() != width || frame.Height() != height {
			return fmt.Errorf("%w: frame %d is %dx%d, expected %dx%d",
				model.ErrGeometry, i, frame.Width(), frame.Height(), width, height)
		}
	}
	return nil
}
