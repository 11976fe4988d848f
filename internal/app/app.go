package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"fishdetector/internal/config"
	"fishdetector/internal/dto"
	"fishdetector/internal/logger"
	"fishdetector/internal/model"
	"fishdetector/internal/repository"
	"fishdetector/internal/repository/sqlite"
	"fishdetector/internal/route"
	"fishdetector/internal/service/capture"
	"fishdetector/internal/service/detector"
	"fishdetector/internal/service/emitter"
	"fishdetector/internal/service/pipeline"
	"fishdetector/internal/service/recording"
	"fishdetector/internal/service/summary"
	"fishdetector/internal/service/tally"
	"fishdetector/internal/service/websocket"
)

type App struct {
	config    *config.Config
	logger    *logger.Logger
	scheduler *pipeline.Scheduler
	hub       *websocket.HubService
	emitter   *emitter.MQTTEmitter

	db        *sqlite.DB
	runRepo   repository.RunRepository
	frameRepo repository.FrameResultRepository

	stdin  io.Reader
	stdout io.Writer
}

// NewApp validates cfg and opens the optional database.
func NewApp(cfg *config.Config, logger *logger.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		config:    cfg,
		logger:    logger,
		scheduler: pipeline.NewScheduler(detector.NewAnalyzer(cfg.Band), cfg, logger),
		hub:       websocket.NewHubService(cfg, logger),
		stdin:     os.Stdin,
		stdout:    os.Stdout,
	}

	if cfg.DatabasePath != "" {
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.runRepo = sqlite.NewRunRepository(db)
		a.frameRepo = sqlite.NewFrameResultRepository(db)
	}

	if cfg.MQTTBroker != "" {
		a.emitter = emitter.NewMQTTEmitter(cfg, logger)
	}

	return a, nil
}

// Run acquires the frames, analyzes them, writes the output video and
// records the run. Configuration and aggregation errors leave no output.
func (a *App) Run(ctx context.Context) (*model.Run, error) {
	run := &model.Run{
		ID:         uuid.NewString(),
		StartedAt:  time.Now().UTC(),
		OutputPath: a.config.OutputPath,
	}

	a.logger.Info("🐟 | Welcome to the Fish Detector! (currently detects blobs in RGB band %s)", a.config.Band)

	source, frames, err := a.acquire(ctx)
	if err != nil {
		return nil, err
	}
	run.Source = source
	a.logger.Info("Read %d frames from %s", len(frames), source)

	if a.config.PreviewPort > 0 {
		stop := a.startPreview(ctx)
		defer stop()
	}

	counter := tally.NewCounter()
	a.logger.Info("Detecting fish...")
	annotated, err := a.scheduler.Run(ctx, frames, counter)
	if err != nil {
		closeInput(frames)
		return nil, err
	}
	defer model.CloseFrames(annotated)

	t := counter.Snapshot()
	run.Frames = len(annotated)
	run.Left, run.Right = t.Left, t.Right
	run.Winner = t.Winner().String()
	for _, f := range annotated {
		if f.Err != nil {
			run.FailedFrames++
		}
	}
	a.logger.Info("Detected %d frames (left: %d, right: %d, failed: %d)", run.Frames, t.Left, t.Right, run.FailedFrames)

	width, height := annotated[0].Mat.Cols(), annotated[0].Mat.Rows()
	trailer, err := summary.Render(t, width, height, a.config.SummaryFrames)
	if err != nil {
		return nil, err
	}
	defer closeMats(trailer)

	output := make([]gocv.Mat, 0, len(annotated)+len(trailer))
	for _, f := range annotated {
		output = append(output, f.Mat)
	}
	output = append(output, trailer...)

	a.logger.Info("Creating video...")
	codec, err := recording.WriteVideo(a.config.OutputPath, output, recording.VideoConfig{
		FPS:    a.config.OutputFPS,
		Codecs: a.config.Codecs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write output video: %w", err)
	}
	run.FinishedAt = time.Now().UTC()

	if abs, err := filepath.Abs(a.config.OutputPath); err == nil {
		run.OutputPath = abs
	}
	a.logger.Info("Video created! Result saved to %s (codec: %s)", run.OutputPath, codec)

	if a.config.Display {
		a.logger.Info("Displaying frames... (check your taskbar for the video)")
		if err := recording.Display("Output.mp4", output, 1); err != nil {
			a.logger.Warning("Display stopped: %v", err)
		}
	}

	a.record(run, annotated)
	a.announce(ctx, run)

	return run, nil
}

// acquire loads the frames of the configured source, asking on stdin when no
// source is configured.
func (a *App) acquire(ctx context.Context) (string, []model.Frame, error) {
	cfg := a.config
	sel := capture.Selection{Source: cfg.Source, NumFrames: cfg.NumFrames, VideoPath: cfg.VideoPath}

	if sel.Source == "" {
		videos, err := capture.FindVideos(cfg.SearchDir, cfg.VideoSuffix)
		if err != nil {
			a.logger.Warning("Video search failed: %v", err)
		}
		sel, err = capture.Prompt(a.stdin, a.stdout, videos)
		if err != nil {
			return "", nil, err
		}
	}

	a.logger.Info("Reading frames...")
	switch sel.Source {
	case "cam":
		frames, err := capture.ReadCamera(ctx, cfg.CameraID, sel.NumFrames)
		return fmt.Sprintf("cam:%d", cfg.CameraID), frames, err
	case "vid":
		if sel.VideoPath == "" {
			return "", nil, fmt.Errorf("%w: VIDEO_PATH is required for the vid source", model.ErrConfiguration)
		}
		frames, err := capture.ReadVideo(ctx, sel.VideoPath)
		return "vid:" + sel.VideoPath, frames, err
	case "dir":
		if cfg.FramesDir == "" {
			return "", nil, fmt.Errorf("%w: FRAMES_DIR is required for the dir source", model.ErrConfiguration)
		}
		frames, err := capture.ReadImageDir(ctx, cfg.FramesDir, cfg.CaptureWorkers)
		return "dir:" + cfg.FramesDir, frames, err
	}
	return "", nil, fmt.Errorf("%w: unknown source %q", model.ErrConfiguration, sel.Source)
}

// startPreview serves the preview and history API until the returned stop
// function is called.
func (a *App) startPreview(ctx context.Context) func() {
	hubCtx, cancelHub := context.WithCancel(ctx)
	go a.hub.Run(hubCtx)

	a.scheduler.OnFrame(func(f model.AnnotatedFrame) {
		if err := a.hub.PublishFrame(f); err != nil {
			a.logger.Warning("Preview of frame %d failed: %v", f.Index, err)
		}
	})

	runRepo, frameRepo := a.runRepo, a.frameRepo
	if runRepo == nil {
		runRepo, frameRepo = emptyRuns{}, emptyFrames{}
	}
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.PreviewPort),
		Handler: route.SetupRoutes(a.hub, a.config, a.logger, runRepo, frameRepo),
	}
	go func() {
		a.logger.Info("📍 Preview: ws://localhost:%d/api/preview", a.config.PreviewPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Preview server failed: %v", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
		cancelHub()
	}
}

// record stores the run and its frame results when a database is configured.
func (a *App) record(run *model.Run, frames []model.AnnotatedFrame) {
	if a.runRepo == nil {
		return
	}
	if err := a.runRepo.Insert(run); err != nil {
		a.logger.Error("Failed to store run %s: %v", run.ID, err)
		return
	}

	results := make([]model.FrameResult, 0, len(frames))
	for _, f := range frames {
		results = append(results, model.NewFrameResult(run.ID, f))
	}
	if err := a.frameRepo.InsertBatch(results); err != nil {
		a.logger.Error("Failed to store frame results of run %s: %v", run.ID, err)
		return
	}
	a.logger.Debug("Run %s stored with %d frame results", run.ID, len(results))
}

// announce pushes the final summary to preview clients and MQTT.
func (a *App) announce(ctx context.Context, run *model.Run) {
	s := Summary(run)

	if a.config.PreviewPort > 0 {
		if err := a.hub.PublishSummary(s); err != nil {
			a.logger.Warning("Preview summary failed: %v", err)
		}
	}

	if a.emitter == nil {
		return
	}
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.emitter.Connect(connectCtx); err != nil {
		a.logger.Error("Failed to connect to MQTT broker: %v", err)
		return
	}
	defer a.emitter.Disconnect()
	if err := a.emitter.PublishSummary(s); err != nil {
		a.logger.Error("Failed to publish run summary: %v", err)
		return
	}
	a.logger.Info("📡 Run summary published to %s (%d this session)", emitter.SummaryTopic(a.config.MQTTTopic), a.emitter.Published())
}

// Summary converts a finished run into its published form.
func Summary(run *model.Run) dto.RunSummary {
	return dto.RunSummary{
		Type:         dto.MessageSummary,
		RunID:        run.ID,
		Source:       run.Source,
		Frames:       run.Frames,
		Left:         run.Left,
		Right:        run.Right,
		Winner:       run.Winner,
		FailedFrames: run.FailedFrames,
		OutputPath:   run.OutputPath,
		FinishedAt:   run.FinishedAt,
	}
}

// Close releases the database.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func closeInput(frames []model.Frame) {
	for i := range frames {
		frames[i].Mat.Close()
	}
}

func closeMats(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}
