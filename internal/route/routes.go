package route

import (
	"net/http"

	"fishdetector/internal/config"
	"fishdetector/internal/handler"
	"fishdetector/internal/logger"
	"fishdetector/internal/middleware"
	"fishdetector/internal/repository"
	wsservice "fishdetector/internal/service/websocket"
)

// SetupRoutes registers the preview, run history and log endpoints and wraps
// the mux with the token middleware.
func SetupRoutes(hub *wsservice.HubService, cfg *config.Config, logger *logger.Logger,
	runRepo repository.RunRepository, frameRepo repository.FrameResultRepository) http.Handler {
	mux := http.NewServeMux()

	// Live preview
	mux.HandleFunc("/api/preview", handler.PreviewWebsocketHandler(hub, logger))

	// Run history
	mux.HandleFunc("GET /api/runs", handler.ListRunsHandler(runRepo, logger))
	mux.HandleFunc("GET /api/runs/stats", handler.RunStatsHandler(runRepo, logger))
	mux.HandleFunc("GET /api/runs/{id}", handler.GetRunHandler(runRepo, frameRepo, logger))

	// Log endpoints
	for _, level := range []string{"info", "warning", "error"} {
		file := level + ".log"
		mux.HandleFunc("GET /logs/"+level, handler.ShowLogsHandler(logger, file))
		mux.HandleFunc("POST /logs/"+level+"/clear", handler.ClearLogsHandler(logger, file))
	}

	// Apply middleware
	return middleware.TokenMiddleware(cfg.PreviewToken)(mux)
}
