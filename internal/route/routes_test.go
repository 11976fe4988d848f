package route

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"fishdetector/internal/config"
	"fishdetector/internal/logger"
	"fishdetector/internal/repository/sqlite"
	wsservice "fishdetector/internal/service/websocket"
)

func TestSetupRoutes(t *testing.T) {
	db, err := sqlite.New(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	cfg := &config.Config{PreviewToken: "tok", QueueSize: 4}
	l := logger.NewConsole(io.Discard)
	h := SetupRoutes(wsservice.NewHubService(cfg, l), cfg, l, sqlite.NewRunRepository(db), sqlite.NewFrameResultRepository(db))

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/runs", http.StatusUnauthorized},
		{http.MethodGet, "/api/runs?token=tok", http.StatusOK},
		{http.MethodGet, "/api/runs/stats?token=tok", http.StatusOK},
		{http.MethodGet, "/api/runs/unknown?token=tok", http.StatusNotFound},
		{http.MethodPost, "/api/runs?token=tok", http.StatusMethodNotAllowed},
		{http.MethodGet, "/logs/info?token=tok", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, expected %d", rec.Code, tt.status)
			}
		})
	}
}
