package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fishdetector/internal/dto"
	"fishdetector/internal/logger"
	"fishdetector/internal/model"
	"fishdetector/internal/repository"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 500
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ListRunsHandler returns the most recent runs. ?limit= caps the count.
func ListRunsHandler(runRepo repository.RunRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRunLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = min(n, maxRunLimit)
		}

		runs, err := runRepo.GetRecent(limit)
		if err != nil {
			logger.Error("Failed to list runs: %v", err)
			http.Error(w, "Failed to list runs", http.StatusInternalServerError)
			return
		}
		if runs == nil {
			runs = []model.Run{}
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

// GetRunHandler returns one run with its frame results.
func GetRunHandler(runRepo repository.RunRepository, frameRepo repository.FrameResultRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		run, err := runRepo.GetByID(id)
		if err != nil {
			logger.Error("Failed to get run %s: %v", id, err)
			http.Error(w, "Failed to get run", http.StatusInternalServerError)
			return
		}
		if run == nil {
			http.NotFound(w, r)
			return
		}

		frames, err := frameRepo.GetByRunID(id)
		if err != nil {
			logger.Error("Failed to get frames of run %s: %v", id, err)
			http.Error(w, "Failed to get run", http.StatusInternalServerError)
			return
		}
		if frames == nil {
			frames = []model.FrameResult{}
		}
		writeJSON(w, http.StatusOK, dto.RunDetails{Run: *run, Frames: frames})
	}
}

// RunStatsHandler returns totals over all stored runs.
func RunStatsHandler(runRepo repository.RunRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := runRepo.GetStats()
		if err != nil {
			logger.Error("Failed to get run stats: %v", err)
			http.Error(w, "Failed to get stats", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
