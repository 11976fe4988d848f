package repository

import (
	"fishdetector/internal/model"
)

// RunRepository defines the interface for run summary operations.
type RunRepository interface {
	// Create operations
	Insert(run *model.Run) error

	// Read operations
	GetByID(id string) (*model.Run, error)
	GetRecent(limit int) ([]model.Run, error)
	GetStats() (*model.RunStats, error)

	// Delete operations
	Delete(id string) error
}

// FrameResultRepository defines the interface for per-frame result operations.
type FrameResultRepository interface {
	// Create operations
	InsertBatch(results []model.FrameResult) error

	// Read operations
	GetByRunID(runID string) ([]model.FrameResult, error)
	CountBySide(runID string) (map[string]int, error)
}
