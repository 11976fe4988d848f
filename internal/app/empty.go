package app

import "fishdetector/internal/model"

// emptyRuns and emptyFrames back the history API when no database is configured.
type emptyRuns struct{}

func (emptyRuns) Insert(*model.Run) error { return nil }
func (emptyRuns) GetByID(string) (*model.Run, error) { return nil, nil }
func (emptyRuns) GetRecent(int) ([]model.Run, error) { return nil, nil }
func (emptyRuns) Delete(string) error { return nil }
func (emptyRuns) GetStats() (*model.RunStats, error) {
	return &model.RunStats{Wins: map[string]int{}}, nil
}

type emptyFrames struct{}

func (emptyFrames) InsertBatch([]model.FrameResult) error { return nil }
func (emptyFrames) GetByRunID(string) ([]model.FrameResult, error) { return nil, nil }
func (emptyFrames) CountBySide(string) (map[string]int, error) { return map[string]int{}, nil }
