package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"fishdetector/internal/model"
)

// RunRepository implements repository.RunRepository for SQLite.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new SQLite run repository.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id, source, started_at, finished_at, frames, left_count, right_count, winner, failed_frames, output_path`

// Insert adds a new run record to the database.
func (r *RunRepository) Insert(run *model.Run) error {
	r.db.Lock()
	defer r.db.Unlock()

	_, err := r.db.Conn().Exec(`
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.StartedAt, run.FinishedAt, run.Frames, run.Left, run.Right, run.Winner, run.FailedFrames, run.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var run model.Run
	err := row.Scan(&run.ID, &run.Source, &run.StartedAt, &run.FinishedAt, &run.Frames,
		&run.Left, &run.Right, &run.Winner, &run.FailedFrames, &run.OutputPath)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetByID retrieves a run by its ID. A missing run yields nil, nil.
func (r *RunRepository) GetByID(id string) (*model.Run, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	run, err := scanRun(r.db.Conn().QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// GetRecent returns up to limit runs, newest first.
func (r *RunRepository) GetRecent(limit int) ([]model.Run, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT `+runColumns+` FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetStats aggregates frame counts and wins over every stored run.
func (r *RunRepository) GetStats() (*model.RunStats, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	stats := &model.RunStats{Wins: make(map[string]int)}
	err := r.db.Conn().QueryRow(`SELECT COUNT(*), COALESCE(SUM(frames), 0) FROM runs`).Scan(&stats.TotalRuns, &stats.TotalFrames)
	if err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}

	rows, err := r.db.Conn().Query(`SELECT winner, COUNT(*) FROM runs GROUP BY winner`)
	if err != nil {
		return nil, fmt.Errorf("failed to count wins: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var winner string
		var count int
		if err := rows.Scan(&winner, &count); err != nil {
			return nil, fmt.Errorf("failed to scan wins: %w", err)
		}
		stats.Wins[winner] = count
	}
	return stats, rows.Err()
}

// Delete removes a run and, through the foreign key, its frame results.
func (r *RunRepository) Delete(id string) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}
