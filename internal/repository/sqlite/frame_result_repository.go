package sqlite

import (
	"fmt"

	"fishdetector/internal/model"
)

// FrameResultRepository implements repository.FrameResultRepository for SQLite.
type FrameResultRepository struct {
	db *DB
}

// NewFrameResultRepository creates a new SQLite frame result repository.
func NewFrameResultRepository(db *DB) *FrameResultRepository {
	return &FrameResultRepository{db: db}
}

// InsertBatch adds multiple frame results in a single transaction.
func (r *FrameResultRepository) InsertBatch(results []model.FrameResult) error {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO frame_results (run_id, frame_index, side, x, y, width, height, area, degenerate, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, res := range results {
		if _, err := stmt.Exec(res.RunID, res.FrameIndex, res.Side, res.X, res.Y, res.Width, res.Height, res.Area, res.Degenerate, res.Error); err != nil {
			return fmt.Errorf("failed to insert frame result %d: %w", res.FrameIndex, err)
		}
	}

	return tx.Commit()
}

// GetByRunID retrieves all frame results of a run ordered by frame index.
func (r *FrameResultRepository) GetByRunID(runID string) ([]model.FrameResult, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, run_id, frame_index, side, x, y, width, height, area, degenerate, error
		FROM frame_results WHERE run_id = ?
		ORDER BY frame_index
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query frame results: %w", err)
	}
	defer rows.Close()

	var results []model.FrameResult
	for rows.Next() {
		var res model.FrameResult
		if err := rows.Scan(&res.ID, &res.RunID, &res.FrameIndex, &res.Side, &res.X, &res.Y,
			&res.Width, &res.Height, &res.Area, &res.Degenerate, &res.Error); err != nil {
			return nil, fmt.Errorf("failed to scan frame result: %w", err)
		}
		results = append(results, res)
	}

	return results, rows.Err()
}

// CountBySide returns how many frames of a run landed on each side.
func (r *FrameResultRepository) CountBySide(runID string) (map[string]int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`SELECT side, COUNT(*) FROM frame_results WHERE run_id = ? GROUP BY side`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count sides: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var side string
		var n int
		if err := rows.Scan(&side, &n); err != nil {
			return nil, fmt.Errorf("failed to scan side count: %w", err)
		}
		counts[side] = n
	}
	return counts, rows.Err()
}
