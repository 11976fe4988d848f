package model

import "time"

// Run is the persisted summary of one detector run.
type Run struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Frames       int       `json:"frames"`
	Left         int       `json:"left"`
	Right        int       `json:"right"`
	Winner       string    `json:"winner"`
	FailedFrames int       `json:"failed_frames"`
	OutputPath   string    `json:"output_path"`
}

// FrameResult is the persisted outcome of a single analyzed frame.
type FrameResult struct {
	ID         int64  `json:"id"`
	RunID      string `json:"run_id"`
	FrameIndex int    `json:"frame_index"`
	Side       string `json:"side"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Area       int    `json:"area"`
	Degenerate bool   `json:"degenerate"`
	Error      string `json:"error,omitempty"`
}

// RunStats aggregates all stored runs.
type RunStats struct {
	TotalRuns   int            `json:"total_runs"`
	TotalFrames int            `json:"total_frames"`
	Wins        map[string]int `json:"wins"`
}

// TallyResults recounts stored frame results by side.
func TallyResults(results []FrameResult) Tally {
	var t Tally
	for _, r := range results {
		switch ParseSide(r.Side) {
		case SideLeft:
			t.Left++
		case SideRight:
			t.Right++
		}
	}
	return t
}

// NewFrameResult flattens an annotated frame into its persisted form.
func NewFrameResult(runID string, f AnnotatedFrame) FrameResult {
	res := FrameResult{
		RunID:      runID,
		FrameIndex: f.Index,
		Side:       f.Side.String(),
		Degenerate: f.Degenerate,
	}
	if f.Region != nil {
		res.X = f.Region.Box.Min.X
		res.Y = f.Region.Box.Min.Y
		res.Width = f.Region.Box.Dx()
		res.Height = f.Region.Box.Dy()
		res.Area = f.Region.Area
	}
	if f.Err != nil {
		res.Error = f.Err.Error()
	}
	return res
}
