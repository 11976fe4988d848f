package dto

import "time"

// Message types sent to preview clients.
const (
	MessageFrame   = "frame"
	MessageSummary = "summary"
)

// PreviewFrame is one annotated frame pushed to preview clients.
type PreviewFrame struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Side  string `json:"side"`
	Image string `json:"image"` // base64 JPEG
	Error string `json:"error,omitempty"`
}

// RunSummary is the final tally of a run, sent to preview clients and
// published over MQTT.
type RunSummary struct {
	Type         string    `json:"type"`
	RunID        string    `json:"run_id"`
	Source       string    `json:"source"`
	Frames       int       `json:"frames"`
	Left         int       `json:"left"`
	Right        int       `json:"right"`
	Winner       string    `json:"winner"`
	FailedFrames int       `json:"failed_frames"`
	OutputPath   string    `json:"output_path"`
	FinishedAt   time.Time `json:"finished_at"`
}
