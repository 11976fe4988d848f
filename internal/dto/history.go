package dto

import "fishdetector/internal/model"

// RunDetails is a stored run together with its per-frame results.
type RunDetails struct {
	Run    model.Run           `json:"run"`
	Frames []model.FrameResult `json:"frames"`
}
