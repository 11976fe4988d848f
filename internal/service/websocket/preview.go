package websocket

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"gocv.io/x/gocv"

	"fishdetector/internal/dto"
	"fishdetector/internal/model"
)

// PublishFrame sends f as a JPEG preview to connected clients. Nothing is
// encoded while no client is connected.
func (h *HubService) PublishFrame(f model.AnnotatedFrame) error {
	if h.GetClientCount() == 0 {
		return nil
	}

	msg, err := EncodeFrame(f)
	if err != nil {
		return err
	}
	h.Broadcast(msg)
	return nil
}

// PublishSummary sends the final run summary to connected clients.
func (h *HubService) PublishSummary(summary dto.RunSummary) error {
	summary.Type = dto.MessageSummary
	msg, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	h.Broadcast(msg)
	return nil
}

// EncodeFrame renders f as a PreviewFrame JSON message.
func EncodeFrame(f model.AnnotatedFrame) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, f.Mat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame %d: %w", f.Index, err)
	}
	defer buf.Close()

	preview := dto.PreviewFrame{
		Type:  dto.MessageFrame,
		Index: f.Index,
		Side:  f.Side.String(),
		Image: base64.StdEncoding.EncodeToString(buf.GetBytes()),
	}
	if f.Err != nil {
		preview.Error = f.Err.Error()
	}
	return json.Marshal(preview)
}
