package websocket

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"fishdetector/internal/config"
	"fishdetector/internal/dto"
	"fishdetector/internal/logger"
	"fishdetector/internal/model"
)

func startHub(t *testing.T) (*HubService, *httptest.Server) {
	t.Helper()
	hub := NewHubService(&config.Config{QueueSize: 8}, logger.NewConsole(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn)
	}))
	t.Cleanup(server.Close)
	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *HubService, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, hub.GetClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubService_BroadcastReachesClients(t *testing.T) {
	hub, server := startHub(t)
	a := dial(t, server)
	b := dial(t, server)
	waitForClients(t, hub, 2)

	if !hub.Broadcast([]byte(`{"type":"ping"}`)) {
		t.Fatal("Broadcast dropped the message")
	}

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage failed: %v", err)
		}
		if string(msg) != `{"type":"ping"}` {
			t.Errorf("got %s", msg)
		}
	}
}

func TestHubService_PublishFrameAndSummary(t *testing.T) {
	hub, server := startHub(t)
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 128, 255, 0), 24, 32, gocv.MatTypeCV8UC3)
	defer mat.Close()

	if err := hub.PublishFrame(model.AnnotatedFrame{Index: 3, Mat: mat, Side: model.SideRight}); err != nil {
		t.Fatalf("PublishFrame failed: %v", err)
	}
	if err := hub.PublishSummary(dto.RunSummary{RunID: "r1", Left: 1, Right: 2, Winner: "right"}); err != nil {
		t.Fatalf("PublishSummary failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame dto.PreviewFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if frame.Type != dto.MessageFrame || frame.Index != 3 || frame.Side != "right" {
		t.Errorf("unexpected frame message: %+v", frame)
	}
	jpeg, err := base64.StdEncoding.DecodeString(frame.Image)
	if err != nil || len(jpeg) < 3 || jpeg[0] != 0xFF || jpeg[1] != 0xD8 {
		t.Errorf("image is not a base64 JPEG (err %v)", err)
	}

	var summary dto.RunSummary
	if err := conn.ReadJSON(&summary); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if summary.Type != dto.MessageSummary || summary.Winner != "right" || summary.Right != 2 {
		t.Errorf("unexpected summary message: %+v", summary)
	}
}

func TestHubService_BroadcastNeverBlocks(t *testing.T) {
	hub := NewHubService(&config.Config{QueueSize: 2}, logger.NewConsole(io.Discard))

	// Run is not started, so the queue fills up.
	results := []bool{
		hub.Broadcast([]byte("1")),
		hub.Broadcast([]byte("2")),
		hub.Broadcast([]byte("3")),
	}
	if !results[0] || !results[1] || results[2] {
		t.Errorf("Broadcast results = %v, expected [true true false]", results)
	}
}

func TestHubService_ShutdownClosesClients(t *testing.T) {
	hub := NewHubService(&config.Config{QueueSize: 8}, logger.NewConsole(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn)
	}))
	defer server.Close()

	first := dial(t, server)
	waitForClients(t, hub, 1)

	cancel()
	<-done

	if n := hub.GetClientCount(); n != 0 {
		t.Errorf("expected no clients after shutdown, got %d", n)
	}
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Error("expected the connection to be closed")
	}

	// registering after shutdown closes the connection instead of blocking
	late := dial(t, server)
	late.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := late.ReadMessage(); err == nil {
		t.Error("expected the late connection to be closed")
	}
	hub.Unregister(late)
}

func TestEncodeFrame_CarriesError(t *testing.T) {
	mat := gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC3)
	defer mat.Close()

	msg, err := EncodeFrame(model.AnnotatedFrame{Index: 1, Mat: mat, Err: &model.FrameError{Index: 1, Err: io.ErrUnexpectedEOF}})
	if err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	var frame dto.PreviewFrame
	if err := json.Unmarshal(msg, &frame); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if frame.Side != "none" || !strings.Contains(frame.Error, "frame 1") {
		t.Errorf("unexpected message: %+v", frame)
	}
}
