package emitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"fishdetector/internal/config"
	"fishdetector/internal/dto"
	"fishdetector/internal/logger"
)

var ErrNotConnected = errors.New("mqtt not connected")

const publishTimeout = 2 * time.Second

// MQTTEmitter publishes run summaries to an MQTT broker.
type MQTTEmitter struct {
	broker   string
	topic    string
	clientID string
	logger   *logger.Logger

	client mqtt.Client

	mu        sync.RWMutex
	connected bool
	published uint64
}

// NewMQTTEmitter creates an emitter for cfg.MQTTBroker. It does not connect.
func NewMQTTEmitter(cfg *config.Config, logger *logger.Logger) *MQTTEmitter {
	return &MQTTEmitter{
		broker:   BrokerURL(cfg.MQTTBroker),
		topic:    cfg.MQTTTopic,
		clientID: "fishdetector-" + uuid.NewString()[:8],
		logger:   logger,
	}
}

// BrokerURL adds the tcp scheme to a bare host:port.
func BrokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}

// SummaryTopic is where run summaries are published under base.
func SummaryTopic(base string) string {
	return strings.TrimSuffix(base, "/") + "/summary"
}

// Connect establishes the broker connection, giving up when ctx is done.
func (e *MQTTEmitter) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(e.broker)
	opts.SetClientID(e.clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		e.setConnected(true)
		e.logger.Info("📡 MQTT connection established: %s", e.broker)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		e.setConnected(false)
		e.logger.Warning("⚠️  MQTT connection lost, will auto-reconnect: %v", err)
	}

	e.client = mqtt.NewClient(opts)
	e.logger.Info("Connecting to MQTT broker %s", e.broker)

	token := e.client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		e.client.Disconnect(0)
		return fmt.Errorf("mqtt connection aborted: %w", ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}

	e.setConnected(true)
	return nil
}

// PublishSummary publishes summary as retained JSON on the summary topic.
func (e *MQTTEmitter) PublishSummary(summary dto.RunSummary) error {
	if !e.isConnected() {
		return ErrNotConnected
	}

	summary.Type = dto.MessageSummary
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	topic := SummaryTopic(e.topic)
	token := e.client.Publish(topic, 1, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	e.mu.Lock()
	e.published++
	e.mu.Unlock()

	e.logger.Debug("Summary of run %s published to %s (%d bytes)", summary.RunID, topic, len(payload))
	return nil
}

// Published returns how many summaries were delivered.
func (e *MQTTEmitter) Published() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.published
}

// Disconnect closes the MQTT connection
func (e *MQTTEmitter) Disconnect() {
	if e.client != nil && e.client.IsConnected() {
		e.client.Disconnect(250) // 250ms grace period
		e.logger.Info("MQTT disconnected")
	}
	e.setConnected(false)
}

func (e *MQTTEmitter) setConnected(v bool) {
	e.mu.Lock()
	e.connected = v
	e.mu.Unlock()
}

func (e *MQTTEmitter) isConnected() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.connected
}
