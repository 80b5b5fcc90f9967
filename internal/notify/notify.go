package notify

import (
	"encoding/json"
	"log"
	"time"
)

const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Notifier delivers non-fatal, fire-and-forget user notifications (GPS
// errors, sync failures). No acknowledgment is expected.
type Notifier interface {
	Notify(message, severity string)
}

// Broadcaster is the fan-out the hub sink publishes to.
type Broadcaster interface {
	Broadcast(channelID string, payload []byte)
}

// LogSink writes notifications to the process log. Used as the fallback
// when no live stream is wired up.
type LogSink struct{}

func (LogSink) Notify(message, severity string) {
	log.Printf("notify [%s]: %s", severity, message)
}

// HubSink pushes notifications onto a stream channel so connected
// clients see them live.
type HubSink struct {
	hub     Broadcaster
	channel string
}

func NewHubSink(hub Broadcaster, channel string) *HubSink {
	return &HubSink{hub: hub, channel: channel}
}

func (s *HubSink) Notify(message, severity string) {
	if s == nil || s.hub == nil {
		LogSink{}.Notify(message, severity)
		return
	}
	payload, err := json.Marshal(map[string]any{
		"message":   message,
		"severity":  severity,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}
	s.hub.Broadcast(s.channel, payload)
}
