package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/df07/go-lighting-preview/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
	PreviewID string    `json:"previewId"`
}

// WebLogger implements core.Logger by forwarding preview log lines to a console channel
type WebLogger struct {
	previewID   string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific preview stream
func NewWebLogger(previewID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		previewID:   previewID,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	// Server log gets the stream id so concurrent previews can be told apart
	fmt.Printf("[%s] %s", wl.previewID, message)

	if wl.consoleChan == nil {
		return
	}

	// Non-blocking: the worker goroutine must never stall on a slow client
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     messageLevel(message),
		PreviewID: wl.previewID,
	}:
	default:
	}
}

// messageLevel classifies a log line by its leading word
func messageLevel(message string) string {
	lower := strings.ToLower(strings.TrimSpace(message))
	switch {
	case strings.HasPrefix(lower, "error"), strings.Contains(lower, "failed"):
		return "error"
	case strings.HasPrefix(lower, "warning"):
		return "warning"
	default:
		return "info"
	}
}
