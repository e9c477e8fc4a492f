package api

import (
	"time"

	"moderation/pkg/moderate"
)

// LogEntry is one access-log record shipped to Kafka by the logging
// middleware.
type LogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	IP         string    `json:"ip"`
	StatusCode int       `json:"status_code"`
	RequestID  string    `json:"request_id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Duration   float64   `json:"duration_sec"`
	Service    string    `json:"service"`
}

type textRequest struct {
	Text string `json:"text"`
}

type batchRequest struct {
	Texts []string `json:"texts"`
}

type validateRequest struct {
	Text   string          `json:"text"`
	Limits moderate.Limits `json:"limits"`
}

type sanitizeResponse struct {
	Sanitized string `json:"sanitized"`
}

type levelResponse struct {
	Level moderate.Level `json:"level"`
}
