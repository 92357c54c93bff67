package logging

import (
	"encoding/json"
	"time"
)

// Event is the canonical structured record of one thing that happened
// during a run. Required fields: Timestamp, RunID, Project, EventType,
// Summary. Optional fields use omitempty tags.
type Event struct {
	Timestamp time.Time       `json:"ts"`
	RunID     string          `json:"run_id"`
	Project   string          `json:"project"`
	EventType string          `json:"event_type"`
	Summary   string          `json:"summary"`
	Flow      string          `json:"flow,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Event type constants.
const (
	EventRunStart        = "run_start"
	EventRunEnd          = "run_end"
	EventHTTPRequest     = "http_request"
	EventHTTPResponse    = "http_response"
	EventOutputExtracted = "output_extracted"
	EventVerdict         = "verdict"
)

// RunStartData is the data payload for run_start events.
type RunStartData struct {
	Stage string `json:"stage"`
	User  string `json:"user,omitempty"`
}

// RunEndData is the data payload for run_end events.
type RunEndData struct {
	Outcome    string `json:"outcome"` // "ok" or "error"
	Message    string `json:"message,omitempty"`
	LastFlow   string `json:"last_flow,omitempty"`
	Steps      int    `json:"steps"`
	DurationMS int64  `json:"duration_ms"`
}

// HTTPRequestData is the data payload for http_request events.
type HTTPRequestData struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

// HTTPResponseData is the data payload for http_response events.
type HTTPResponseData struct {
	Method     string `json:"method"`
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
	DurationMS int64  `json:"duration_ms"`
	BodyBytes  int64  `json:"body_bytes"`
}

// OutputExtractedData is the data payload for output_extracted events.
// Extracted values are often credentials; only their length is logged.
type OutputExtractedData struct {
	Output     string `json:"output"`
	Found      bool   `json:"found"`
	ValueBytes int    `json:"value_bytes,omitempty"`
}

// VerdictData is the data payload for verdict events.
type VerdictData struct {
	Kind    string `json:"kind"` // "continue", "next", "stop", "error"
	Next    string `json:"next,omitempty"`
	Message string `json:"message,omitempty"`
}
