package app

import (
	"github.com/LeonardoBeccarini/aquastep/internal/model"
	"github.com/LeonardoBeccarini/aquastep/internal/services/assessment"
)

// ---------- API payloads ----------

// MetricStats summarizes one metric over the history window.
type MetricStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// Insight is the latest assessment; Stale is set once a newer reading is current.
type Insight struct {
	assessment.Result
	Stale bool `json:"stale"`
}

type DashboardData struct {
	Current     *model.Reading         `json:"current"`
	AutoRefresh bool                   `json:"auto_refresh"`
	IntervalMs  int64                  `json:"interval_ms"`
	Analyzing   bool                   `json:"analyzing"`
	AIMode      string                 `json:"ai_mode"`
	Insight     *Insight               `json:"insight,omitempty"`
	Chart       []model.Reading        `json:"chart"`
	Recent      []model.Reading        `json:"recent"`
	Stats       map[string]MetricStats `json:"stats"`
}

type autoRequest struct {
	Enabled *bool `json:"enabled"`
}

type autoResponse struct {
	Enabled    bool  `json:"enabled"`
	IntervalMs int64 `json:"interval_ms"`
}

type assessmentRequest struct {
	ReadingID string `json:"reading_id"`
}

type readyResponse struct {
	Ready         bool   `json:"ready"`
	MQTTConnected bool   `json:"mqtt_connected"`
	AIMode        string `json:"ai_mode"`
	HistoryLength int    `json:"history_length"`
}

type errorResponse struct {
	Error string `json:"error"`
}
