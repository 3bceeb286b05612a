package entities

import "time"

// SystemStatus is the operating phase reported with every reading.
type SystemStatus string

const (
	StatusFiltering      SystemStatus = "Filtering"
	StatusTurbineRunning SystemStatus = "Turbine Running"
	StatusTestingWater   SystemStatus = "Testing Water"
	// StatusIdle is part of the device vocabulary but the simulator never reports it.
	StatusIdle SystemStatus = "Idle"
)

// StatusSequence is the order the simulator cycles through.
var StatusSequence = []SystemStatus{
	StatusFiltering,
	StatusTurbineRunning,
	StatusTestingWater,
}

// Reading is one immutable telemetry sample of the AquaStep recycler.
type Reading struct {
	ID         string       `json:"id"`
	Timestamp  time.Time    `json:"timestamp"`
	PH         float64      `json:"ph"`         // 1 decimal
	TDS        int          `json:"tds"`        // ppm
	Voltage    float64      `json:"voltage"`    // V, 2 decimals
	FlowRate   float64      `json:"flowRate"`   // L/min, 2 decimals
	TurbineRPM int          `json:"turbineRpm"` // rpm
	Status     SystemStatus `json:"status"`
}
