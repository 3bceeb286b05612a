package messages

import "time"

// Actions accepted on the control topic.
const (
	ActionRefresh = "refresh"
	ActionAuto    = "auto"
)

// ControlCommand lets a remote operator drive the simulator over MQTT.
type ControlCommand struct {
	ID        string    `json:"id,omitempty"` // used for redelivery dedup
	Action    string    `json:"action"`       // refresh | auto
	Enabled   bool      `json:"enabled"`      // only for "auto"
	Timestamp time.Time `json:"timestamp"`
}
