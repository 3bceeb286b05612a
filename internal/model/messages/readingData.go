package messages

import (
	"github.com/LeonardoBeccarini/aquastep/internal/model/entities"
)

// ReadingData is the payload published on the readings topic for every tick.
type ReadingData struct {
	DeviceID string           `json:"device_id"`
	Reading  entities.Reading `json:"reading"`
}
