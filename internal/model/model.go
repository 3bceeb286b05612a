package model

import (
	"github.com/LeonardoBeccarini/aquastep/internal/model/entities"
	"github.com/LeonardoBeccarini/aquastep/internal/model/messages"
)

// Alias per esporre tipi comuni ai servizi

type (
	Reading        = entities.Reading
	SystemStatus   = entities.SystemStatus
	Device         = entities.Device
	ReadingData    = messages.ReadingData
	ControlCommand = messages.ControlCommand
)

const (
	StatusFiltering      = entities.StatusFiltering
	StatusTurbineRunning = entities.StatusTurbineRunning
	StatusTestingWater   = entities.StatusTestingWater
	StatusIdle           = entities.StatusIdle

	ActionRefresh = messages.ActionRefresh
	ActionAuto    = messages.ActionAuto
)
