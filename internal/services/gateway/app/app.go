package app

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/LeonardoBeccarini/aquastep/internal/model"
	sensorSimulator "github.com/LeonardoBeccarini/aquastep/internal/sensor-simulator"
	"github.com/LeonardoBeccarini/aquastep/internal/services/assessment"
)

// Simulator is what the dashboard needs from the refresh scheduler.
type Simulator interface {
	Tick() model.Reading
	Current() (model.Reading, bool)
	ToggleAuto(enabled bool)
	AutoRefresh() bool
	Interval() time.Duration
	History() sensorSimulator.HistoryReader
}

// QualityAssessor produces the "smart insight" of a reading.
type QualityAssessor interface {
	Assess(ctx context.Context, r model.Reading) assessment.Result
	Simulated() bool
}

type Config struct {
	AllowedOrigins []string
	ChartPoints    int // readings in the dashboard chart
	RecentReadings int // readings in the dashboard table

	// MQTT is optional; used only for readiness reporting.
	MQTT mqtt.Client

	Logger *log.Logger
}

// Gateway serves the dashboard JSON API on top of the simulator and the assessor.
type Gateway struct {
	cfg      Config
	sim      Simulator
	assessor QualityAssessor

	analyzing atomic.Int32

	insightMu sync.RWMutex
	insight   *assessment.Result
}

func NewGateway(cfg Config, sim Simulator, assessor QualityAssessor) *Gateway {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.ChartPoints <= 0 {
		cfg.ChartPoints = 10
	}
	if cfg.RecentReadings <= 0 {
		cfg.RecentReadings = 5
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if assessor == nil {
		assessor = assessment.NewAssessor(nil, 0, cfg.Logger)
	}
	return &Gateway{cfg: cfg, sim: sim, assessor: assessor}
}

// LatestInsight returns the last assessment produced through the API.
func (g *Gateway) LatestInsight() (assessment.Result, bool) {
	g.insightMu.RLock()
	defer g.insightMu.RUnlock()
	if g.insight == nil {
		return assessment.Result{}, false
	}
	return *g.insight, true
}

// setInsight stores res unless the stored insight already belongs to the current
// reading and res does not: a late result for a superseded reading is dropped.
func (g *Gateway) setInsight(res assessment.Result) {
	cur, hasCurrent := g.sim.Current()

	g.insightMu.Lock()
	defer g.insightMu.Unlock()
	if hasCurrent && g.insight != nil && g.insight.ReadingID == cur.ID && res.ReadingID != cur.ID {
		return
	}
	g.insight = &res
}
