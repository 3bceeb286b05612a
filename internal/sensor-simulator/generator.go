package sensor_simulator

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LeonardoBeccarini/aquastep/internal/model"
	"github.com/LeonardoBeccarini/aquastep/internal/model/entities"
)

// DataGenerator produce letture sintetiche del recycler.
// Every instance owns its status cursor, so independent simulators do not interfere.
type DataGenerator struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	ranges   Ranges
	sequence []model.SystemStatus
	cursor   int

	now   func() time.Time
	newID func() string
}

// NewDataGenerator crea un generatore con i range dati e un seed per la sorgente random.
func NewDataGenerator(ranges Ranges, seed int64) *DataGenerator {
	seq := make([]model.SystemStatus, len(entities.StatusSequence))
	copy(seq, entities.StatusSequence)
	return &DataGenerator{
		rnd:      rand.New(rand.NewSource(seed)),
		ranges:   ranges,
		sequence: seq,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.New().String() },
	}
}

// Next advances the status cursor and returns a freshly sampled reading.
func (g *DataGenerator) Next() model.Reading {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cursor = (g.cursor + 1) % len(g.sequence)

	return model.Reading{
		ID:         g.newID(),
		Timestamp:  g.now(),
		PH:         g.sample(g.ranges.PH),
		TDS:        int(g.sample(g.ranges.TDS)),
		Voltage:    g.sample(g.ranges.Voltage),
		FlowRate:   g.sample(g.ranges.FlowRate),
		TurbineRPM: int(g.sample(g.ranges.TurbineRPM)),
		Status:     g.sequence[g.cursor],
	}
}

// Ranges returns the sampling configuration in use.
func (g *DataGenerator) Ranges() Ranges {
	return g.ranges
}

// sample draws uniformly from [min, max) and rounds to the range precision.
// Rounding may land exactly on max, which is still inside the domain.
func (g *DataGenerator) sample(r Range) float64 {
	v := g.rnd.Float64()*(r.Max-r.Min) + r.Min
	return roundTo(v, r.Decimals)
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
