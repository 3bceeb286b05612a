package sensor_simulator

import (
	"math"
	"testing"

	"github.com/LeonardoBeccarini/aquastep/internal/model"
)

func hasAtMostDecimals(v float64, decimals int) bool {
	p := math.Pow(10, float64(decimals))
	return math.Abs(v*p-math.Round(v*p)) < 1e-6
}

func TestNextStaysInsideRanges(t *testing.T) {
	g := NewDataGenerator(DefaultRanges(), 42)
	rg := g.Ranges()

	for i := 0; i < 1000; i++ {
		r := g.Next()
		if r.PH < rg.PH.Min || r.PH > rg.PH.Max || !hasAtMostDecimals(r.PH, 1) {
			t.Fatalf("ph out of range or precision: %v", r.PH)
		}
		if r.TDS < 50 || r.TDS > 300 {
			t.Fatalf("tds out of range: %d", r.TDS)
		}
		if r.Voltage < rg.Voltage.Min || r.Voltage > rg.Voltage.Max || !hasAtMostDecimals(r.Voltage, 2) {
			t.Fatalf("voltage out of range or precision: %v", r.Voltage)
		}
		if r.FlowRate < rg.FlowRate.Min || r.FlowRate > rg.FlowRate.Max || !hasAtMostDecimals(r.FlowRate, 2) {
			t.Fatalf("flow rate out of range or precision: %v", r.FlowRate)
		}
		if r.TurbineRPM < 100 || r.TurbineRPM > 600 {
			t.Fatalf("turbine rpm out of range: %d", r.TurbineRPM)
		}
		if r.ID == "" || r.Timestamp.IsZero() {
			t.Fatalf("reading without id or timestamp: %+v", r)
		}
	}
}

func TestStatusCycle(t *testing.T) {
	g := NewDataGenerator(DefaultRanges(), 1)
	want := []model.SystemStatus{
		model.StatusTurbineRunning,
		model.StatusTestingWater,
		model.StatusFiltering,
		model.StatusTurbineRunning,
		model.StatusTestingWater,
		model.StatusFiltering,
	}
	for i, w := range want {
		if got := g.Next().Status; got != w {
			t.Fatalf("tick %d: got %q, want %q", i, got, w)
		}
	}
}

func TestIdleNeverProduced(t *testing.T) {
	g := NewDataGenerator(DefaultRanges(), 7)
	for i := 0; i < 300; i++ {
		if g.Next().Status == model.StatusIdle {
			t.Fatalf("idle produced at tick %d", i)
		}
	}
}

func TestGeneratorsHaveIndependentCursors(t *testing.T) {
	a := NewDataGenerator(DefaultRanges(), 1)
	b := NewDataGenerator(DefaultRanges(), 2)
	a.Next()
	a.Next()
	if got := b.Next().Status; got != model.StatusTurbineRunning {
		t.Fatalf("second generator starts at %q", got)
	}
}

func TestUniqueIDs(t *testing.T) {
	g := NewDataGenerator(DefaultRanges(), 3)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id := g.Next().ID
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestNarrowRangeIsRespected(t *testing.T) {
	rg := DefaultRanges()
	rg.PH = Range{Min: 7.0, Max: 7.0, Decimals: 1}
	g := NewDataGenerator(rg, 9)
	for i := 0; i < 20; i++ {
		if ph := g.Next().PH; ph != 7.0 {
			t.Fatalf("ph=%v, want 7.0", ph)
		}
	}
}
