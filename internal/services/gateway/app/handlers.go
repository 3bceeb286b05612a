package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/LeonardoBeccarini/aquastep/internal/model"
	"github.com/LeonardoBeccarini/aquastep/internal/services/assessment"
)

func (g *Gateway) aiMode() string {
	if g.assessor.Simulated() {
		return "simulated"
	}
	return "remote"
}

func (g *Gateway) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

// HandleReady: 200 quando esiste una lettura corrente e, se configurato, MQTT è connesso.
func (g *Gateway) HandleReady(w http.ResponseWriter, _ *http.Request) {
	_, hasCurrent := g.sim.Current()
	st := readyResponse{
		MQTTConnected: g.cfg.MQTT != nil && g.cfg.MQTT.IsConnectionOpen(),
		AIMode:        g.aiMode(),
		HistoryLength: g.sim.History().Len(),
	}
	st.Ready = hasCurrent && (g.cfg.MQTT == nil || st.MQTTConnected)

	status := http.StatusOK
	if !st.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, st)
}

func (g *Gateway) HandleLatest(w http.ResponseWriter, _ *http.Request) {
	cur, ok := g.sim.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no reading yet")
		return
	}
	writeJSON(w, http.StatusOK, cur)
}

// HandleReadings: GET /api/readings?limit=N (newest first)
func (g *Gateway) HandleReadings(w http.ResponseWriter, r *http.Request) {
	h := g.sim.History()
	n := queryInt(r, "limit", h.Limit(), 1, h.Limit())
	writeJSON(w, http.StatusOK, h.Recent(n))
}

// HandleChart: GET /api/readings/chart?points=N (oldest first)
func (g *Gateway) HandleChart(w http.ResponseWriter, r *http.Request) {
	h := g.sim.History()
	n := queryInt(r, "points", g.cfg.ChartPoints, 1, h.Limit())
	writeJSON(w, http.StatusOK, h.Chronological(n))
}

func (g *Gateway) HandleRefresh(w http.ResponseWriter, _ *http.Request) {
	reading := g.sim.Tick()
	writeJSON(w, http.StatusCreated, reading)
}

func (g *Gateway) HandleGetAuto(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, autoResponse{
		Enabled:    g.sim.AutoRefresh(),
		IntervalMs: g.sim.Interval().Milliseconds(),
	})
}

func (g *Gateway) HandleSetAuto(w http.ResponseWriter, r *http.Request) {
	var req autoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		writeError(w, http.StatusBadRequest, `body must be {"enabled": true|false}`)
		return
	}
	g.sim.ToggleAuto(*req.Enabled)
	g.HandleGetAuto(w, r)
}

// HandleAssessment: POST /api/assessment [{"reading_id": "..."}], default la lettura corrente.
func (g *Gateway) HandleAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var (
		reading model.Reading
		ok      bool
	)
	if id := strings.TrimSpace(req.ReadingID); id != "" {
		reading, ok = g.sim.History().Find(id)
	} else {
		reading, ok = g.sim.Current()
	}
	if !ok {
		writeError(w, http.StatusNotFound, "reading not found")
		return
	}

	// la chiamata remota non si interrompe se il client chiude: la limita il timeout dell'assessor
	g.analyzing.Add(1)
	res := g.assessor.Assess(context.WithoutCancel(r.Context()), reading)
	g.analyzing.Add(-1)

	g.setInsight(res)
	writeJSON(w, http.StatusOK, res)
}

func (g *Gateway) HandleLatestInsight(w http.ResponseWriter, _ *http.Request) {
	res, ok := g.LatestInsight()
	if !ok {
		writeError(w, http.StatusNotFound, "no assessment yet")
		return
	}
	writeJSON(w, http.StatusOK, g.insightFor(res))
}

func (g *Gateway) HandleDashboard(w http.ResponseWriter, _ *http.Request) {
	h := g.sim.History()
	data := DashboardData{
		AutoRefresh: g.sim.AutoRefresh(),
		IntervalMs:  g.sim.Interval().Milliseconds(),
		Analyzing:   g.analyzing.Load() > 0,
		AIMode:      g.aiMode(),
		Chart:       h.Chronological(g.cfg.ChartPoints),
		Recent:      h.Recent(g.cfg.RecentReadings),
		Stats:       computeStats(h.Snapshot()),
	}
	if cur, ok := g.sim.Current(); ok {
		data.Current = &cur
	}
	if res, ok := g.LatestInsight(); ok {
		in := g.insightFor(res)
		data.Insight = &in
	}
	writeJSON(w, http.StatusOK, data)
}

func (g *Gateway) insightFor(res assessment.Result) Insight {
	cur, ok := g.sim.Current()
	return Insight{Result: res, Stale: !ok || cur.ID != res.ReadingID}
}

// computeStats returns min/max/mean per metric; empty history gives an empty map.
func computeStats(readings []model.Reading) map[string]MetricStats {
	stats := map[string]MetricStats{}
	if len(readings) == 0 {
		return stats
	}
	getters := map[string]func(model.Reading) float64{
		"ph":         func(r model.Reading) float64 { return r.PH },
		"tds":        func(r model.Reading) float64 { return float64(r.TDS) },
		"voltage":    func(r model.Reading) float64 { return r.Voltage },
		"flowRate":   func(r model.Reading) float64 { return r.FlowRate },
		"turbineRpm": func(r model.Reading) float64 { return float64(r.TurbineRPM) },
	}
	for name, get := range getters {
		minv, maxv, sum := math.MaxFloat64, -math.MaxFloat64, 0.0
		for _, r := range readings {
			v := get(r)
			sum += v
			minv = math.Min(minv, v)
			maxv = math.Max(maxv, v)
		}
		stats[name] = MetricStats{
			Min:  minv,
			Max:  maxv,
			Mean: math.Round(sum/float64(len(readings))*100) / 100,
		}
	}
	return stats
}

func queryInt(r *http.Request, key string, def, min, max int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
