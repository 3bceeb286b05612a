package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "aquastep_"

// Assessment sources, used as label values.
const (
	SourceRemote    = "remote"
	SourceFallback  = "fallback"
	SourceSimulated = "simulated"
)

// Tick triggers.
const (
	TriggerAuto   = "auto"
	TriggerManual = "manual"
)

var (
	registerOnce sync.Once

	ticksTotal        *prometheus.CounterVec
	publishErrors     prometheus.Counter
	historyLength     prometheus.Gauge
	autoRefresh       prometheus.Gauge
	assessmentsTotal  *prometheus.CounterVec
	assessmentLatency *prometheus.HistogramVec
	readingValue      *prometheus.GaugeVec
)

// Init registers the service metrics on the default registry. It is safe to call more than once.
func Init() {
	InitWith(prometheus.DefaultRegisterer)
}

// InitWith registers the service metrics on reg (first call wins).
func InitWith(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		ticksTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ticks_total",
				Help: "Readings generated, by trigger",
			},
			[]string{"trigger"},
		)
		publishErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "publish_errors_total",
			Help: "Readings that could not be published over MQTT",
		})
		historyLength = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "history_length",
			Help: "Readings currently held in the history window",
		})
		autoRefresh = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "auto_refresh_enabled",
			Help: "1 when the refresh loop is enabled",
		})
		assessmentsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "assessments_total",
				Help: "Quality assessments by source",
			},
			[]string{"source"},
		)
		assessmentLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "assessment_duration_seconds",
				Help:    "Time spent producing a quality assessment",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"source"},
		)
		readingValue = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "reading_value",
				Help: "Latest simulated value per metric",
			},
			[]string{"metric"},
		)

		reg.MustRegister(ticksTotal, publishErrors, historyLength, autoRefresh,
			assessmentsTotal, assessmentLatency, readingValue)
	})
}

// ObserveTick records a generated reading and the resulting history length.
func ObserveTick(trigger string, historyLen int, values map[string]float64) {
	if ticksTotal == nil {
		return
	}
	ticksTotal.WithLabelValues(trigger).Inc()
	historyLength.Set(float64(historyLen))
	for k, v := range values {
		readingValue.WithLabelValues(k).Set(v)
	}
}

func IncPublishError() {
	if publishErrors == nil {
		return
	}
	publishErrors.Inc()
}

func SetAutoRefresh(enabled bool) {
	if autoRefresh == nil {
		return
	}
	if enabled {
		autoRefresh.Set(1)
		return
	}
	autoRefresh.Set(0)
}

// ObserveAssessment records one assessment outcome.
func ObserveAssessment(source string, elapsed time.Duration) {
	if assessmentsTotal == nil {
		return
	}
	assessmentsTotal.WithLabelValues(source).Inc()
	assessmentLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}
