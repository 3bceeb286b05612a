package sensor_simulator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/LeonardoBeccarini/aquastep/internal/model"
	"github.com/LeonardoBeccarini/aquastep/internal/observability/metrics"
	"github.com/LeonardoBeccarini/aquastep/pkg/dedup"
	"github.com/LeonardoBeccarini/aquastep/pkg/rabbitmq"
)

// DefaultRefreshInterval is the spacing of automatic ticks.
const DefaultRefreshInterval = 5 * time.Second

// Config of a SensorSimulator. Publisher and Consumer are optional.
type Config struct {
	Device      model.Device
	Interval    time.Duration
	AutoRefresh bool

	Publisher rabbitmq.IPublisher
	Consumer  rabbitmq.IConsumer

	Logger *log.Logger
}

// SensorSimulator drives the generator, periodically or on demand, and is the
// only writer of its history.
type SensorSimulator struct {
	cfg       Config
	generator *DataGenerator
	history   *History
	deduper   *dedup.Deduper

	tickMu sync.Mutex // serializes generate+append so history order is generation order

	mu       sync.Mutex
	current  *model.Reading
	auto     bool
	parent   context.Context
	stopAll  context.CancelFunc
	loopStop context.CancelFunc
	loopDone chan struct{}
	consDone chan struct{}
}

func NewSensorSimulator(cfg Config, gen *DataGenerator, history *History) *SensorSimulator {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultRefreshInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if history == nil {
		history = NewHistory(DefaultHistoryLimit)
	}
	return &SensorSimulator{
		cfg:       cfg,
		generator: gen,
		history:   history,
		auto:      cfg.AutoRefresh,
		deduper:   dedup.New(2*time.Minute, 10000), // TTL e cap
	}
}

// Start avvia il simulatore: loop di refresh (se abilitato) e ricezione dei comandi.
// The returned function is the cancellation handle; it must be called on teardown.
func (s *SensorSimulator) Start(ctx context.Context) (stop func()) {
	s.mu.Lock()
	if s.parent != nil {
		s.mu.Unlock()
		return s.Stop
	}
	s.parent, s.stopAll = context.WithCancel(ctx)
	if s.auto {
		s.startLoopLocked()
	}
	metrics.SetAutoRefresh(s.auto)
	parent := s.parent
	s.mu.Unlock()

	if s.cfg.Consumer != nil {
		s.cfg.Consumer.SetHandler(s.handleMessage)
		done := make(chan struct{})
		s.mu.Lock()
		s.consDone = done
		s.mu.Unlock()
		go func() {
			defer close(done)
			s.cfg.Consumer.ConsumeMessage(parent)
		}()
	}

	s.cfg.Logger.Printf("sensor: simulator started device=%s interval=%s auto=%t",
		s.cfg.Device.ID, s.cfg.Interval, s.AutoRefresh())
	return s.Stop
}

// Stop cancels the refresh loop and the command consumer and waits for them. Idempotent.
func (s *SensorSimulator) Stop() {
	s.mu.Lock()
	if s.stopAll != nil {
		s.stopAll()
	}
	loopDone, consDone := s.loopDone, s.consDone
	s.loopStop, s.loopDone, s.consDone = nil, nil, nil
	s.mu.Unlock()

	if loopDone != nil {
		<-loopDone
	}
	if consDone != nil {
		<-consDone
	}
}

// ToggleAuto enables or disables automatic ticks. When it returns false->disabled,
// no further automatic tick will run until re-enabled.
func (s *SensorSimulator) ToggleAuto(enabled bool) {
	s.mu.Lock()
	s.auto = enabled
	metrics.SetAutoRefresh(enabled)

	var wait chan struct{}
	switch {
	case enabled && s.loopDone == nil && s.parent != nil && s.parent.Err() == nil:
		s.startLoopLocked()
	case !enabled && s.loopStop != nil:
		s.loopStop()
		wait = s.loopDone
		s.loopStop, s.loopDone = nil, nil
	}
	s.mu.Unlock()

	// aspetta fuori dal lock: un tick in corso può ancora leggere lo stato
	if wait != nil {
		<-wait
	}
	s.cfg.Logger.Printf("sensor: auto refresh=%t", enabled)
}

func (s *SensorSimulator) AutoRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auto
}

// Tick generates one reading, records it and publishes it. It works regardless of the auto flag.
func (s *SensorSimulator) Tick() model.Reading {
	return s.tick(metrics.TriggerManual)
}

func (s *SensorSimulator) tick(trigger string) model.Reading {
	s.tickMu.Lock()
	r := s.generator.Next()
	s.history.Append(r)
	s.mu.Lock()
	s.current = &r
	s.mu.Unlock()
	s.tickMu.Unlock()

	metrics.ObserveTick(trigger, s.history.Len(), map[string]float64{
		"ph":          r.PH,
		"tds":         float64(r.TDS),
		"voltage":     r.Voltage,
		"flow_rate":   r.FlowRate,
		"turbine_rpm": float64(r.TurbineRPM),
	})

	if s.cfg.Publisher != nil {
		payload, err := json.Marshal(model.ReadingData{DeviceID: s.cfg.Device.ID, Reading: r})
		if err == nil {
			err = s.cfg.Publisher.PublishMessage(payload)
		}
		if err != nil {
			metrics.IncPublishError()
			s.cfg.Logger.Printf("sensor: publish error reading=%s: %v", r.ID, err)
		}
	}
	return r
}

// Current returns the latest generated reading.
func (s *SensorSimulator) Current() (model.Reading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return model.Reading{}, false
	}
	return *s.current, true
}

func (s *SensorSimulator) History() HistoryReader { return s.history }

func (s *SensorSimulator) Interval() time.Duration { return s.cfg.Interval }

func (s *SensorSimulator) startLoopLocked() {
	ctx, cancel := context.WithCancel(s.parent)
	done := make(chan struct{})
	s.loopStop, s.loopDone = cancel, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// the ticker may fire while a cancel is racing in
				if ctx.Err() != nil {
					return
				}
				s.tick(metrics.TriggerAuto)
			}
		}
	}()
}

func (s *SensorSimulator) handleMessage(_ string, msg mqtt.Message) error {
	var cmd model.ControlCommand
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		return fmt.Errorf("invalid ControlCommand: %w", err)
	}

	// Dedup: redelivery QoS1 → stesso id, oppure stesso payload se manca l'id
	key := cmd.ID
	if key == "" {
		h := sha256.Sum256(msg.Payload())
		key = hex.EncodeToString(h[:])
	}
	if !s.deduper.ShouldProcess(key) {
		return nil
	}
	return s.apply(cmd)
}

func (s *SensorSimulator) apply(cmd model.ControlCommand) error {
	switch cmd.Action {
	case model.ActionRefresh:
		r := s.Tick()
		s.cfg.Logger.Printf("sensor: remote refresh reading=%s", r.ID)
	case model.ActionAuto:
		s.ToggleAuto(cmd.Enabled)
	default:
		return fmt.Errorf("unknown control action %q", cmd.Action)
	}
	return nil
}
