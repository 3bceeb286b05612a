package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"

	"github.com/LeonardoBeccarini/aquastep/internal/model"
	"github.com/LeonardoBeccarini/aquastep/internal/observability/metrics"
	sensorSimulator "github.com/LeonardoBeccarini/aquastep/internal/sensor-simulator"
	"github.com/LeonardoBeccarini/aquastep/internal/services/assessment"
	"github.com/LeonardoBeccarini/aquastep/internal/services/gateway/app"
	"github.com/LeonardoBeccarini/aquastep/pkg/rabbitmq"
)

func main() {
	// .env opzionale: le variabili già presenti nell'ambiente vincono
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env ignored: %v", err)
	}
	cfg := loadConfig()
	logger := log.Default()

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ranges := sensorSimulator.DefaultRanges()
	if cfg.RangesFile != "" {
		r, err := sensorSimulator.LoadRanges(cfg.RangesFile)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		ranges = r
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	simCfg := sensorSimulator.Config{
		Device:      model.Device{ID: cfg.DeviceID, Name: cfg.DeviceName},
		Interval:    cfg.RefreshInterval,
		AutoRefresh: cfg.AutoRefresh,
		Logger:      logger,
	}

	// MQTT è opzionale: se il broker non risponde il simulatore resta locale
	var mqttClient mqtt.Client
	if cfg.MQTTHost != "" {
		client, err := rabbitmq.NewRabbitMQConn(&rabbitmq.RabbitMQConfig{
			Host:     cfg.MQTTHost,
			Port:     cfg.MQTTPort,
			User:     cfg.MQTTUser,
			Password: cfg.MQTTPassword,
			ClientID: cfg.MQTTClientID,
		}, ctx)
		if err != nil {
			log.Printf("mqtt: disabled: %v", err)
		} else {
			mqttClient = client
			defer rabbitmq.CloseRabbitMQConn(client)
			simCfg.Publisher = rabbitmq.NewPublisher(client, cfg.ReadingTopic)
			simCfg.Consumer = rabbitmq.NewConsumer(client, cfg.ControlTopic, nil)
		}
	}

	generator := sensorSimulator.NewDataGenerator(ranges, seed)
	history := sensorSimulator.NewHistory(cfg.HistoryLimit)
	sim := sensorSimulator.NewSensorSimulator(simCfg, generator, history)

	var remote assessment.TextGenerator
	if cfg.APIKey != "" {
		remote = assessment.NewGeminiClient(assessment.GeminiConfig{
			APIKey:          cfg.APIKey,
			Model:           cfg.AIModel,
			BaseURL:         cfg.AIBaseURL,
			Timeout:         cfg.AssessTimeout,
			BreakerFailures: cfg.BreakerFails,
			BreakerOpenFor:  cfg.BreakerOpenFor,
		})
		log.Printf("assessment: remote model=%s", cfg.AIModel)
	} else {
		log.Printf("assessment: no API key, simulation mode")
	}
	// il timeout HTTP del client scatta prima del context, così un upstream lento conta per il breaker
	assessor := assessment.NewAssessor(remote, cfg.AssessTimeout+time.Second, logger)

	// prima lettura subito, il resto dal loop
	sim.Tick()
	stopSim := sim.Start(ctx)
	defer stopSim()

	gw := app.NewGateway(app.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		MQTT:           mqttClient,
		Logger:         logger,
	}, sim, assessor)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gw.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("gateway: listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("gateway: server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("gateway: shutdown error: %v", err)
	}
}
