package main

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	RefreshInterval time.Duration
	AutoRefresh     bool
	HistoryLimit    int
	RangesFile      string // YAML opzionale, vuoto = range di fabbrica
	Seed            int64  // 0 = seed dal clock

	DeviceID   string
	DeviceName string

	// AI assessment (senza chiave si passa in modalità simulata)
	APIKey         string
	AIModel        string
	AIBaseURL      string
	AssessTimeout  time.Duration
	BreakerFails   int
	BreakerOpenFor time.Duration

	// MQTT (RabbitMQ plugin); MQTTHost vuoto disabilita publish e comandi
	MQTTHost     string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string
	ReadingTopic string
	ControlTopic string

	AllowedOrigins []string
}

func env(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return d
}

func envBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return d
}

// envDuration legge millisecondi interi.
func envDuration(k string, d time.Duration) time.Duration {
	if n := envInt(k, -1); n > 0 {
		return time.Duration(n) * time.Millisecond
	}
	return d
}

func envList(k string, d []string) []string {
	v := env(k, "")
	if v == "" {
		return d
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return d
	}
	return out
}

func loadConfig() Config {
	return Config{
		Port: env("PORT", "3000"),

		RefreshInterval: envDuration("REFRESH_RATE_MS", 5000*time.Millisecond),
		AutoRefresh:     envBool("AUTO_REFRESH", true),
		HistoryLimit:    envInt("HISTORY_LIMIT", 50),
		RangesFile:      env("SIMULATION_RANGES_FILE", ""),
		Seed:            int64(envInt("SIMULATION_SEED", 0)),

		DeviceID:   env("DEVICE_ID", "aquastep-01"),
		DeviceName: env("DEVICE_NAME", "AquaStep Recycler"),

		APIKey:         env("API_KEY", env("GEMINI_API_KEY", "")),
		AIModel:        env("AI_MODEL", "gemini-2.5-flash"),
		AIBaseURL:      env("AI_BASE_URL", "https://generativelanguage.googleapis.com"),
		AssessTimeout:  envDuration("ASSESS_TIMEOUT_MS", 15*time.Second),
		BreakerFails:   envInt("AI_BREAKER_FAILS", 3),
		BreakerOpenFor: envDuration("AI_BREAKER_OPEN_MS", 30*time.Second),

		MQTTHost:     env("MQTT_HOST", ""),
		MQTTPort:     envInt("MQTT_PORT", 1883),
		MQTTUser:     env("MQTT_USER", "guest"),
		MQTTPassword: env("MQTT_PASSWORD", "guest"),
		MQTTClientID: env("MQTT_CLIENT_ID", "aquastep-simulator"),
		ReadingTopic: env("MQTT_READING_TOPIC", "aquastep/readings"),
		ControlTopic: env("MQTT_CONTROL_TOPIC", "aquastep/control"),

		AllowedOrigins: envList("CORS_ORIGINS", []string{"*"}),
	}
}
