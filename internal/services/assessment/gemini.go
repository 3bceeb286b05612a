package assessment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/LeonardoBeccarini/aquastep/internal/model"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("empty response from AI model")

// errCallerDone marks calls that ended because the caller's context did, not because of the upstream.
var errCallerDone = errors.New("caller context done")

// GeminiConfig configures the remote text generator.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	BreakerFailures int           // consecutive failures before opening
	BreakerOpenFor  time.Duration // time spent open before a half-open probe
}

// GeminiClient calls the generateContent REST endpoint behind a circuit breaker.
type GeminiClient struct {
	http    *resty.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.BreakerFailures < 1 {
		cfg.BreakerFailures = 3
	}
	if cfg.BreakerOpenFor <= 0 {
		cfg.BreakerOpenFor = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey)

	fails := uint32(cfg.BreakerFailures)
	return &GeminiClient{
		http:  client,
		model: cfg.Model,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "gemini",
			Timeout: cfg.BreakerOpenFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= fails
			},
			// una chiamata abbandonata dal chiamante non dice nulla sulla salute di Gemini
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, errCallerDone)
			},
		}),
	}
}

// GenerateText sends one generateContent request and returns the concatenated candidate text.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		text, err := c.generate(ctx, prompt)
		if err != nil && ctx.Err() != nil {
			return "", fmt.Errorf("%w: %w", errCallerDone, err)
		}
		return text, err
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

// BreakerState exposes the breaker state for readiness reporting.
func (c *GeminiClient) BreakerState() string {
	return c.breaker.State().String()
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(generateRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}).
		SetResult(&out).
		Post("/v1beta/models/" + c.model + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request error: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode(), truncate(resp.String(), 256))
	}

	var b strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
		if b.Len() > 0 {
			break
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// BuildPrompt renders the natural-language prompt for a reading.
func BuildPrompt(r model.Reading) string {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return fmt.Sprintf(`Analyze the following water recycling system data for a school project called "AquaStep":
pH: %s
TDS: %d ppm
Voltage Generated: %s V
Flow Rate: %s L/min
Turbine RPM: %d

Provide a concise 1-sentence assessment of the water quality and system efficiency suitable for a dashboard display.`,
		num(r.PH), r.TDS, num(r.Voltage), num(r.FlowRate), r.TurbineRPM)
}
