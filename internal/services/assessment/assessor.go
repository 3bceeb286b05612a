package assessment

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/LeonardoBeccarini/aquastep/internal/model"
	"github.com/LeonardoBeccarini/aquastep/internal/observability/metrics"
)

// SimulatedSuffix marks assessments produced without any remote credential.
// The remote-failure fallback deliberately does not carry it.
const SimulatedSuffix = " (Simulated)"

// Source tells where an assessment text came from.
type Source string

const (
	SourceRemote    Source = metrics.SourceRemote
	SourceFallback  Source = metrics.SourceFallback
	SourceSimulated Source = metrics.SourceSimulated
)

// TextGenerator is the remote text-generation capability.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Result is an assessment bound to the reading it was requested for.
type Result struct {
	ReadingID string    `json:"reading_id"`
	Text      string    `json:"text"`
	Source    Source    `json:"source"`
	At        time.Time `json:"at"`
}

// Assessor turns a reading into a short human-readable assessment. It never fails.
type Assessor struct {
	remote  TextGenerator
	timeout time.Duration
	logger  *log.Logger
}

// NewAssessor builds an assessor. A nil remote selects simulation mode.
func NewAssessor(remote TextGenerator, timeout time.Duration, logger *log.Logger) *Assessor {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Assessor{remote: remote, timeout: timeout, logger: logger}
}

// Simulated reports whether no remote generator is configured.
func (a *Assessor) Simulated() bool { return a.remote == nil }

// Assess returns the remote assessment when available, the local rule-based one otherwise.
func (a *Assessor) Assess(ctx context.Context, r model.Reading) Result {
	start := time.Now()
	res := a.assess(ctx, r)
	res.At = time.Now().UTC()
	metrics.ObserveAssessment(string(res.Source), time.Since(start))
	return res
}

func (a *Assessor) assess(ctx context.Context, r model.Reading) Result {
	local := Classify(r)
	if a.remote == nil {
		return Result{ReadingID: r.ID, Text: local + SimulatedSuffix, Source: SourceSimulated}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.remote.GenerateText(ctx, BuildPrompt(r))
	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		a.logger.Printf("assessment: remote unavailable, using rule-based fallback reading=%s: %v", r.ID, err)
		return Result{ReadingID: r.ID, Text: local, Source: SourceFallback}
	}
	return Result{ReadingID: r.ID, Text: text, Source: SourceRemote}
}
