package assessment

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/LeonardoBeccarini/aquastep/internal/model"
)

type fakeGenerator struct {
	text   string
	err    error
	delay  time.Duration
	prompt string
	calls  int
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

var sample = model.Reading{ID: "r-1", PH: 7.1, TDS: 120, Voltage: 3.25, FlowRate: 0.8, TurbineRPM: 420}

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func TestSimulatedModeAddsSuffix(t *testing.T) {
	a := NewAssessor(nil, time.Second, quiet())
	if !a.Simulated() {
		t.Fatalf("expected simulation mode")
	}

	res := a.Assess(context.Background(), sample)
	if res.Text != TextOptimal+SimulatedSuffix {
		t.Fatalf("text=%q", res.Text)
	}
	if res.Source != SourceSimulated || res.ReadingID != "r-1" || res.At.IsZero() {
		t.Fatalf("unexpected result %+v", res)
	}

	again := a.Assess(context.Background(), sample)
	if again.Text != res.Text {
		t.Fatalf("simulated assessment not idempotent: %q vs %q", again.Text, res.Text)
	}
}

func TestRemoteSuccessIsTrimmed(t *testing.T) {
	gen := &fakeGenerator{text: "  Water looks great.\n"}
	a := NewAssessor(gen, time.Second, quiet())

	res := a.Assess(context.Background(), sample)
	if res.Text != "Water looks great." || res.Source != SourceRemote {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.Contains(gen.prompt, "pH: 7.1") || !strings.Contains(gen.prompt, "Turbine RPM: 420") {
		t.Fatalf("prompt missing values: %q", gen.prompt)
	}
}

func TestRemoteFailuresFallBackWithoutSuffix(t *testing.T) {
	cases := map[string]*fakeGenerator{
		"error":      {err: errors.New("boom")},
		"empty":      {text: ""},
		"whitespace": {text: "   \n"},
		"timeout":    {text: "late", delay: time.Second},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			a := NewAssessor(gen, 20*time.Millisecond, quiet())
			res := a.Assess(context.Background(), sample)
			if res.Text != TextOptimal {
				t.Fatalf("text=%q, want %q", res.Text, TextOptimal)
			}
			if strings.HasSuffix(res.Text, SimulatedSuffix) {
				t.Fatalf("fallback carries the simulated suffix")
			}
			if res.Source != SourceFallback {
				t.Fatalf("source=%s", res.Source)
			}
			if gen.calls != 1 {
				t.Fatalf("remote called %d times", gen.calls)
			}
		})
	}
}

func TestBuildPromptFormatsNumbers(t *testing.T) {
	p := BuildPrompt(model.Reading{PH: 7.0, TDS: 99, Voltage: 2.5, FlowRate: 0.35, TurbineRPM: 300})
	for _, want := range []string{"pH: 7\n", "TDS: 99 ppm", "Voltage Generated: 2.5 V", "Flow Rate: 0.35 L/min", "AquaStep"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}
