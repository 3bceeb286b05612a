package assessment

import (
	"testing"

	"github.com/LeonardoBeccarini/aquastep/internal/model"
)

func TestClassifyPrecedence(t *testing.T) {
	cases := []struct {
		name string
		r    model.Reading
		want string
	}{
		{"acid wins over tds", model.Reading{PH: 6.0, TDS: 260, Voltage: 1, FlowRate: 1}, TextAcidity},
		{"alkaline", model.Reading{PH: 8.3, TDS: 100, Voltage: 1, FlowRate: 1}, TextAlkalinity},
		{"tds wins over voltage", model.Reading{PH: 7.0, TDS: 251, Voltage: 4.9, FlowRate: 1}, TextTDSLimit},
		{"excellent", model.Reading{PH: 7.0, TDS: 100, Voltage: 5.0, FlowRate: 1.0}, TextExcellent},
		{"excellent wins over low flow", model.Reading{PH: 7.0, TDS: 100, Voltage: 4.6, FlowRate: 0.1}, TextExcellent},
		{"low flow", model.Reading{PH: 7.0, TDS: 100, Voltage: 2.0, FlowRate: 0.2}, TextLowFlow},
		{"optimal", model.Reading{PH: 7.2, TDS: 150, Voltage: 3.0, FlowRate: 0.8}, TextOptimal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.r); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyBoundariesAreExclusive(t *testing.T) {
	cases := []model.Reading{
		{PH: 6.5, TDS: 100, Voltage: 2, FlowRate: 1},
		{PH: 8.0, TDS: 100, Voltage: 2, FlowRate: 1},
		{PH: 7.0, TDS: 250, Voltage: 2, FlowRate: 1},
		{PH: 7.0, TDS: 100, Voltage: 4.5, FlowRate: 1},
		{PH: 7.0, TDS: 100, Voltage: 2, FlowRate: 0.3},
	}
	for _, r := range cases {
		if got := Classify(r); got != TextOptimal {
			t.Fatalf("%+v: got %q, want optimal", r, got)
		}
	}
}
