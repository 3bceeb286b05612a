package assessment

import "github.com/LeonardoBeccarini/aquastep/internal/model"

// Rule thresholds, checked in this order.
const (
	phAcidBelow      = 6.5
	phAlkalineAbove  = 8.0
	tdsWarnAbove     = 250
	voltageHighAbove = 4.5
	flowLowBelow     = 0.3
)

const (
	TextAcidity    = "Alert: Acidity levels detected; checking pH neutralization stage."
	TextAlkalinity = "Alert: Alkalinity high; optimizing filtration balance."
	TextTDSLimit   = "Warning: TDS nearing limit; membrane maintenance recommended soon."
	TextExcellent  = "Performance Excellent: Turbine generation exceeding expected efficiency."
	TextLowFlow    = "Notice: Low flow rate detected; system in conservation mode."
	TextOptimal    = "System Optimal: Water quality parameters and energy generation are within target ranges."
)

// Classify is the local rule-based assessment. The first matching rule wins.
func Classify(r model.Reading) string {
	switch {
	case r.PH < phAcidBelow:
		return TextAcidity
	case r.PH > phAlkalineAbove:
		return TextAlkalinity
	case r.TDS > tdsWarnAbove:
		return TextTDSLimit
	case r.Voltage > voltageHighAbove:
		return TextExcellent
	case r.FlowRate < flowLowBelow:
		return TextLowFlow
	default:
		return TextOptimal
	}
}
