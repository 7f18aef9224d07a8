package engine

import "github.com/hammamikhairi/vitalsvoice/internal/domain"

// Announcement thresholds. A value strictly outside [Low, High] is abnormal.
const (
	TemperatureLow  = 30.0
	TemperatureHigh = 37.5
	HeartRateLow    = 60.0
	HeartRateHigh   = 100.0
	HumidityLow     = 30.0
	HumidityHigh    = 80.0
)

// Finding is one abnormal reading.
type Finding struct {
	Metric domain.Metric
	High   bool
	Value  float64
}

// Status is a generated announcement. Abnormal is true when at least one
// reading fell outside its range; callers use it instead of inspecting Text.
type Status struct {
	Text     string
	Abnormal bool
	Findings []Finding
}

// GenerateStatus builds the status announcement for a reading. full selects
// the first-load / manual wording; otherwise the terser routine-update
// wording is used. Only the first recommendation is spoken.
func GenerateStatus(r domain.Reading, recommendations []string, full bool) Status {
	findings := Classify(r)

	if len(findings) == 0 {
		if full {
			return Status{Text: LineAllNormal()}
		}
		return Status{Text: LineReturnedToNormal()}
	}

	phrases := make([]string, 0, len(findings))
	for _, f := range findings {
		phrases = append(phrases, phrase(f))
	}

	text := prefixRoutine
	if full {
		text = prefixFull
	}
	text += joinFindings(phrases)
	if len(recommendations) > 0 {
		text += lineRecommendation(recommendations[0])
	}

	return Status{Text: text, Abnormal: true, Findings: findings}
}

// GenerateBatchStatus is GenerateStatus over the newest reading of a batch.
// It returns a zero Status (empty Text) when the batch has no readings.
func GenerateBatchStatus(b domain.Batch, full bool) Status {
	r, ok := b.Latest()
	if !ok {
		return Status{}
	}
	return GenerateStatus(r, b.Recommendations, full)
}

// Classify returns the abnormal readings in announcement order:
// temperature, heart rate, humidity.
func Classify(r domain.Reading) []Finding {
	var out []Finding
	if f, ok := outside(domain.MetricTemperature, r.Temperature, TemperatureLow, TemperatureHigh); ok {
		out = append(out, f)
	}
	if f, ok := outside(domain.MetricHeartRate, r.HeartRate, HeartRateLow, HeartRateHigh); ok {
		out = append(out, f)
	}
	if f, ok := outside(domain.MetricHumidity, r.Humidity, HumidityLow, HumidityHigh); ok {
		out = append(out, f)
	}
	return out
}

func outside(m domain.Metric, v, low, high float64) (Finding, bool) {
	switch {
	case v > high:
		return Finding{Metric: m, High: true, Value: v}, true
	case v < low:
		return Finding{Metric: m, High: false, Value: v}, true
	default:
		return Finding{}, false
	}
}

func phrase(f Finding) string {
	switch f.Metric {
	case domain.MetricTemperature:
		return lineTemperature(f.High, f.Value)
	case domain.MetricHeartRate:
		return lineHeartRate(f.High, f.Value)
	default:
		return lineHumidity(f.High, f.Value)
	}
}
