package advice

import "github.com/hammamikhairi/vitalsvoice/internal/domain"

// Level is the severity of a single measurement.
type Level int

const (
	LevelNormal Level = iota
	LevelLow
	LevelHigh
	LevelCriticalLow
	LevelCriticalHigh
)

// String returns a human-readable level.
func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelHigh:
		return "high"
	case LevelCriticalLow:
		return "critical-low"
	case LevelCriticalHigh:
		return "critical-high"
	default:
		return "normal"
	}
}

// Critical thresholds. Critical-high is inclusive, critical-low strict.
const (
	TempCriticalHigh     = 38.5
	TempCriticalLow      = 34.0
	HRCriticalHigh       = 120.0
	HRCriticalLow        = 50.0
	HumidityCriticalHigh = 90.0
	HumidityCriticalLow  = 20.0
)

type bands struct {
	critLow, low, high, critHigh float64
}

var metricBands = map[domain.Metric]bands{
	domain.MetricTemperature: {TempCriticalLow, TempLow, TempHigh, TempCriticalHigh},
	domain.MetricHeartRate:   {HRCriticalLow, HRLow, HRHigh, HRCriticalHigh},
	domain.MetricHumidity:    {HumidityCriticalLow, HumidityLow, HumidityHigh, HumidityCriticalHigh},
}

// Classify returns the severity of value for metric.
func Classify(m domain.Metric, value float64) Level {
	b, ok := metricBands[m]
	if !ok {
		return LevelNormal
	}
	switch {
	case value >= b.critHigh:
		return LevelCriticalHigh
	case value > b.high:
		return LevelHigh
	case value < b.critLow:
		return LevelCriticalLow
	case value < b.low:
		return LevelLow
	default:
		return LevelNormal
	}
}
