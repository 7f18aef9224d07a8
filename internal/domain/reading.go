package domain

// Reading is one timestamped measurement from the bedside sensor.
// Immutable once received.
type Reading struct {
	ID          string  `json:"id,omitempty"`
	Temperature float64 `json:"temperature"` // °C
	HeartRate   float64 `json:"heart_rate"`  // BPM
	Humidity    float64 `json:"humidity"`    // %
	Timestamp   string  `json:"timestamp,omitempty"`
}

// HasTimestamp reports whether the sensor supplied a timestamp.
func (r Reading) HasTimestamp() bool { return r.Timestamp != "" }

// Batch is one refresh worth of data: the readings (newest first) and the
// recommendations derived from the newest one. A new batch replaces the
// previous one wholesale.
type Batch struct {
	Readings        []Reading
	Recommendations []string
}

// Latest returns the newest reading, or false if the batch is empty.
func (b Batch) Latest() (Reading, bool) {
	if len(b.Readings) == 0 {
		return Reading{}, false
	}
	return b.Readings[0], true
}

// Metric names one of the three measured quantities.
type Metric int

const (
	MetricTemperature Metric = iota
	MetricHeartRate
	MetricHumidity
)

// String returns a human-readable metric name.
func (m Metric) String() string {
	switch m {
	case MetricTemperature:
		return "temperature"
	case MetricHeartRate:
		return "heart_rate"
	case MetricHumidity:
		return "humidity"
	default:
		return "unknown"
	}
}
