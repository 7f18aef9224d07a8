// Package advice turns the newest reading into care recommendations, an
// optional alert, and a per-metric severity level.
package advice

import "github.com/hammamikhairi/vitalsvoice/internal/domain"

// Recommendation thresholds. These are the dashboard's clinical ranges and
// are independent of the announcement thresholds.
const (
	TempHigh      = 37.5
	TempLow       = 35.0
	TempWarmDry   = 37.0
	HRHigh        = 100.0
	HRLow         = 60.0
	HRSignificant = HRHigh + 15
	HumidityHigh  = 80.0
	HumidityLow   = 30.0
)

// Recommendation texts.
const (
	RecTempHigh      = "High temperature detected. Monitor for fever symptoms."
	RecTempLow       = "Body temperature below normal range. Provide additional blankets and warm fluids. Monitor for shivering or discomfort."
	RecHRSignificant = "Significant heart rate elevation detected. System has sent automatic notification to attending physician. Ensure patient is resting comfortably."
	RecHRHigh        = "Heart rate elevated above resting range. Recommend rest, deep breathing, and adequate hydration. Monitor for additional symptoms."
	RecHRLow         = "Low heart rate detected. Monitor closely."
	RecHumidityHigh  = "Room humidity exceeds comfort range. Adjust climate control or use dehumidifier to improve air quality and breathing comfort."
	RecHumidityLow   = "Room humidity below optimal range. Consider room humidifier to prevent dry skin and respiratory discomfort. Encourage regular fluid intake."
	RecHotHumid      = "High temperature with elevated humidity may impact body cooling. Improve air circulation and consider cooling measures to enhance comfort."
	RecDryHeartRate  = "Elevated heart rate in dry conditions suggests possible fluid needs. Recommend increased water intake and monitor for improvement."
	RecWarmDry       = "Slightly elevated temperature in dry conditions may increase fluid requirements. Ensure adequate hydration and respiratory comfort."
	RecAllNormal     = "All vital signs within normal parameters. Continue routine monitoring per care schedule."
)

// Alert texts. Only the first one raised is kept.
const (
	AlertTempHigh      = "Warning: Patient's temperature is high."
	AlertTempLow       = "Alert: Patient's body temperature below normal range."
	AlertHRSignificant = "URGENT: Significant heart rate elevation detected. Doctor notified."
	AlertHRHigh        = "Alert: Patient's heart rate elevated."
	AlertHRLow         = "Warning: Patient's heart rate is low."
	AlertHumidityLow   = "Recommendation: Adjust room humidity for patient comfort."
	AlertDehydration   = "Alert: Possible dehydration indicators present."
)

// Advice is the outcome of evaluating one reading.
type Advice struct {
	Recommendations []string `json:"recommendations"`
	Alert           string   `json:"alert,omitempty"`
}

// Recommend evaluates r against the care rules. There is always at least
// one recommendation.
func Recommend(r domain.Reading) Advice {
	var a Advice
	add := func(rec, alert string) {
		a.Recommendations = append(a.Recommendations, rec)
		if a.Alert == "" {
			a.Alert = alert
		}
	}

	switch {
	case r.Temperature > TempHigh:
		add(RecTempHigh, AlertTempHigh)
	case r.Temperature < TempLow:
		add(RecTempLow, AlertTempLow)
	}

	switch {
	case r.HeartRate > HRSignificant:
		add(RecHRSignificant, AlertHRSignificant)
	case r.HeartRate > HRHigh:
		add(RecHRHigh, AlertHRHigh)
	case r.HeartRate < HRLow:
		add(RecHRLow, AlertHRLow)
	}

	switch {
	case r.Humidity > HumidityHigh:
		add(RecHumidityHigh, "")
	case r.Humidity < HumidityLow:
		add(RecHumidityLow, AlertHumidityLow)
	}

	if r.Humidity > HumidityHigh && r.Temperature > TempHigh {
		add(RecHotHumid, "")
	}
	if r.Humidity < HumidityLow && r.HeartRate > HRHigh {
		add(RecDryHeartRate, AlertDehydration)
	}
	if r.Humidity < HumidityLow && r.Temperature > TempWarmDry {
		add(RecWarmDry, "")
	}

	if len(a.Recommendations) == 0 {
		a.Recommendations = []string{RecAllNormal}
	}
	return a
}

// ForBatch evaluates the newest reading of readings. No readings, no advice.
func ForBatch(readings []domain.Reading) Advice {
	if len(readings) == 0 {
		return Advice{}
	}
	return Recommend(readings[0])
}
