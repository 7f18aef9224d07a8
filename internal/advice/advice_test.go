package advice

import (
	"testing"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
)

func TestRecommend(t *testing.T) {
	tests := []struct {
		name      string
		reading   domain.Reading
		wantRecs  []string
		wantAlert string
	}{
		{
			name:     "all normal",
			reading:  domain.Reading{Temperature: 36.6, HeartRate: 72, Humidity: 45},
			wantRecs: []string{RecAllNormal},
		},
		{
			name:      "fever",
			reading:   domain.Reading{Temperature: 38.0, HeartRate: 80, Humidity: 45},
			wantRecs:  []string{RecTempHigh},
			wantAlert: AlertTempHigh,
		},
		{
			name:      "significant heart rate wins over elevated",
			reading:   domain.Reading{Temperature: 36.6, HeartRate: 120, Humidity: 45},
			wantRecs:  []string{RecHRSignificant},
			wantAlert: AlertHRSignificant,
		},
		{
			name:      "first alert is kept",
			reading:   domain.Reading{Temperature: 34.5, HeartRate: 55, Humidity: 45},
			wantRecs:  []string{RecTempLow, RecHRLow},
			wantAlert: AlertTempLow,
		},
		{
			name:      "hot and humid alerts on temperature",
			reading:   domain.Reading{Temperature: 37.6, HeartRate: 80, Humidity: 85},
			wantRecs:  []string{RecTempHigh, RecHumidityHigh, RecHotHumid},
			wantAlert: AlertTempHigh,
		},
		{
			name:      "dry with elevated heart rate and warm",
			reading:   domain.Reading{Temperature: 37.2, HeartRate: 105, Humidity: 25},
			wantRecs:  []string{RecHRHigh, RecHumidityLow, RecDryHeartRate, RecWarmDry},
			wantAlert: AlertHRHigh,
		},
		{
			name:      "dry only",
			reading:   domain.Reading{Temperature: 36.6, HeartRate: 72, Humidity: 20},
			wantRecs:  []string{RecHumidityLow},
			wantAlert: AlertHumidityLow,
		},
		{
			name:     "humid only has no alert",
			reading:  domain.Reading{Temperature: 36.6, HeartRate: 72, Humidity: 95},
			wantRecs: []string{RecHumidityHigh},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.reading)
			if len(got.Recommendations) != len(tt.wantRecs) {
				t.Fatalf("recommendations = %q, want %q", got.Recommendations, tt.wantRecs)
			}
			for i := range tt.wantRecs {
				if got.Recommendations[i] != tt.wantRecs[i] {
					t.Fatalf("recommendation %d = %q, want %q", i, got.Recommendations[i], tt.wantRecs[i])
				}
			}
			if got.Alert != tt.wantAlert {
				t.Fatalf("alert = %q, want %q", got.Alert, tt.wantAlert)
			}
		})
	}
}

func TestForBatchEmpty(t *testing.T) {
	if a := ForBatch(nil); len(a.Recommendations) != 0 || a.Alert != "" {
		t.Fatalf("expected no advice, got %+v", a)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		metric domain.Metric
		value  float64
		want   Level
	}{
		{domain.MetricTemperature, 36.6, LevelNormal},
		{domain.MetricTemperature, 37.5, LevelNormal},
		{domain.MetricTemperature, 37.6, LevelHigh},
		{domain.MetricTemperature, 38.5, LevelCriticalHigh},
		{domain.MetricTemperature, 34.5, LevelLow},
		{domain.MetricTemperature, 33.9, LevelCriticalLow},
		{domain.MetricHeartRate, 120, LevelCriticalHigh},
		{domain.MetricHeartRate, 101, LevelHigh},
		{domain.MetricHeartRate, 50, LevelLow},
		{domain.MetricHeartRate, 49, LevelCriticalLow},
		{domain.MetricHumidity, 90, LevelCriticalHigh},
		{domain.MetricHumidity, 25, LevelLow},
		{domain.MetricHumidity, 19, LevelCriticalLow},
	}

	for _, tt := range tests {
		if got := Classify(tt.metric, tt.value); got != tt.want {
			t.Errorf("Classify(%s, %v) = %s, want %s", tt.metric, tt.value, got, tt.want)
		}
	}
}
