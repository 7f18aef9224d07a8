package display

import (
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/vitalsvoice/internal/dashboard"
	"github.com/hammamikhairi/vitalsvoice/internal/domain"
)

func TestFmtDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{-5 * time.Second, "0s"},
		{42 * time.Second, "42s"},
		{90 * time.Second, "1m30s"},
		{10*time.Minute + 5*time.Second, "10m05s"},
		{1400 * time.Millisecond, "1s"},
	}
	for _, tt := range tests {
		if got := fmtDuration(tt.d); got != tt.want {
			t.Errorf("fmtDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRenderBarWaiting(t *testing.T) {
	bar := renderBar(dashboard.Snapshot{}, 80, time.Now())
	if !strings.Contains(bar, "waiting for data") {
		t.Errorf("bar = %q, want waiting marker", bar)
	}
	if !strings.Contains(bar, "voice OFF") {
		t.Errorf("bar = %q, want voice OFF", bar)
	}
}

func TestRenderBarWithReading(t *testing.T) {
	now := time.Now()
	s := dashboard.Snapshot{
		Latest:       &domain.Reading{Temperature: 36.6, HeartRate: 72, Humidity: 45},
		VoiceEnabled: true,
		UpdatedAt:    now.Add(-2 * time.Minute),
		NextFetch:    now.Add(30 * time.Second),
		Alert:        "High temperature detected!",
	}
	bar := renderBar(s, 200, now)
	for _, want := range []string{"36.6°C", "72 BPM", "45%", "voice ON", "updated 2 minutes ago", "next 30s", "High temperature detected!"} {
		if !strings.Contains(bar, want) {
			t.Errorf("bar missing %q: %q", want, bar)
		}
	}
}

func TestRenderBarRefreshingAndError(t *testing.T) {
	s := dashboard.Snapshot{Refreshing: true, Error: "Error fetching data: boom"}
	bar := renderBar(s, 80, time.Now())
	if !strings.Contains(bar, "refreshing") {
		t.Errorf("bar = %q, want refreshing", bar)
	}
	if !strings.Contains(bar, "fetch error") {
		t.Errorf("bar = %q, want fetch error", bar)
	}
}

func TestTitleStr(t *testing.T) {
	if got := titleStr(dashboard.Snapshot{}); got != "VitalsVoice" {
		t.Errorf("titleStr(empty) = %q", got)
	}
	s := dashboard.Snapshot{Latest: &domain.Reading{Temperature: 37, HeartRate: 80.5, Humidity: 50}}
	if got := titleStr(s); got != "VitalsVoice | 37.0°C 80.5 BPM 50%" {
		t.Errorf("titleStr = %q", got)
	}
}

func TestRenderHistory(t *testing.T) {
	p := domain.ReadingPage{
		Readings: []domain.Reading{
			{Temperature: 36.5, HeartRate: 70, Humidity: 40, Timestamp: "2024-01-01T00:00:00Z"},
			{Temperature: 38.2, HeartRate: 110, Humidity: 85},
		},
		Page:       1,
		PerPage:    10,
		TotalPages: 3,
		Total:      22,
	}
	out := RenderHistory(p)
	for _, want := range []string{"Timestamp (IST)", "01/01/2024, 05:30:00 am", "Invalid date", "38.2", "110", "Page 1 of 3 (22 readings)"} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	out := RenderHistory(domain.ReadingPage{Page: 1, TotalPages: 1})
	if !strings.Contains(out, "No readings yet.") {
		t.Errorf("out = %q", out)
	}
}

func TestRenderAdvice(t *testing.T) {
	out := RenderAdvice([]string{"Drink water.", "Rest."})
	if !strings.Contains(out, "• Drink water.") || !strings.Contains(out, "• Rest.") {
		t.Errorf("out = %q", out)
	}
	if !strings.Contains(RenderAdvice(nil), "No recommendations") {
		t.Error("empty advice should say so")
	}
}

func TestRenderBanner(t *testing.T) {
	out := renderBanner("AB\nCD\n", "sub", 10)
	lines := strings.Split(out, "\n")
	if len(lines) < 4 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.Contains(out, "sub") {
		t.Errorf("out = %q", out)
	}
}
