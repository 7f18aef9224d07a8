package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/vitalsvoice/internal/engine"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollInterval != time.Minute || cfg.RefreshHold != 2*time.Second {
		t.Errorf("intervals = %v / %v", cfg.PollInterval, cfg.RefreshHold)
	}
	if !cfg.SignalEveryFetch || !cfg.VoiceEnabled {
		t.Error("signal_every_fetch and voice_enabled should default to true")
	}
	if cfg.Speech.Backend != BackendAzure {
		t.Errorf("backend = %q", cfg.Speech.Backend)
	}
	if cfg.Timings() != engine.DefaultTimings() {
		t.Errorf("timings = %+v", cfg.Timings())
	}
	if len(cfg.VoicePolicy().Preferred) == 0 {
		t.Error("preferred voices should not be empty by default")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "custom.yaml", `
endpoint: http://localhost:9000/data
poll_interval: 15s
signal_every_fetch: false
listen: ":8080"
speech:
  backend: print
  requests_per_minute: 5
announce:
  settle: 1s
  preferred_voices:
    - en-GB-SoniaNeural
`)

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "http://localhost:9000/data" {
		t.Errorf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.PollInterval != 15*time.Second {
		t.Errorf("poll_interval = %v", cfg.PollInterval)
	}
	if cfg.SignalEveryFetch {
		t.Error("signal_every_fetch should be false")
	}
	if cfg.Listen != ":8080" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if cfg.Speech.Backend != BackendPrint || cfg.Speech.RequestsPerMinute != 5 {
		t.Errorf("speech = %+v", cfg.Speech)
	}
	if cfg.Announce.Settle != time.Second {
		t.Errorf("settle = %v", cfg.Announce.Settle)
	}
	if cfg.Announce.Pacing != engine.DefaultTimings().Pacing {
		t.Errorf("unset pacing changed to %v", cfg.Announce.Pacing)
	}
	if got := cfg.Announce.PreferredVoices; len(got) != 1 || got[0] != "en-GB-SoniaNeural" {
		t.Errorf("preferred = %v", got)
	}
}

func TestDefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vitalsvoice.yaml", "voice_enabled: false\n")
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.VoiceEnabled {
		t.Error("voice_enabled from vitalsvoice.yaml was ignored")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "c.yaml", "poll_interval: 15s\nspeech:\n  backend: print\n")

	t.Setenv("VITALS_POLL_INTERVAL", "30s")
	t.Setenv("AZURE_SPEECH_KEY", "secret")
	t.Setenv("AZURE_SPEECH_REGION", "westeurope")
	t.Setenv("VITALS_ANNOUNCE_EXCLUDED_VENDORS", "google,amazon")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("poll_interval = %v, want env value", cfg.PollInterval)
	}
	if cfg.Speech.Backend != BackendPrint {
		t.Errorf("backend = %q, want file value", cfg.Speech.Backend)
	}
	if cfg.Speech.Key != "secret" || cfg.Speech.Region != "westeurope" {
		t.Errorf("speech = %+v", cfg.Speech)
	}
	if got := cfg.Announce.ExcludedVendors; len(got) != 2 || got[1] != "amazon" {
		t.Errorf("excluded = %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("explicit missing file should fail")
	}

	p := writeFile(t, dir, "bad.yaml", "speech:\n  backend: carrier-pigeon\n")
	_, err := Load(p)
	if err == nil || !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Errorf("err = %v, want unknown backend", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty endpoint", func(c *Config) { c.Endpoint = " " }},
		{"zero poll", func(c *Config) { c.PollInterval = 0 }},
		{"negative settle", func(c *Config) { c.Announce.Settle = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}
