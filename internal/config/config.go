// Package config loads runtime settings in three layers: built-in
// defaults, an optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"

	"github.com/hammamikhairi/vitalsvoice/internal/engine"
	"github.com/hammamikhairi/vitalsvoice/internal/speech"
	"github.com/hammamikhairi/vitalsvoice/internal/telemetry"
)

// DefaultFileName is looked up in the working directory when no file is given.
const DefaultFileName = "vitalsvoice"

// Speech backends.
const (
	BackendAzure = "azure"
	BackendPrint = "print"
	BackendOff   = "off"
)

// Config is the full runtime configuration.
type Config struct {
	Endpoint         string        `env:"VITALS_ENDPOINT"`
	PollInterval     time.Duration `env:"VITALS_POLL_INTERVAL"`
	RefreshHold      time.Duration `env:"VITALS_REFRESH_HOLD"`
	SignalEveryFetch bool          `env:"VITALS_SIGNAL_EVERY_FETCH"`
	VoiceEnabled     bool          `env:"VITALS_VOICE_ENABLED"`
	Listen           string        `env:"VITALS_LISTEN"`

	Speech   Speech
	Announce Announce
}

// Speech configures the speech backend.
type Speech struct {
	Backend           string `env:"VITALS_SPEECH_BACKEND"`
	Key               string `env:"AZURE_SPEECH_KEY"`
	Region            string `env:"AZURE_SPEECH_REGION"`
	Voice             string `env:"VITALS_SPEECH_VOICE"`
	CacheDir          string `env:"VITALS_SPEECH_CACHE_DIR"`
	DiskCache         bool   `env:"VITALS_SPEECH_DISK_CACHE"`
	RequestsPerMinute int    `env:"VITALS_SPEECH_REQUESTS_PER_MINUTE"`
}

// Announce holds the engine delays and voice preferences.
type Announce struct {
	WarmUp          time.Duration `env:"VITALS_ANNOUNCE_WARM_UP"`
	WarmUpGap       time.Duration `env:"VITALS_ANNOUNCE_WARM_UP_GAP"`
	Settle          time.Duration `env:"VITALS_ANNOUNCE_SETTLE"`
	Pacing          time.Duration `env:"VITALS_ANNOUNCE_PACING"`
	RefreshWait     time.Duration `env:"VITALS_ANNOUNCE_REFRESH_WAIT"`
	RefreshClear    time.Duration `env:"VITALS_ANNOUNCE_REFRESH_CLEAR"`
	SafetyTimeout   time.Duration `env:"VITALS_ANNOUNCE_SAFETY_TIMEOUT"`
	PreferredVoices []string      `env:"VITALS_ANNOUNCE_PREFERRED_VOICES" envSeparator:","`
	ExcludedVendors []string      `env:"VITALS_ANNOUNCE_EXCLUDED_VENDORS" envSeparator:","`
}

// Default returns the built-in configuration.
func Default() Config {
	t := engine.DefaultTimings()
	p := engine.DefaultVoicePolicy()
	return Config{
		Endpoint:         telemetry.DefaultEndpoint,
		PollInterval:     60 * time.Second,
		RefreshHold:      2 * time.Second,
		SignalEveryFetch: true,
		VoiceEnabled:     true,
		Speech: Speech{
			Backend:           BackendAzure,
			Voice:             speech.DefaultVoice,
			CacheDir:          ".vitals-cache",
			DiskCache:         true,
			RequestsPerMinute: speech.DefaultRequestsPerMinute,
		},
		Announce: Announce{
			WarmUp:          t.WarmUp,
			WarmUpGap:       t.WarmUpGap,
			Settle:          t.Settle,
			Pacing:          t.Pacing,
			RefreshWait:     t.RefreshWait,
			RefreshClear:    t.RefreshClear,
			SafetyTimeout:   t.SafetyTimeout,
			PreferredVoices: p.Preferred,
			ExcludedVendors: p.ExcludedVendors,
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty,
// DefaultFileName.yaml in the working directory is used if present.
// Environment variables win over the file.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else {
		applyFile(v, &cfg)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyFile copies every key present in the file over the defaults.
func applyFile(v *viper.Viper, cfg *Config) {
	setString(v, "endpoint", &cfg.Endpoint)
	setDuration(v, "poll_interval", &cfg.PollInterval)
	setDuration(v, "refresh_hold", &cfg.RefreshHold)
	setBool(v, "signal_every_fetch", &cfg.SignalEveryFetch)
	setBool(v, "voice_enabled", &cfg.VoiceEnabled)
	setString(v, "listen", &cfg.Listen)

	setString(v, "speech.backend", &cfg.Speech.Backend)
	setString(v, "speech.region", &cfg.Speech.Region)
	setString(v, "speech.voice", &cfg.Speech.Voice)
	setString(v, "speech.cache_dir", &cfg.Speech.CacheDir)
	setBool(v, "speech.disk_cache", &cfg.Speech.DiskCache)
	if v.IsSet("speech.requests_per_minute") {
		cfg.Speech.RequestsPerMinute = v.GetInt("speech.requests_per_minute")
	}

	a := &cfg.Announce
	setDuration(v, "announce.warm_up", &a.WarmUp)
	setDuration(v, "announce.warm_up_gap", &a.WarmUpGap)
	setDuration(v, "announce.settle", &a.Settle)
	setDuration(v, "announce.pacing", &a.Pacing)
	setDuration(v, "announce.refresh_wait", &a.RefreshWait)
	setDuration(v, "announce.refresh_clear", &a.RefreshClear)
	setDuration(v, "announce.safety_timeout", &a.SafetyTimeout)
	if v.IsSet("announce.preferred_voices") {
		a.PreferredVoices = v.GetStringSlice("announce.preferred_voices")
	}
	if v.IsSet("announce.excluded_vendors") {
		a.ExcludedVendors = v.GetStringSlice("announce.excluded_vendors")
	}
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setBool(v *viper.Viper, key string, dst *bool) {
	if v.IsSet(key) {
		*dst = v.GetBool(key)
	}
}

func setDuration(v *viper.Viper, key string, dst *time.Duration) {
	if v.IsSet(key) {
		*dst = v.GetDuration(key)
	}
}

// Validate rejects settings the application cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("config: endpoint must not be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll_interval must be positive, got %s", c.PollInterval)
	}
	switch c.Speech.Backend {
	case BackendAzure, BackendPrint, BackendOff:
	default:
		return fmt.Errorf("config: unknown speech backend %q (want azure, print or off)", c.Speech.Backend)
	}
	for name, d := range map[string]time.Duration{
		"warm_up":        c.Announce.WarmUp,
		"warm_up_gap":    c.Announce.WarmUpGap,
		"settle":         c.Announce.Settle,
		"pacing":         c.Announce.Pacing,
		"refresh_wait":   c.Announce.RefreshWait,
		"refresh_clear":  c.Announce.RefreshClear,
		"safety_timeout": c.Announce.SafetyTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("config: announce.%s must not be negative", name)
		}
	}
	return nil
}

// Timings converts the announce delays for the engine.
func (c Config) Timings() engine.Timings {
	a := c.Announce
	return engine.Timings{
		WarmUp:        a.WarmUp,
		WarmUpGap:     a.WarmUpGap,
		Settle:        a.Settle,
		Pacing:        a.Pacing,
		RefreshWait:   a.RefreshWait,
		RefreshClear:  a.RefreshClear,
		SafetyTimeout: a.SafetyTimeout,
	}
}

// VoicePolicy converts the voice preferences for the engine.
func (c Config) VoicePolicy() engine.VoicePolicy {
	return engine.VoicePolicy{
		Preferred:       c.Announce.PreferredVoices,
		ExcludedVendors: c.Announce.ExcludedVendors,
	}
}
