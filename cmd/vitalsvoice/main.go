// VitalsVoice reads a bedside health monitor aloud.
//
// Usage:
//
//	vitalsvoice [-verbose] [-quiet] [-config file] [-speech azure|print|off] [-listen addr]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/vitalsvoice/internal/config"
	"github.com/hammamikhairi/vitalsvoice/internal/conversation"
	"github.com/hammamikhairi/vitalsvoice/internal/dashboard"
	"github.com/hammamikhairi/vitalsvoice/internal/display"
	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/engine"
	"github.com/hammamikhairi/vitalsvoice/internal/httpapi"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
	"github.com/hammamikhairi/vitalsvoice/internal/speech"
	"github.com/hammamikhairi/vitalsvoice/internal/storage"
	"github.com/hammamikhairi/vitalsvoice/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".vitals-logs/vitals.log", "file to write logs to (use \"stderr\" to log to console)")
	configFile := flag.String("config", "", "YAML config file (default ./vitalsvoice.yaml when present)")
	backend := flag.String("speech", "", "speech backend: azure, print or off (overrides config)")
	listen := flag.String("listen", "", "serve the HTTP API on this address, e.g. :8080 (overrides config)")
	flag.Parse()

	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Logs go to a file by default so the dashboard stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// The audio backend and net/http log through the stdlib logger.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *backend != "" {
		cfg.Speech.Backend = *backend
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire dependencies.
	store := storage.NewMemoryStore(log)
	parser := conversation.NewKeywordParser(log)

	var dash *dashboard.Dashboard
	ui := display.NewUI(snapshotFunc(func() dashboard.Snapshot { return dash.Snapshot() }))
	notifier := conversation.NewCLINotifier(log, ui.Printf)

	speaker := buildSpeaker(ctx, cfg, ui, log)

	eng := engine.New(speaker, log.WithPrefix("engine"),
		engine.WithTimings(cfg.Timings()),
		engine.WithVoicePolicy(cfg.VoicePolicy()),
	)

	dash = dashboard.New(store, eng, notifier, log,
		dashboard.WithRefreshHold(cfg.RefreshHold),
		dashboard.WithSignalEveryFetch(cfg.SignalEveryFetch),
		dashboard.WithVoiceEnabled(cfg.VoiceEnabled),
	)

	client := telemetry.NewClient(cfg.Endpoint, log)
	poller := telemetry.NewPoller(client, dash, log, telemetry.WithInterval(cfg.PollInterval))
	dash.SetRefresher(poller)

	eng.Start(ctx)
	dash.Start()
	poller.Start(ctx)
	defer poller.Stop()

	if cfg.Listen != "" {
		httpapi.NewListener(cfg.Listen, httpapi.NewServer(dash, log), log).Start(ctx)
	}

	app := &cliApp{
		dash:    dash,
		parser:  parser,
		log:     log,
		ui:      ui,
		perPage: storage.DefaultPerPage,
	}

	fmt.Println(display.RenderBanner("Monitoring " + client.Endpoint()))
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	<-eng.Done()
}

// buildSpeaker returns the configured speech backend, or nil when speech
// is off or could not be initialised.
func buildSpeaker(ctx context.Context, cfg config.Config, ui *display.UI, log *logger.Logger) domain.Speaker {
	switch cfg.Speech.Backend {
	case config.BackendOff:
		log.Info("speech disabled by configuration")
		return nil

	case config.BackendPrint:
		log.Info("speech printed to the terminal")
		return speech.NewPrinter(ui.PrintSpoken, log)
	}

	if cfg.Speech.Key == "" || cfg.Speech.Region == "" {
		log.Info("speech disabled: set %s and %s env vars to enable", speech.EnvAzureSpeechKey, speech.EnvAzureSpeechRegion)
		return nil
	}

	player, err := speech.NewPlayer(log)
	if err != nil {
		log.Error("audio player init failed, speech disabled: %v", err)
		return nil
	}

	tts := speech.NewAzureClient(cfg.Speech.Key, cfg.Speech.Region, log,
		speech.WithVoice(cfg.Speech.Voice),
		speech.WithRequestsPerMinute(cfg.Speech.RequestsPerMinute),
	)
	mouth := speech.NewMouth(tts, player, log.WithPrefix("speech"),
		speech.WithCacheDir(cfg.Speech.CacheDir),
		speech.WithDiskWrite(cfg.Speech.DiskCache),
	)
	mouth.Start(ctx)
	mouth.Prefetch(ctx, fixedLines()...)

	log.Info("TTS enabled (voice=%s, region=%s)", cfg.Speech.Voice, cfg.Speech.Region)
	return mouth
}

// fixedLines are the announcements whose text never changes.
func fixedLines() []domain.Utterance {
	d := engine.DefaultDelivery()
	texts := []string{
		engine.LineWelcome(),
		engine.LineVoiceInitialized(),
		engine.LineRefreshing(),
		engine.LineAllNormal(),
		engine.LineReturnedToNormal(),
	}
	out := make([]domain.Utterance, len(texts))
	for i, t := range texts {
		out[i] = domain.Utterance{
			Text:   t,
			Locale: d.Locale,
			Rate:   d.Rate,
			Pitch:  d.Pitch,
			Volume: d.Volume,
		}
	}
	return out
}

type snapshotFunc func() dashboard.Snapshot

func (f snapshotFunc) Snapshot() dashboard.Snapshot { return f() }
