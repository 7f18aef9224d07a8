// Package engine implements the voice announcement engine: a single actor
// that owns the speech queue and every announcement flag, fed by dashboard
// triggers over one serialized inbox.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// Compile-time interface check.
var _ domain.Announcer = (*Engine)(nil)

// Timings are the scheduling delays of the engine. SafetyTimeout is a
// backstop for a speech backend that never reports completion.
type Timings struct {
	WarmUp        time.Duration // page load -> silent warm-up line
	WarmUpGap     time.Duration // silent warm-up line -> welcome message
	Settle        time.Duration // new data -> announcement
	Pacing        time.Duration // between utterances
	RefreshWait   time.Duration // refresh signal -> fresh status
	RefreshClear  time.Duration // fresh status -> refresh no longer in flight
	SafetyTimeout time.Duration // utterance with no completion
}

// DefaultTimings returns the delays the dashboard has always used.
func DefaultTimings() Timings {
	return Timings{
		WarmUp:        1 * time.Second,
		WarmUpGap:     300 * time.Millisecond,
		Settle:        700 * time.Millisecond,
		Pacing:        200 * time.Millisecond,
		RefreshWait:   2 * time.Second,
		RefreshClear:  500 * time.Millisecond,
		SafetyTimeout: 10 * time.Second,
	}
}

// Delivery holds the fixed prosody of every announcement.
type Delivery struct {
	Locale string
	Rate   float64
	Pitch  float64
	Volume float64
}

// DefaultDelivery is a little faster than natural, natural pitch, full volume.
func DefaultDelivery() Delivery {
	return Delivery{Locale: "en-US", Rate: 1.2, Pitch: 1.0, Volume: 1.0}
}

// Option configures the engine.
type Option func(*Engine)

// WithTimings replaces the scheduling delays.
func WithTimings(t Timings) Option {
	return func(e *Engine) {
		e.timings = t
	}
}

// WithVoicePolicy replaces the voice preference list and vendor exclusions.
func WithVoicePolicy(p VoicePolicy) Option {
	return func(e *Engine) {
		e.voicePolicy = p
	}
}

// WithDelivery replaces the prosody used for announcements.
func WithDelivery(d Delivery) Option {
	return func(e *Engine) {
		e.delivery = d
	}
}

// WithInboxSize sets the trigger inbox capacity.
func WithInboxSize(n int) Option {
	return func(e *Engine) {
		e.inbox = make(chan message, n)
	}
}

// State is a copy of the engine's flags, for inspection.
type State struct {
	Available       bool     `json:"available"`
	Enabled         bool     `json:"enabled"`
	Speaking        bool     `json:"speaking"`
	Queue           []string `json:"queue"`
	LastSpoken      string   `json:"last_spoken"`
	LastSignature   string   `json:"last_signature"`
	FirstLoadDone   bool     `json:"first_load_done"`
	DataEverLoaded  bool     `json:"data_ever_loaded"`
	RefreshInFlight bool     `json:"refresh_in_flight"`
	Utterances      uint64   `json:"utterances"`
}

// Engine serializes all announcement decisions. Triggers are posted to an
// inbox and applied one at a time by Run; nothing else touches the state
// below. A nil speaker means the backend is unavailable: triggers are still
// accepted but nothing is ever queued or spoken.
type Engine struct {
	speaker     domain.Speaker
	log         *logger.Logger
	timings     Timings
	voicePolicy VoicePolicy
	delivery    Delivery

	inbox    chan message
	done     chan struct{}
	runOnce  sync.Once
	startMu  sync.Mutex
	started  bool
	runCtx   context.Context
	safety   *time.Timer
	utterSeq uint64 // id of the newest utterance started

	// actor-owned state
	available         bool
	enabled           bool
	enabledKnown      bool // false until the first SetEnabled
	speaking          bool
	queue             []string
	lastSpoken        string
	lastSignature     string
	greetingScheduled bool
	firstLoadDone     bool
	dataEverLoaded    bool
	refreshInFlight   bool
	refreshRaised     bool
	manualSeen        uint64
	settleGen         uint64
	refreshGen        uint64
	latest            domain.Batch
}

// New creates an announcement engine speaking through speaker, which may
// be nil when no speech backend could be initialized.
func New(speaker domain.Speaker, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		speaker:     speaker,
		log:         log,
		timings:     DefaultTimings(),
		voicePolicy: DefaultVoicePolicy(),
		delivery:    DefaultDelivery(),
		inbox:       make(chan message, 64),
		done:        make(chan struct{}),
		available:   speaker != nil,
		runCtx:      context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start runs the engine in a background goroutine. Non-blocking.
func (e *Engine) Start(ctx context.Context) {
	e.startMu.Lock()
	defer e.startMu.Unlock()
	if e.started {
		e.log.Warn("announcement engine already running")
		return
	}
	e.started = true
	go e.Run(ctx)
}

// Run processes triggers until ctx is cancelled. Blocks.
func (e *Engine) Run(ctx context.Context) {
	e.runOnce.Do(func() {
		e.runCtx = ctx
		defer close(e.done)

		if !e.available {
			e.log.Warn("engine: speech backend unavailable, announcements disabled")
		}
		e.log.Info("announcement engine started")

		for {
			select {
			case <-ctx.Done():
				e.shutdown()
				e.log.Info("announcement engine stopped")
				return
			case m := <-e.inbox:
				e.handle(m)
			}
		}
	})
}

// Done is closed once Run has returned.
func (e *Engine) Done() <-chan struct{} { return e.done }

// SetEnabled reports the current value of the voice toggle. The first call
// records the initial value; later calls react to changes only.
func (e *Engine) SetEnabled(enabled bool) { e.send(enabledChanged{enabled: enabled}) }

// DataArrived hands the engine a fresh reading batch.
func (e *Engine) DataArrived(batch domain.Batch) { e.send(dataArrived{batch: batch}) }

// ManualRead reports the manual-read request counter. Only increments
// produce an announcement.
func (e *Engine) ManualRead(count uint64) { e.send(manualRequested{count: count}) }

// RefreshSignal reports the refresh-in-progress pulse. The engine reacts
// to the rising edge.
func (e *Engine) RefreshSignal(raised bool) { e.send(refreshSignaled{raised: raised}) }

// Snapshot returns a copy of the engine state. It returns a zero State
// once the engine has stopped.
func (e *Engine) Snapshot() State {
	reply := make(chan State, 1)
	e.send(snapshotRequest{reply: reply})
	select {
	case s := <-reply:
		return s
	case <-e.done:
		return State{}
	}
}

// send posts a message to the inbox. It never blocks once the engine has
// stopped.
func (e *Engine) send(m message) {
	select {
	case e.inbox <- m:
	case <-e.done:
	}
}

// after posts m to the inbox once d has elapsed.
func (e *Engine) after(d time.Duration, m message) *time.Timer {
	return time.AfterFunc(d, func() { e.send(m) })
}

func (e *Engine) state() State {
	return State{
		Available:       e.available,
		Enabled:         e.enabled,
		Speaking:        e.speaking,
		Queue:           append([]string(nil), e.queue...),
		LastSpoken:      e.lastSpoken,
		LastSignature:   e.lastSignature,
		FirstLoadDone:   e.firstLoadDone,
		DataEverLoaded:  e.dataEverLoaded,
		RefreshInFlight: e.refreshInFlight,
		Utterances:      e.utterSeq,
	}
}

func (e *Engine) shutdown() {
	if e.safety != nil {
		e.safety.Stop()
	}
	e.queue = nil
	if e.speaking && e.speaker != nil {
		e.speaker.Cancel()
	}
}
