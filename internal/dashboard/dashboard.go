// Package dashboard holds the monitoring session: the current readings and
// advice, the voice toggle, the manual-read counter and the refresh pulse.
// It turns poller results and user actions into announcement triggers.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hammamikhairi/vitalsvoice/internal/advice"
	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/export"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// Refresher triggers out-of-band fetches.
type Refresher interface {
	Refresh()
	NextFetch() time.Time
}

// Option configures the dashboard.
type Option func(*Dashboard)

// WithRefreshHold sets how long the refresh signal stays raised.
func WithRefreshHold(hold time.Duration) Option {
	return func(d *Dashboard) {
		d.refreshHold = hold
	}
}

// WithSignalEveryFetch raises the refresh signal on scheduled polls too,
// not only on user-requested refreshes.
func WithSignalEveryFetch(on bool) Option {
	return func(d *Dashboard) {
		d.signalEveryFetch = on
	}
}

// WithVoiceEnabled sets the initial voice toggle.
func WithVoiceEnabled(on bool) Option {
	return func(d *Dashboard) {
		d.voiceEnabled = on
	}
}

// WithExporter replaces the CSV exporter.
func WithExporter(e domain.Exporter) Option {
	return func(d *Dashboard) {
		d.exporter = e
	}
}

// Snapshot is a point-in-time view of the dashboard.
type Snapshot struct {
	Latest          *domain.Reading `json:"latest,omitempty"`
	Total           int             `json:"total"`
	VoiceEnabled    bool            `json:"voice_enabled"`
	Refreshing      bool            `json:"refreshing"`
	Error           string          `json:"error,omitempty"`
	Alert           string          `json:"alert,omitempty"`
	Recommendations []string        `json:"recommendations"`
	ReadRequests    uint64          `json:"read_requests"`
	UpdatedAt       time.Time       `json:"updated_at"`
	NextFetch       time.Time       `json:"next_fetch"`
}

// Dashboard is safe for concurrent use.
type Dashboard struct {
	store     domain.ReadingStore
	announcer domain.Announcer
	notifier  domain.Notifier
	exporter  domain.Exporter
	log       *logger.Logger

	refreshHold      time.Duration
	signalEveryFetch bool

	mu           sync.Mutex
	refresher    Refresher
	voiceEnabled bool
	manualCount  uint64
	refreshing   bool
	pulseGen     uint64
	lastErr      string
	updatedAt    time.Time
	latest       *domain.Reading
	total        int
	advice       advice.Advice
}

// New creates a dashboard session.
func New(store domain.ReadingStore, announcer domain.Announcer, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Dashboard {
	d := &Dashboard{
		store:            store,
		announcer:        announcer,
		notifier:         notifier,
		exporter:         export.CSV{},
		log:              log,
		refreshHold:      2 * time.Second,
		signalEveryFetch: true,
		voiceEnabled:     true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetRefresher attaches the poller used by Refresh and for NextFetch.
func (d *Dashboard) SetRefresher(r Refresher) {
	d.mu.Lock()
	d.refresher = r
	d.mu.Unlock()
}

// Start reports the initial voice toggle to the announcer.
func (d *Dashboard) Start() {
	d.mu.Lock()
	on := d.voiceEnabled
	d.mu.Unlock()

	d.announcer.SetEnabled(on)
	d.log.Info("dashboard started (voice=%v)", on)
}

// OnFetchStart marks a fetch in progress and pulses the refresh signal.
func (d *Dashboard) OnFetchStart(ctx context.Context, requested bool) {
	d.mu.Lock()
	d.refreshing = true
	pulse := d.signalEveryFetch || requested
	var gen uint64
	if pulse {
		d.pulseGen++
		gen = d.pulseGen
	}
	d.mu.Unlock()

	if !pulse {
		return
	}

	d.announcer.RefreshSignal(true)
	time.AfterFunc(d.refreshHold, func() {
		d.mu.Lock()
		current := gen == d.pulseGen
		d.mu.Unlock()
		if current {
			d.announcer.RefreshSignal(false)
		}
	})
}

// OnBatch replaces the readings, recomputes advice and hands the batch to
// the announcer.
func (d *Dashboard) OnBatch(ctx context.Context, readings []domain.Reading) {
	if err := d.store.Replace(ctx, readings); err != nil {
		d.log.Error("dashboard: storing readings: %v", err)
	}

	adv := advice.ForBatch(readings)

	d.mu.Lock()
	prevAlert := d.advice.Alert
	d.advice = adv
	d.lastErr = ""
	d.refreshing = false
	d.updatedAt = time.Now()
	d.total = len(readings)
	d.latest = nil
	if len(readings) > 0 {
		r := readings[0]
		d.latest = &r
	}
	d.mu.Unlock()

	if adv.Alert != "" && adv.Alert != prevAlert {
		if err := d.notifier.NotifyUrgent(ctx, adv.Alert); err != nil {
			d.log.Error("dashboard: alert notify: %v", err)
		}
	}

	d.announcer.DataArrived(domain.Batch{
		Readings:        readings,
		Recommendations: adv.Recommendations,
	})
}

// OnError records a failed fetch and tells the user.
func (d *Dashboard) OnError(ctx context.Context, err error) {
	msg := "Error fetching data: " + err.Error()

	d.mu.Lock()
	d.lastErr = msg
	d.refreshing = false
	d.mu.Unlock()

	if nerr := d.notifier.NotifyUrgent(ctx, msg); nerr != nil {
		d.log.Error("dashboard: error notify: %v", nerr)
	}
}

// SetVoice turns announcements on or off.
func (d *Dashboard) SetVoice(on bool) {
	d.mu.Lock()
	d.voiceEnabled = on
	d.mu.Unlock()

	d.announcer.SetEnabled(on)
	d.log.Info("dashboard: voice %s", onOff(on))
}

// ToggleVoice flips the voice toggle and returns the new value.
func (d *Dashboard) ToggleVoice() bool {
	d.mu.Lock()
	d.voiceEnabled = !d.voiceEnabled
	on := d.voiceEnabled
	d.mu.Unlock()

	d.announcer.SetEnabled(on)
	d.log.Info("dashboard: voice %s", onOff(on))
	return on
}

// ReadAloud requests a full status announcement of the current data.
// It returns the new request count.
func (d *Dashboard) ReadAloud() uint64 {
	d.mu.Lock()
	d.manualCount++
	n := d.manualCount
	d.mu.Unlock()

	d.announcer.ManualRead(n)
	return n
}

// Refresh asks the poller for an immediate fetch.
func (d *Dashboard) Refresh() {
	d.mu.Lock()
	r := d.refresher
	d.mu.Unlock()

	if r == nil {
		d.log.Warn("dashboard: refresh requested but no poller attached")
		return
	}
	r.Refresh()
}

// Snapshot returns the current dashboard view.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Snapshot{
		Total:           d.total,
		VoiceEnabled:    d.voiceEnabled,
		Refreshing:      d.refreshing,
		Error:           d.lastErr,
		Alert:           d.advice.Alert,
		Recommendations: append([]string(nil), d.advice.Recommendations...),
		ReadRequests:    d.manualCount,
		UpdatedAt:       d.updatedAt,
	}
	if d.latest != nil {
		r := *d.latest
		s.Latest = &r
	}
	if d.refresher != nil {
		s.NextFetch = d.refresher.NextFetch()
	}
	return s
}

// Page returns one page of the reading history.
func (d *Dashboard) Page(ctx context.Context, page, perPage int) (domain.ReadingPage, error) {
	return d.store.Page(ctx, page, perPage)
}

// ExportCSV writes every stored reading to w.
func (d *Dashboard) ExportCSV(ctx context.Context, w io.Writer) error {
	readings, err := d.store.All(ctx)
	if err != nil {
		return fmt.Errorf("loading readings: %w", err)
	}
	if len(readings) == 0 {
		return domain.ErrNoReadings
	}
	return d.exporter.Export(w, readings)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
