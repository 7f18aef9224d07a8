package dashboard

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/vitalsvoice/internal/advice"
	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
	"github.com/hammamikhairi/vitalsvoice/internal/storage"
)

// mockAnnouncer records every trigger.
type mockAnnouncer struct {
	mu      sync.Mutex
	enabled []bool
	batches []domain.Batch
	manual  []uint64
	signals []bool
}

func (m *mockAnnouncer) SetEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = append(m.enabled, on)
}

func (m *mockAnnouncer) DataArrived(b domain.Batch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, b)
}

func (m *mockAnnouncer) ManualRead(n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manual = append(m.manual, n)
}

func (m *mockAnnouncer) RefreshSignal(raised bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals = append(m.signals, raised)
}

func (m *mockAnnouncer) signalLog() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.signals...)
}

// mockNotifier collects notifications for testing.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	urgent   []string
}

func (m *mockNotifier) Notify(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockNotifier) NotifyUrgent(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urgent = append(m.urgent, msg)
	return nil
}

type mockRefresher struct {
	mu    sync.Mutex
	calls int
	next  time.Time
}

func (m *mockRefresher) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
}

func (m *mockRefresher) NextFetch() time.Time { return m.next }

func newTestDashboard(opts ...Option) (*Dashboard, *mockAnnouncer, *mockNotifier) {
	log := logger.New(logger.LevelOff, nil)
	ann := &mockAnnouncer{}
	notif := &mockNotifier{}
	return New(storage.NewMemoryStore(log), ann, notif, log, opts...), ann, notif
}

func TestStartReportsInitialVoice(t *testing.T) {
	d, ann, _ := newTestDashboard(WithVoiceEnabled(false))
	d.Start()

	if len(ann.enabled) != 1 || ann.enabled[0] {
		t.Fatalf("enabled reports = %v", ann.enabled)
	}
}

func TestFetchStartPulsesRefreshSignal(t *testing.T) {
	d, ann, _ := newTestDashboard(WithRefreshHold(10 * time.Millisecond))

	d.OnFetchStart(context.Background(), false)
	if !d.Snapshot().Refreshing {
		t.Fatal("dashboard should be refreshing")
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(ann.signalLog()) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("signal never lowered: %v", ann.signalLog())
		}
		time.Sleep(2 * time.Millisecond)
	}
	if got := ann.signalLog(); !got[0] || got[1] {
		t.Fatalf("signals = %v, want [true false]", got)
	}
}

func TestScheduledFetchWithoutSignal(t *testing.T) {
	d, ann, _ := newTestDashboard(WithSignalEveryFetch(false), WithRefreshHold(time.Millisecond))

	d.OnFetchStart(context.Background(), false)
	time.Sleep(20 * time.Millisecond)
	if got := ann.signalLog(); len(got) != 0 {
		t.Fatalf("scheduled fetch should not signal, got %v", got)
	}

	d.OnFetchStart(context.Background(), true)
	if got := ann.signalLog(); len(got) == 0 || !got[0] {
		t.Fatalf("requested fetch should signal, got %v", got)
	}
}

func TestOverlappingPulsesLowerOnce(t *testing.T) {
	d, ann, _ := newTestDashboard(WithRefreshHold(30 * time.Millisecond))
	ctx := context.Background()

	d.OnFetchStart(ctx, false)
	time.Sleep(10 * time.Millisecond)
	d.OnFetchStart(ctx, true)
	time.Sleep(80 * time.Millisecond)

	got := ann.signalLog()
	want := []bool{true, true, false}
	if len(got) != len(want) {
		t.Fatalf("signals = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("signals = %v, want %v", got, want)
		}
	}
}

func TestOnBatchForwardsDataAndAdvice(t *testing.T) {
	d, ann, notif := newTestDashboard()
	ctx := context.Background()

	readings := []domain.Reading{
		{ID: "2", Temperature: 38.0, HeartRate: 80, Humidity: 45, Timestamp: "2025-04-20T10:01:00"},
		{ID: "1", Temperature: 36.6, HeartRate: 72, Humidity: 45, Timestamp: "2025-04-20T10:00:00"},
	}
	d.OnBatch(ctx, readings)

	if len(ann.batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(ann.batches))
	}
	b := ann.batches[0]
	if len(b.Readings) != 2 || b.Recommendations[0] != advice.RecTempHigh {
		t.Fatalf("unexpected batch %+v", b)
	}

	s := d.Snapshot()
	if s.Latest == nil || s.Latest.ID != "2" || s.Total != 2 || s.Refreshing || s.UpdatedAt.IsZero() {
		t.Fatalf("unexpected snapshot %+v", s)
	}
	if s.Alert != advice.AlertTempHigh {
		t.Fatalf("alert = %q", s.Alert)
	}
	if len(notif.urgent) != 1 || notif.urgent[0] != advice.AlertTempHigh {
		t.Fatalf("urgent = %v", notif.urgent)
	}

	// Same alert again is not repeated.
	d.OnBatch(ctx, readings)
	if len(notif.urgent) != 1 {
		t.Fatalf("alert repeated: %v", notif.urgent)
	}
}

func TestOnErrorKeepsReadings(t *testing.T) {
	d, _, notif := newTestDashboard()
	ctx := context.Background()

	d.OnBatch(ctx, []domain.Reading{{ID: "1", Temperature: 36.6, HeartRate: 72, Humidity: 45}})
	d.OnError(ctx, errors.New("failed to fetch data: 503 Service Unavailable"))

	s := d.Snapshot()
	if s.Error != "Error fetching data: failed to fetch data: 503 Service Unavailable" {
		t.Fatalf("error = %q", s.Error)
	}
	if s.Latest == nil {
		t.Fatal("previous readings should remain after an error")
	}
	if len(notif.urgent) != 1 || !strings.HasPrefix(notif.urgent[0], "Error fetching data:") {
		t.Fatalf("urgent = %v", notif.urgent)
	}

	d.OnBatch(ctx, []domain.Reading{{ID: "2", Temperature: 36.6, HeartRate: 72, Humidity: 45}})
	if d.Snapshot().Error != "" {
		t.Fatal("a good batch should clear the error")
	}
}

func TestVoiceAndReadAloud(t *testing.T) {
	d, ann, _ := newTestDashboard()

	d.SetVoice(false)
	if on := d.ToggleVoice(); !on {
		t.Fatal("toggle should turn voice back on")
	}
	if len(ann.enabled) != 2 || ann.enabled[0] || !ann.enabled[1] {
		t.Fatalf("enabled reports = %v", ann.enabled)
	}

	d.ReadAloud()
	if n := d.ReadAloud(); n != 2 {
		t.Fatalf("read count = %d", n)
	}
	if len(ann.manual) != 2 || ann.manual[0] != 1 || ann.manual[1] != 2 {
		t.Fatalf("manual = %v", ann.manual)
	}
	if d.Snapshot().ReadRequests != 2 {
		t.Fatal("snapshot should report read requests")
	}
}

func TestRefreshUsesPoller(t *testing.T) {
	d, _, _ := newTestDashboard()
	d.Refresh() // no poller: logged, ignored

	next := time.Now().Add(time.Minute)
	r := &mockRefresher{next: next}
	d.SetRefresher(r)
	d.Refresh()

	if r.calls != 1 {
		t.Fatalf("refresh calls = %d", r.calls)
	}
	if !d.Snapshot().NextFetch.Equal(next) {
		t.Fatal("snapshot should report the next fetch time")
	}
}

func TestExportCSV(t *testing.T) {
	d, _, _ := newTestDashboard()
	ctx := context.Background()

	var buf bytes.Buffer
	if err := d.ExportCSV(ctx, &buf); !errors.Is(err, domain.ErrNoReadings) {
		t.Fatalf("expected ErrNoReadings, got %v", err)
	}

	d.OnBatch(ctx, []domain.Reading{{ID: "1", Temperature: 36.6, HeartRate: 72, Humidity: 45, Timestamp: "2025-04-20T10:00:00"}})
	if err := d.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(buf.String(), "\"20/04/2025, 03:30:00 pm\",36.6,72,45") {
		t.Fatalf("csv = %q", buf.String())
	}

	p, err := d.Page(ctx, 1, 5)
	if err != nil || len(p.Readings) != 1 {
		t.Fatalf("page = %+v, %v", p, err)
	}
}
