package speech

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

type fakeSynth struct {
	mu     sync.Mutex
	calls  []Synthesis
	voices []domain.Voice
	err    error
}

func (f *fakeSynth) Synthesize(_ context.Context, s Synthesis) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("audio:" + s.Text), nil
}

func (f *fakeSynth) Voices(context.Context) ([]domain.Voice, error) {
	return f.voices, nil
}

func (f *fakeSynth) Voice() string { return DefaultVoice }

func (f *fakeSynth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakePlayer struct {
	mu      sync.Mutex
	played  []string
	volumes []float64
	hold    bool
	started chan struct{}
	stop    chan struct{}
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{started: make(chan struct{}, 8), stop: make(chan struct{}, 1)}
}

func (f *fakePlayer) Play(wav []byte, volume float64) (bool, error) {
	f.mu.Lock()
	f.played = append(f.played, string(wav))
	f.volumes = append(f.volumes, volume)
	hold := f.hold
	f.mu.Unlock()

	if hold {
		f.started <- struct{}{}
		<-f.stop
		return true, nil
	}
	return false, nil
}

func (f *fakePlayer) Stop() {
	select {
	case f.stop <- struct{}{}:
	default:
	}
}

func (f *fakePlayer) playedAudio() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.played...)
}

func newTestMouth(tts *fakeSynth, player *fakePlayer, opts ...MouthOption) *Mouth {
	return NewMouth(tts, player, logger.New(logger.LevelOff, nil), opts...)
}

func TestMouthSpeak(t *testing.T) {
	tts := &fakeSynth{}
	player := newFakePlayer()
	m := newTestMouth(tts, player)

	u := domain.Utterance{Text: "Voice assistant initialized.", Locale: "en-US", Rate: 1.2, Pitch: 1.0, Volume: 0.5}
	if err := m.Speak(context.Background(), u); err != nil {
		t.Fatalf("Speak: %v", err)
	}

	if tts.callCount() != 1 {
		t.Fatalf("expected 1 synthesis, got %d", tts.callCount())
	}
	got := tts.calls[0]
	if got.Voice != DefaultVoice || got.Rate != 1.2 || got.Locale != "en-US" {
		t.Fatalf("unexpected synthesis request %+v", got)
	}
	if p := player.playedAudio(); len(p) != 1 || p[0] != "audio:Voice assistant initialized." {
		t.Fatalf("played = %q", p)
	}
	if player.volumes[0] != 0.5 {
		t.Fatalf("volume = %v, want 0.5", player.volumes[0])
	}
	if m.Busy() {
		t.Fatal("mouth should be idle after Speak returns")
	}
}

func TestMouthCachesByDelivery(t *testing.T) {
	tts := &fakeSynth{}
	m := newTestMouth(tts, newFakePlayer())
	ctx := context.Background()

	u := domain.Utterance{Text: "Refreshing data.", Rate: 1.2, Pitch: 1.0, Volume: 1}
	_ = m.Speak(ctx, u)
	_ = m.Speak(ctx, u)
	if tts.callCount() != 1 {
		t.Fatalf("repeat should hit the cache, got %d syntheses", tts.callCount())
	}

	u.Rate = 1.0
	_ = m.Speak(ctx, u)
	if tts.callCount() != 2 {
		t.Fatalf("different rate should miss the cache, got %d syntheses", tts.callCount())
	}
}

func TestMouthChunksLongText(t *testing.T) {
	tts := &fakeSynth{}
	player := newFakePlayer()
	m := newTestMouth(tts, player, WithChunkSize(40))

	text := "Current health status: Temperature high at 38.5 degrees. Heart rate elevated at 110 BPM."
	if err := m.Speak(context.Background(), domain.Utterance{Text: text, Volume: 1}); err != nil {
		t.Fatalf("Speak: %v", err)
	}

	want := []string{
		"audio:Current health status: Temperature high at 38.5 degrees.",
		"audio:Heart rate elevated at 110 BPM.",
	}
	got := player.playedAudio()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("played %q, want %q", got, want)
	}
}

func TestMouthCancel(t *testing.T) {
	player := newFakePlayer()
	player.hold = true
	m := newTestMouth(&fakeSynth{}, player)

	errc := make(chan error, 1)
	go func() {
		errc <- m.Speak(context.Background(), domain.Utterance{Text: "Welcome to health monitoring system.", Volume: 1})
	}()

	select {
	case <-player.started:
	case <-time.After(2 * time.Second):
		t.Fatal("playback never started")
	}
	if !m.Busy() {
		t.Fatal("mouth should be busy during playback")
	}

	m.Cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, domain.ErrSpeechCanceled) {
			t.Fatalf("Speak returned %v, want ErrSpeechCanceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Speak did not return after Cancel")
	}
	if m.Busy() {
		t.Fatal("mouth should be idle after cancel")
	}
}

func TestMouthSynthesisError(t *testing.T) {
	tts := &fakeSynth{err: errors.New("boom")}
	player := newFakePlayer()
	m := newTestMouth(tts, player)

	err := m.Speak(context.Background(), domain.Utterance{Text: "Hello.", Volume: 1})
	if err == nil || errors.Is(err, domain.ErrSpeechCanceled) {
		t.Fatalf("expected synthesis error, got %v", err)
	}
	if len(player.playedAudio()) != 0 {
		t.Fatal("nothing should be played")
	}
}

func TestMouthLoadsVoices(t *testing.T) {
	tts := &fakeSynth{voices: []domain.Voice{{Name: "en-US-AvaNeural", Locale: "en-US"}, {Name: "en-GB-SoniaNeural", Locale: "en-GB"}}}
	m := newTestMouth(tts, newFakePlayer())

	if len(m.Voices()) != 0 {
		t.Fatal("voices should be empty before Start")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for len(m.Voices()) != 2 {
		if time.Now().After(deadline) {
			t.Fatal("voices never loaded")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestMouthPrefetch(t *testing.T) {
	tts := &fakeSynth{}
	m := newTestMouth(tts, newFakePlayer())

	u := domain.Utterance{Text: "Welcome to health monitoring system.", Rate: 1.2, Pitch: 1.0, Volume: 1}
	m.Prefetch(context.Background(), u)

	deadline := time.Now().Add(2 * time.Second)
	for m.Cache().Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("prefetch never cached")
		}
		time.Sleep(5 * time.Millisecond)
	}

	_ = m.Speak(context.Background(), u)
	if tts.callCount() != 1 {
		t.Fatalf("Speak after prefetch should hit the cache, got %d syntheses", tts.callCount())
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("Temperature high at 37.8 degrees. Heart rate low! Ok? trailing")
	want := []string{"Temperature high at 37.8 degrees. ", "Heart rate low! ", "Ok? ", "trailing"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrinter(t *testing.T) {
	var lines []string
	p := NewPrinter(func(s string) { lines = append(lines, s) }, logger.New(logger.LevelOff, nil))

	_ = p.Speak(context.Background(), domain.Utterance{Text: ".", Volume: 0})
	_ = p.Speak(context.Background(), domain.Utterance{Text: "Refreshing data.", Volume: 1})

	if len(lines) != 1 || lines[0] != "Refreshing data." {
		t.Fatalf("printed %q", lines)
	}
	if p.Count() != 1 || p.Busy() {
		t.Fatalf("count=%d busy=%v", p.Count(), p.Busy())
	}
}
