package engine

import (
	"context"
	"sync"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
)

// fakeSpeaker records utterances. When hold is set, Speak blocks until
// release, Cancel, or ctx; otherwise it returns immediately with err.
type fakeSpeaker struct {
	mu        sync.Mutex
	spoken    []domain.Utterance
	voices    []domain.Voice
	err       error
	hold      bool
	hang      bool // never return, not even on Cancel
	release   chan struct{}
	current   chan struct{}
	active    int
	maxActive int
	cancels   int
}

func newFakeSpeaker() *fakeSpeaker {
	return &fakeSpeaker{release: make(chan struct{}, 16)}
}

func (f *fakeSpeaker) Speak(ctx context.Context, u domain.Utterance) error {
	f.mu.Lock()
	f.spoken = append(f.spoken, u)
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	cancel := make(chan struct{})
	f.current = cancel
	hold, hang, err := f.hold, f.hang, f.err
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	switch {
	case hang:
		<-ctx.Done()
		return ctx.Err()
	case hold:
		select {
		case <-f.release:
			return err
		case <-cancel:
			return domain.ErrSpeechCanceled
		case <-ctx.Done():
			return ctx.Err()
		}
	default:
		return err
	}
}

func (f *fakeSpeaker) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
	if f.current != nil {
		close(f.current)
		f.current = nil
	}
}

func (f *fakeSpeaker) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active > 0
}

func (f *fakeSpeaker) Voices() []domain.Voice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Voice(nil), f.voices...)
}

// texts returns the audible utterances (the silent warm-up line is skipped).
func (f *fakeSpeaker) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, u := range f.spoken {
		if u.Volume > 0 {
			out = append(out, u.Text)
		}
	}
	return out
}

func (f *fakeSpeaker) utterances() []domain.Utterance {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Utterance(nil), f.spoken...)
}

func (f *fakeSpeaker) setHold(hold bool) {
	f.mu.Lock()
	f.hold = hold
	f.mu.Unlock()
}

func (f *fakeSpeaker) setHang(hang bool) {
	f.mu.Lock()
	f.hang = hang
	f.mu.Unlock()
}

func (f *fakeSpeaker) peakConcurrency() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxActive
}
