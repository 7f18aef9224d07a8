package speech

import (
	"context"
	"sync"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// Compile-time interface check.
var _ domain.Speaker = (*Printer)(nil)

// Printer is a speaker that writes announcements as text instead of
// playing audio. Used when no audio device or Azure credentials are
// available. Silent utterances (volume 0) are not printed.
type Printer struct {
	out func(text string)
	log *logger.Logger

	mu    sync.Mutex
	count int
}

// NewPrinter creates a speaker that hands every audible line to out.
func NewPrinter(out func(text string), log *logger.Logger) *Printer {
	return &Printer{out: out, log: log}
}

// Speak prints the utterance. It never blocks.
func (p *Printer) Speak(ctx context.Context, u domain.Utterance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.Volume <= 0 {
		return nil
	}

	p.mu.Lock()
	p.count++
	p.mu.Unlock()

	p.log.Debug("printer: %q", u.Text)
	p.out(u.Text)
	return nil
}

// Cancel is a no-op: printed lines cannot be taken back.
func (p *Printer) Cancel() {}

// Busy is always false.
func (p *Printer) Busy() bool { return false }

// Voices returns nil, leaving voice selection to the default.
func (p *Printer) Voices() []domain.Voice { return nil }

// Count returns how many lines have been printed.
func (p *Printer) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}
