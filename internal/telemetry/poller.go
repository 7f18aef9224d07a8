package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// Fetcher returns the current readings, newest first.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.Reading, error)
}

// Handler receives the outcome of every poll. OnFetchStart is called
// before each fetch; requested is true when the fetch came from Refresh.
type Handler interface {
	OnFetchStart(ctx context.Context, requested bool)
	OnBatch(ctx context.Context, readings []domain.Reading)
	OnError(ctx context.Context, err error)
}

// Option configures the poller.
type Option func(*Poller)

// WithInterval sets how often the endpoint is polled.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		p.interval = d
	}
}

// Poller fetches immediately on Start and then on every interval.
// Refresh requests an extra fetch and restarts the interval.
type Poller struct {
	fetcher  Fetcher
	handler  Handler
	log      *logger.Logger
	interval time.Duration
	refresh  chan struct{}

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	next    time.Time
}

// NewPoller creates a poller with the given dependencies and options.
func NewPoller(fetcher Fetcher, handler Handler, log *logger.Logger, opts ...Option) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		handler:  handler,
		log:      log,
		interval: 60 * time.Second,
		refresh:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins the background poll loop. Non-blocking.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		p.log.Warn("telemetry poller already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true

	go p.loop(childCtx)

	p.log.Info("telemetry poller started (interval=%s)", p.interval)
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.cancel()
	p.running = false
	p.log.Info("telemetry poller stopped")
}

// Refresh requests an immediate fetch. Requests made while one is already
// pending are merged.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// NextFetch returns when the next scheduled fetch is due. Zero before the
// first fetch completes.
func (p *Poller) NextFetch() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next
}

// Interval returns the poll interval.
func (p *Poller) Interval() time.Duration { return p.interval }

func (p *Poller) loop(ctx context.Context) {
	p.poll(ctx, false)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx, false)
		case <-p.refresh:
			p.poll(ctx, true)
			ticker.Reset(p.interval)
		}
	}
}

// poll runs one fetch cycle.
func (p *Poller) poll(ctx context.Context, requested bool) {
	p.handler.OnFetchStart(ctx, requested)

	readings, err := p.fetcher.Fetch(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		p.log.Error("poller: fetch failed: %v", err)
		p.handler.OnError(ctx, err)
	} else {
		p.handler.OnBatch(ctx, readings)
	}

	p.mu.Lock()
	p.next = time.Now().Add(p.interval)
	p.mu.Unlock()
}
