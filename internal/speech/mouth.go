// Package speech provides the text-to-speech backends of the announcement
// engine: Azure synthesis played through oto, and a console printer.
package speech

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// Compile-time interface check.
var _ domain.Speaker = (*Mouth)(nil)

// Synthesizer turns text into WAV audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, s Synthesis) ([]byte, error)
	Voices(ctx context.Context) ([]domain.Voice, error)
	Voice() string
}

// AudioPlayer plays WAV audio, blocking until done or stopped.
type AudioPlayer interface {
	Play(wav []byte, volume float64) (stopped bool, err error)
	Stop()
}

// MouthOption configures the Mouth.
type MouthOption func(*Mouth)

// WithChunkSize sets the approximate max character count per TTS chunk.
// Text longer than this is split at sentence boundaries and synthesized
// in parallel so playback doesn't stall between sentences.
func WithChunkSize(n int) MouthOption {
	return func(m *Mouth) {
		m.chunkSize = n
	}
}

// WithCacheDir sets the filesystem directory used for persistent audio
// caching. If empty, the disk layer is disabled (pure in-memory).
func WithCacheDir(dir string) MouthOption {
	return func(m *Mouth) {
		m.cacheDir = dir
	}
}

// WithDiskWrite controls whether new cache entries are written to disk.
// Even when false, existing on-disk entries are still read.
func WithDiskWrite(enabled bool) MouthOption {
	return func(m *Mouth) {
		m.diskWrite = enabled
	}
}

// Mouth speaks one utterance at a time: chunk -> synthesize (parallel) ->
// play (sequential). Speak blocks for the whole utterance; Cancel stops it
// mid-playback and makes it return domain.ErrSpeechCanceled.
//
// An internal AudioCache transparently avoids re-synthesizing identical
// text. Use Prefetch to pre-warm the cache for lines spoken often.
type Mouth struct {
	tts    Synthesizer
	player AudioPlayer
	log    *logger.Logger
	cache  *AudioCache

	chunkSize int
	cacheDir  string
	diskWrite bool

	mu       sync.Mutex
	speaking bool
	gen      uint64             // id of the newest Speak call
	cancel   context.CancelFunc // cancels the newest Speak call
	voices   []domain.Voice
}

// NewMouth creates a speaker with the given TTS client and player.
func NewMouth(tts Synthesizer, player AudioPlayer, log *logger.Logger, opts ...MouthOption) *Mouth {
	m := &Mouth{
		tts:       tts,
		player:    player,
		log:       log,
		chunkSize: 200, // roughly 2 sentences
		diskWrite: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cache = NewAudioCache(m.cacheDir, m.diskWrite, log)
	return m
}

// Start loads the voice list in the background. Non-blocking. Until it
// arrives, Voices returns nil and utterances use the default voice.
func (m *Mouth) Start(ctx context.Context) {
	go func() {
		voices, err := m.tts.Voices(ctx)
		if err != nil {
			m.log.Warn("mouth: could not list voices, using %s: %v", m.tts.Voice(), err)
			return
		}
		m.mu.Lock()
		m.voices = voices
		m.mu.Unlock()
		m.log.Debug("mouth: %d voices loaded", len(voices))
	}()
	m.log.Info("mouth started")
}

// Voices returns the voices loaded so far.
func (m *Mouth) Voices() []domain.Voice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Voice(nil), m.voices...)
}

// Busy reports whether an utterance is being synthesized or played.
func (m *Mouth) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speaking
}

// Cancel stops the current utterance, if any. Safe to call when idle.
func (m *Mouth) Cancel() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.player.Stop()
}

// Speak synthesizes and plays u. A Speak already in progress is
// cancelled first.
func (m *Mouth) Speak(ctx context.Context, u domain.Utterance) error {
	ctx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.player.Stop()
	}
	m.gen++
	gen := m.gen
	m.cancel = cancel
	m.speaking = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		if m.gen == gen {
			m.speaking = false
			m.cancel = nil
		}
		m.mu.Unlock()
		cancel()
	}()

	err := m.process(ctx, u)
	if ctx.Err() != nil {
		return domain.ErrSpeechCanceled
	}
	return err
}

// synthesis builds the TTS request for one chunk of u.
func (m *Mouth) synthesis(u domain.Utterance, text string) Synthesis {
	voice := u.Voice
	if voice == "" {
		voice = m.tts.Voice()
	}
	return Synthesis{
		Text:   text,
		Voice:  voice,
		Locale: u.Locale,
		Rate:   u.Rate,
		Pitch:  u.Pitch,
	}
}

// process synthesizes and plays u, using chunked parallel synthesis for
// long text. It fails only if nothing could be played.
func (m *Mouth) process(ctx context.Context, u domain.Utterance) error {
	m.log.Debug("mouth: speaking (volume=%.2f): %s", u.Volume, logger.Truncate(u.Text, 60))

	chunks := m.splitChunks(u.Text)
	if len(chunks) <= 1 {
		return m.synthAndPlay(ctx, m.synthesis(u, u.Text), u.Volume)
	}

	m.log.Debug("mouth: split into %d chunks for parallel synthesis", len(chunks))

	type result struct {
		idx   int
		audio []byte
		err   error
	}
	results := make(chan result, len(chunks))

	for i, chunk := range chunks {
		go func(idx int, s Synthesis) {
			audio, err := m.synthesizeWithCache(ctx, s)
			results <- result{idx: idx, audio: audio, err: err}
		}(i, m.synthesis(u, chunk))
	}

	audioSlots := make([][]byte, len(chunks))
	var firstErr error
	for range chunks {
		r := <-results
		if r.err != nil {
			m.log.Error("mouth: chunk %d synthesis failed: %v", r.idx, r.err)
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		audioSlots[r.idx] = r.audio
	}

	played := 0
	for i, audio := range audioSlots {
		if audio == nil {
			m.log.Debug("mouth: skipping chunk %d (synthesis failed)", i)
			continue
		}
		if ctx.Err() != nil {
			return domain.ErrSpeechCanceled
		}
		stopped, err := m.player.Play(audio, u.Volume)
		if stopped {
			m.log.Debug("mouth: aborting chunk playback (interrupted)")
			return domain.ErrSpeechCanceled
		}
		if err != nil {
			m.log.Error("mouth: chunk %d playback failed: %v", i, err)
			continue
		}
		played++
	}

	if played == 0 && firstErr != nil {
		return firstErr
	}
	return nil
}

// synthAndPlay does a single synthesize-then-play for short text.
func (m *Mouth) synthAndPlay(ctx context.Context, s Synthesis, volume float64) error {
	audio, err := m.synthesizeWithCache(ctx, s)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return domain.ErrSpeechCanceled
	}
	stopped, err := m.player.Play(audio, volume)
	if stopped {
		return domain.ErrSpeechCanceled
	}
	return err
}

// synthesizeWithCache checks the cache first, otherwise calls the TTS
// backend and stores the result. Thread-safe.
func (m *Mouth) synthesizeWithCache(ctx context.Context, s Synthesis) ([]byte, error) {
	if audio, ok := m.cache.Get(s); ok {
		return audio, nil
	}
	audio, err := m.tts.Synthesize(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, errors.New("tts returned no audio")
	}
	m.cache.Put(s, audio)
	return audio, nil
}

// splitChunks breaks text into sentence-boundary chunks of approximately
// m.chunkSize characters. If chunkSize is 0 or the text is short, it
// returns the text as-is in a single slice.
func (m *Mouth) splitChunks(text string) []string {
	if m.chunkSize <= 0 || len(text) <= m.chunkSize {
		return []string{text}
	}

	sentences := splitSentences(text)

	var chunks []string
	var current strings.Builder

	for _, s := range sentences {
		if current.Len() > 0 && current.Len()+len(s) > m.chunkSize {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(s)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	var out []string
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// splitSentences splits text at sentence boundaries (. ! ?) keeping the
// punctuation attached to the preceding sentence. A period between digits
// ("37.5") is not a boundary.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if !isSentenceEnd(runes[i]) || isDecimalPoint(runes, i) {
			continue
		}
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
			current.WriteRune(runes[i])
		}
		sentences = append(sentences, current.String())
		current.Reset()
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isDecimalPoint(runes []rune, i int) bool {
	return runes[i] == '.' && i > 0 && i+1 < len(runes) &&
		unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1])
}

// ── Prefetching / Cache ──────────────────────────────────────────

// Prefetch pre-synthesizes the given utterances in background goroutines
// and stores the results in the audio cache, skipping what is already
// cached. Non-blocking.
//
// Call it for lines known in advance (greetings, fixed notices) so
// playback starts instantly when they are spoken.
func (m *Mouth) Prefetch(ctx context.Context, utterances ...domain.Utterance) {
	for _, u := range utterances {
		if u.Text == "" {
			continue
		}

		for _, chunk := range m.splitChunks(u.Text) {
			s := m.synthesis(u, chunk)
			if m.cache.Has(s) {
				m.log.Debug("prefetch: already cached: %s", logger.Truncate(chunk, 50))
				continue
			}
			go func(s Synthesis) {
				m.log.Debug("prefetch: synthesizing: %s", logger.Truncate(s.Text, 50))
				audio, err := m.tts.Synthesize(ctx, s)
				if err != nil {
					m.log.Error("prefetch: synthesis failed: %v", err)
					return
				}
				m.cache.Put(s, audio)
			}(s)
		}
	}
}

// Cache returns the audio cache used by this Mouth. Useful for stats/logging.
func (m *Mouth) Cache() *AudioCache { return m.cache }
