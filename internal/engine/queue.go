package engine

import (
	"errors"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// enqueue adds text to the queue. A non-priority repeat of the message
// spoken last is dropped; priority messages go to the front.
func (e *Engine) enqueue(text string, priority bool) {
	if !e.available || !e.enabled {
		return
	}
	if !priority && text == e.lastSpoken {
		e.log.Debug("engine: suppressed repeat: %s", logger.Truncate(text, 60))
		return
	}

	if priority {
		e.queue = append([]string{text}, e.queue...)
	} else {
		e.queue = append(e.queue, text)
	}
	e.log.Debug("engine: queued (priority=%v, queue_len=%d): %s", priority, len(e.queue), logger.Truncate(text, 60))

	if !e.speaking {
		e.drain()
	}
}

// drain speaks the next queued message if the speaker is free.
func (e *Engine) drain() {
	if len(e.queue) == 0 || e.speaking || !e.enabled || !e.available {
		return
	}

	text := e.queue[0]
	e.queue = e.queue[1:]
	e.lastSpoken = text
	e.startUtterance(text, e.delivery.Volume)
}

// startUtterance hands text to the speaker on its own goroutine. The result
// comes back through the inbox as utteranceFinished; if it never does, the
// safety timer posts utteranceStalled.
func (e *Engine) startUtterance(text string, volume float64) {
	e.speaking = true

	if e.speaker.Busy() {
		e.speaker.Cancel()
	}

	u := domain.Utterance{
		Text:   text,
		Locale: e.delivery.Locale,
		Rate:   e.delivery.Rate,
		Pitch:  e.delivery.Pitch,
		Volume: volume,
	}
	if v, ok := SelectVoice(e.speaker.Voices(), e.voicePolicy); ok {
		u.Voice = v.Name
	}

	e.utterSeq++
	id := e.utterSeq
	if e.safety != nil {
		e.safety.Stop()
	}
	e.safety = e.after(e.timings.SafetyTimeout, utteranceStalled{id: id})

	e.log.Debug("engine: speaking #%d (voice=%q): %s", id, u.Voice, logger.Truncate(text, 60))

	ctx := e.runCtx
	go func() {
		err := e.speaker.Speak(ctx, u)
		e.send(utteranceFinished{id: id, err: err})
	}()
}

func (e *Engine) onUtteranceFinished(m utteranceFinished) {
	// A late callback from an utterance the safety timer already gave up on.
	if m.id != e.utterSeq || !e.speaking {
		return
	}

	if e.safety != nil {
		e.safety.Stop()
		e.safety = nil
	}
	e.speaking = false

	if m.err != nil && !errors.Is(m.err, domain.ErrSpeechCanceled) {
		e.log.Error("engine: utterance #%d failed: %v", m.id, m.err)
	}

	e.after(e.timings.Pacing, drainDue{})
}

func (e *Engine) onUtteranceStalled(id uint64) {
	if id != e.utterSeq || !e.speaking {
		return
	}
	e.log.Warn("engine: utterance #%d timed out, resetting speaking state", id)
	e.safety = nil
	e.speaking = false
	e.drain()
}
