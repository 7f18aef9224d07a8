package engine

// handle applies one inbox message. Runs on the actor goroutine only.
func (e *Engine) handle(m message) {
	switch m := m.(type) {
	case enabledChanged:
		e.onEnabledChanged(m.enabled)
	case dataArrived:
		e.onDataArrived(m)
	case manualRequested:
		e.onManualRead(m.count)
	case refreshSignaled:
		e.onRefreshSignal(m.raised)
	case snapshotRequest:
		m.reply <- e.state()

	case warmUpElapsed:
		e.onWarmUp()
	case greetingDue:
		e.onGreeting()
	case settleElapsed:
		e.onSettled(m)
	case refreshWaitElapsed:
		e.onRefreshWait(m.gen)
	case refreshClearElapsed:
		e.onRefreshClear(m.gen)
	case drainDue:
		e.drain()
	case utteranceFinished:
		e.onUtteranceFinished(m)
	case utteranceStalled:
		e.onUtteranceStalled(m.id)
	}
}

func (e *Engine) onEnabledChanged(enabled bool) {
	if !e.enabledKnown {
		e.enabledKnown = true
		e.enabled = enabled
		if enabled {
			e.scheduleGreeting()
		}
		return
	}
	if enabled == e.enabled {
		return
	}

	e.enabled = enabled
	// A pending settle belongs to the previous mode.
	e.settleGen++

	if enabled {
		e.log.Info("engine: voice enabled")
		e.enqueue(LineVoiceInitialized(), true)
		e.dataEverLoaded = false
		e.scheduleGreeting()
		// Whatever arrived while muted is judged again as a first load.
		if e.firstLoadDone {
			e.onDataArrived(dataArrived{batch: e.latest})
		}
		return
	}

	e.log.Info("engine: voice disabled, dropping %d queued messages", len(e.queue))
	e.queue = nil
	if e.speaker != nil && (e.speaking || e.speaker.Busy()) {
		e.speaker.Cancel()
	}
}

// scheduleGreeting arms the one-time welcome: after the warm-up delay a
// silent warm-up line wakes the audio stack, then the welcome is queued.
func (e *Engine) scheduleGreeting() {
	if e.greetingScheduled || !e.available {
		return
	}
	e.greetingScheduled = true
	e.after(e.timings.WarmUp, warmUpElapsed{})
}

func (e *Engine) onWarmUp() {
	if e.enabled && !e.speaking {
		e.log.Debug("engine: silent warm-up line")
		e.startUtterance(LineWarmUp(), 0)
	}
	e.after(e.timings.WarmUpGap, greetingDue{})
}

func (e *Engine) onGreeting() {
	e.enqueue(LineWelcome(), false)
	e.firstLoadDone = true
	// Data that beat the welcome is announced now.
	e.onDataArrived(dataArrived{batch: e.latest})
}

func (e *Engine) onDataArrived(m dataArrived) {
	e.latest = m.batch

	if len(m.batch.Readings) == 0 || !e.enabled || !e.firstLoadDone {
		return
	}
	sig := Signature(m.batch)
	if sig == e.lastSignature {
		e.log.Debug("engine: batch already announced (%s)", sig)
		return
	}
	// The refresh follow-up announces this data itself.
	if e.refreshInFlight {
		return
	}

	e.lastSignature = sig
	e.settleGen++
	e.after(e.timings.Settle, settleElapsed{gen: e.settleGen, batch: m.batch})
}

func (e *Engine) onSettled(m settleElapsed) {
	if m.gen != e.settleGen || !e.enabled {
		return
	}

	if !e.dataEverLoaded {
		e.dataEverLoaded = true
		if st := GenerateBatchStatus(m.batch, true); st.Text != "" {
			e.enqueue(st.Text, false)
		}
		return
	}

	st := GenerateBatchStatus(m.batch, false)
	if st.Abnormal {
		e.enqueue(st.Text, false)
	}
}

func (e *Engine) onManualRead(count uint64) {
	if count <= e.manualSeen {
		return
	}
	e.manualSeen = count
	if !e.enabled {
		return
	}
	if st := GenerateBatchStatus(e.latest, true); st.Text != "" {
		e.enqueue(st.Text, true)
	}
}

func (e *Engine) onRefreshSignal(raised bool) {
	rising := raised && !e.refreshRaised
	e.refreshRaised = raised
	if !rising || !e.enabled || !e.dataEverLoaded {
		return
	}

	e.refreshInFlight = true
	e.refreshGen++
	e.enqueue(LineRefreshing(), true)
	e.after(e.timings.RefreshWait, refreshWaitElapsed{gen: e.refreshGen})
}

func (e *Engine) onRefreshWait(gen uint64) {
	e.lastSignature = Signature(e.latest)
	if st := GenerateBatchStatus(e.latest, true); st.Text != "" {
		e.enqueue(st.Text, false)
	}
	e.after(e.timings.RefreshClear, refreshClearElapsed{gen: gen})
}

// onRefreshClear ends the refresh only if no newer pulse started since.
func (e *Engine) onRefreshClear(gen uint64) {
	if gen != e.refreshGen {
		return
	}
	e.refreshInFlight = false
	e.log.Debug("engine: refresh finished")
}
