package engine

import "github.com/hammamikhairi/vitalsvoice/internal/domain"

// message is anything the engine's inbox accepts.
type message interface{ isMessage() }

// External triggers.

type enabledChanged struct{ enabled bool }

type dataArrived struct{ batch domain.Batch }

type manualRequested struct{ count uint64 }

type refreshSignaled struct{ raised bool }

type snapshotRequest struct{ reply chan<- State }

// Scheduled follow-ups.

type warmUpElapsed struct{}

type greetingDue struct{}

type settleElapsed struct {
	gen   uint64
	batch domain.Batch
}

type refreshWaitElapsed struct{ gen uint64 }

type refreshClearElapsed struct{ gen uint64 }

type drainDue struct{}

// Speech backend callbacks.

type utteranceFinished struct {
	id  uint64
	err error
}

type utteranceStalled struct{ id uint64 }

func (enabledChanged) isMessage()      {}
func (dataArrived) isMessage()         {}
func (manualRequested) isMessage()     {}
func (refreshSignaled) isMessage()     {}
func (snapshotRequest) isMessage()     {}
func (warmUpElapsed) isMessage()       {}
func (greetingDue) isMessage()         {}
func (settleElapsed) isMessage()       {}
func (refreshWaitElapsed) isMessage()  {}
func (refreshClearElapsed) isMessage() {}
func (drainDue) isMessage()            {}
func (utteranceFinished) isMessage()   {}
func (utteranceStalled) isMessage()    {}
