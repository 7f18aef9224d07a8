package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrNoReadings        = errors.New("no readings available")
	ErrInvalidPayload    = errors.New("invalid data format received")
	ErrSpeechUnavailable = errors.New("speech backend unavailable")
	ErrSpeechCanceled    = errors.New("speech canceled")
	ErrNotImplemented    = errors.New("not implemented")
)
