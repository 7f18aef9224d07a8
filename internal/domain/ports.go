package domain

import (
	"context"
	"io"
)

// Speaker is the text-to-speech capability. Only one utterance is ever in
// flight; Speak blocks until it finishes, fails, or is canceled (in which
// case it returns ErrSpeechCanceled). Voices may be empty and may fill in
// some time after construction.
type Speaker interface {
	Speak(ctx context.Context, u Utterance) error
	Cancel()
	Busy() bool
	Voices() []Voice
}

// Announcer receives the dashboard triggers that drive voice announcements.
// Every method returns immediately.
type Announcer interface {
	SetEnabled(enabled bool)
	DataArrived(batch Batch)
	ManualRead(count uint64)
	RefreshSignal(raised bool)
}

// ReadingStore holds the current reading batch. Implementations can be
// in-memory or backed by a database.
type ReadingStore interface {
	Replace(ctx context.Context, readings []Reading) error
	Latest(ctx context.Context) (Reading, error)
	All(ctx context.Context) ([]Reading, error)
	Page(ctx context.Context, page, perPage int) (ReadingPage, error)
}

// ReadingPage is one page of the reading history.
type ReadingPage struct {
	Readings   []Reading `json:"readings"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int       `json:"total_pages"`
	Total      int       `json:"total"`
}

// CommandParser converts raw user input into structured commands.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Command, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout, push notifications, or a log.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// Exporter writes readings in a portable format.
type Exporter interface {
	Export(w io.Writer, readings []Reading) error
}
