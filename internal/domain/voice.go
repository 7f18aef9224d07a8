package domain

// Voice is a synthetic voice offered by the speech backend.
type Voice struct {
	Name        string // backend identifier, e.g. "en-US-AvaNeural"
	DisplayName string
	Locale      string // e.g. "en-US"
	Gender      string
}

// Utterance is one thing to say, with its delivery parameters.
type Utterance struct {
	Text   string
	Voice  string // empty = backend default
	Locale string
	Rate   float64 // 1.0 = natural
	Pitch  float64 // 1.0 = natural
	Volume float64 // 0.0 - 1.0
}
