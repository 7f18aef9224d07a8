package domain

// CommandType classifies what the user wants the dashboard to do.
type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandReadStatus
	CommandRefresh
	CommandVoiceOn
	CommandVoiceOff
	CommandVoiceToggle
	CommandHistory
	CommandNextPage
	CommandPrevPage
	CommandExport
	CommandAdvice
	CommandHelp
	CommandQuit
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CommandReadStatus:
		return "read_status"
	case CommandRefresh:
		return "refresh"
	case CommandVoiceOn:
		return "voice_on"
	case CommandVoiceOff:
		return "voice_off"
	case CommandVoiceToggle:
		return "voice_toggle"
	case CommandHistory:
		return "history"
	case CommandNextPage:
		return "next_page"
	case CommandPrevPage:
		return "prev_page"
	case CommandExport:
		return "export"
	case CommandAdvice:
		return "advice"
	case CommandHelp:
		return "help"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command represents a parsed user action.
type Command struct {
	Type CommandType
	Args []string // optional arguments, e.g. page number or export path
}
