// Package conversation provides command parsing and user notification for
// the terminal dashboard.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches user input to commands using keywords and simple
// patterns. Capture groups become command arguments.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex   *regexp.Regexp
	command domain.CommandType
}

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(?:read|status|speak|read aloud|say|s)$`), domain.CommandReadStatus},
		{regexp.MustCompile(`(?i)^(?:refresh|reload|fetch|r)$`), domain.CommandRefresh},
		{regexp.MustCompile(`(?i)^(?:voice on|unmute|enable voice)$`), domain.CommandVoiceOn},
		{regexp.MustCompile(`(?i)^(?:voice off|mute|disable voice)$`), domain.CommandVoiceOff},
		{regexp.MustCompile(`(?i)^(?:voice|voice toggle|v)$`), domain.CommandVoiceToggle},
		{regexp.MustCompile(`(?i)^(?:history|hist|table)(?:\s+(\d+))?(?:\s+(\d+))?$`), domain.CommandHistory},
		{regexp.MustCompile(`(?i)^(?:next|n|>)$`), domain.CommandNextPage},
		{regexp.MustCompile(`(?i)^(?:prev|previous|back|p|<)$`), domain.CommandPrevPage},
		{regexp.MustCompile(`(?i)^(?:export|csv|save)(?:\s+(\S+))?$`), domain.CommandExport},
		{regexp.MustCompile(`(?i)^(?:advice|recommendations|recs|alerts?)$`), domain.CommandAdvice},
		{regexp.MustCompile(`(?i)^(?:help|h|\?)$`), domain.CommandHelp},
		{regexp.MustCompile(`(?i)^(?:quit|exit|q)$`), domain.CommandQuit},
	}
	return p
}

// Parse converts user input into a command. Unrecognised input yields
// CommandUnknown carrying the input as its only argument.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	trimmed := strings.Join(strings.Fields(input), " ")
	if trimmed == "" {
		return &domain.Command{Type: domain.CommandUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched command: %s", rule.command)

		var args []string
		for _, g := range m[1:] {
			if g != "" {
				args = append(args, g)
			}
		}
		return &domain.Command{Type: rule.command, Args: args}, nil
	}

	p.log.Debug("no match, returning unknown command")
	return &domain.Command{Type: domain.CommandUnknown, Args: []string{trimmed}}, nil
}
