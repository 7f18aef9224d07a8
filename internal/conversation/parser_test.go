package conversation

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input    string
		wantType domain.CommandType
		wantArgs string
	}{
		// Manual read
		{"read", domain.CommandReadStatus, ""},
		{"STATUS", domain.CommandReadStatus, ""},
		{"read   aloud", domain.CommandReadStatus, ""},

		// Refresh
		{"refresh", domain.CommandRefresh, ""},
		{"r", domain.CommandRefresh, ""},

		// Voice
		{"voice on", domain.CommandVoiceOn, ""},
		{"mute", domain.CommandVoiceOff, ""},
		{"voice off", domain.CommandVoiceOff, ""},
		{"v", domain.CommandVoiceToggle, ""},
		{"voice", domain.CommandVoiceToggle, ""},

		// History paging
		{"history", domain.CommandHistory, ""},
		{"history 3", domain.CommandHistory, "3"},
		{"history 2 25", domain.CommandHistory, "2,25"},
		{"next", domain.CommandNextPage, ""},
		{"prev", domain.CommandPrevPage, ""},

		// Export
		{"export", domain.CommandExport, ""},
		{"export /tmp/health-data.csv", domain.CommandExport, "/tmp/health-data.csv"},

		// Misc
		{"advice", domain.CommandAdvice, ""},
		{"recommendations", domain.CommandAdvice, ""},
		{"?", domain.CommandHelp, ""},
		{"quit", domain.CommandQuit, ""},
		{"q", domain.CommandQuit, ""},

		// Unknown
		{"make me a sandwich", domain.CommandUnknown, "make me a sandwich"},
		{"history abc", domain.CommandUnknown, "history abc"},
		{"   ", domain.CommandUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmd.Type != tt.wantType {
				t.Errorf("Parse(%q).Type = %s, want %s", tt.input, cmd.Type, tt.wantType)
			}
			if got := strings.Join(cmd.Args, ","); got != tt.wantArgs {
				t.Errorf("Parse(%q).Args = %q, want %q", tt.input, got, tt.wantArgs)
			}
		})
	}
}

func TestCLINotifier(t *testing.T) {
	var out []string
	n := NewCLINotifier(logger.New(logger.LevelOff, nil), func(format string, a ...interface{}) {
		out = append(out, strings.TrimSpace(fmt.Sprintf(format, a...)))
	})

	_ = n.Notify(context.Background(), "Voice on")
	_ = n.NotifyUrgent(context.Background(), "Error fetching data: timeout")

	if len(out) != 2 {
		t.Fatalf("printed %d lines", len(out))
	}
	if !strings.Contains(out[0], "Voice on") {
		t.Errorf("notify line = %q", out[0])
	}
	if !strings.Contains(out[1], "Error fetching data: timeout") {
		t.Errorf("urgent line = %q", out[1])
	}
}
