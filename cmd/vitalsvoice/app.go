package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hammamikhairi/vitalsvoice/internal/dashboard"
	"github.com/hammamikhairi/vitalsvoice/internal/display"
	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

const defaultExportFile = "health_data.csv"

type cliApp struct {
	dash    *dashboard.Dashboard
	parser  domain.CommandParser
	log     *logger.Logger
	ui      *display.UI
	page    int // last history page shown
	perPage int
}

func (a *cliApp) run(ctx context.Context) {
	uiCh := a.ui.InputChan()

	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		cmd, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("command: %s (args=%q)", cmd.Type, cmd.Args)
		if quit := a.handle(ctx, cmd); quit {
			return
		}
	}
}

// handle executes one command and reports whether the app should exit.
func (a *cliApp) handle(ctx context.Context, cmd *domain.Command) bool {
	switch cmd.Type {
	case domain.CommandReadStatus:
		a.readStatus()
	case domain.CommandRefresh:
		a.dash.Refresh()
		a.ui.PrintHint("Refreshing...")
	case domain.CommandVoiceOn:
		a.dash.SetVoice(true)
		a.ui.PrintInfo("Voice announcements ON")
	case domain.CommandVoiceOff:
		a.dash.SetVoice(false)
		a.ui.PrintInfo("Voice announcements OFF")
	case domain.CommandVoiceToggle:
		if a.dash.ToggleVoice() {
			a.ui.PrintInfo("Voice announcements ON")
		} else {
			a.ui.PrintInfo("Voice announcements OFF")
		}
	case domain.CommandHistory:
		a.history(ctx, cmd.Args)
	case domain.CommandNextPage:
		a.showPage(ctx, a.page+1)
	case domain.CommandPrevPage:
		a.showPage(ctx, a.page-1)
	case domain.CommandExport:
		a.export(ctx, cmd.Args)
	case domain.CommandAdvice:
		a.showAdvice()
	case domain.CommandHelp:
		a.showHelp()
	case domain.CommandQuit:
		a.ui.PrintHint("Bye.")
		return true
	default:
		text := ""
		if len(cmd.Args) > 0 {
			text = cmd.Args[0]
		}
		a.ui.PrintHint(fmt.Sprintf("Didn't catch %q. Type 'help' for commands.", text))
	}
	return false
}

func (a *cliApp) readStatus() {
	snap := a.dash.Snapshot()
	if snap.Latest == nil {
		a.ui.PrintHint("No readings yet, the announcement will follow once data arrives.")
	}
	if !snap.VoiceEnabled {
		a.ui.PrintHint("Voice is off. Type 'voice on' to hear announcements.")
		return
	}
	n := a.dash.ReadAloud()
	a.log.Debug("manual read #%d requested", n)
}

func (a *cliApp) history(ctx context.Context, args []string) {
	page := 1
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil {
			page = v
		}
	}
	if len(args) > 1 {
		if v, err := strconv.Atoi(args[1]); err == nil && v > 0 {
			a.perPage = v
		}
	}
	a.showPage(ctx, page)
}

func (a *cliApp) showPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	p, err := a.dash.Page(ctx, page, a.perPage)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error loading history: %v", err))
		return
	}
	a.page = p.Page
	a.ui.PrintBlock(display.RenderHistory(p))
}

func (a *cliApp) export(ctx context.Context, args []string) {
	path := defaultExportFile
	if len(args) > 0 {
		path = args[0]
	}

	f, err := os.Create(path)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Export failed: %v", err))
		return
	}

	err = a.dash.ExportCSV(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		if errors.Is(err, domain.ErrNoReadings) {
			a.ui.PrintHint("Nothing to export yet.")
			return
		}
		a.ui.PrintUrgent(fmt.Sprintf("Export failed: %v", err))
		return
	}

	a.ui.PrintInfo(fmt.Sprintf("Exported %d readings to %s", a.dash.Snapshot().Total, path))
}

func (a *cliApp) showAdvice() {
	snap := a.dash.Snapshot()
	if snap.Alert != "" {
		a.ui.PrintUrgent(snap.Alert)
	}
	a.ui.PrintBlock(display.RenderAdvice(snap.Recommendations))
}

func (a *cliApp) showHelp() {
	a.ui.PrintInfo("Commands:")
	a.ui.PrintHint("  read / status         Read the current vitals aloud")
	a.ui.PrintHint("  refresh / r           Fetch new readings now")
	a.ui.PrintHint("  voice on|off / v      Turn announcements on, off, or toggle")
	a.ui.PrintHint("  history [page] [per]  Show the reading history")
	a.ui.PrintHint("  next / prev           Page through the history")
	a.ui.PrintHint("  export [file]         Save readings as CSV (default " + defaultExportFile + ")")
	a.ui.PrintHint("  advice                Show current recommendations")
	a.ui.PrintHint("  help                  Show this message")
	a.ui.PrintHint("  quit                  Exit")
}
