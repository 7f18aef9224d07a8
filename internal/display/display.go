// Package display provides the terminal dashboard using Bubble Tea.
//
// The [UI] type manages a persistent vitals status bar and an input
// prompt at the bottom of the terminal. All application output is
// printed above the rendered area via Program.Println / Printf,
// ensuring concurrent writes never garble the display.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/hammamikhairi/vitalsvoice/internal/advice"
	"github.com/hammamikhairi/vitalsvoice/internal/dashboard"
	"github.com/hammamikhairi/vitalsvoice/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	criticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle is the muted slate of the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	spokenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

const prompt = "vitals> "

// StatusSource provides the data shown in the status bar.
type StatusSource interface {
	Snapshot() dashboard.Snapshot
}

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may
// safely call [UI.Println], [UI.Printf], and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	source  StatusSource
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI(source StatusSource) *UI {
	return &UI{
		source:  source,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Thread-safe.
// If the program hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt on its own line.
// Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────

// PrintSpoken prints an announcement that the voice would speak.
func (u *UI) PrintSpoken(text string) {
	u.Println(secondaryStyle.Render("  [voice] ") + spokenStyle.Render(text))
}

// PrintInfo prints a primary line.
func (u *UI) PrintInfo(text string) {
	u.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an urgent/error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintBlock prints pre-rendered multi-line output as is.
func (u *UI) PrintBlock(block string) {
	u.Println(strings.TrimRight(block, "\n"))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("vitals") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// A plain-text prompt keeps the textinput width math correct.
	ti.Prompt = prompt
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		source:  u.source,
		input:   ti,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn: func(v string) {
			u.PrintUserInput(v)
		},
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	source  StatusSource
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string)
	snap    dashboard.Snapshot
	width   int
}

type tickMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Echo from a Cmd so Update never blocks on Println.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(prompt) {
			m.input.Width = msg.Width - len(prompt)
		}
		return m, nil

	case tickMsg:
		if m.source != nil {
			m.snap = m.source.Snapshot()
		}
		return m, tea.Batch(tickCmd(), tea.SetWindowTitle(titleStr(m.snap)))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(renderBar(m.snap, m.width, time.Now()))
	b.WriteByte('\n')
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func titleStr(s dashboard.Snapshot) string {
	if s.Latest == nil {
		return "VitalsVoice"
	}
	return fmt.Sprintf("VitalsVoice | %.1f°C %s BPM %s%%",
		s.Latest.Temperature, plain(s.Latest.HeartRate), plain(s.Latest.Humidity))
}

// renderBar draws the status bar for s as of now.
func renderBar(s dashboard.Snapshot, width int, now time.Time) string {
	var parts []string

	if s.Latest == nil {
		parts = append(parts, pendingStyle.Render("waiting for data"))
	} else {
		r := s.Latest
		parts = append(parts,
			labelStyle.Render("Temp ")+levelStyle(advice.Classify(domain.MetricTemperature, r.Temperature)).Render(fmt.Sprintf("%.1f°C", r.Temperature)),
			labelStyle.Render("HR ")+levelStyle(advice.Classify(domain.MetricHeartRate, r.HeartRate)).Render(plain(r.HeartRate)+" BPM"),
			labelStyle.Render("Hum ")+levelStyle(advice.Classify(domain.MetricHumidity, r.Humidity)).Render(plain(r.Humidity)+"%"),
		)
	}

	if s.VoiceEnabled {
		parts = append(parts, normalStyle.Render("voice ON"))
	} else {
		parts = append(parts, pendingStyle.Render("voice OFF"))
	}

	switch {
	case s.Refreshing:
		parts = append(parts, warnStyle.Render("refreshing"))
	case !s.UpdatedAt.IsZero():
		parts = append(parts, labelStyle.Render("updated "+humanize.RelTime(s.UpdatedAt, now, "ago", "from now")))
	}

	if !s.NextFetch.IsZero() {
		parts = append(parts, labelStyle.Render("next "+fmtDuration(s.NextFetch.Sub(now))))
	}

	if s.Error != "" {
		parts = append(parts, criticalStyle.Render("fetch error"))
	} else if s.Alert != "" {
		parts = append(parts, criticalStyle.Render(s.Alert))
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	if width <= 0 {
		width = 80
	}
	return barBg.Width(width).Render(content)
}

func levelStyle(l advice.Level) lipgloss.Style {
	switch l {
	case advice.LevelCriticalHigh, advice.LevelCriticalLow:
		return criticalStyle
	case advice.LevelHigh, advice.LevelLow:
		return warnStyle
	default:
		return normalStyle
	}
}

// ── Helpers ──────────────────────────────────────────────────────

func fmtDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if m == 0 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func plain(v float64) string {
	return humanize.Ftoa(v)
}
