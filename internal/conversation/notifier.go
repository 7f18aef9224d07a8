package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7DD3FC"))
	urgentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true)
	stampStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#71717A"))
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes timestamped notifications to the terminal.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
	now     func() time.Time
}

// NewCLINotifier creates a terminal notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn, now: time.Now}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s %s", n.stamp(), noticeStyle.Render(message))
	return nil
}

// NotifyUrgent prints an urgent notification.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.printFn("%s %s", n.stamp(), urgentStyle.Render("! "+message))
	return nil
}

func (n *CLINotifier) stamp() string {
	return stampStyle.Render(n.now().Format(time.TimeOnly))
}
