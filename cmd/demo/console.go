package main

import (
	"context"
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/ports"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	alertStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#d9534f")).Bold(true)
	decisionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#28a745")).Bold(true)
	timeStyle     = lipgloss.NewStyle().Faint(true)
	riskStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f0ad4e"))
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cardStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#0071ce")).
			Padding(0, 1)
)

// console is the operator panel rendered in a terminal. Calls are forwarded
// to next so the replay state is still recorded.
type console struct {
	mu   sync.Mutex
	out  io.Writer
	next ports.OperatorPanel
}

func newConsole(out io.Writer, next ports.OperatorPanel) *console {
	return &console{out: out, next: next}
}

func (c *console) AppendLog(ctx context.Context, e domain.LogEntry) error {
	c.print(timeStyle.Render(e.Time) + " " + styleMessage(e.Message))
	return c.next.AppendLog(ctx, e)
}

func (c *console) ShowDecisionCard(ctx context.Context, card domain.DecisionCard) error {
	c.print(renderCard(card))
	return c.next.ShowDecisionCard(ctx, card)
}

func (c *console) riskRevealed(ev domain.RiskEvent) {
	c.print(riskStyle.Render(fmt.Sprintf("[%d] %s", ev.ID, ev.Title)) +
		timeStyle.Render(fmt.Sprintf(" %s - %s", ev.Location.Name, ev.Source)))
}

func (c *console) print(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, s)
}

func styleMessage(msg string) string {
	switch {
	case strings.HasPrefix(msg, "[ALERT]"):
		return alertStyle.Render(msg)
	case strings.HasPrefix(msg, "[DECISION]"):
		return decisionStyle.Render(msg)
	default:
		return msg
	}
}

func renderCard(card domain.DecisionCard) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(card.Title),
		"",
		"A: "+card.OptionA,
		"B: "+card.OptionB,
		"",
		decisionStyle.Render(card.Result),
	)
	return cardStyle.Render(body)
}
