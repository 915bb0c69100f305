// Package ui renders the conversation on the console.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Labels printed in front of each line.
const (
	LabelUser      = "User"
	LabelAssistant = "ChatGPT"
	LabelSystem    = "System"
)

// Printer writes role-labelled lines. Colour is applied only when the
// writer is a terminal that supports it.
type Printer struct {
	w      io.Writer
	color  bool
	styles map[string]lipgloss.Style
	plain  lipgloss.Style
}

func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		color: color,
		styles: map[string]lipgloss.Style{
			"user":    r.NewStyle().Foreground(lipgloss.Color("8")),
			"chatgpt": r.NewStyle().Foreground(lipgloss.Color("14")),
			"system":  r.NewStyle().Foreground(lipgloss.Color("1")),
		},
		plain: r.NewStyle().Foreground(lipgloss.Color("15")),
	}
}

func (p *Printer) label(label string) string {
	text := label + ": "
	if !p.color {
		return text
	}
	style, ok := p.styles[strings.ToLower(label)]
	if !ok {
		style = p.plain
	}
	return style.Render(text)
}

// Prompt prints the label alone, leaving the cursor on the same line.
func (p *Printer) Prompt(label string) {
	fmt.Fprint(p.w, p.label(label))
}

// Log prints the label followed by message and a newline.
func (p *Printer) Log(label, message string) {
	fmt.Fprintln(p.w, p.label(label)+message)
}
