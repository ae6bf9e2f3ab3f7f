package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	bodyStyle    = lipgloss.NewStyle().Width(100)
)

// renderText lays the notes out for a terminal. Markdown headings inside
// the generated sections become styled headings.
func renderText(n *lecture.Notes) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(n.Filename))
	b.WriteString("\n")
	meta := []string{}
	if n.Language != "" {
		meta = append(meta, "language: "+n.Language)
	}
	if n.Duration > 0 {
		meta = append(meta, "duration: "+n.Duration.Round(time.Second).String())
	}
	if len(meta) > 0 {
		b.WriteString(mutedStyle.Render(strings.Join(meta, "  ")))
		b.WriteString("\n")
	}

	writeSection(&b, n.Summary)
	writeSection(&b, n.Questions)

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Transcript"))
	b.WriteString("\n")
	b.WriteString(bodyStyle.Render(n.Transcript))
	b.WriteString("\n")

	if n.Translation != "" {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render(fmt.Sprintf("Translation (%s)", n.TargetLanguage)))
		b.WriteString("\n")
		b.WriteString(bodyStyle.Render(n.Translation))
		b.WriteString("\n")
	}
	return b.String()
}

func writeSection(b *strings.Builder, md string) {
	if strings.TrimSpace(md) == "" {
		return
	}
	b.WriteString("\n")
	for _, line := range strings.Split(strings.TrimRight(md, "\n"), "\n") {
		if strings.HasPrefix(line, "#") {
			b.WriteString(headingStyle.Render(strings.TrimSpace(strings.TrimLeft(line, "#"))))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
}
