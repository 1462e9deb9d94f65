package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/plenarlens/server/internal/agent/model"
	"github.com/plenarlens/server/internal/bundestag"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFD7"))
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")).Italic(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF005F")).Bold(true)
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")).Bold(true)

	// Thought traces are secondary; they sit behind a left rule.
	thoughtStyle = lipgloss.NewStyle().
		Faint(true).
		Italic(true).
		PaddingLeft(1).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("#3A3A3A"))
)

func renderList(w io.Writer, docs []*bundestag.Document, numFound int, more bool) {
	fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("%d von %d Protokollen", len(docs), numFound)))
	fmt.Fprintln(w)
	for i, d := range docs {
		m := d.Meta()
		fmt.Fprintf(w, "%3d. %s\n", i+1, titleStyle.Render(m.Title))
		fmt.Fprintf(w, "     %s\n", metaStyle.Render(fmt.Sprintf("ID %s · Nr. %s · %s · WP %d", m.ID, m.Number, m.Date, m.Period)))
	}
	if more {
		fmt.Fprintln(w)
		fmt.Fprintln(w, hintStyle.Render("Weitere Ergebnisse verfügbar (--pages erhöhen)."))
	}
}

func renderDocument(w io.Writer, d *bundestag.Document, excerpt int) {
	m := d.Meta()
	fmt.Fprintln(w, titleStyle.Render(m.Title))
	fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("ID %s · Nr. %s · %s · WP %d · %s", m.ID, m.Number, m.Date, m.Period, m.Publisher)))
	if m.PDFURL != "" {
		fmt.Fprintln(w, metaStyle.Render(m.PDFURL))
	}
	fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("%d Zeichen", m.TextChars)))
	if excerpt > 0 && d.Text != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, clip(d.Text, excerpt))
	}
}

func renderThoughts(w io.Writer, thoughts string) {
	if strings.TrimSpace(thoughts) == "" {
		return
	}
	fmt.Fprintln(w, hintStyle.Render("Gedankengang des Modells:"))
	fmt.Fprintln(w, thoughtStyle.Render(thoughts))
	fmt.Fprintln(w)
}

func renderTurn(w io.Writer, t model.Turn, thoughts bool) {
	if t.Role == model.RoleUser {
		fmt.Fprintln(w, userStyle.Render("Sie: ")+t.Text)
		return
	}
	if thoughts {
		renderThoughts(w, t.Thoughts)
	}
	if t.Synthetic {
		fmt.Fprintln(w, errorStyle.Render(t.Text))
		return
	}
	fmt.Fprintln(w, t.Text)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + " …"
}
