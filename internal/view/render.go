package view

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	hashStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	authorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	baseMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
)

const hashAbbrevLen = 8

func abbrev(hash string) string {
	if len(hash) > hashAbbrevLen {
		return hash[:hashAbbrevLen]
	}
	return hash
}

func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		v.SetContent("Loading...")
		return v
	}

	header := headerStyle.Render(filepath.Base(m.repoPath))
	if m.mode == modeDiff {
		header += mutedStyle.Render("  diff " + abbrev(m.diffPair.From) + ".." + abbrev(m.diffPair.To))
	}

	var body string
	if m.mode == modeDiff {
		body = m.vp.View()
	} else {
		body = m.renderList()
	}

	footer := m.renderFooter()

	v.SetContent(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
	return v
}

func (m *Model) renderList() string {
	if len(m.commits) == 0 {
		return mutedStyle.Render("No commits.")
	}

	visible := m.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.commits) {
		end = len(m.commits)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		c := m.commits[i]

		marker := "  "
		if i == m.baseIdx {
			marker = baseMarkStyle.Render("B ")
		}

		subject := runewidth.Truncate(c.Subject, m.width-40, "…")
		line := fmt.Sprintf("%s%s  %s  %s  %s",
			marker,
			hashStyle.Render(abbrev(c.Hash)),
			subject,
			authorStyle.Render(c.Author),
			mutedStyle.Render(humanize.Time(c.Date)),
		)
		if i == m.cursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	if m.mode == modeDiff {
		return mutedStyle.Render("j/k: scroll  y: copy hash  q: back")
	}
	return mutedStyle.Render("j/k: move  b: mark base  enter: diff  r: review  y: copy hash  q: quit")
}

// highlightDiff colors a unified diff with chroma's diff lexer.
func highlightDiff(diff string) string {
	if diff == "" {
		return diff
	}

	lexer := lexers.Get("diff")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, diff)
	if err != nil {
		return diff
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return diff
	}
	return buf.String()
}
