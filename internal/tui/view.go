package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shellenv/internal/model"
	"shellenv/internal/pathutil"
	"shellenv/internal/report"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	normalStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	adviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	pathHighlightStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("81")). // Sky Blue/Cyan
				Bold(true)

	activeColor = lipgloss.Color("205")
	borderColor = lipgloss.Color("63")
)

const helpText = `shellenv

The left panel lists PATH as your tools actually see it: the login shell
environment on macOS and Linux, the registry Path on Windows, plus the
bundled tool directory.

Icons
  ≈  duplicate of an earlier entry
  ✗  directory does not exist
  ◆  bundled tool directory
  ¹  highest priority   ¶  lowest priority

Keys
  ↑/↓ j/k  move
  w        resolve a command (which)
  r        re-probe the environment
  d        diagnostics report
  esc      clear the last lookup
  ?        this help
  q        quit`

func flavorOf(s report.Snapshot) pathutil.Flavor {
	if s.Flavor == pathutil.Windows.String() {
		return pathutil.Windows
	}
	return pathutil.Posix
}

func (m AppModel) View() string {
	if m.Loading && len(m.Snapshot.Entries) == 0 {
		return "\n  Probing your shell environment... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}
	if m.ShowHelp {
		return m.renderDialog(helpText, 0, borderColor, "")
	}
	if m.ShowDiagnostics {
		return m.renderDialog(m.DiagnosticsReport, m.DiagnosticsScrollY, lipgloss.Color("208"),
			"\nd/Esc to close • ↑/↓ to scroll")
	}

	// Subtracting 6 for horizontal margin (borders x2 + buffer)
	width := m.WindowSize.Width
	height := m.WindowSize.Height

	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth

	boxHeight := height - 6
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(activeColor).
		Render(m.renderList(leftWidth, interiorHeight))

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(m.renderDetails(rightWidth))

	header := titleStyle.Render(fmt.Sprintf("shellenv %s", m.Snapshot.Version)) + " " +
		dimStyle.Render(fmt.Sprintf("%s • %d entries • %d duplicates • %d missing",
			m.Snapshot.Flavor, m.Snapshot.Counts.Total, m.Snapshot.Counts.Duplicates, m.Snapshot.Counts.Missing))
	if m.Loading {
		header += " " + adviceStyle.Render("refreshing...")
	}

	footer := "\n" + dimStyle.Render("↑/↓: Navigate • w: Which • r: Refresh • d: Diagnostics • ?: Help • q: Quit")
	if m.InputMode {
		footer = fmt.Sprintf("\nWhich: %s", m.InputBuffer.View())
	}

	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, right) + footer
}

func (m AppModel) renderList(width, interiorHeight int) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("PATH Entries"))
	b.WriteString("\n\n")

	entries := m.Snapshot.Entries
	// Header is 2 lines (Title + 1 blank line)
	visible := interiorHeight - 2
	if visible < 1 {
		visible = 1
	}
	start, end := 0, len(entries)
	if len(entries) > visible {
		if m.SelectedIdx >= visible/2 {
			start = m.SelectedIdx - visible/2
		}
		if start+visible > len(entries) {
			start = len(entries) - visible
		}
		end = start + visible
	}

	for i := start; i < end; i++ {
		e := entries[i]
		line := fmt.Sprintf("%2d. %s %s", i+1, report.Icon(e), e.Value)
		if l := report.Label(e, len(entries)); l != "" {
			line += " " + l
		}
		if r := []rune(line); width > 5 && len(r) > width-2 {
			line = string(r[:width-5]) + "..."
		}

		style := normalStyle
		switch {
		case i == m.SelectedIdx:
			style = selectedStyle
		case e.IsDuplicate || !e.Exists:
			style = dimStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m AppModel) renderDetails(width int) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Details"))
	b.WriteString("\n\n")

	wrap := lipgloss.NewStyle().Width(width - 2)

	if m.SelectedIdx < len(m.Snapshot.Entries) {
		e := m.Snapshot.Entries[m.SelectedIdx]
		b.WriteString(pathHighlightStyle.Render(wrap.Render(e.Value)) + "\n")
		fmt.Fprintf(&b, "Position: %d of %d\n", e.Index+1, len(m.Snapshot.Entries))
		fmt.Fprintf(&b, "Exists:   %s\n", yesNo(e.Exists))
		if e.IsToolBin {
			b.WriteString("Bundled tool directory " + model.IconToolBin + "\n")
		}
		if e.Remediation != "" {
			b.WriteString("\n" + adviceStyle.Render(wrap.Render(e.Remediation)) + "\n")
		}
	}

	if w := m.Which; w != nil {
		b.WriteString("\n" + panelTitleStyle.Render("Which "+w.Name) + "\n")
		if w.Found {
			b.WriteString(pathHighlightStyle.Render(wrap.Render(w.Path)) + "\n")
		} else {
			b.WriteString(adviceStyle.Render("not found") + "\n")
		}
	}

	if m.Snapshot.Flavor == pathutil.Windows.String() {
		b.WriteString("\n" + panelTitleStyle.Render("Git Bash") + "\n")
		if gb := m.Snapshot.GitBash; gb.Found() {
			b.WriteString(wrap.Render(fmt.Sprintf("%s (%s)", gb.Path, gb.Source)) + "\n")
		} else {
			b.WriteString(adviceStyle.Render("not found") + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m AppModel) renderDialog(text string, scrollY int, border lipgloss.Color, footer string) string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}

	dialogWidth := w * 90 / 100
	if dialogWidth > w-4 {
		dialogWidth = w - 4
	}
	dialogHeight := h - 6
	if dialogHeight < 5 {
		dialogHeight = 5
	}

	lines := strings.Split(text, "\n")
	contentHeight := dialogHeight - 4 // minus border and footer

	startY := scrollY
	if startY > len(lines)-contentHeight {
		startY = len(lines) - contentHeight
	}
	if startY < 0 {
		startY = 0
	}
	endY := startY + contentHeight
	if endY > len(lines) {
		endY = len(lines)
	}

	dialog := lipgloss.NewStyle().
		Width(dialogWidth).
		Height(dialogHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(strings.Join(lines[startY:endY], "\n") + dimStyle.Render(footer))

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, dialog)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no " + model.IconMissing
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCmd(false))
}
