package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"shellenv/internal/report"
)

// MsgSnapshotReady carries a freshly analyzed environment.
type MsgSnapshotReady report.Snapshot

// MsgWhich carries the result of a command lookup.
type MsgWhich WhichResult

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 2
		m.DetailsViewport.Height = msg.Height - 4 // minus footer/header
		return m, nil

	case MsgSnapshotReady:
		m.Loading = false
		m.Snapshot = report.Snapshot(msg)
		if m.SelectedIdx >= len(m.Snapshot.Entries) {
			m.SelectedIdx = 0
		}
		m.DiagnosticsReport = report.GenerateReport(m.Snapshot, false)
		return m, nil

	case MsgWhich:
		res := WhichResult(msg)
		m.Which = &res
		if res.Found {
			// Jump to the PATH entry holding the match.
			if idx := entryFor(m.Snapshot, res.Path); idx >= 0 {
				m.SelectedIdx = idx
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				name := strings.TrimSpace(m.InputBuffer.Value())
				if name == "" {
					return m, nil
				}
				return m, m.whichCmd(name)
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		if m.ShowHelp {
			switch msg.String() {
			case "?", "esc", "q":
				m.ShowHelp = false
			}
			return m, nil
		}

		if m.ShowDiagnostics {
			switch msg.String() {
			case "d", "esc":
				m.ShowDiagnostics = false
			case "up", "k":
				if m.DiagnosticsScrollY > 0 {
					m.DiagnosticsScrollY--
				}
			case "down", "j":
				m.DiagnosticsScrollY++
			case "ctrl+c", "q":
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m.Which = nil
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
			}
		case "down", "j":
			if m.SelectedIdx < len(m.Snapshot.Entries)-1 {
				m.SelectedIdx++
			}
		case "d":
			m.ShowDiagnostics = true
			m.DiagnosticsScrollY = 0
		case "?":
			m.ShowHelp = true
		case "r":
			if m.Loading {
				return m, nil
			}
			m.Loading = true
			return m, m.loadCmd(true)
		case "w":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		}
	}

	return m, cmd
}

// entryFor returns the index of the first existing PATH entry that
// contains file, or -1.
func entryFor(s report.Snapshot, file string) int {
	f := flavorOf(s)
	dir := f.Dir(file)
	for _, e := range s.Entries {
		if !e.IsDuplicate && f.SamePath(e.Value, dir) {
			return e.Index
		}
	}
	return -1
}

func (m AppModel) loadCmd(refresh bool) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		return MsgSnapshotReady(backend.Snapshot(ctx, refresh))
	}
}

func (m AppModel) whichCmd(name string) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		p, ok := backend.Which(ctx, name)
		return MsgWhich{Name: name, Path: p, Found: ok}
	}
}
