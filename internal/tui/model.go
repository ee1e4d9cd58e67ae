package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"shellenv/internal/report"
)

// Backend is what the TUI needs from the application.
type Backend interface {
	Snapshot(ctx context.Context, refresh bool) report.Snapshot
	Which(ctx context.Context, name string) (string, bool)
}

// WhichResult is the outcome of the last `w` lookup.
type WhichResult struct {
	Name  string
	Path  string
	Found bool
}

// AppModel holds the TUI state.
type AppModel struct {
	backend Backend
	ctx     context.Context

	// Data
	Snapshot report.Snapshot
	Loading  bool
	Err      error

	// UI State
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg

	// View Modes
	ShowDiagnostics    bool
	DiagnosticsReport  string
	DiagnosticsScrollY int
	ShowHelp           bool

	// Which State
	InputMode   bool
	InputBuffer textinput.Model
	Which       *WhichResult

	// Components
	DetailsViewport viewport.Model
}

// InitialModel returns the initial state.
func InitialModel(ctx context.Context, backend Backend) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Command name..."
	ti.CharLimit = 128
	ti.Width = 24

	return AppModel{
		backend:     backend,
		ctx:         ctx,
		Loading:     true,
		InputBuffer: ti,
	}
}
